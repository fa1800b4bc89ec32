// Package display holds the pure half of the waveform window: projecting
// samples onto panes, captions and axis labels, colors, and the loop that
// drives ticks and applies. The SDL window lives in display/sdlwindow.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/petems/dualscope/internal/scope"
)

// Fixed vertical range: the full signed 16-bit domain.
const (
	yMin = math.MinInt16
	yMax = math.MaxInt16
)

type Point struct {
	X, Y int32
}

type Rect struct {
	X, Y, W, H int32
}

// Trace projects samples onto r. Sample i lands at x = i/len*W, so the
// horizontal range is [0, len(samples)); amplitude yMax is the top row and
// yMin the bottom row.
func Trace(samples []int16, r Rect) []Point {
	if len(samples) == 0 || r.W <= 0 || r.H <= 0 {
		return nil
	}

	points := make([]Point, len(samples))
	n := int64(len(samples))
	for i, s := range samples {
		points[i] = Point{
			X: r.X + int32(int64(i)*int64(r.W)/n),
			Y: AmplitudeY(s, r),
		}
	}
	return points
}

// AmplitudeY maps a sample to a row inside r.
func AmplitudeY(s int16, r Rect) int32 {
	span := int64(yMax - yMin)
	return r.Y + int32((int64(yMax)-int64(s))*int64(r.H-1)/span)
}

// Panes splits a w by h drawing area into n stacked panes with a margin.
func Panes(w, h int32, n int, margin int32) []Rect {
	if n <= 0 {
		return nil
	}
	panes := make([]Rect, n)
	paneH := h / int32(n)
	for i := range panes {
		panes[i] = Rect{
			X: margin,
			Y: int32(i)*paneH + margin,
			W: max(w-2*margin, 0),
			H: max(paneH-2*margin, 0),
		}
	}
	return panes
}

type Color struct {
	R, G, B uint8
}

var (
	ColorBackground = Color{}
	ColorAxis       = Color{0x3a, 0x3a, 0x3a}
	ColorLabel      = Color{0xc8, 0xc8, 0xc8}

	colorBound   = Color{0x4c, 0xd1, 0x37}
	colorFailing = Color{0xf2, 0xb1, 0x34}
	colorUnbound = Color{0x80, 0x80, 0x80}
)

// TraceColor is green while frames arrive, amber after a failed read and
// grey with no binding.
func TraceColor(st scope.Status) Color {
	switch {
	case st.State == scope.Unbound:
		return colorUnbound
	case st.LastError != "":
		return colorFailing
	default:
		return colorBound
	}
}

// Glyph size of the SDL2_gfx built-in font.
const (
	GlyphW = 8
	GlyphH = 8

	labelPad = 4
)

// Label is a line of text anchored at its top-left corner.
type Label struct {
	X, Y int32
	Text string
}

// Labels returns the caption and axis labels for one pane. The caption sits
// top-left. Amplitude labels are right-aligned at the top row, the zero line
// and the bottom row; sample-index labels run along the bottom edge.
func Labels(v scope.View, r Rect) []Label {
	if r.W <= 0 || r.H <= 0 {
		return nil
	}

	left := r.X + labelPad
	right := func(text string) int32 {
		return r.X + r.W - labelPad - int32(len(text))*GlyphW
	}
	bottom := r.Y + r.H - labelPad - GlyphH
	zero := AmplitudeY(0, r)

	top, mid, low := fmt.Sprint(yMax), "0", fmt.Sprint(yMin)
	first, last := "0", fmt.Sprint(len(v.Samples))

	return []Label{
		{X: left, Y: r.Y + labelPad, Text: slotLabel(v.Status)},
		{X: right(top), Y: r.Y + labelPad, Text: top},
		{X: right(mid), Y: zero - labelPad - GlyphH, Text: mid},
		{X: right(low), Y: bottom - GlyphH - labelPad, Text: low},
		{X: left, Y: bottom, Text: first},
		{X: right(last), Y: bottom, Text: last},
	}
}

// Title summarizes both slots for the window title bar.
func Title(views []scope.View) string {
	parts := []string{"dualscope"}
	for _, v := range views {
		parts = append(parts, slotLabel(v.Status))
	}
	return strings.Join(parts, " | ")
}

func slotLabel(st scope.Status) string {
	switch {
	case st.State == scope.Unbound:
		return fmt.Sprintf("%s: silent", st.Name)
	case st.LastError != "":
		return fmt.Sprintf("%s: device %d, read error", st.Name, st.Params.Device)
	default:
		return fmt.Sprintf("%s: device %d, %d Hz", st.Name, st.Params.Device, st.Params.SampleRate)
	}
}
