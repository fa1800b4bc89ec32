// Package sdlwindow is the SDL half of the waveform window. It needs cgo and
// a display; everything it draws is computed by package display.
package sdlwindow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petems/dualscope/internal/config"
	"github.com/petems/dualscope/internal/display"
	"github.com/petems/dualscope/internal/scope"
	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/gfx"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultWidth  = 1000
	defaultHeight = 600
	paneMargin    = 8
)

// Window is the SDL waveform window. All methods must be called from the
// thread that created it.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	log      zerolog.Logger
	title    string
	points   []sdl.Point
}

// New initializes SDL video and opens the window
func New(log zerolog.Logger) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}

	window, err := sdl.CreateWindow("dualscope", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		defaultWidth, defaultHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return &Window{
		window:   window,
		renderer: renderer,
		log:      log,
	}, nil
}

// Run drives d until the window is closed or ctx is cancelled.
func (w *Window) Run(ctx context.Context, d display.Driver, applies <-chan config.Selection, interval time.Duration) {
	err := display.Loop(ctx, d, applies, interval, w.closeRequested)
	if errors.Is(err, display.ErrClosed) {
		w.log.Info().Msg("Window closed")
	}
}

// closeRequested drains pending SDL events.
func (w *Window) closeRequested() bool {
	closed := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			closed = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				closed = true
			}
		}
	}
	return closed
}

// Render draws one pane per view
func (w *Window) Render(views []scope.View) {
	if title := display.Title(views); title != w.title {
		w.window.SetTitle(title)
		w.title = title
	}

	width, height, err := w.renderer.GetOutputSize()
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to get output size")
		return
	}

	w.setColor(display.ColorBackground)
	w.renderer.Clear()

	for i, pane := range display.Panes(width, height, len(views), paneMargin) {
		w.drawPane(pane, views[i])
	}

	w.renderer.Present()
}

func (w *Window) drawPane(pane display.Rect, v scope.View) {
	w.setColor(display.ColorAxis)
	w.renderer.DrawRect(&sdl.Rect{X: pane.X, Y: pane.Y, W: pane.W, H: pane.H})
	zero := display.AmplitudeY(0, pane)
	w.renderer.DrawLine(pane.X, zero, pane.X+pane.W-1, zero)

	c := display.ColorLabel
	for _, l := range display.Labels(v, pane) {
		gfx.StringRGBA(w.renderer, l.X, l.Y, l.Text, c.R, c.G, c.B, 0xff)
	}

	trace := display.Trace(v.Samples, pane)
	if len(trace) == 0 {
		return
	}
	w.points = w.points[:0]
	for _, p := range trace {
		w.points = append(w.points, sdl.Point{X: p.X, Y: p.Y})
	}
	w.setColor(display.TraceColor(v.Status))
	if err := w.renderer.DrawLines(w.points); err != nil {
		w.log.Debug().Err(err).Str("slot", v.Status.Name).Msg("Failed to draw trace")
	}
}

func (w *Window) setColor(c display.Color) {
	w.renderer.SetDrawColor(c.R, c.G, c.B, 0xff)
}

// Close destroys the window and shuts SDL down
func (w *Window) Close() {
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}
