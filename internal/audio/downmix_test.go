package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownmixInterleaved(t *testing.T) {
	tests := []struct {
		name     string
		in       []int16
		channels int
		expected []int16
	}{
		{name: "mono passes through", in: []int16{100, -200, 300, -400}, channels: 1, expected: []int16{100, -200, 300, -400}},
		{name: "stereo averages pairs", in: []int16{0, 1000, 500, 500, 1000, 0, -500, 500}, channels: 2, expected: []int16{500, 500, 500, 0}},
		{name: "full scale does not overflow", in: []int16{32767, 32767, -32768, -32768, 32767, -32768}, channels: 2, expected: []int16{32767, -32768, 0}},
		{name: "odd sums truncate toward zero", in: []int16{-3, 0, 3, 0}, channels: 2, expected: []int16{-1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := len(tt.in) / tt.channels
			got := downmixInterleaved(tt.in, tt.channels, frames)

			require.Len(t, got, frames)
			assert.Equal(t, tt.expected, got)
			assert.NotSame(t, &tt.in[0], &got[0], "result never aliases the read buffer")
		})
	}
}
