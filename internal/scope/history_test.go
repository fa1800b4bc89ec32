package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryFullFrameReplaces(t *testing.T) {
	h := NewHistory(4)
	assert.Equal(t, []int16{0, 0, 0, 0}, h.Samples())

	h.Push([]int16{1, 2, 3, 4})
	assert.Equal(t, []int16{1, 2, 3, 4}, h.Samples())

	h.Push([]int16{5, 6, 7, 8})
	assert.Equal(t, []int16{5, 6, 7, 8}, h.Samples())
}

func TestHistoryShortFrameShifts(t *testing.T) {
	h := NewHistory(6)

	h.Push([]int16{1, 2})
	assert.Equal(t, []int16{0, 0, 0, 0, 1, 2}, h.Samples())

	h.Push([]int16{3, 4})
	h.Push([]int16{5, 6})
	assert.Equal(t, []int16{1, 2, 3, 4, 5, 6}, h.Samples())

	h.Push([]int16{7})
	assert.Equal(t, []int16{2, 3, 4, 5, 6, 7}, h.Samples())
}

func TestHistoryLongFrameKeepsNewest(t *testing.T) {
	h := NewHistory(3)

	h.Push([]int16{1, 2, 3, 4, 5})
	assert.Equal(t, []int16{3, 4, 5}, h.Samples())
}

func TestHistoryEmptyFrameIsNoop(t *testing.T) {
	h := NewHistory(3)
	h.Push([]int16{1, 2, 3})

	h.Push(nil)
	assert.Equal(t, []int16{1, 2, 3}, h.Samples())
}

func TestHistoryLengthNeverChanges(t *testing.T) {
	h := NewHistory(1024)
	frames := [][]int16{
		make([]int16, 1024),
		make([]int16, 1),
		make([]int16, 512),
		make([]int16, 4096),
		{},
	}

	for tick := 0; tick < 100; tick++ {
		h.Push(frames[tick%len(frames)])
		if h.Len() != 1024 || len(h.Samples()) != 1024 {
			t.Fatalf("tick %d: history length %d", tick, len(h.Samples()))
		}
	}
}
