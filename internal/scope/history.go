// Package scope holds the per-slot display state: a fixed-length sample
// history and the capture binding that feeds it.
package scope

// History is a fixed-length, oldest-first window of samples.
type History struct {
	samples []int16
}

// NewHistory returns a zero-filled history of n samples.
func NewHistory(n int) *History {
	return &History{samples: make([]int16, n)}
}

// Push drops the oldest len(frame) samples and appends frame at the end.
// A frame longer than the history keeps only its newest samples.
func (h *History) Push(frame []int16) {
	n := len(h.samples)
	if len(frame) >= n {
		copy(h.samples, frame[len(frame)-n:])
		return
	}
	copy(h.samples, h.samples[len(frame):])
	copy(h.samples[n-len(frame):], frame)
}

// Samples returns the history. Callers must not modify it.
func (h *History) Samples() []int16 {
	return h.samples
}

// Len is fixed at construction.
func (h *History) Len() int {
	return len(h.samples)
}
