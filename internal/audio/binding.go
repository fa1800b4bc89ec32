package audio

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Binding is a live capture stream bound to one device.
type Binding struct {
	ID     uuid.UUID
	Params StreamParams

	stream Stream
	raw    []int16
}

// Bind opens and starts a 16-bit PCM input stream.
// Any partially acquired stream is released before an error is returned.
func Bind(b Backend, p StreamParams) (*Binding, error) {
	switch {
	case p.Channels < 1:
		return nil, &InitError{Device: p.Device, Err: fmt.Errorf("invalid channel count %d", p.Channels)}
	case p.FrameSize < 1:
		return nil, &InitError{Device: p.Device, Err: fmt.Errorf("invalid frame size %d", p.FrameSize)}
	case p.SampleRate <= 0:
		return nil, &InitError{Device: p.Device, Err: fmt.Errorf("invalid sample rate %d", p.SampleRate)}
	}

	stream, err := b.Open(p)
	if err != nil {
		return nil, &InitError{Device: p.Device, Err: err}
	}

	if err := stream.Start(); err != nil {
		if cerr := stream.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close after failed start: %w", cerr))
		}
		return nil, &InitError{Device: p.Device, Err: fmt.Errorf("start stream: %w", err)}
	}

	return &Binding{
		ID:     uuid.New(),
		Params: p,
		stream: stream,
		raw:    make([]int16, p.FrameSize*p.Channels),
	}, nil
}

// ReadFrame blocks for the next frame and returns exactly FrameSize mono samples.
func (b *Binding) ReadFrame() ([]int16, error) {
	if b.stream == nil {
		return nil, &ReadError{Device: b.Params.Device, Err: errors.New("binding closed")}
	}
	if err := b.stream.Read(b.raw); err != nil {
		return nil, &ReadError{Device: b.Params.Device, Err: err}
	}
	return downmixInterleaved(b.raw, b.Params.Channels, b.Params.FrameSize), nil
}

// Close stops and closes the stream. Only the first call does anything.
func (b *Binding) Close() error {
	if b.stream == nil {
		return nil
	}
	stream := b.stream
	b.stream = nil

	var errs []error
	if err := stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop stream: %w", err))
	}
	if err := stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stream: %w", err))
	}
	return errors.Join(errs...)
}

// downmixInterleaved averages interleaved channels into a new mono slice.
func downmixInterleaved(in []int16, channels, frames int) []int16 {
	out := make([]int16, frames)
	if channels <= 1 {
		copy(out, in)
		return out
	}

	for f := 0; f < frames; f++ {
		var sum int
		base := f * channels
		for c := 0; c < channels; c++ {
			sum += int(in[base+c])
		}
		out[f] = int16(sum / channels)
	}
	return out
}
