// Package portaudio implements audio.Backend on PortAudio. It is the only
// package that needs cgo and real hardware.
package portaudio

import (
	"errors"
	"fmt"

	pa "github.com/gordonklaus/portaudio"

	"github.com/petems/dualscope/internal/audio"
)

type backend struct{}

// New returns an audio.Backend on top of PortAudio.
// PortAudio is initialized per call and per stream; its reference count keeps
// the library alive exactly as long as something is using it.
func New() audio.Backend {
	return backend{}
}

func (backend) Devices() ([]audio.DeviceInfo, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer pa.Terminate()

	devices, err := firstHostDevices()
	if err != nil {
		return nil, err
	}

	result := make([]audio.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		result = append(result, audio.DeviceInfo{
			Name:             d.Name,
			MaxInputChannels: d.MaxInputChannels,
		})
	}
	return result, nil
}

func (backend) Open(p audio.StreamParams) (audio.Stream, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	s, err := openInput(p)
	if err != nil {
		pa.Terminate()
		return nil, err
	}
	return s, nil
}

func openInput(p audio.StreamParams) (*stream, error) {
	devices, err := firstHostDevices()
	if err != nil {
		return nil, err
	}
	if p.Device < 0 || p.Device >= len(devices) {
		return nil, fmt.Errorf("device index %d out of range (%d devices)", p.Device, len(devices))
	}
	device := devices[p.Device]
	if device.MaxInputChannels < p.Channels {
		return nil, fmt.Errorf("device %q supports %d input channels, %d requested",
			device.Name, device.MaxInputChannels, p.Channels)
	}

	// Interleaved int16, FrameSize frames per buffer
	buffer := make([]int16, p.FrameSize*p.Channels)
	s, err := pa.OpenStream(pa.StreamParameters{
		Input: pa.StreamDeviceParameters{
			Device:   device,
			Channels: p.Channels,
			Latency:  device.DefaultHighInputLatency,
		},
		SampleRate:      float64(p.SampleRate),
		FramesPerBuffer: p.FrameSize,
	}, buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	return &stream{stream: s, buffer: buffer}, nil
}

func firstHostDevices() ([]*pa.DeviceInfo, error) {
	apis, err := pa.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to list host APIs: %w", err)
	}
	if len(apis) == 0 {
		return nil, errors.New("no host audio API available")
	}
	return apis[0].Devices, nil
}

type stream struct {
	stream *pa.Stream
	buffer []int16
	closed bool
}

func (s *stream) Start() error { return s.stream.Start() }
func (s *stream) Stop() error  { return s.stream.Stop() }

// Read copies exactly len(dst) samples, reading as many buffers as needed.
func (s *stream) Read(dst []int16) error {
	off := 0
	for off < len(dst) {
		if err := s.stream.Read(); err != nil {
			return err
		}
		off += copy(dst[off:], s.buffer)
	}
	return nil
}

// Close releases the stream and the PortAudio reference taken by Open.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.stream.Close()
	if terr := pa.Terminate(); terr != nil {
		err = errors.Join(err, fmt.Errorf("failed to terminate PortAudio: %w", terr))
	}
	return err
}
