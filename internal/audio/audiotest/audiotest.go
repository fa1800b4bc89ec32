// Package audiotest provides a scriptable in-memory audio.Backend for tests.
package audiotest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/petems/dualscope/internal/audio"
)

// ErrBusy is a stand-in for a device that refuses to open.
var ErrBusy = errors.New("device busy")

// Backend fakes a host API with a fixed device list.
// Frames queued per device are delivered in order; once a device's queue is
// empty its stream delivers silence.
type Backend struct {
	mu sync.Mutex

	devices []audio.DeviceInfo
	frames  map[int][][]int16

	// DevicesErr, when set, is returned from Devices.
	DevicesErr error
	// OpenErr maps device index to the error Open returns for it.
	OpenErr map[int]error
	// StartErr maps device index to the error Start returns for it.
	StartErr map[int]error
	// ReadErr maps device index to the error every Read returns for it.
	ReadErr map[int]error
	// Exclusive makes a device refuse a second open until its first stream
	// is closed, the way many hardware inputs behave.
	Exclusive bool

	held    map[int]int
	streams []*Stream
	events  []string
}

// New returns a backend with one input-capable device per name.
func New(names ...string) *Backend {
	devices := make([]audio.DeviceInfo, 0, len(names))
	for _, n := range names {
		devices = append(devices, audio.DeviceInfo{Name: n, MaxInputChannels: 2})
	}
	return NewWithDevices(devices...)
}

// NewWithDevices returns a backend reporting exactly the given devices.
func NewWithDevices(devices ...audio.DeviceInfo) *Backend {
	return &Backend{
		devices:  devices,
		frames:   make(map[int][][]int16),
		held:     make(map[int]int),
		OpenErr:  make(map[int]error),
		StartErr: make(map[int]error),
		ReadErr:  make(map[int]error),
	}
}

// Queue appends interleaved frames to be read from device.
func (b *Backend) Queue(device int, frames ...[]int16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames[device] = append(b.frames[device], frames...)
}

// SetReadErr makes every read on device fail with err, or succeed again when err is nil.
func (b *Backend) SetReadErr(device int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.ReadErr, device)
		return
	}
	b.ReadErr[device] = err
}

// Streams returns every stream opened so far, in open order.
func (b *Backend) Streams() []*Stream {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Stream(nil), b.streams...)
}

// Events returns the open/start/stop/close log, e.g. "open 0", "close 1".
func (b *Backend) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

func (b *Backend) record(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, fmt.Sprintf(format, args...))
}

func (b *Backend) Devices() ([]audio.DeviceInfo, error) {
	if b.DevicesErr != nil {
		return nil, b.DevicesErr
	}
	return append([]audio.DeviceInfo(nil), b.devices...), nil
}

func (b *Backend) Open(p audio.StreamParams) (audio.Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.OpenErr[p.Device]; err != nil {
		return nil, err
	}
	if p.Device < 0 || p.Device >= len(b.devices) {
		return nil, fmt.Errorf("device index %d out of range", p.Device)
	}
	if b.devices[p.Device].MaxInputChannels < p.Channels {
		return nil, fmt.Errorf("device %d has %d input channels", p.Device, b.devices[p.Device].MaxInputChannels)
	}
	if b.Exclusive && b.held[p.Device] > 0 {
		return nil, fmt.Errorf("device %d: %w", p.Device, ErrBusy)
	}

	b.held[p.Device]++
	s := &Stream{backend: b, Params: p}
	b.streams = append(b.streams, s)
	b.events = append(b.events, fmt.Sprintf("open %d", p.Device))
	return s, nil
}

// Stream is a fake stream created by Backend.Open.
type Stream struct {
	backend *Backend
	Params  audio.StreamParams

	Started bool
	Stops   int
	Closes  int
}

func (s *Stream) Start() error {
	s.backend.mu.Lock()
	err := s.backend.StartErr[s.Params.Device]
	s.backend.mu.Unlock()
	if err != nil {
		return err
	}
	s.Started = true
	s.backend.record("start %d", s.Params.Device)
	return nil
}

func (s *Stream) Read(dst []int16) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ReadErr[s.Params.Device]; err != nil {
		return err
	}

	queue := b.frames[s.Params.Device]
	if len(queue) == 0 {
		clear(dst)
		return nil
	}
	n := copy(dst, queue[0])
	clear(dst[n:])
	b.frames[s.Params.Device] = queue[1:]
	return nil
}

func (s *Stream) Stop() error {
	s.Stops++
	s.backend.record("stop %d", s.Params.Device)
	return nil
}

func (s *Stream) Close() error {
	b := s.backend
	b.mu.Lock()
	if s.Closes == 0 {
		b.held[s.Params.Device]--
	}
	s.Closes++
	b.events = append(b.events, fmt.Sprintf("close %d", s.Params.Device))
	b.mu.Unlock()
	return nil
}
