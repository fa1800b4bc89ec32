package audio

import "fmt"

// Backend is the host audio API the capture layer is built on.
// Devices reports the devices of the first host API, in host order.
type Backend interface {
	Devices() ([]DeviceInfo, error)
	Open(p StreamParams) (Stream, error)
}

// Stream is an opened 16-bit PCM input stream.
// Read blocks until len(dst) interleaved samples are available.
type Stream interface {
	Start() error
	Read(dst []int16) error
	Stop() error
	Close() error
}

// DeviceInfo is what the host API reports about one device
type DeviceInfo struct {
	Name             string
	MaxInputChannels int
}

// Device is an input device as offered for selection.
// Index is the host-assigned position used to open it.
type Device struct {
	Name  string
	Index int
}

// StreamParams describes one capture stream
type StreamParams struct {
	Device     int
	Channels   int
	SampleRate int
	FrameSize  int
}

// EnumerationError reports that the host API could not be queried.
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate input devices: %v", e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// InitError reports a stream that could not be opened or started.
type InitError struct {
	Device int
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize stream for device %d: %v", e.Device, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ReadError reports a failed frame read on a live stream.
type ReadError struct {
	Device int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read from device %d: %v", e.Device, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
