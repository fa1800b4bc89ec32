package scope

import (
	"errors"

	"github.com/petems/dualscope/internal/audio"
)

// State of a slot's binding
type State int

const (
	Unbound State = iota
	Bound
)

func (s State) String() string {
	switch s {
	case Bound:
		return "bound"
	default:
		return "unbound"
	}
}

// Status is a snapshot of a slot for status displays.
// Params and BindingID are only meaningful while Bound.
type Status struct {
	Name      string
	State     State
	Params    audio.StreamParams
	BindingID string
	// LastError is the most recent bind or read failure, cleared by a
	// successful bind or read.
	LastError string
}

// View is what a renderer needs to draw one slot.
type View struct {
	Status  Status
	Samples []int16
}

// Slot is one capture channel: at most one binding and its sample history.
type Slot struct {
	name    string
	history *History
	binding *audio.Binding
	lastErr error
}

// NewSlot returns an unbound slot with a zero-filled history.
func NewSlot(name string, historyLen int) *Slot {
	return &Slot{
		name:    name,
		history: NewHistory(historyLen),
	}
}

func (s *Slot) Name() string { return s.name }

func (s *Slot) State() State {
	if s.binding == nil {
		return Unbound
	}
	return Bound
}

// Binding returns the live binding, nil while Unbound.
func (s *Slot) Binding() *audio.Binding { return s.binding }

func (s *Slot) Samples() []int16 { return s.history.Samples() }

// Bind opens a new binding for the slot. A slot that is still bound is
// closed first, so it never holds two handles. If the open fails the slot
// stays Unbound; the old binding is not restored. Close errors are returned
// alongside the bind error; check State to see whether the bind succeeded.
func (s *Slot) Bind(b audio.Backend, p audio.StreamParams) error {
	closeErr := s.Close()

	binding, err := audio.Bind(b, p)
	if err != nil {
		s.lastErr = err
		return errors.Join(closeErr, err)
	}
	s.binding = binding
	s.lastErr = nil
	return closeErr
}

// Update reads one frame into the history when Bound.
// A read error leaves both the history and the binding as they were.
func (s *Slot) Update() error {
	if s.binding == nil {
		return nil
	}
	frame, err := s.binding.ReadFrame()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.history.Push(frame)
	s.lastErr = nil
	return nil
}

// Close releases the binding, leaving the slot Unbound with no last error.
func (s *Slot) Close() error {
	s.lastErr = nil
	if s.binding == nil {
		return nil
	}
	err := s.binding.Close()
	s.binding = nil
	return err
}

func (s *Slot) Status() Status {
	st := Status{Name: s.name, State: s.State()}
	if s.binding != nil {
		st.Params = s.binding.Params
		st.BindingID = s.binding.ID.String()
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Slot) View() View {
	return View{Status: s.Status(), Samples: s.history.Samples()}
}
