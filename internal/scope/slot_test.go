package scope_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/dualscope/internal/audio"
	"github.com/petems/dualscope/internal/audio/audiotest"
	"github.com/petems/dualscope/internal/scope"
)

func params(device int) audio.StreamParams {
	return audio.StreamParams{Device: device, Channels: 1, SampleRate: 16000, FrameSize: 4}
}

func TestSlotStartsUnbound(t *testing.T) {
	s := scope.NewSlot("Microphone 1", 4)

	assert.Equal(t, scope.Unbound, s.State())
	assert.Nil(t, s.Binding())
	assert.Equal(t, []int16{0, 0, 0, 0}, s.Samples())
	require.NoError(t, s.Update(), "update while unbound is a no-op")
	require.NoError(t, s.Close())
}

func TestSlotBindClosesBeforeOpening(t *testing.T) {
	backend := audiotest.New("A", "B")
	s := scope.NewSlot("Microphone 1", 4)

	require.NoError(t, s.Bind(backend, params(0)))
	require.NoError(t, s.Bind(backend, params(1)))

	assert.Equal(t, []string{
		"open 0", "start 0",
		"stop 0", "close 0",
		"open 1", "start 1",
	}, backend.Events())
	assert.Equal(t, 1, s.Binding().Params.Device)
}

func TestSlotBindFailureLeavesUnbound(t *testing.T) {
	backend := audiotest.New("A")
	s := scope.NewSlot("Microphone 1", 4)

	require.NoError(t, s.Bind(backend, params(0)))

	err := s.Bind(backend, params(5))
	var initErr *audio.InitError
	require.ErrorAs(t, err, &initErr)

	assert.Equal(t, scope.Unbound, s.State())
	assert.Equal(t, 1, backend.Streams()[0].Closes, "previous binding is released, not restored")

	st := s.Status()
	assert.Equal(t, scope.Unbound, st.State)
	assert.Contains(t, st.LastError, "device 5")
}

func TestSlotUpdatePushesFrame(t *testing.T) {
	backend := audiotest.New("A")
	backend.Queue(0, []int16{1, 2, 3, 4}, []int16{5, 6, 7, 8})
	s := scope.NewSlot("Microphone 1", 4)
	require.NoError(t, s.Bind(backend, params(0)))

	require.NoError(t, s.Update())
	assert.Equal(t, []int16{1, 2, 3, 4}, s.Samples())

	require.NoError(t, s.Update())
	assert.Equal(t, []int16{5, 6, 7, 8}, s.Samples())
}

func TestSlotReadErrorKeepsBindingAndHistory(t *testing.T) {
	backend := audiotest.New("A")
	backend.Queue(0, []int16{1, 2, 3, 4}, []int16{9, 9, 9, 9})
	s := scope.NewSlot("Microphone 1", 4)
	require.NoError(t, s.Bind(backend, params(0)))
	require.NoError(t, s.Update())

	backend.SetReadErr(0, errors.New("input overflowed"))
	err := s.Update()

	var readErr *audio.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, scope.Bound, s.State())
	assert.Equal(t, []int16{1, 2, 3, 4}, s.Samples())
	assert.Contains(t, s.Status().LastError, "input overflowed")

	// The device recovers on the next tick.
	backend.SetReadErr(0, nil)
	require.NoError(t, s.Update())
	assert.Equal(t, []int16{9, 9, 9, 9}, s.Samples())
	assert.Empty(t, s.Status().LastError)
}

func TestSlotStatus(t *testing.T) {
	backend := audiotest.New("A")
	s := scope.NewSlot("Microphone 2", 4)
	require.NoError(t, s.Bind(backend, params(0)))

	st := s.Status()
	assert.Equal(t, "Microphone 2", st.Name)
	assert.Equal(t, scope.Bound, st.State)
	assert.Equal(t, params(0), st.Params)
	assert.Equal(t, s.Binding().ID.String(), st.BindingID)
	assert.Equal(t, "bound", st.State.String())

	v := s.View()
	assert.Equal(t, st, v.Status)
	assert.Len(t, v.Samples, 4)
}

func TestSlotCloseOnce(t *testing.T) {
	backend := audiotest.New("A")
	s := scope.NewSlot("Microphone 1", 4)
	require.NoError(t, s.Bind(backend, params(0)))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, scope.Unbound, s.State())
	assert.Equal(t, 1, backend.Streams()[0].Closes)
}
