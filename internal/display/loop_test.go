package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/dualscope/internal/config"
)

type fakeDriver struct {
	ticks    int
	applied  []config.Selection
	applyErr error
}

func (f *fakeDriver) Tick() { f.ticks++ }

func (f *fakeDriver) Apply(sel config.Selection) error {
	f.applied = append(f.applied, sel)
	return f.applyErr
}

func TestLoopTicksUntilClosed(t *testing.T) {
	d := &fakeDriver{}

	err := Loop(context.Background(), d, nil, time.Millisecond, func() bool { return d.ticks >= 3 })

	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 3, d.ticks)
	assert.Empty(t, d.applied)
}

func TestLoopDeliversApplies(t *testing.T) {
	d := &fakeDriver{applyErr: errors.New("rejected")}
	applies := make(chan config.Selection, 1)
	sel := config.Selection{Devices: [2]int{1, 0}, Channels: 2, SampleRate: 48000}
	applies <- sel

	err := Loop(context.Background(), d, applies, time.Millisecond, func() bool {
		return len(d.applied) == 1 && d.ticks >= 1
	})

	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, []config.Selection{sel}, d.applied, "a failed apply does not stop the loop")
}

func TestLoopStopsOnCancel(t *testing.T) {
	d := &fakeDriver{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Loop(ctx, d, make(chan config.Selection), time.Hour, func() bool { return false })

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, d.ticks)
}

func TestLoopClosedBeforeFirstTick(t *testing.T) {
	d := &fakeDriver{}

	err := Loop(context.Background(), d, nil, time.Hour, func() bool { return true })

	require.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, d.ticks)
}
