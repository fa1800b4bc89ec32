package display

import (
	"context"
	"errors"
	"time"

	"github.com/petems/dualscope/internal/config"
)

// ErrClosed is returned by Loop when the window asked to close.
var ErrClosed = errors.New("window closed")

// Driver is what the loop drives: the application state.
type Driver interface {
	Tick()
	Apply(sel config.Selection) error
}

// Loop drives d until closed reports true or ctx is done. Ticks and applies
// are serialized on the calling goroutine, so d needs no locking. closed is
// polled before every wait and must not block.
func Loop(ctx context.Context, d Driver, applies <-chan config.Selection, interval time.Duration, closed func() bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if closed() {
			return ErrClosed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sel := <-applies:
			// Errors are logged by the driver; the loop keeps going.
			_ = d.Apply(sel)
		case <-ticker.C:
			d.Tick()
		}
	}
}
