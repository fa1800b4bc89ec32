//go:build !darwin

package tray

import (
	"context"
	"runtime"

	"github.com/getlantern/systray"
)

// Start runs the tray loop on its own locked thread and returns a channel
// closed when that loop has ended. Cancelling ctx quits the loop.
func (u *UI) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		systray.Run(u.onReady, u.handleExit)
	}()
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	return done
}
