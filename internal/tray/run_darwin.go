//go:build darwin

package tray

import (
	"context"

	"github.com/getlantern/systray"
)

// Start registers the tray with the Cocoa application on the main thread and
// returns a channel closed once ctx is done. Call it from the main goroutine
// before the SDL window is created: SDL keeps the tray's app delegate and its
// event polling drives the shared run loop, so no second loop is started.
// systray.Quit is never called here because it terminates NSApp and with it
// the process, before slots are closed.
func (u *UI) Start(ctx context.Context) <-chan struct{} {
	systray.Register(u.onReady, u.handleExit)

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()
	return done
}
