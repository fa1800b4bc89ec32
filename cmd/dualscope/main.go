package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/petems/dualscope/internal/app"
	"github.com/petems/dualscope/internal/audio"
	"github.com/petems/dualscope/internal/audio/portaudio"
	"github.com/petems/dualscope/internal/config"
	"github.com/petems/dualscope/internal/display/sdlwindow"
	"github.com/petems/dualscope/internal/logging"
	"github.com/petems/dualscope/internal/permissions"
	"github.com/petems/dualscope/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

// SDL and, on macOS, the tray must stay on the main thread
func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := config.Default()

	log := logging.NewWithLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid settings")
	}

	// macOS requires explicit microphone approval before capture delivers anything
	if err := permissions.EnsurePermissions(); err != nil {
		log.Error().Err(err).Msg("Microphone permission missing, slots will stay silent")
	}

	backend := portaudio.New()

	devices, err := audio.ListDevices(backend)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to enumerate audio devices")
	}
	for _, d := range devices {
		log.Debug().Int("index", d.Index).Str("name", d.Name).Msg("Input device")
	}
	cfg.Selection.Devices = app.DefaultDevices(devices)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The tray comes up before SDL so that on macOS both share one Cocoa
	// application on this thread.
	applies := make(chan config.Selection, 1)
	trayUI := tray.New(devices, cfg.Selection, applies, log, Version, Commit, cancel)
	trayDone := trayUI.Start(ctx)

	window, err := sdlwindow.New(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open display")
	}
	defer window.Close()

	application := app.New(app.Config{
		Backend:       backend,
		Settings:      cfg,
		Logger:        log,
		Renderer:      window,
		StatusUpdater: trayUI,
	})

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("Signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info().Int("devices", len(devices)).Msg("dualscope starting...")
	if err := application.Start(); err != nil {
		log.Error().Err(err).Msg("Initial bind failed")
	}

	window.Run(ctx, application, applies, cfg.RefreshInterval)

	log.Info().Msg("Shutting down...")
	cancel()
	select {
	case <-trayDone:
	case <-time.After(2 * time.Second):
		log.Warn().Msg("Tray did not exit in time")
	}

	if err := application.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
