package app

import (
	"errors"
	"fmt"

	"github.com/petems/dualscope/internal/audio"
	"github.com/petems/dualscope/internal/config"
	"github.com/petems/dualscope/internal/scope"
	"github.com/rs/zerolog"
)

// SlotNames labels the two capture slots, in slot order.
var SlotNames = [2]string{"Microphone 1", "Microphone 2"}

// Renderer draws both slots after every tick
type Renderer interface {
	Render(views []scope.View)
}

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetSlotStatus(slot int, status scope.Status)
}

type Config struct {
	Backend       audio.Backend
	Settings      config.Settings
	Logger        zerolog.Logger
	Renderer      Renderer
	StatusUpdater StatusUpdater // Optional - can be nil
}

// App owns the two slots. It is not safe for concurrent use: Apply, Tick and
// Shutdown are all expected to run on the display loop.
type App struct {
	backend  audio.Backend
	settings config.Settings
	log      zerolog.Logger
	render   Renderer
	status   StatusUpdater

	slots     [2]*scope.Slot
	selection config.Selection
}

func New(cfg Config) *App {
	a := &App{
		backend:   cfg.Backend,
		settings:  cfg.Settings,
		log:       cfg.Logger,
		render:    cfg.Renderer,
		status:    cfg.StatusUpdater,
		selection: cfg.Settings.Selection,
	}
	for i, name := range SlotNames {
		a.slots[i] = scope.NewSlot(name, cfg.Settings.HistoryLength)
	}
	return a
}

// Start binds both slots with the startup selection.
func (a *App) Start() error {
	return a.Apply(a.settings.Selection)
}

// Apply rebinds both slots with sel. Both slots are closed before either is
// reopened, so swapping devices between slots never holds two handles on one
// device. A slot whose bind fails stays Unbound until the next Apply. An
// invalid selection is rejected before anything is torn down.
func (a *App) Apply(sel config.Selection) error {
	if err := sel.Validate(); err != nil {
		a.log.Error().Err(err).Msg("Rejected selection")
		return err
	}

	a.log.Info().
		Ints("devices", sel.Devices[:]).
		Int("channels", sel.Channels).
		Int("sample_rate", sel.SampleRate).
		Msg("Applying selection")

	a.selection = sel
	for _, slot := range a.slots {
		if err := slot.Close(); err != nil {
			a.log.Warn().Err(err).Str("slot", slot.Name()).Msg("Error closing previous stream")
		}
	}

	for i, slot := range a.slots {
		log := a.log.With().Str("slot", slot.Name()).Int("device", sel.Devices[i]).Logger()
		if sel.Devices[i] == config.NoDevice {
			log.Info().Msg("No device selected, slot is silent")
			continue
		}

		params := audio.StreamParams{
			Device:     sel.Devices[i],
			Channels:   sel.Channels,
			SampleRate: sel.SampleRate,
			FrameSize:  a.settings.FrameSize,
		}
		if err := slot.Bind(a.backend, params); err != nil {
			log.Error().Err(err).Msg("Failed to bind stream, slot is silent")
			continue
		}
		log.Info().Str("binding", slot.Binding().ID.String()).Msg("Stream bound")
	}

	a.publishStatus()
	return nil
}

// Tick reads one frame per bound slot and redraws. A read failure on one
// slot is logged and skipped; it never stops the other slot or the redraw.
func (a *App) Tick() {
	for _, slot := range a.slots {
		if err := slot.Update(); err != nil {
			a.log.Warn().Err(err).Str("slot", slot.Name()).Msg("Read failed, skipping tick")
		}
	}

	if a.render != nil {
		a.render.Render(a.Views())
	}
	a.publishStatus()
}

// Shutdown closes slot 1 then slot 2.
func (a *App) Shutdown() error {
	var errs []error
	for _, slot := range a.slots {
		if err := slot.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", slot.Name(), err))
		}
	}
	a.log.Info().Msg("Capture streams closed")
	return errors.Join(errs...)
}

// Selection returns the last applied selection
func (a *App) Selection() config.Selection {
	return a.selection
}

// Slot returns slot i (0 or 1)
func (a *App) Slot(i int) *scope.Slot {
	return a.slots[i]
}

func (a *App) Views() []scope.View {
	views := make([]scope.View, len(a.slots))
	for i, slot := range a.slots {
		views[i] = slot.View()
	}
	return views
}

func (a *App) publishStatus() {
	if a.status == nil {
		return
	}
	for i, slot := range a.slots {
		a.status.SetSlotStatus(i, slot.Status())
	}
}

// DefaultDevices picks the first and second catalog devices for the two
// slots. A slot with no device left to pick gets NoDevice and stays silent,
// rather than sharing a device with the other slot.
func DefaultDevices(devices []audio.Device) [2]int {
	picked := [2]int{config.NoDevice, config.NoDevice}
	for i := range picked {
		if i < len(devices) {
			picked[i] = devices[i].Index
		}
	}
	return picked
}
