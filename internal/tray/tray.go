package tray

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"
	"github.com/petems/dualscope/internal/app"
	"github.com/petems/dualscope/internal/audio"
	"github.com/petems/dualscope/internal/config"
	"github.com/petems/dualscope/internal/scope"
	"github.com/rs/zerolog"
)

// UI is the control panel: device, channel and sample rate pickers plus Apply.
type UI struct {
	devices []audio.Device
	applies chan<- config.Selection
	version string
	commit  string
	log     zerolog.Logger
	onExit  func()

	mu       sync.Mutex
	pending  config.Selection
	statuses [2]scope.Status
	title    string
	ready    bool

	// Menu items
	mApply  *systray.MenuItem
	mStatus [2]*systray.MenuItem
}

// New builds the control panel. Selections are posted to applies when the
// user presses Apply; onExit runs when the tray loop ends.
func New(devices []audio.Device, initial config.Selection, applies chan<- config.Selection,
	log zerolog.Logger, version, commit string, onExit func()) *UI {
	u := &UI{
		devices: devices,
		applies: applies,
		version: version,
		commit:  commit,
		log:     log,
		onExit:  onExit,
		pending: initial,
	}
	for i, name := range app.SlotNames {
		u.statuses[i] = scope.Status{Name: name}
	}
	return u
}

// SetSlotStatus implements app.StatusUpdater
func (u *UI) SetSlotStatus(slot int, status scope.Status) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.statuses[slot] == status {
		return
	}
	u.statuses[slot] = status

	if !u.ready {
		return
	}
	u.mStatus[slot].SetTitle(statusLine(status))
	if title := trayTitle(u.statuses); title != u.title {
		u.title = title
		systray.SetTitle(title)
	}
}

func (u *UI) onReady() {
	systray.SetTooltip("Dual microphone waveform monitor")

	for i, name := range app.SlotNames {
		m := systray.AddMenuItem(name, "Select input device for "+name)
		u.buildDeviceMenu(m, i)
	}

	mChannels := systray.AddMenuItem("Channels", "Channels captured per device")
	u.buildChoiceMenu(mChannels, config.ChannelOptions, u.pending.Channels, "", func(sel *config.Selection, v int) {
		sel.Channels = v
	})

	mRate := systray.AddMenuItem("Sample Rate", "Capture sample rate")
	u.buildChoiceMenu(mRate, config.SampleRateOptions, u.pending.SampleRate, " Hz", func(sel *config.Selection, v int) {
		sel.SampleRate = v
	})

	systray.AddSeparator()
	u.mApply = systray.AddMenuItem("Apply", "Rebind both microphones with the selected settings")

	systray.AddSeparator()
	u.mu.Lock()
	for i := range u.mStatus {
		u.mStatus[i] = systray.AddMenuItem(statusLine(u.statuses[i]), "")
		u.mStatus[i].Disable()
	}
	u.title = trayTitle(u.statuses)
	systray.SetTitle(u.title)
	u.ready = true
	u.mu.Unlock()

	systray.AddSeparator()
	mCopy := systray.AddMenuItem("Copy Diagnostics", "Copy slot status to the clipboard")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mCopy, mQuit)
}

func (u *UI) handleEvents(mCopy, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mApply.ClickedCh:
			u.apply()
		case <-mCopy.ClickedCh:
			u.copyDiagnostics()
		case <-mQuit.ClickedCh:
			// Quitting goes through onExit so the display loop shuts down
			// first; Start's platform code tears the tray down after it.
			u.handleExit()
			return
		}
	}
}

func (u *UI) buildDeviceMenu(parent *systray.MenuItem, slot int) {
	values, labels := deviceChoices(u.devices)
	u.buildRadioGroup(parent, values, labels, u.pending.Devices[slot], func(sel *config.Selection, v int) {
		sel.Devices[slot] = v
	})
}

// deviceChoices lists "None" first, then every catalog device.
func deviceChoices(devices []audio.Device) ([]int, []string) {
	values := []int{config.NoDevice}
	labels := []string{"None"}
	for _, dev := range devices {
		values = append(values, dev.Index)
		labels = append(labels, dev.Name)
	}
	return values, labels
}

func (u *UI) buildChoiceMenu(parent *systray.MenuItem, values []int, current int, suffix string, set func(*config.Selection, int)) {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = strconv.Itoa(v) + suffix
	}
	u.buildRadioGroup(parent, values, labels, current, set)
}

// buildRadioGroup adds one checkable item per value; clicking one unchecks
// the others and records the value in the pending selection.
func (u *UI) buildRadioGroup(parent *systray.MenuItem, values []int, labels []string, current int, set func(*config.Selection, int)) {
	items := make([]*systray.MenuItem, len(values))
	for i := range values {
		items[i] = parent.AddSubMenuItemCheckbox(labels[i], "", values[i] == current)
	}

	for i, item := range items {
		go func(value int, label string, menuItem *systray.MenuItem) {
			for range menuItem.ClickedCh {
				for _, other := range items {
					if other != menuItem {
						other.Uncheck()
					}
				}
				menuItem.Check()

				u.mu.Lock()
				set(&u.pending, value)
				u.mu.Unlock()
				u.log.Debug().Str("menu", parent.String()).Str("choice", label).Msg("Selection changed")
			}
		}(values[i], labels[i], item)
	}
}

// apply posts the pending selection to the display loop
func (u *UI) apply() {
	u.mu.Lock()
	sel := u.pending
	u.mu.Unlock()

	select {
	case u.applies <- sel:
		u.log.Info().Ints("devices", sel.Devices[:]).Msg("Apply requested")
	default:
		u.log.Warn().Msg("Apply already pending, ignoring")
	}
}

func (u *UI) copyDiagnostics() {
	u.mu.Lock()
	report := diagnostics(u.version, u.commit, u.devices, u.statuses)
	u.mu.Unlock()

	if err := clipboard.WriteAll(report); err != nil {
		u.log.Error().Err(err).Msg("Failed to copy diagnostics")
		return
	}
	u.log.Info().Msg("Diagnostics copied to clipboard")
}

func (u *UI) handleExit() {
	if u.onExit != nil {
		u.onExit()
	}
}

// trayTitle shows one status emoji per slot after the microphone
func trayTitle(statuses [2]scope.Status) string {
	return fmt.Sprintf("🎤 %s%s", emojiForStatus(statuses[0]), emojiForStatus(statuses[1]))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(st scope.Status) string {
	switch {
	case st.State == scope.Unbound:
		return "⚪️" // White - silent
	case st.LastError != "":
		return "🟡" // Yellow - bound, last read failed
	default:
		return "🟢" // Green - capturing
	}
}

func statusLine(st scope.Status) string {
	switch {
	case st.State == scope.Unbound && st.LastError != "":
		return fmt.Sprintf("%s: silent (%s)", st.Name, st.LastError)
	case st.State == scope.Unbound:
		return fmt.Sprintf("%s: silent", st.Name)
	case st.LastError != "":
		return fmt.Sprintf("%s: device %d, %s", st.Name, st.Params.Device, st.LastError)
	default:
		return fmt.Sprintf("%s: device %d, %d ch, %d Hz",
			st.Name, st.Params.Device, st.Params.Channels, st.Params.SampleRate)
	}
}

// diagnostics is the plain-text report copied by "Copy Diagnostics".
func diagnostics(version, commit string, devices []audio.Device, statuses [2]scope.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dualscope %s (%s)\n", version, commit)

	b.WriteString("\nInput devices:\n")
	if len(devices) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, d := range devices {
		fmt.Fprintf(&b, "  [%d] %s\n", d.Index, d.Name)
	}

	b.WriteString("\nSlots:\n")
	for _, st := range statuses {
		fmt.Fprintf(&b, "  %s: %s\n", st.Name, st.State)
		if st.State == scope.Bound {
			fmt.Fprintf(&b, "    device=%d channels=%d rate=%d frame=%d binding=%s\n",
				st.Params.Device, st.Params.Channels, st.Params.SampleRate, st.Params.FrameSize, st.BindingID)
		}
		if st.LastError != "" {
			fmt.Fprintf(&b, "    last error: %s\n", st.LastError)
		}
	}
	return b.String()
}
