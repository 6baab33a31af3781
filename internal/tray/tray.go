// Package tray provides a macOS system tray interface for the punch
// tracking system.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the macOS system tray application.
type Tray struct {
	onToggle    func(paused bool)
	onCalibrate func()
	onRestart   func()
	onDashboard func()
	onQuit      func()
	paused      bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuCount     *systray.MenuItem
	menuLastCombo *systray.MenuItem
}

// New creates a new Tray instance, initially tracking.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback function to be called when tracking is
// paused or resumed.
func (t *Tray) OnToggle(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnCalibrate sets the callback function to be called when the
// calibrate menu item is clicked.
func (t *Tray) OnCalibrate(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCalibrate = fn
}

// OnRestart sets the callback function to be called when the restart
// session menu item is clicked.
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnDashboard sets the callback function to be called when the
// dashboard menu item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu
// item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("PunchTrack")
	systray.SetTooltip("PunchTrack Boxing Trainer")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Pause or resume punch tracking")
	systray.AddSeparator()

	t.menuCount = systray.AddMenuItem("Punches: 0", "Punches this session")
	t.menuCount.Disable()

	t.menuLastCombo = systray.AddMenuItem("Combo: none", "Last detected combo")
	t.menuLastCombo.Disable()
	systray.AddSeparator()

	menuCalibrate := systray.AddMenuItem("Calibrate...", "Run the calibration wizard")
	menuRestart := systray.AddMenuItem("Restart Session", "Save the current session and start a new one")
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit PunchTrack")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuCalibrate.ClickedCh:
				t.handleCalibrate()
			case <-menuRestart.ClickedCh:
				t.handleRestart()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the pause/resume menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuToggle.SetTitle("○ Paused")
	} else {
		t.menuToggle.SetTitle("● Tracking")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

// handleCalibrate handles the calibrate menu item click.
func (t *Tray) handleCalibrate() {
	t.mu.RLock()
	callback := t.onCalibrate
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleRestart handles the restart session menu item click.
func (t *Tray) handleRestart() {
	t.mu.RLock()
	callback := t.onRestart
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetPunchCount updates the live punch counter in the menu.
func (t *Tray) SetPunchCount(total int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCount != nil {
		t.menuCount.SetTitle(fmt.Sprintf("Punches: %d", total))
	}
}

// SetLastCombo updates the last combo display in the menu.
func (t *Tray) SetLastCombo(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastCombo != nil {
		if name == "" {
			t.menuLastCombo.SetTitle("Combo: none")
		} else {
			t.menuLastCombo.SetTitle("Combo: " + name)
		}
	}
}

// IsPaused returns the current pause state.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}
