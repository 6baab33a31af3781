// Package app wires capture, pose estimation, punch detection and
// combo matching into the punch tracking pipeline.
package app

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/ayusman/punchtrack/internal/calibrate"
	"github.com/ayusman/punchtrack/internal/capture"
	"github.com/ayusman/punchtrack/internal/combo"
	"github.com/ayusman/punchtrack/internal/plugin"
	"github.com/ayusman/punchtrack/internal/pose"
	"github.com/ayusman/punchtrack/internal/punch"
	"github.com/ayusman/punchtrack/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the boxer is resting.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to
	// the idle frame rate.
	IdleTimeout = 2 * time.Second
	// ComboDisplayDuration is how long a detected combo stays current.
	// The same combo name is not counted again inside this window.
	ComboDisplayDuration = 3 * time.Second
	// pluginTimeout bounds a single plugin invocation.
	pluginTimeout = 5 * time.Second
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
	// Patterns overrides the built-in combo patterns; nil keeps the
	// defaults.
	Patterns []combo.Pattern
}

// App orchestrates the frame pipeline and owns the session state.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	source     pose.Source
	tracker    *punch.Tracker
	matcher    *combo.Matcher
	wizard     *calibrate.Wizard
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	mu          sync.RWMutex
	enabled     bool
	paused      bool
	calibrating bool
	stopCh      chan struct{}

	sessionID    string
	sessionStart time.Time
	comboStats   ComboStats
	currentCombo string
	lastComboAt  time.Time

	onPunch []func(punch.Event)
	onCombo []func(combo.Match)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		tracker:    punch.NewTracker(punch.DefaultConfig()),
		matcher:    combo.NewMatcher(config.Patterns),
		wizard:     calibrate.NewWizard(),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(pluginTimeout),
	}

	// Try MoveNet first, fall back to the mock source
	if mn, err := pose.NewMoveNetSource(pose.DefaultConfig()); err == nil {
		a.source = mn
		log.Println("Using MoveNet pose estimation")
	} else {
		log.Printf("MoveNet not available (%v), using mock pose source", err)
		a.source = pose.NewMockSource()
	}

	a.loadSettings()

	return a
}

// loadSettings restores persisted tunables from the store.
func (a *App) loadSettings() {
	if a.config.Store == nil {
		return
	}
	settings := a.config.Store.Settings()

	if threshold, err := settings.GetFloat(store.SettingVelocityThreshold); err == nil {
		a.tracker.SetThreshold(threshold)
		log.Printf("Restored velocity threshold: %.0f", a.tracker.Threshold())
	}

	if multiplier, err := settings.GetFloat(store.SettingVelocityMultiplier); err == nil {
		a.tracker.SetMultiplier(multiplier)
		log.Printf("Restored velocity multiplier: %.2f", multiplier)
	}
}

// SetEnabled enables or disables punch detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether punch detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetPaused pauses or resumes processing. While paused, frames are
// dropped and no state changes.
func (a *App) SetPaused(paused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = paused
}

// IsPaused returns whether processing is paused.
func (a *App) IsPaused() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.paused
}

// SetSource sets the pose source implementation to use.
func (a *App) SetSource(s pose.Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = s
}

// OnPunch registers a callback invoked for every detected punch.
func (a *App) OnPunch(fn func(punch.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onPunch = append(a.onPunch, fn)
}

// OnCombo registers a callback invoked for every counted combo.
func (a *App) OnCombo(fn func(combo.Match)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onCombo = append(a.onCombo, fn)
}

// StartCalibration begins a calibration run. Punch detection is
// suspended until the wizard completes.
func (a *App) StartCalibration() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calibrating = true
	a.wizard.Start(time.Now())
	log.Println("Calibration started")
}

// Calibrating returns whether a calibration run is in progress.
func (a *App) Calibrating() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.calibrating
}

// IncreaseSensitivity lowers the velocity threshold and persists it.
func (a *App) IncreaseSensitivity() float64 {
	threshold := a.tracker.IncreaseSensitivity()
	a.saveThreshold(threshold)
	return threshold
}

// DecreaseSensitivity raises the velocity threshold and persists it.
func (a *App) DecreaseSensitivity() float64 {
	threshold := a.tracker.DecreaseSensitivity()
	a.saveThreshold(threshold)
	return threshold
}

func (a *App) saveThreshold(threshold float64) {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().SetFloat(store.SettingVelocityThreshold, threshold); err != nil {
		log.Printf("Failed to persist velocity threshold: %v", err)
	}
}

// applyCalibration installs a completed calibration result.
func (a *App) applyCalibration(res calibrate.Result) {
	a.tracker.SetMultiplier(res.VelocityMultiplier)
	log.Printf("Applied calibration: velocity multiplier %.2f", res.VelocityMultiplier)

	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().SetFloat(store.SettingVelocityMultiplier, res.VelocityMultiplier); err != nil {
		log.Printf("Failed to persist velocity multiplier: %v", err)
	}
}

// ProcessPose runs one frame's pose through punch detection and combo
// matching. It returns the punches detected this frame and the combo
// counted, if any. The pipeline calls this once per processed frame;
// tests can call it directly.
func (a *App) ProcessPose(p *pose.Pose, now time.Time) ([]punch.Event, *combo.Match) {
	a.mu.Lock()
	if a.paused {
		a.mu.Unlock()
		return nil, nil
	}
	if a.calibrating {
		done := a.wizard.Observe(p, now)
		if done {
			a.calibrating = false
			res := a.wizard.Result()
			a.mu.Unlock()
			a.applyCalibration(res)
			log.Println("Calibration completed")
			return nil, nil
		}
		a.mu.Unlock()
		return nil, nil
	}
	a.mu.Unlock()

	events := a.tracker.Observe(p, now)

	for _, ev := range events {
		log.Printf("Detected %s (%s hand) at %.0f px/s", ev.Type, ev.Hand, ev.Velocity)

		// A punch with at least one predecessor in the window is a
		// combo attempt, whether or not a pattern completes.
		if len(a.tracker.Events()) >= 2 {
			a.mu.Lock()
			a.comboStats.Attempts++
			a.mu.Unlock()
		}

		a.firePunch(ev)
	}

	match := a.matcher.Detect(a.tracker.Events())
	if match == nil {
		return events, nil
	}

	a.mu.Lock()
	fresh := a.currentCombo != match.Pattern || now.Sub(a.lastComboAt) > ComboDisplayDuration
	if !fresh {
		a.mu.Unlock()
		return events, nil
	}
	a.currentCombo = match.Pattern
	a.lastComboAt = now
	a.comboStats.Successes++
	if a.comboStats.Detected == nil {
		a.comboStats.Detected = make(map[string]int)
	}
	a.comboStats.Detected[match.Pattern]++
	a.mu.Unlock()

	// Consume the punches so they cannot complete another combo.
	a.tracker.ClearEvents()

	log.Printf("Combo detected: %s", match.Pattern)
	a.fireCombo(*match)

	return events, match
}

// firePunch notifies callbacks and punch-event plugins.
func (a *App) firePunch(ev punch.Event) {
	a.mu.RLock()
	callbacks := make([]func(punch.Event), len(a.onPunch))
	copy(callbacks, a.onPunch)
	a.mu.RUnlock()

	for _, fn := range callbacks {
		fn(ev)
	}

	params, _ := json.Marshal(map[string]any{
		"velocity":  ev.Velocity,
		"timestamp": ev.Timestamp,
	})
	req := &plugin.Request{
		Event:  plugin.EventPunch,
		Punch:  string(ev.Type),
		Hand:   string(ev.Hand),
		Params: params,
	}
	a.notifyPlugins(plugin.EventPunch, req)
}

// fireCombo notifies callbacks and combo-event plugins.
func (a *App) fireCombo(match combo.Match) {
	a.mu.RLock()
	callbacks := make([]func(combo.Match), len(a.onCombo))
	copy(callbacks, a.onCombo)
	a.mu.RUnlock()

	for _, fn := range callbacks {
		fn(match)
	}

	params, _ := json.Marshal(map[string]any{
		"completed_at": match.CompletedAt,
	})
	req := &plugin.Request{
		Event:  plugin.EventCombo,
		Combo:  match.Pattern,
		Params: params,
	}
	a.notifyPlugins(plugin.EventCombo, req)
}

// notifyPlugins delivers an event to subscribed plugins off the frame
// loop.
func (a *App) notifyPlugins(event string, req *plugin.Request) {
	subs := a.pluginMgr.Subscribers(event)
	if len(subs) == 0 {
		return
	}
	go func() {
		for _, p := range subs {
			if _, err := a.pluginExec.Execute(p, req); err != nil {
				log.Printf("Plugin %s failed on %s: %v", p.Manifest.Name, event, err)
			}
		}
	}()
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.source != nil {
		if err := a.source.Close(); err != nil {
			log.Printf("Error closing pose source: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Tracker returns the punch tracker.
func (a *App) Tracker() *punch.Tracker {
	return a.tracker
}

// Matcher returns the combo matcher.
func (a *App) Matcher() *combo.Matcher {
	return a.matcher
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Source returns the pose source.
func (a *App) Source() pose.Source {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.source
}
