package app

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/punchtrack/internal/punch"
	"github.com/ayusman/punchtrack/internal/store"
)

// ComboStats tracks combo performance for the current session.
type ComboStats struct {
	Attempts  int            `json:"attempts"`
	Successes int            `json:"successes"`
	Detected  map[string]int `json:"detected_combos"`
}

// Stats is a snapshot of the live session for the API and stream
// consumers.
type Stats struct {
	SessionID          string             `json:"session_id"`
	StartedAt          time.Time          `json:"started_at"`
	TotalPunches       int                `json:"total_punches"`
	Counts             map[punch.Type]int `json:"counts"`
	VelocityThreshold  float64            `json:"velocity_threshold"`
	VelocityMultiplier float64            `json:"velocity_multiplier"`
	ComboStats         ComboStats         `json:"combo_stats"`
	CurrentCombo       string             `json:"current_combo,omitempty"`
	Paused             bool               `json:"paused"`
	Calibrating        bool               `json:"calibrating"`
	CalibrationStage   string             `json:"calibration_stage,omitempty"`
}

// StartSession begins a fresh session, resetting punch counters, the
// event history and combo statistics.
func (a *App) StartSession() {
	a.tracker.ResetCounts()
	a.tracker.ClearEvents()

	a.mu.Lock()
	a.sessionID = uuid.New().String()
	a.sessionStart = time.Now()
	a.comboStats = ComboStats{Detected: make(map[string]int)}
	a.currentCombo = ""
	a.lastComboAt = time.Time{}
	a.mu.Unlock()

	log.Printf("Session %s started", a.SessionID())
}

// SessionID returns the current session's ID, or empty if none is
// running.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// EndSession closes the current session, persists it and returns the
// stored record.
func (a *App) EndSession() (*store.Session, error) {
	a.mu.Lock()
	if a.sessionID == "" {
		a.mu.Unlock()
		return nil, fmt.Errorf("no session in progress")
	}
	sessionID := a.sessionID
	startedAt := a.sessionStart
	comboStats := a.comboStats
	a.sessionID = ""
	a.mu.Unlock()

	duration := time.Since(startedAt)
	counts := a.tracker.Counts()
	total := a.tracker.Total()

	ppm := 0.0
	if duration > 0 {
		ppm = float64(total) / duration.Minutes()
	}

	details := make(map[string]int, len(comboStats.Detected))
	for name, n := range comboStats.Detected {
		details[name] = n
	}

	sess := &store.Session{
		ID:               sessionID,
		StartedAt:        startedAt,
		Duration:         duration,
		TotalPunches:     total,
		PunchesPerMinute: ppm,
		JabCount:         counts[punch.Jab],
		CrossCount:       counts[punch.Cross],
		HookCount:        counts[punch.Hook],
		UppercutCount:    counts[punch.Uppercut],
		ComboAttempts:    comboStats.Attempts,
		ComboSuccesses:   comboStats.Successes,
		ComboDetails:     details,
	}

	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	log.Printf("Session %s ended: %d punches over %.1fs", sessionID, total, duration.Seconds())
	return sess, nil
}

// Stats returns a snapshot of the live session state.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	detected := make(map[string]int, len(a.comboStats.Detected))
	for name, n := range a.comboStats.Detected {
		detected[name] = n
	}

	stats := Stats{
		SessionID:          a.sessionID,
		StartedAt:          a.sessionStart,
		TotalPunches:       a.tracker.Total(),
		Counts:             a.tracker.Counts(),
		VelocityThreshold:  a.tracker.Threshold(),
		VelocityMultiplier: a.tracker.Multiplier(),
		ComboStats: ComboStats{
			Attempts:  a.comboStats.Attempts,
			Successes: a.comboStats.Successes,
			Detected:  detected,
		},
		Paused:      a.paused,
		Calibrating: a.calibrating,
	}

	// A combo stays current only for its display window.
	if a.currentCombo != "" && time.Since(a.lastComboAt) <= ComboDisplayDuration {
		stats.CurrentCombo = a.currentCombo
	}
	if a.calibrating {
		stats.CalibrationStage = a.wizard.StageName()
	}

	return stats
}
