// Package punch turns wrist motion into classified punch events.
package punch

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/punchtrack/internal/pose"
)

// Hand identifies which arm threw a punch.
type Hand string

const (
	LeftHand  Hand = "left"
	RightHand Hand = "right"
)

// Type is the punch classification.
type Type string

const (
	Jab      Type = "jab"
	Cross    Type = "cross"
	Hook     Type = "hook"
	Uppercut Type = "uppercut"
)

// EventHistorySize caps the punch-event history the tracker keeps for
// combo matching.
const EventHistorySize = 16

// Event is a single detected punch. X and Y are the wrist's pixel
// coordinates at the moment the punch registered.
type Event struct {
	ID        string    `json:"id"`
	Hand      Hand      `json:"hand"`
	Type      Type      `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Velocity  float64   `json:"velocity"`
	Timestamp time.Time `json:"timestamp"`
}

// Config holds tuning parameters for the tracker.
type Config struct {
	// VelocityThreshold is the minimum wrist speed, in pixels per
	// second, that registers as a punch.
	VelocityThreshold float64

	// MinThreshold is the floor the threshold cannot drop below.
	MinThreshold float64

	// ThresholdStep is how much one sensitivity adjustment moves the
	// threshold.
	ThresholdStep float64

	// Cooldown is the minimum time between punches on the same hand.
	Cooldown time.Duration

	// HistorySize caps the per-wrist position history.
	HistorySize int

	// ExtensionThreshold separates extended punches (jab, cross,
	// uppercut) from bent-arm hooks.
	ExtensionThreshold float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		VelocityThreshold:  50,
		MinThreshold:       5,
		ThresholdStep:      5,
		Cooldown:           500 * time.Millisecond,
		HistorySize:        10,
		ExtensionThreshold: 0.8,
	}
}

// wristSample is one observed wrist position.
type wristSample struct {
	x, y float64
	t    time.Time
}

// handState tracks one wrist across frames.
type handState struct {
	history   []wristSample
	lastPunch time.Time
	hasPunch  bool
}

// Tracker watches wrist positions across frames and emits punch events
// when a wrist moves forward faster than the velocity threshold.
type Tracker struct {
	mu         sync.Mutex
	config     Config
	multiplier float64
	hands      map[Hand]*handState
	counts     map[Type]int
	total      int
	events     []Event
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config:     config,
		multiplier: 1.0,
		hands: map[Hand]*handState{
			LeftHand:  {},
			RightHand: {},
		},
		counts: make(map[Type]int),
	}
}

// wristIndex maps a hand to its MoveNet wrist landmark.
func wristIndex(hand Hand) int {
	if hand == LeftHand {
		return pose.LeftWrist
	}
	return pose.RightWrist
}

// Observe feeds one frame's pose to the tracker and returns any punch
// events it produced. A nil pose returns no events and leaves all
// state untouched.
func (t *Tracker) Observe(p *pose.Pose, now time.Time) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p == nil {
		return nil
	}

	var events []Event
	for _, hand := range []Hand{LeftHand, RightHand} {
		if ev, ok := t.observeHand(hand, p, now); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (t *Tracker) observeHand(hand Hand, p *pose.Pose, now time.Time) (Event, bool) {
	wrist := p.Point(wristIndex(hand))
	if wrist == nil {
		return Event{}, false
	}

	state := t.hands[hand]
	state.push(wristSample{x: wrist.X, y: wrist.Y, t: now}, t.config.HistorySize)

	if len(state.history) < 2 {
		return Event{}, false
	}

	prev := state.history[len(state.history)-2]
	curr := state.history[len(state.history)-1]

	dx := curr.x - prev.x
	dy := curr.y - prev.y

	dt := curr.t.Sub(prev.t).Seconds()
	velocity := 0.0
	if dt > 0 {
		velocity = math.Sqrt(dx*dx+dy*dy) / dt * t.multiplier
	}

	if velocity < t.config.VelocityThreshold {
		return Event{}, false
	}

	// Only forward motion counts. The frame is mirrored, so the left
	// hand punches toward -x and the right hand toward +x.
	if hand == LeftHand && dx >= 0 {
		return Event{}, false
	}
	if hand == RightHand && dx <= 0 {
		return Event{}, false
	}

	if state.hasPunch && now.Sub(state.lastPunch) < t.config.Cooldown {
		return Event{}, false
	}
	state.lastPunch = now
	state.hasPunch = true

	punchType := classify(hand, p, t.config.ExtensionThreshold)
	t.counts[punchType]++
	t.total++

	ev := Event{
		ID:        uuid.New().String(),
		Hand:      hand,
		Type:      punchType,
		X:         curr.x,
		Y:         curr.y,
		Velocity:  velocity,
		Timestamp: now,
	}

	if len(t.events) >= EventHistorySize {
		copy(t.events, t.events[1:])
		t.events = t.events[:EventHistorySize-1]
	}
	t.events = append(t.events, ev)

	return ev, true
}

func (s *handState) push(sample wristSample, max int) {
	if max <= 0 {
		max = 1
	}
	if len(s.history) >= max {
		copy(s.history, s.history[1:])
		s.history = s.history[:max-1]
	}
	s.history = append(s.history, sample)
}

// SetMultiplier applies a calibration multiplier to computed
// velocities.
func (t *Tracker) SetMultiplier(m float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.multiplier = m
}

// Multiplier returns the current calibration multiplier.
func (t *Tracker) Multiplier() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.multiplier
}

// Threshold returns the current velocity threshold.
func (t *Tracker) Threshold() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config.VelocityThreshold
}

// SetThreshold sets the velocity threshold directly, clamped to the
// configured minimum.
func (t *Tracker) SetThreshold(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v < t.config.MinThreshold {
		v = t.config.MinThreshold
	}
	t.config.VelocityThreshold = v
}

// IncreaseSensitivity lowers the velocity threshold by one step,
// bounded by the configured minimum.
func (t *Tracker) IncreaseSensitivity() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.VelocityThreshold -= t.config.ThresholdStep
	if t.config.VelocityThreshold < t.config.MinThreshold {
		t.config.VelocityThreshold = t.config.MinThreshold
	}
	return t.config.VelocityThreshold
}

// DecreaseSensitivity raises the velocity threshold by one step.
func (t *Tracker) DecreaseSensitivity() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.VelocityThreshold += t.config.ThresholdStep
	return t.config.VelocityThreshold
}

// Counts returns a copy of the per-type punch counters.
func (t *Tracker) Counts() map[Type]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Type]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Total returns the number of punches detected since the last reset.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// ResetCounts zeroes the punch counters. Position histories and
// cooldown state are kept so detection continues seamlessly.
func (t *Tracker) ResetCounts() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts = make(map[Type]int)
	t.total = 0
}

// Events returns a copy of the punch-event history, oldest first.
func (t *Tracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// ClearEvents empties the punch-event history. Called after a combo
// fires so its punches cannot count toward another combo.
func (t *Tracker) ClearEvents() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}
