// Package calibrate implements the staged calibration wizard that
// derives a velocity multiplier from observed punches.
package calibrate

import (
	"time"

	"github.com/ayusman/punchtrack/internal/pose"
)

// Stage identifies a step of the calibration sequence.
type Stage int

const (
	StagePrepare Stage = iota
	StageStraights
	StageHooks
	StageUppercuts
	StageDone
)

// stageNames are the operator-facing prompts per stage.
var stageNames = [...]string{
	"Prepare for calibration",
	"Throw a few jabs and crosses",
	"Throw a few hooks",
	"Throw a few uppercuts",
	"Calibration complete",
}

// stageDurations is how long each stage runs.
var stageDurations = [...]time.Duration{
	5 * time.Second,
	10 * time.Second,
	10 * time.Second,
	10 * time.Second,
	3 * time.Second,
}

// Multiplier bounds. Results outside this range are clamped so a bad
// calibration run can never make detection unusable.
const (
	MinMultiplier = 0.5
	MaxMultiplier = 2.0
)

// Result holds the adjustments a completed calibration produced. It
// replaces any previous calibration wholesale.
type Result struct {
	VelocityMultiplier float64 `json:"velocity_multiplier"`
}

// Wizard walks the operator through the calibration stages, sampling
// wrist keypoints during the punching stages. Timestamps come from the
// caller, so tests can drive the wizard without waiting.
type Wizard struct {
	running    bool
	stage      Stage
	stageStart time.Time
	samples    []float64
	result     Result
}

// NewWizard creates an idle wizard with a neutral result.
func NewWizard() *Wizard {
	return &Wizard{
		result: Result{VelocityMultiplier: 1.0},
	}
}

// Start begins a calibration run at the prepare stage. Any samples
// from an earlier run are discarded.
func (w *Wizard) Start(now time.Time) {
	w.running = true
	w.stage = StagePrepare
	w.stageStart = now
	w.samples = nil
}

// Running reports whether a calibration run is in progress.
func (w *Wizard) Running() bool {
	return w.running
}

// Stage returns the current stage.
func (w *Wizard) Stage() Stage {
	return w.stage
}

// StageName returns the operator prompt for the current stage.
func (w *Wizard) StageName() string {
	if int(w.stage) < len(stageNames) {
		return stageNames[w.stage]
	}
	return stageNames[len(stageNames)-1]
}

// Remaining returns how much of the current stage is left.
func (w *Wizard) Remaining(now time.Time) time.Duration {
	if !w.running {
		return 0
	}
	left := stageDurations[w.stage] - now.Sub(w.stageStart)
	if left < 0 {
		return 0
	}
	return left
}

// Observe feeds one frame's pose to the wizard. It advances the stage
// when the current one has run its course and collects wrist samples
// during the punching stages. Returns true once the run is complete.
func (w *Wizard) Observe(p *pose.Pose, now time.Time) bool {
	if !w.running {
		return false
	}

	if now.Sub(w.stageStart) >= stageDurations[w.stage] {
		w.stage++
		w.stageStart = now
		if int(w.stage) >= len(stageDurations) {
			w.finish()
			return true
		}
	}

	if w.stage >= StageStraights && w.stage <= StageUppercuts {
		w.collect(p)
	}
	return false
}

// collect samples wrist confidences during the punching stages. The
// model's confidence tracks how cleanly it sees the hands, which is
// what the multiplier compensates for.
func (w *Wizard) collect(p *pose.Pose) {
	if p == nil {
		return
	}
	for _, idx := range []int{pose.LeftWrist, pose.RightWrist} {
		if kp := p.Point(idx); kp != nil {
			w.samples = append(w.samples, kp.Confidence)
		}
	}
}

func (w *Wizard) finish() {
	w.running = false

	if len(w.samples) == 0 {
		w.result = Result{VelocityMultiplier: 1.0}
		return
	}

	sum := 0.0
	for _, s := range w.samples {
		sum += s
	}
	avg := sum / float64(len(w.samples))

	// Lower tracking quality gets a higher multiplier so detection
	// stays reachable.
	multiplier := 1.0
	if avg > 0 {
		multiplier = 1.5 / avg
	}
	if multiplier < MinMultiplier {
		multiplier = MinMultiplier
	}
	if multiplier > MaxMultiplier {
		multiplier = MaxMultiplier
	}

	w.result = Result{VelocityMultiplier: multiplier}
}

// Result returns the outcome of the most recent completed run, or the
// neutral default if none has completed.
func (w *Wizard) Result() Result {
	return w.result
}
