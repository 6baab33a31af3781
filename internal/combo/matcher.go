// Package combo matches sequences of punch events against named combo
// patterns.
package combo

import (
	"sort"
	"time"

	"github.com/ayusman/punchtrack/internal/punch"
)

// timingTolerance absorbs rounding in timestamps derived from frame
// clocks, so a gap that is nominally equal to its constraint still
// matches.
const timingTolerance = time.Microsecond

// Pattern is a named punch sequence with per-step timing constraints.
// MaxGaps[i] bounds the time between step i and step i+1, so it has
// one fewer entry than Sequence.
type Pattern struct {
	Name     string          `json:"name"`
	Sequence []punch.Type    `json:"sequence"`
	MaxGaps  []time.Duration `json:"max_gaps"`
}

// Match reports a completed combo.
type Match struct {
	Pattern     string        `json:"pattern"`
	Events      []punch.Event `json:"events"`
	CompletedAt time.Time     `json:"completed_at"`
}

// DefaultPatterns returns the built-in combo patterns.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:     "Jab-Cross",
			Sequence: []punch.Type{punch.Jab, punch.Cross},
			MaxGaps:  []time.Duration{700 * time.Millisecond},
		},
		{
			Name:     "Jab-Jab-Cross",
			Sequence: []punch.Type{punch.Jab, punch.Jab, punch.Cross},
			MaxGaps:  []time.Duration{500 * time.Millisecond, 700 * time.Millisecond},
		},
		{
			Name:     "Jab-Cross-Hook",
			Sequence: []punch.Type{punch.Jab, punch.Cross, punch.Hook},
			MaxGaps:  []time.Duration{700 * time.Millisecond, 700 * time.Millisecond},
		},
		{
			Name:     "Hook-Cross-Hook",
			Sequence: []punch.Type{punch.Hook, punch.Cross, punch.Hook},
			MaxGaps:  []time.Duration{700 * time.Millisecond, 700 * time.Millisecond},
		},
	}
}

// Matcher checks a punch-event history against a fixed pattern
// library. It keeps no state between calls: whether to clear the
// history after a match, to avoid re-reporting the same combo, is the
// caller's policy.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher creates a matcher for the given patterns. Passing nil
// uses DefaultPatterns. Patterns are ordered by descending sequence
// length; among equal lengths the one listed first wins, so the
// tie-break does not depend on sort stability.
func NewMatcher(patterns []Pattern) *Matcher {
	if patterns == nil {
		patterns = DefaultPatterns()
	}

	type indexed struct {
		pat   Pattern
		order int
	}
	tmp := make([]indexed, len(patterns))
	for i, p := range patterns {
		tmp[i] = indexed{pat: p, order: i}
	}
	sort.Slice(tmp, func(i, j int) bool {
		li, lj := len(tmp[i].pat.Sequence), len(tmp[j].pat.Sequence)
		if li != lj {
			return li > lj
		}
		return tmp[i].order < tmp[j].order
	})

	ordered := make([]Pattern, len(tmp))
	for i, t := range tmp {
		ordered[i] = t.pat
	}
	return &Matcher{patterns: ordered}
}

// Detect checks the trailing events of the history against each
// pattern and returns the first match, or nil. The history must be
// ordered oldest to newest; it is read, never modified.
func (m *Matcher) Detect(history []punch.Event) *Match {
	if len(history) < 2 {
		return nil
	}
	for _, pat := range m.patterns {
		if match := matchTail(pat, history); match != nil {
			return match
		}
	}
	return nil
}

// matchTail checks whether the most recent events spell out the
// pattern within its timing constraints. Each pattern slices the
// history independently, so a long pattern failing on timing does not
// disqualify a shorter one over the same tail.
func matchTail(pat Pattern, history []punch.Event) *Match {
	n := len(pat.Sequence)
	if n < 2 || len(history) < n {
		return nil
	}

	window := history[len(history)-n:]
	for i, want := range pat.Sequence {
		if window[i].Type != want {
			return nil
		}
	}
	for i, maxGap := range pat.MaxGaps {
		gap := window[i+1].Timestamp.Sub(window[i].Timestamp)
		if gap > maxGap+timingTolerance {
			return nil
		}
	}

	events := make([]punch.Event, n)
	copy(events, window)

	return &Match{
		Pattern:     pat.Name,
		Events:      events,
		CompletedAt: window[n-1].Timestamp,
	}
}

// Patterns returns the patterns in matching order.
func (m *Matcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.patterns))
	copy(out, m.patterns)
	return out
}
