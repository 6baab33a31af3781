package combo

import (
	"fmt"
	"testing"
	"time"

	"github.com/ayusman/punchtrack/internal/punch"
)

var comboStart = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func ev(t punch.Type, offset time.Duration) punch.Event {
	return punch.Event{
		ID:        fmt.Sprintf("%s@%s", t, offset),
		Type:      t,
		Timestamp: comboStart.Add(offset),
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		history []punch.Event
		want    string // empty means no combo
	}{
		{
			name:    "empty history",
			history: nil,
			want:    "",
		},
		{
			name:    "single punch is never a combo",
			history: []punch.Event{ev(punch.Jab, 0)},
			want:    "",
		},
		{
			name: "jab cross inside window",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Cross, 400*time.Millisecond),
			},
			want: "Jab-Cross",
		},
		{
			name: "jab cross too slow",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Cross, time.Second),
			},
			want: "",
		},
		{
			name: "jab jab cross inside both windows",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Jab, 400*time.Millisecond),
				ev(punch.Cross, 800*time.Millisecond),
			},
			want: "Jab-Jab-Cross",
		},
		{
			// The three-punch pattern fails its first gap (0.7 > 0.5)
			// but the trailing pair still makes Jab-Cross. Each
			// pattern slices the history independently.
			name: "slow first gap falls back to jab cross",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Jab, 700*time.Millisecond),
				ev(punch.Cross, time.Second),
			},
			want: "Jab-Cross",
		},
		{
			name: "jab cross hook",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Cross, 600*time.Millisecond),
				ev(punch.Hook, 1200*time.Millisecond),
			},
			want: "Jab-Cross-Hook",
		},
		{
			name: "hook cross hook",
			history: []punch.Event{
				ev(punch.Hook, 0),
				ev(punch.Cross, 500*time.Millisecond),
				ev(punch.Hook, time.Second),
			},
			want: "Hook-Cross-Hook",
		},
		{
			name: "unrelated sequence",
			history: []punch.Event{
				ev(punch.Uppercut, 0),
				ev(punch.Jab, 500*time.Millisecond),
				ev(punch.Hook, time.Second),
			},
			want: "",
		},
		{
			// Only the trailing window counts. A jab buried earlier
			// in history cannot pair with the newest cross.
			name: "non-trailing punches are ignored",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Uppercut, 300*time.Millisecond),
				ev(punch.Cross, 600*time.Millisecond),
			},
			want: "",
		},
		{
			name: "gap exactly at the limit matches",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Cross, 700*time.Millisecond),
			},
			want: "Jab-Cross",
		},
		{
			name: "gap one millisecond over fails",
			history: []punch.Event{
				ev(punch.Jab, 0),
				ev(punch.Cross, 701*time.Millisecond),
			},
			want: "",
		},
	}

	m := NewMatcher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := m.Detect(tt.history)

			if tt.want == "" {
				if match != nil {
					t.Fatalf("expected no combo, got %q", match.Pattern)
				}
				return
			}
			if match == nil {
				t.Fatalf("expected combo %q, got none", tt.want)
			}
			if match.Pattern != tt.want {
				t.Errorf("Pattern = %q, want %q", match.Pattern, tt.want)
			}
		})
	}
}

func TestDetectPrefersLongerPattern(t *testing.T) {
	m := NewMatcher(nil)

	// The same tail satisfies both Jab-Cross and Jab-Jab-Cross; the
	// longer pattern wins.
	history := []punch.Event{
		ev(punch.Jab, 0),
		ev(punch.Jab, 300*time.Millisecond),
		ev(punch.Cross, 600*time.Millisecond),
	}
	match := m.Detect(history)
	if match == nil {
		t.Fatal("expected a combo")
	}
	if match.Pattern != "Jab-Jab-Cross" {
		t.Errorf("Pattern = %q, want Jab-Jab-Cross", match.Pattern)
	}
}

func TestDetectEqualLengthListedOrder(t *testing.T) {
	patterns := []Pattern{
		{
			Name:     "Double-Jab",
			Sequence: []punch.Type{punch.Jab, punch.Jab},
			MaxGaps:  []time.Duration{time.Second},
		},
		{
			Name:     "Double-Jab-Alt",
			Sequence: []punch.Type{punch.Jab, punch.Jab},
			MaxGaps:  []time.Duration{time.Second},
		},
	}
	m := NewMatcher(patterns)

	history := []punch.Event{
		ev(punch.Jab, 0),
		ev(punch.Jab, 200*time.Millisecond),
	}
	match := m.Detect(history)
	if match == nil {
		t.Fatal("expected a combo")
	}
	if match.Pattern != "Double-Jab" {
		t.Errorf("Pattern = %q, want first-listed Double-Jab", match.Pattern)
	}
}

func TestDetectIsStateless(t *testing.T) {
	m := NewMatcher(nil)

	history := []punch.Event{
		ev(punch.Jab, 0),
		ev(punch.Cross, 400*time.Millisecond),
	}

	// The matcher keeps no memory of what it returned. Clearing the
	// history to avoid re-detection is the caller's policy.
	for i := 0; i < 3; i++ {
		match := m.Detect(history)
		if match == nil || match.Pattern != "Jab-Cross" {
			t.Fatalf("call %d: expected Jab-Cross, got %v", i, match)
		}
	}
	if len(history) != 2 {
		t.Errorf("history modified by Detect, len = %d", len(history))
	}
}

func TestDetectMatchDetails(t *testing.T) {
	m := NewMatcher(nil)

	history := []punch.Event{
		ev(punch.Jab, 0),
		ev(punch.Cross, 400*time.Millisecond),
	}
	match := m.Detect(history)
	if match == nil {
		t.Fatal("expected Jab-Cross")
	}
	if len(match.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(match.Events))
	}
	if match.Events[0].Type != punch.Jab || match.Events[1].Type != punch.Cross {
		t.Errorf("Events = %v, want jab then cross", match.Events)
	}
	if !match.CompletedAt.Equal(comboStart.Add(400 * time.Millisecond)) {
		t.Errorf("CompletedAt = %v, want cross timestamp", match.CompletedAt)
	}
}

func TestPatternsOrderedLongestFirst(t *testing.T) {
	m := NewMatcher(nil)
	pats := m.Patterns()
	for i := 1; i < len(pats); i++ {
		if len(pats[i].Sequence) > len(pats[i-1].Sequence) {
			t.Fatalf("patterns not ordered by descending length: %q before %q",
				pats[i-1].Name, pats[i].Name)
		}
	}
}
