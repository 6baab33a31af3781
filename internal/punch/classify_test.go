package punch

import (
	"math"
	"testing"

	"github.com/ayusman/punchtrack/internal/pose"
)

// armPose builds a pose with both shoulders set and one arm placed at
// the given elbow and wrist positions.
func armPose(hand Hand, elbowX, elbowY, wristX, wristY float64) *pose.Pose {
	p := &pose.Pose{}
	p.Set(pose.LeftShoulder, 300, 240, 0.9)
	p.Set(pose.RightShoulder, 340, 240, 0.9)

	_, ei, wi := armIndices(hand)
	p.Set(ei, elbowX, elbowY, 0.9)
	p.Set(wi, wristX, wristY, 0.9)
	return p
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		shoulder pose.Keypoint
		elbow    pose.Keypoint
		wrist    pose.Keypoint
		want     float64
	}{
		{
			name:     "straight arm",
			shoulder: pose.Keypoint{X: 0, Y: 0},
			elbow:    pose.Keypoint{X: 50, Y: 0},
			wrist:    pose.Keypoint{X: 100, Y: 0},
			want:     1.0,
		},
		{
			name:     "right angle bend",
			shoulder: pose.Keypoint{X: 0, Y: 0},
			elbow:    pose.Keypoint{X: 100, Y: 0},
			wrist:    pose.Keypoint{X: 100, Y: 100},
			want:     math.Sqrt2 / 2,
		},
		{
			name:     "degenerate arm",
			shoulder: pose.Keypoint{X: 10, Y: 10},
			elbow:    pose.Keypoint{X: 10, Y: 10},
			wrist:    pose.Keypoint{X: 10, Y: 10},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extension(&tt.shoulder, &tt.elbow, &tt.wrist)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("extension() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hand Hand
		p    *pose.Pose
		want Type
	}{
		{
			// Extended right arm forward at shoulder height.
			name: "right extended forward is cross",
			hand: RightHand,
			p:    armPose(RightHand, 390, 238, 490, 240),
			want: Cross,
		},
		{
			// Extended left arm forward at shoulder height.
			name: "left extended forward is jab",
			hand: LeftHand,
			p:    armPose(LeftHand, 250, 238, 150, 240),
			want: Jab,
		},
		{
			// Straight arm rising above the elbow.
			name: "extended rising arm is uppercut",
			hand: RightHand,
			p:    armPose(RightHand, 380, 200, 420, 160),
			want: Uppercut,
		},
		{
			// Bent arm swung wide past the shoulder.
			name: "bent arm outside shoulder is hook",
			hand: RightHand,
			p:    armPose(RightHand, 440, 240, 440, 140),
			want: Hook,
		},
		{
			name: "bent left arm outside shoulder is hook",
			hand: LeftHand,
			p:    armPose(LeftHand, 200, 240, 200, 140),
			want: Hook,
		},
		{
			// Bent arm kept inside the shoulder line.
			name: "bent arm inside shoulder is jab",
			hand: RightHand,
			p:    armPose(RightHand, 300, 300, 330, 230),
			want: Jab,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.hand, tt.p, 0.8)
			if got != tt.want {
				t.Errorf("classify(%s) = %s, want %s", tt.hand, got, tt.want)
			}
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	tests := []struct {
		name   string
		hand   Hand
		remove int
		want   Type
	}{
		{"right missing elbow", RightHand, pose.RightElbow, Cross},
		{"right missing shoulder", RightHand, pose.RightShoulder, Cross},
		{"right missing opposite shoulder", RightHand, pose.LeftShoulder, Cross},
		{"left missing elbow", LeftHand, pose.LeftElbow, Jab},
		{"left missing opposite shoulder", LeftHand, pose.RightShoulder, Jab},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := armPose(tt.hand, 390, 238, 490, 240)
			if tt.hand == LeftHand {
				p = armPose(tt.hand, 250, 238, 150, 240)
			}
			p.Points[tt.remove] = nil

			got := classify(tt.hand, p, 0.8)
			if got != tt.want {
				t.Errorf("classify(%s) = %s, want %s", tt.hand, got, tt.want)
			}
		})
	}
}
