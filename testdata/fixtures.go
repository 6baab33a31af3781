// Package testdata provides synthetic pose sequences for integration
// and end-to-end tests.
package testdata

import (
	"time"

	"github.com/ayusman/punchtrack/internal/pose"
)

// TimedPose is one frame of a scripted sequence, offset from the
// sequence start.
type TimedPose struct {
	Pose   *pose.Pose
	Offset time.Duration
}

// leftArm builds a pose with the left arm visible and the wrist at the
// given x. The frame is mirrored, so the left hand punches toward -x.
func leftArm(wristX float64) *pose.Pose {
	p := &pose.Pose{}
	p.Set(pose.LeftShoulder, 300, 240, 0.9)
	p.Set(pose.RightShoulder, 340, 240, 0.9)
	p.Set(pose.LeftElbow, 250, 238, 0.9)
	p.Set(pose.LeftWrist, wristX, 240, 0.9)
	return p
}

// rightArm builds a pose with the right arm visible and the wrist at
// the given x. The right hand punches toward +x.
func rightArm(wristX float64) *pose.Pose {
	p := &pose.Pose{}
	p.Set(pose.LeftShoulder, 300, 240, 0.9)
	p.Set(pose.RightShoulder, 340, 240, 0.9)
	p.Set(pose.RightElbow, 390, 238, 0.9)
	p.Set(pose.RightWrist, wristX, 240, 0.9)
	return p
}

// JabCrossSequence scripts a left jab followed by a right cross fast
// enough to complete the Jab-Cross combo.
func JabCrossSequence() []TimedPose {
	return []TimedPose{
		{Pose: leftArm(280), Offset: 0},
		{Pose: leftArm(150), Offset: 100 * time.Millisecond},
		{Pose: rightArm(380), Offset: 200 * time.Millisecond},
		{Pose: rightArm(490), Offset: 300 * time.Millisecond},
	}
}

// JabSequence scripts a single left jab.
func JabSequence() []TimedPose {
	return []TimedPose{
		{Pose: leftArm(280), Offset: 0},
		{Pose: leftArm(150), Offset: 100 * time.Millisecond},
	}
}

// UppercutSequence scripts a right uppercut: the wrist rises above the
// elbow while moving forward.
func UppercutSequence() []TimedPose {
	start := &pose.Pose{}
	start.Set(pose.LeftShoulder, 300, 240, 0.9)
	start.Set(pose.RightShoulder, 340, 240, 0.9)
	start.Set(pose.RightElbow, 380, 200, 0.9)
	start.Set(pose.RightWrist, 400, 300, 0.9)

	end := &pose.Pose{}
	end.Set(pose.LeftShoulder, 300, 240, 0.9)
	end.Set(pose.RightShoulder, 340, 240, 0.9)
	end.Set(pose.RightElbow, 380, 200, 0.9)
	end.Set(pose.RightWrist, 420, 160, 0.9)

	return []TimedPose{
		{Pose: start, Offset: 0},
		{Pose: end, Offset: 100 * time.Millisecond},
	}
}
