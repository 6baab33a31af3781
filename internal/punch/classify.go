package punch

import (
	"github.com/ayusman/punchtrack/internal/pose"
)

// armIndices returns the shoulder, elbow and wrist landmark indices for
// the given hand.
func armIndices(hand Hand) (shoulder, elbow, wrist int) {
	if hand == LeftHand {
		return pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist
	}
	return pose.RightShoulder, pose.RightElbow, pose.RightWrist
}

// extension measures how straight the arm is as the ratio of the
// shoulder-to-wrist distance over the length of the arm segments. A
// fully extended arm approaches 1.0, a bent arm stays well below it.
func extension(shoulder, elbow, wrist *pose.Keypoint) float64 {
	upper := pose.Distance(shoulder, elbow)
	lower := pose.Distance(elbow, wrist)
	if upper+lower == 0 {
		return 0
	}
	return pose.Distance(shoulder, wrist) / (upper + lower)
}

// classify decides the punch type from the arm geometry at the moment
// of detection. When the arm is only partially visible it falls back
// to the most common straight punch for that hand.
func classify(hand Hand, p *pose.Pose, extensionThreshold float64) Type {
	si, ei, wi := armIndices(hand)
	shoulder := p.Point(si)
	elbow := p.Point(ei)
	wrist := p.Point(wi)

	oppositeShoulder := p.Point(pose.RightShoulder)
	if hand == RightHand {
		oppositeShoulder = p.Point(pose.LeftShoulder)
	}

	if shoulder == nil || elbow == nil || wrist == nil || oppositeShoulder == nil {
		if hand == RightHand {
			return Cross
		}
		return Jab
	}

	ext := extension(shoulder, elbow, wrist)
	extended := ext > extensionThreshold
	wristAboveElbow := wrist.Y < elbow.Y

	// The frame is mirrored, so "outside" means past the shoulder in
	// the hand's forward direction.
	wristOutsideShoulder := false
	if hand == LeftHand {
		wristOutsideShoulder = wrist.X < shoulder.X
	} else {
		wristOutsideShoulder = wrist.X > shoulder.X
	}

	switch {
	case wristAboveElbow && extended:
		return Uppercut
	case wristOutsideShoulder && !extended:
		return Hook
	case hand == RightHand && extended:
		return Cross
	default:
		return Jab
	}
}
