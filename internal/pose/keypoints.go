// Package pose provides body keypoint types and pose-estimation source
// interfaces for punch tracking.
package pose

import "math"

// Body keypoint indices following the MoveNet single-pose convention.
// See: https://www.tensorflow.org/hub/tutorials/movenet
const (
	Nose          = 0
	LeftEye       = 1
	RightEye      = 2
	LeftEar       = 3
	RightEar      = 4
	LeftShoulder  = 5
	RightShoulder = 6
	LeftElbow     = 7
	RightElbow    = 8
	LeftWrist     = 9
	RightWrist    = 10
	LeftHip       = 11
	RightHip      = 12
	LeftKnee      = 13
	RightKnee     = 14
	LeftAnkle     = 15
	RightAnkle    = 16
	NumKeypoints  = 17
)

// Keypoint is a single detected landmark in pixel coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Pose holds one frame's keypoints. An entry is nil when the model's
// confidence for that landmark fell below the detection threshold;
// absent landmarks are never encoded as sentinel coordinates.
type Pose struct {
	Points [NumKeypoints]*Keypoint `json:"points"`
}

// Point returns the keypoint at the given index, or nil if the index is
// out of range or the landmark was not detected this frame.
func (p *Pose) Point(index int) *Keypoint {
	if p == nil || index < 0 || index >= NumKeypoints {
		return nil
	}
	return p.Points[index]
}

// Set records a keypoint at the given index. Out-of-range indices are
// ignored.
func (p *Pose) Set(index int, x, y, confidence float64) {
	if index < 0 || index >= NumKeypoints {
		return
	}
	p.Points[index] = &Keypoint{X: x, Y: y, Confidence: confidence}
}

// Distance returns the Euclidean pixel distance between two keypoints.
func Distance(a, b *Keypoint) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
