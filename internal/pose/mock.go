package pose

import (
	"gocv.io/x/gocv"
)

// MockSource is a test implementation of the Source interface.
// It allows tests to control the detection results.
type MockSource struct {
	pose *Pose
	err  error
}

// NewMockSource creates a new MockSource instance.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// SetPose sets the pose that will be returned by Detect.
func (m *MockSource) SetPose(pose *Pose) {
	m.pose = pose
}

// SetError sets the error that will be returned by Detect.
func (m *MockSource) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured pose or error.
func (m *MockSource) Detect(frame *gocv.Mat) (*Pose, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pose, nil
}

// Close is a no-op for the mock source.
func (m *MockSource) Close() error {
	return nil
}

// GuardPose returns a preset Pose of a boxer in an orthodox guard
// facing the camera. Both wrists are near the chin, elbows tucked.
func GuardPose() *Pose {
	p := &Pose{}

	p.Set(Nose, 320, 160, 0.95)
	p.Set(LeftEye, 305, 150, 0.92)
	p.Set(RightEye, 335, 150, 0.92)
	p.Set(LeftEar, 290, 155, 0.85)
	p.Set(RightEar, 350, 155, 0.85)

	p.Set(LeftShoulder, 270, 240, 0.93)
	p.Set(RightShoulder, 370, 240, 0.93)
	p.Set(LeftElbow, 260, 320, 0.88)
	p.Set(RightElbow, 380, 320, 0.88)
	p.Set(LeftWrist, 295, 200, 0.90)
	p.Set(RightWrist, 345, 200, 0.90)

	p.Set(LeftHip, 285, 400, 0.87)
	p.Set(RightHip, 355, 400, 0.87)
	p.Set(LeftKnee, 285, 520, 0.80)
	p.Set(RightKnee, 355, 520, 0.80)
	p.Set(LeftAnkle, 285, 620, 0.75)
	p.Set(RightAnkle, 355, 620, 0.75)

	return p
}

// GuardPoseWithWrist returns the guard pose with one wrist moved to the
// given position. Useful for driving a punch frame by frame.
func GuardPoseWithWrist(wristIndex int, x, y float64) *Pose {
	p := GuardPose()
	p.Set(wristIndex, x, y, 0.9)
	return p
}
