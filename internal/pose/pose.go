package pose

import "gocv.io/x/gocv"

// Source defines the interface for pose-estimation implementations.
type Source interface {
	// Detect analyzes a video frame and returns the detected pose.
	// Returns nil if no person is visible in the frame.
	Detect(frame *gocv.Mat) (*Pose, error)

	// Close releases any resources held by the source.
	Close() error
}

// Config holds configuration options for pose estimation.
type Config struct {
	// ModelType selects the MoveNet variant ("lightning" or "thunder").
	ModelType string

	// MinConfidence is the per-keypoint confidence threshold (0.0-1.0).
	// Keypoints scoring below it are reported as absent.
	MinConfidence float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelType:     "lightning",
		MinConfidence: 0.3,
	}
}
