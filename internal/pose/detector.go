package pose

import "gocv.io/x/gocv"

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected body keypoints.
	// Returns an empty Frame if no person is detected.
	Detect(frame *gocv.Mat) (Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// VisibilityThreshold is the minimum per-joint visibility score.
	// Joints below it are omitted from the returned Frame.
	VisibilityThreshold float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:       0.6,
		MinTrackingConf:     0.6,
		VisibilityThreshold: DefaultVisibilityThreshold,
	}
}
