// Package pose provides body keypoint types and pose detection interfaces
// for exercise analysis.
package pose

// Canonical joint names following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// DefaultVisibilityThreshold is the minimum visibility score for a joint
// to be considered usable by the analyzers.
const DefaultVisibilityThreshold = 0.6

// Keypoint represents a single detected body joint.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Frame maps canonical joint names to detected keypoints for one video frame.
// Joints that were not detected, or whose visibility fell below the detector's
// threshold, are simply absent from the map. A Frame is never mutated after
// the detector produces it.
type Frame map[string]Keypoint

// Has reports whether every named joint is present in the frame.
func (f Frame) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := f[name]; !ok {
			return false
		}
	}
	return true
}

// Center returns the midpoint of the left/right pair of joints.
// If only one side is present, that side is returned. The second return
// value is false when neither side is present.
func (f Frame) Center(left, right string) (Keypoint, bool) {
	l, lok := f[left]
	r, rok := f[right]

	switch {
	case lok && rok:
		return Keypoint{
			X:          (l.X + r.X) / 2,
			Y:          (l.Y + r.Y) / 2,
			Z:          (l.Z + r.Z) / 2,
			Visibility: (l.Visibility + r.Visibility) / 2,
		}, true
	case lok:
		return l, true
	case rok:
		return r, true
	default:
		return Keypoint{}, false
	}
}
