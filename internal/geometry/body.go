package geometry

import "github.com/ayusman/repcoach/internal/pose"

// View describes which side of the body is visible to the camera.
type View string

const (
	ViewFront     View = "front"
	ViewLeftSide  View = "left_side"
	ViewRightSide View = "right_side"
	ViewUnclear   View = "unclear"
)

// ElbowTorsoAngles calculates the hip-shoulder-elbow angle for both sides of
// the body, gated on joint visibility. avg holds the mean of the visible
// sides (or the single visible side). When view is ViewUnclear no side was
// visible and the angle values are meaningless.
func ElbowTorsoAngles(leftHip, leftShoulder, leftElbow, rightHip, rightShoulder, rightElbow pose.Keypoint, visibilityThreshold float64) (left, right, avg float64, view View) {
	leftVisible := Visible(visibilityThreshold, leftHip, leftShoulder, leftElbow)
	rightVisible := Visible(visibilityThreshold, rightHip, rightShoulder, rightElbow)

	switch {
	case leftVisible && rightVisible:
		left = AngleAtVertex(leftHip, leftShoulder, leftElbow)
		right = AngleAtVertex(rightHip, rightShoulder, rightElbow)
		return left, right, (left + right) / 2, ViewFront
	case leftVisible:
		left = AngleAtVertex(leftHip, leftShoulder, leftElbow)
		return left, 0, left, ViewLeftSide
	case rightVisible:
		right = AngleAtVertex(rightHip, rightShoulder, rightElbow)
		return 0, right, right, ViewRightSide
	default:
		return 0, 0, 0, ViewUnclear
	}
}

// HipShoulderAngle calculates the angle of the hip-shoulder line relative to
// the vertical axis. Returns false if either joint is below the visibility
// threshold.
func HipShoulderAngle(hip, shoulder pose.Keypoint, visibilityThreshold float64) (float64, bool) {
	if !Visible(visibilityThreshold, hip, shoulder) {
		return 0, false
	}
	return LineVerticalAngle(hip.X, hip.Y, shoulder.X, shoulder.Y), true
}
