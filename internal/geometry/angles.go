// Package geometry provides stateless angle and distance calculations on
// body keypoints. All functions operate on the 2D image plane (z is ignored)
// and degrade to neutral values on degenerate input instead of failing.
package geometry

import (
	"math"

	"github.com/ayusman/repcoach/internal/pose"
)

// epsilon below which a vector is treated as zero-length.
const epsilon = 1e-6

// AngleAtVertex calculates the angle in degrees between the vectors
// (p1-vertex) and (p2-vertex). Returns 0 if either vector is near
// zero-length, so coincident points never produce NaN.
func AngleAtVertex(p1, vertex, p2 pose.Keypoint) float64 {
	v1x, v1y := p1.X-vertex.X, p1.Y-vertex.Y
	v2x, v2y := p2.X-vertex.X, p2.Y-vertex.Y

	mag1 := math.Hypot(v1x, v1y)
	mag2 := math.Hypot(v2x, v2y)
	if mag1 < epsilon || mag2 < epsilon {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y) / (mag1 * mag2)

	// Clamp before the inverse cosine to avoid domain errors
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// TurnAngle calculates the angle in degrees at point b between the segment
// directions a->b and b->c using atan2 differences. The result is mapped
// into [0, 180] by reflection.
func TurnAngle(a, b, c pose.Keypoint) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180 / math.Pi)

	if angle > 180 {
		angle = 360 - angle
	}
	return angle
}

// VerticalAngle calculates the angle in degrees between the segment p1->p2
// and the vertical axis (vertical-up reference, y increasing downward).
func VerticalAngle(p1, p2 pose.Keypoint) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Abs(math.Atan2(dx, -dy) * 180 / math.Pi)
}

// LineVerticalAngle calculates the angle between the line (x1,y1)-(x2,y2)
// and the vertical axis. This keeps the legacy behavior of returning 0
// when y1 is 0 or the points coincide.
func LineVerticalAngle(x1, y1, x2, y2 float64) float64 {
	if y1 == 0 {
		return 0
	}

	dist := math.Hypot(x2-x1, y2-y1)
	if dist < epsilon {
		return 0
	}

	cos := (y2 - y1) * (-y1) / (dist * y1)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// Distance calculates the Euclidean distance between two keypoints in the
// 2D image plane.
func Distance(p1, p2 pose.Keypoint) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// Visible reports whether every given keypoint clears the visibility
// threshold.
func Visible(threshold float64, points ...pose.Keypoint) bool {
	for _, p := range points {
		if p.Visibility <= threshold {
			return false
		}
	}
	return true
}
