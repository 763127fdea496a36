package geometry

import (
	"math"
	"testing"

	"github.com/ayusman/repcoach/internal/pose"
)

func pt(x, y float64) pose.Keypoint {
	return pose.Keypoint{X: x, Y: y, Visibility: 1}
}

func TestAngleAtVertex_RightAngle(t *testing.T) {
	angle := AngleAtVertex(pt(1, 0), pt(0, 0), pt(0, 1))
	if math.Abs(angle-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %f", angle)
	}
}

func TestAngleAtVertex_StraightLine(t *testing.T) {
	angle := AngleAtVertex(pt(-1, 0), pt(0, 0), pt(1, 0))
	if math.Abs(angle-180) > 1e-9 {
		t.Errorf("expected 180 degrees, got %f", angle)
	}
}

func TestAngleAtVertex_Degenerate(t *testing.T) {
	// Coincident endpoints: the angle between identical vectors is 0.
	angle := AngleAtVertex(pt(1, 1), pt(0, 0), pt(1, 1))
	if angle != 0 {
		t.Errorf("expected 0 for identical endpoints, got %f", angle)
	}

	// Zero-length vector: vertex coincides with an endpoint.
	angle = AngleAtVertex(pt(0, 0), pt(0, 0), pt(1, 1))
	if angle != 0 {
		t.Errorf("expected 0 for zero-length vector, got %f", angle)
	}
	if math.IsNaN(angle) {
		t.Error("degenerate input must not produce NaN")
	}
}

func TestTurnAngle_Reflection(t *testing.T) {
	// A sharp turn whose raw atan2 difference exceeds 180 must reflect
	// back into [0, 180].
	angle := TurnAngle(pt(0, 1), pt(0, 0), pt(-1, -0.1))
	if angle < 0 || angle > 180 {
		t.Errorf("turn angle %f outside [0, 180]", angle)
	}
}

func TestTurnAngle_StraightLine(t *testing.T) {
	angle := TurnAngle(pt(0, 0), pt(1, 0), pt(2, 0))
	if math.Abs(angle-180) > 1e-9 {
		t.Errorf("expected 180 for collinear points, got %f", angle)
	}
}

func TestVerticalAngle(t *testing.T) {
	// Segment pointing straight up (y decreasing) is 0 degrees from vertical.
	angle := VerticalAngle(pt(0, 10), pt(0, 0))
	if math.Abs(angle) > 1e-9 {
		t.Errorf("expected 0 for vertical segment, got %f", angle)
	}

	// Horizontal segment is 90 degrees from vertical.
	angle = VerticalAngle(pt(0, 0), pt(10, 0))
	if math.Abs(angle-90) > 1e-9 {
		t.Errorf("expected 90 for horizontal segment, got %f", angle)
	}

	// 45 degree diagonal.
	angle = VerticalAngle(pt(0, 10), pt(10, 0))
	if math.Abs(angle-45) > 1e-9 {
		t.Errorf("expected 45 degrees, got %f", angle)
	}
}

func TestLineVerticalAngle_Degenerate(t *testing.T) {
	if got := LineVerticalAngle(5, 0, 10, 10); got != 0 {
		t.Errorf("expected 0 when y1 is 0, got %f", got)
	}
	if got := LineVerticalAngle(3, 4, 3, 4); got != 0 {
		t.Errorf("expected 0 for coincident points, got %f", got)
	}
}

func TestLineVerticalAngle_StraightDown(t *testing.T) {
	// Line pointing straight down the image (y increasing).
	got := LineVerticalAngle(100, 100, 100, 200)
	if math.Abs(got-180) > 1e-9 {
		t.Errorf("expected 180 for downward line, got %f", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(pt(0, 0), pt(3, 4)); got != 5 {
		t.Errorf("expected distance 5, got %f", got)
	}
	if got := Distance(pt(2, 2), pt(2, 2)); got != 0 {
		t.Errorf("expected distance 0, got %f", got)
	}
}

func TestVisible(t *testing.T) {
	visible := pose.Keypoint{X: 1, Y: 1, Visibility: 0.9}
	hidden := pose.Keypoint{X: 1, Y: 1, Visibility: 0.3}

	if !Visible(0.6, visible, visible) {
		t.Error("expected all visible keypoints to pass")
	}
	if Visible(0.6, visible, hidden) {
		t.Error("expected a hidden keypoint to fail the check")
	}
}

func TestElbowTorsoAngles_Views(t *testing.T) {
	hip := pt(0, 100)
	shoulder := pt(0, 0)
	elbow := pt(50, 10)
	hidden := pose.Keypoint{Visibility: 0.1}

	_, _, avg, view := ElbowTorsoAngles(hip, shoulder, elbow, hip, shoulder, elbow, 0.6)
	if view != ViewFront {
		t.Errorf("expected front view, got %s", view)
	}
	if avg <= 0 {
		t.Errorf("expected positive average angle, got %f", avg)
	}

	_, _, _, view = ElbowTorsoAngles(hip, shoulder, elbow, hidden, hidden, hidden, 0.6)
	if view != ViewLeftSide {
		t.Errorf("expected left_side view, got %s", view)
	}

	_, _, _, view = ElbowTorsoAngles(hidden, hidden, hidden, hidden, hidden, hidden, 0.6)
	if view != ViewUnclear {
		t.Errorf("expected unclear view, got %s", view)
	}
}

func TestHipShoulderAngle_VisibilityGate(t *testing.T) {
	hip := pt(100, 200)
	shoulder := pt(100, 100)

	angle, ok := HipShoulderAngle(hip, shoulder, 0.6)
	if !ok {
		t.Fatal("expected visible joints to produce an angle")
	}
	if math.Abs(angle) > 1e-9 {
		t.Errorf("expected 0 for an upright torso, got %f", angle)
	}

	_, ok = HipShoulderAngle(pose.Keypoint{Visibility: 0.2}, shoulder, 0.6)
	if ok {
		t.Error("expected hidden hip to fail the visibility gate")
	}
}
