package analysis

import (
	"math"
	"testing"

	"github.com/ayusman/repcoach/internal/pose"
)

func curlFrames(angles ...float64) []pose.Frame {
	frames := make([]pose.Frame, len(angles))
	for i, a := range angles {
		frames[i] = pose.CurlPose(a)
	}
	return frames
}

func TestBicepCurlSingleCleanRep(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	state, feedback := feedFrames(a, curlFrames(175, 150, 120, 80, 70, 72, 90, 120, 155))

	if a.RepCount() != 1 {
		t.Errorf("rep count = %d, want 1", a.RepCount())
	}
	if state != StateIdle {
		t.Errorf("state = %v, want %v", state, StateIdle)
	}
	if len(feedback) != 1 || feedback[0] != "Correct form" {
		t.Errorf("feedback = %v, want [Correct form]", feedback)
	}
}

func TestBicepCurlNotHighEnough(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	// Top of the curl stalls at 110, above the 90 degree goal.
	_, _ = feedFrames(a, curlFrames(175, 150, 120, 110, 112, 130, 155))

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0", a.RepCount())
	}
	if a.FeedbackCounts()["Curl the weight higher"] == 0 {
		t.Errorf("expected 'Curl the weight higher', got %v", a.FeedbackCounts())
	}
}

func TestBicepCurlShortBottomExtension(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	clean := []float64{175, 150, 120, 80, 70, 72, 90, 120, 155}
	_, _ = feedFrames(a, curlFrames(clean...))
	if a.RepCount() != 1 {
		t.Fatalf("rep count = %d, want 1 after clean rep", a.RepCount())
	}

	// Starts the next rep from 140 without ever extending past 160.
	_, _ = feedFrames(a, curlFrames(140, 120, 70, 72, 95, 125, 155))

	if a.RepCount() != 1 {
		t.Errorf("rep count = %d, want 1 (second rep faulted)", a.RepCount())
	}
	if a.FeedbackCounts()["Extend your arm fully at the bottom"] == 0 {
		t.Errorf("expected extension feedback, got %v", a.FeedbackCounts())
	}
}

func TestBicepCurlFullExtensionBetweenReps(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	clean := []float64{175, 150, 120, 80, 70, 72, 90, 120, 155}
	_, _ = feedFrames(a, curlFrames(clean...))
	_, _ = feedFrames(a, curlFrames(168, 150, 120, 80, 70, 72, 90, 120, 155))

	if a.RepCount() != 2 {
		t.Errorf("rep count = %d, want 2", a.RepCount())
	}
}

// shiftJoints returns a copy of the frame with the named joints moved
// horizontally by dx pixels.
func shiftJoints(frame pose.Frame, dx float64, joints ...string) pose.Frame {
	shifted := pose.Frame{}
	for name, k := range frame {
		shifted[name] = k
	}
	for _, name := range joints {
		k := shifted[name]
		k.X += dx
		shifted[name] = k
	}
	return shifted
}

func TestBicepCurlElbowDrift(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	frames := curlFrames(175, 150)
	// The whole forearm jumps 10px sideways mid-descent, well past the
	// 5px elbow tolerance.
	frames = append(frames, shiftJoints(pose.CurlPose(120), 10, pose.LeftElbow, pose.LeftWrist))
	frames = append(frames, curlFrames(80, 70, 72, 90, 120, 155)...)

	_, _ = feedFrames(a, frames)

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0 for a faulted rep", a.RepCount())
	}
	counts := a.FeedbackCounts()
	if counts["Keep your elbow still"] == 0 {
		t.Errorf("expected 'Keep your elbow still', got %v", counts)
	}
	if counts[msgIncompleteRep] == 0 {
		t.Errorf("expected incomplete-rep message, got %v", counts)
	}
}

func TestBicepCurlBodySwingSeverity(t *testing.T) {
	cases := []struct {
		name    string
		hipPush float64
		message string
	}{
		// acos(170/hypot(59,170)) is about 19.1 degrees, just past the
		// 18 degree swing threshold but under the 20 degree doubling.
		{"slight", 59, "Your body is slightly swinging. Keep your body stable."},
		// acos(170/hypot(80,170)) is about 25.2 degrees.
		{"excessive", 80, "Your body is excessively swinging. Keep your body stable."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewBicepCurlAnalyzer(DefaultThresholds())

			frames := curlFrames(175, 150)
			frames = append(frames, shiftJoints(pose.CurlPose(120), tc.hipPush, pose.LeftHip))
			frames = append(frames, curlFrames(80, 70, 72, 90, 120, 155)...)

			_, _ = feedFrames(a, frames)

			if a.RepCount() != 0 {
				t.Errorf("rep count = %d, want 0", a.RepCount())
			}
			if a.FeedbackCounts()[tc.message] == 0 {
				t.Errorf("expected %q, got %v", tc.message, a.FeedbackCounts())
			}
		})
	}
}

// flaredCurlPose builds a left-arm curl frame with the upper arm held flare
// degrees away from the torso while the elbow bends to elbowAngle degrees.
func flaredCurlPose(flare, elbowAngle float64) pose.Frame {
	const upperArm, forearm = 70.0, 70.0
	flareRad := flare * math.Pi / 180
	wristRad := (flare - elbowAngle) * math.Pi / 180

	shoulder := pose.Keypoint{X: 300, Y: 160, Visibility: 0.95}
	elbow := pose.Keypoint{
		X:          shoulder.X + upperArm*math.Sin(flareRad),
		Y:          shoulder.Y + upperArm*math.Cos(flareRad),
		Visibility: 0.95,
	}
	wrist := pose.Keypoint{
		X:          elbow.X - forearm*math.Sin(wristRad),
		Y:          elbow.Y - forearm*math.Cos(wristRad),
		Visibility: 0.95,
	}

	return pose.Frame{
		pose.LeftShoulder: shoulder,
		pose.LeftElbow:    elbow,
		pose.LeftWrist:    wrist,
		pose.LeftHip:      pose.Keypoint{X: 300, Y: 330, Visibility: 0.95},
	}
}

func TestBicepCurlFlaredElbow(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	// Upper arm held 45 degrees off the torso for the whole rep, past
	// the 35 degree elbow-torso limit.
	var frames []pose.Frame
	for _, angle := range []float64{175, 150, 120, 80, 70, 72, 90, 120, 155} {
		frames = append(frames, flaredCurlPose(45, angle))
	}

	_, _ = feedFrames(a, frames)

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0", a.RepCount())
	}
	if a.FeedbackCounts()["Keep your upper arm still, excessive elbow movement"] == 0 {
		t.Errorf("expected elbow-torso feedback, got %v", a.FeedbackCounts())
	}
}

func TestBicepCurlMissingArms(t *testing.T) {
	a := NewBicepCurlAnalyzer(DefaultThresholds())

	state, feedback := a.UpdateState(pose.LegsPose(170))
	if state != StateIdle {
		t.Errorf("state = %v, want idle unchanged", state)
	}
	if len(feedback) != 1 || feedback[0] != "Can't detect arm position" {
		t.Errorf("feedback = %v", feedback)
	}
}

func TestBicepCurlPicksBentArm(t *testing.T) {
	// CurlPose only carries a complete left arm, so the working arm must
	// be the left one at the fixture's angle.
	_, angle, ok := workingArm(pose.CurlPose(80))
	if !ok {
		t.Fatal("workingArm() not ok")
	}
	if angle < 79 || angle > 81 {
		t.Errorf("angle = %v, want ~80", angle)
	}
}
