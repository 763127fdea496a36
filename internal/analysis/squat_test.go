package analysis

import (
	"math"
	"testing"

	"github.com/ayusman/repcoach/internal/pose"
)

// feedFrames runs a sequence of frames through an analyzer and returns the
// final state and the last surfaced feedback.
func feedFrames(a Analyzer, frames []pose.Frame) (State, []string) {
	var state State
	var feedback []string
	for _, f := range frames {
		state, feedback = a.UpdateState(f)
	}
	return state, feedback
}

func legFrames(angles ...float64) []pose.Frame {
	frames := make([]pose.Frame, len(angles))
	for i, a := range angles {
		frames[i] = pose.LegsPose(a)
	}
	return frames
}

func TestSquatSingleCleanRep(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	state, feedback := feedFrames(a, legFrames(170, 150, 120, 88, 90, 130, 165))

	if a.RepCount() != 1 {
		t.Errorf("rep count = %d, want 1", a.RepCount())
	}
	if state != StateIdle {
		t.Errorf("state = %v, want %v (completion collapses to idle)", state, StateIdle)
	}
	if len(feedback) != 1 || feedback[0] != "Correct form" {
		t.Errorf("feedback = %v, want [Correct form]", feedback)
	}
}

func TestSquatPhaseSequence(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	var states []State
	for _, f := range legFrames(170, 150, 120, 88, 90, 130, 165) {
		s, _ := a.UpdateState(f)
		states = append(states, s)
	}

	want := []State{
		StateIdle, StateSquatStart, StateSquatDown, StateSquatDown,
		StateSquatHold, StateSquatUp, StateIdle,
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("frame %d: state = %v, want %v", i, states[i], want[i])
		}
	}
}

func TestSquatNotDeepEnough(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	// Bottoms out at 95, shy of the 91 degree depth threshold.
	_, _ = feedFrames(a, legFrames(170, 150, 120, 95, 97, 130, 165))

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0 for a faulted rep", a.RepCount())
	}
	counts := a.FeedbackCounts()
	if counts["Lower your hips"] == 0 {
		t.Errorf("expected 'Lower your hips', got %v", counts)
	}
	if counts[msgIncompleteRep] == 0 {
		t.Errorf("expected incomplete-rep message, got %v", counts)
	}
}

func TestSquatTooDeep(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	_, _ = feedFrames(a, legFrames(170, 150, 120, 60, 62, 130, 165))

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0", a.RepCount())
	}
	if a.FeedbackCounts()["Don't squat too deep"] == 0 {
		t.Errorf("expected 'Don't squat too deep', got %v", a.FeedbackCounts())
	}
}

func TestSquatAbortedDescentReturnsToIdle(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	// Dips to 150 and stands straight back up without reaching depth.
	state, _ := feedFrames(a, legFrames(170, 150, 155, 165, 170))

	if state != StateIdle {
		t.Errorf("state = %v, want %v", state, StateIdle)
	}
	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0", a.RepCount())
	}
}

func TestSquatMissingLegsHoldsState(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	state, feedback := a.UpdateState(pose.Frame{})
	if state != StateIdle {
		t.Errorf("state = %v, want idle unchanged", state)
	}
	if len(feedback) != 1 || feedback[0] != msgMoveIntoView {
		t.Errorf("feedback = %v, want [%s]", feedback, msgMoveIntoView)
	}
}

func TestSquatConsecutiveReps(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	rep := []float64{170, 150, 120, 88, 90, 130, 165}
	var angles []float64
	for i := 0; i < 3; i++ {
		angles = append(angles, rep...)
	}
	_, _ = feedFrames(a, legFrames(angles...))

	if a.RepCount() != 3 {
		t.Errorf("rep count = %d, want 3", a.RepCount())
	}
}

// leanLegFrames adds shoulders above the hips tilted forward by lean degrees
// from vertical, so the back check participates alongside the knee tracking.
func leanLegFrames(lean float64, angles ...float64) []pose.Frame {
	const torso = 140.0
	rad := lean * math.Pi / 180

	frames := legFrames(angles...)
	for _, f := range frames {
		for _, side := range [][2]string{
			{pose.LeftHip, pose.LeftShoulder},
			{pose.RightHip, pose.RightShoulder},
		} {
			hip := f[side[0]]
			f[side[1]] = pose.Keypoint{
				X:          hip.X + torso*math.Sin(rad),
				Y:          hip.Y - torso*math.Cos(rad),
				Visibility: 0.95,
			}
		}
	}
	return frames
}

func TestSquatForwardLeanWithinBand(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	// A 30 degree lean sits inside the 19-50 degree window.
	state, feedback := feedFrames(a, leanLegFrames(30, 170, 150, 120, 88, 90, 130, 165))

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

func TestSquatBackTooUpright(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	// Leaning only 10 degrees, under the 19 degree minimum.
	_, _ = feedFrames(a, leanLegFrames(10, 170, 150, 120, 88, 90, 130, 165))

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0 for a faulted rep", a.RepCount())
	}
	counts := a.FeedbackCounts()
	if counts["Bend forward more"] == 0 {
		t.Errorf("expected 'Bend forward more', got %v", counts)
	}
	if counts[msgIncompleteRep] == 0 {
		t.Errorf("expected incomplete-rep message, got %v", counts)
	}
}

func TestSquatLeansTooFarForward(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())

	// A 60 degree lean, past the 50 degree maximum.
	_, _ = feedFrames(a, leanLegFrames(60, 170, 150, 120, 88, 90, 130, 165))

	if a.RepCount() != 0 {
		t.Errorf("rep count = %d, want 0", a.RepCount())
	}
	if a.FeedbackCounts()["Forward bending too much"] == 0 {
		t.Errorf("expected 'Forward bending too much', got %v", a.FeedbackCounts())
	}
}

func TestSquatResetClearsPerRepStateOnly(t *testing.T) {
	a := NewSquatAnalyzer(DefaultThresholds())
	_, _ = feedFrames(a, legFrames(170, 150, 120, 88, 90, 130, 165))

	a.Reset()
	if a.RepCount() != 1 {
		t.Errorf("rep count after reset = %d, want 1", a.RepCount())
	}

	// A fresh rep still counts cleanly after the reset.
	_, _ = feedFrames(a, legFrames(170, 150, 120, 88, 90, 130, 165))
	if a.RepCount() != 2 {
		t.Errorf("rep count = %d, want 2", a.RepCount())
	}
}
