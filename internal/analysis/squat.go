package analysis

import (
	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// Squat phases.
const (
	StateSquatStart State = "SQUAT_START"
	StateSquatDown  State = "SQUAT_DOWN"
	StateSquatHold  State = "SQUAT_HOLD"
	StateSquatUp    State = "SQUAT_UP"
)

// angleEpsilon absorbs frame-to-frame jitter when deciding that a descending
// angle has bottomed out.
const angleEpsilon = 0.5

// SquatAnalyzer tracks squats through a five-phase cycle keyed on the knee
// angle, with an optional forward-lean check on the back when shoulders are
// visible.
type SquatAnalyzer struct {
	baseAnalyzer

	state         State
	prevKneeAngle float64

	startThreshold float64
	downThreshold  float64

	minKneeAngle float64
	maxBackAngle float64
}

// NewSquatAnalyzer returns an analyzer in the idle state.
func NewSquatAnalyzer(thresholds Thresholds) *SquatAnalyzer {
	a := &SquatAnalyzer{
		baseAnalyzer:   newBaseAnalyzer(thresholds),
		state:          StateIdle,
		startThreshold: 160,
		downThreshold:  120,
	}
	a.Reset()
	return a
}

// Reset clears the per-rep angle trackers. State and counters survive.
func (a *SquatAnalyzer) Reset() {
	a.prevKneeAngle = 180
	a.minKneeAngle = 180
	a.maxBackAngle = 0
	a.repError = false
}

func (a *SquatAnalyzer) StateName() string { return string(a.state) }

// squatAngles extracts the knee angle and, when the torso is visible, the
// forward-lean angle of the back relative to vertical.
func (a *SquatAnalyzer) squatAngles(frame pose.Frame) (knee, back float64, kneeOK, backOK bool) {
	knee, kneeOK = jointAngle(frame,
		[2]string{pose.LeftHip, pose.RightHip},
		[2]string{pose.LeftKnee, pose.RightKnee},
		[2]string{pose.LeftAnkle, pose.RightAnkle})

	var sum float64
	var n int
	for _, side := range [][2]string{
		{pose.LeftHip, pose.LeftShoulder},
		{pose.RightHip, pose.RightShoulder},
	} {
		if !frame.Has(side[0], side[1]) {
			continue
		}
		hip, shoulder := frame[side[0]], frame[side[1]]
		// Angle at the shoulder between the hip and a point straight
		// below the shoulder, so an upright back reads near zero.
		vertical := pose.Keypoint{X: shoulder.X, Y: hip.Y, Visibility: 1}
		sum += geometry.AngleAtVertex(hip, shoulder, vertical)
		n++
	}
	if n > 0 {
		back = sum / float64(n)
		backOK = true
	}
	return knee, back, kneeOK, backOK
}

// UpdateState advances the squat state machine with one frame.
func (a *SquatAnalyzer) UpdateState(frame pose.Frame) (State, []string) {
	knee, back, kneeOK, backOK := a.squatAngles(frame)
	if !kneeOK {
		return a.state, []string{msgMoveIntoView}
	}
	if knee < a.minKneeAngle {
		a.minKneeAngle = knee
	}
	if backOK && back > a.maxBackAngle {
		a.maxBackAngle = back
	}

	switch a.state {
	case StateIdle:
		if knee < a.startThreshold && knee < a.prevKneeAngle {
			a.state = StateSquatStart
			a.feedback.ClearFeedback()
			a.Reset()
		}

	case StateSquatStart:
		if knee < a.downThreshold {
			a.state = StateSquatDown
		} else if knee > a.prevKneeAngle+angleEpsilon {
			// Stood back up without descending.
			a.state = StateIdle
			a.feedback.ClearFeedback()
		}

	case StateSquatDown:
		if knee >= a.prevKneeAngle-angleEpsilon {
			a.state = StateSquatHold
			a.analyzeForm(backOK)
		}

	case StateSquatHold:
		if knee > a.prevKneeAngle {
			a.state = StateSquatUp
		}

	case StateSquatUp:
		if knee >= a.startThreshold {
			a.state = StateCompleted
			a.finishRep()
			a.state = StateIdle
		}
	}

	a.prevKneeAngle = knee
	return a.state, a.feedback.GetFeedback()
}

// analyzeForm judges the bottom of the rep using the per-rep extremes.
func (a *SquatAnalyzer) analyzeForm(backOK bool) {
	faulted := false
	if a.minKneeAngle < a.thresholds.Get("squat_too_deep", 68) {
		a.flagError("Don't squat too deep")
		faulted = true
	} else if a.minKneeAngle >= a.thresholds.Get("squat_not_deep_enough", 91) {
		a.flagError("Lower your hips")
		faulted = true
	}
	if backOK {
		if a.maxBackAngle < a.thresholds.Get("squat_forward_bend_too_little", 19) {
			a.flagError("Bend forward more")
			faulted = true
		} else if a.maxBackAngle > a.thresholds.Get("squat_forward_bend_too_much", 50) {
			a.flagError("Forward bending too much")
			faulted = true
		}
	}
	if !faulted {
		a.feedback.AddFeedback(msgCorrectForm, PriorityLow)
	}
}
