package analysis

import (
	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// Pushup phases.
const (
	StatePushupStart State = "PUSHUP_START"
	StatePushupDown  State = "PUSHUP_DOWN"
	StatePushupHold  State = "PUSHUP_HOLD"
	StatePushupUp    State = "PUSHUP_UP"
)

// PushupAnalyzer tracks pushups on the elbow angle, with a hip alignment
// check that catches sagging or piking relative to the shoulder-ankle line.
type PushupAnalyzer struct {
	baseAnalyzer

	state     State
	prevAngle float64

	startThreshold float64
	downThreshold  float64
	upThreshold    float64

	hipAlignment *SmoothingBuffer

	minAngle float64
}

// NewPushupAnalyzer returns an analyzer in the idle state.
func NewPushupAnalyzer(thresholds Thresholds) *PushupAnalyzer {
	a := &PushupAnalyzer{
		baseAnalyzer:   newBaseAnalyzer(thresholds),
		state:          StateIdle,
		startThreshold: 160,
		downThreshold:  140,
		upThreshold:    150,
		hipAlignment:   NewSmoothingBuffer(5),
	}
	a.Reset()
	return a
}

// Reset clears the per-rep trackers.
func (a *PushupAnalyzer) Reset() {
	a.prevAngle = 180
	a.minAngle = 180
	a.hipAlignment.Clear()
	a.repError = false
}

func (a *PushupAnalyzer) StateName() string { return string(a.state) }

// hipOffset measures how far the hip center sits off the shoulder-ankle
// line, in pixels. Positive means the hips hang below the line (sag for a
// camera looking at the side of the body).
func hipOffset(frame pose.Frame) (float64, bool) {
	shoulder, ok1 := frame.Center(pose.LeftShoulder, pose.RightShoulder)
	hip, ok2 := frame.Center(pose.LeftHip, pose.RightHip)
	ankle, ok3 := frame.Center(pose.LeftAnkle, pose.RightAnkle)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	span := geometry.Distance(shoulder, ankle)
	if span < 1 {
		return 0, false
	}
	// Signed perpendicular distance via the cross product of the body
	// line and the shoulder-hip vector. Image y grows downward, so a
	// positive value is a hip below the line.
	cross := (ankle.X-shoulder.X)*(hip.Y-shoulder.Y) - (ankle.Y-shoulder.Y)*(hip.X-shoulder.X)
	return cross / span, true
}

// UpdateState advances the pushup state machine with one frame.
func (a *PushupAnalyzer) UpdateState(frame pose.Frame) (State, []string) {
	angle, ok := jointAngle(frame,
		[2]string{pose.LeftShoulder, pose.RightShoulder},
		[2]string{pose.LeftElbow, pose.RightElbow},
		[2]string{pose.LeftWrist, pose.RightWrist})
	if !ok {
		return a.state, []string{msgMoveIntoView}
	}
	if angle < a.minAngle {
		a.minAngle = angle
	}
	if off, okOff := hipOffset(frame); okOff {
		a.hipAlignment.Push(off)
	}

	switch a.state {
	case StateIdle:
		if angle < a.startThreshold && angle < a.prevAngle {
			a.state = StatePushupStart
			a.feedback.ClearFeedback()
			a.Reset()
		}

	case StatePushupStart:
		if angle < a.downThreshold {
			a.state = StatePushupDown
		} else if angle > a.prevAngle+angleEpsilon {
			a.state = StateIdle
			a.feedback.ClearFeedback()
		}

	case StatePushupDown:
		if angle >= a.prevAngle-angleEpsilon {
			a.state = StatePushupHold
			a.analyzeForm()
		}

	case StatePushupHold:
		if angle > a.prevAngle {
			a.state = StatePushupUp
		}

	case StatePushupUp:
		if angle >= a.upThreshold {
			a.state = StateCompleted
			a.finishRep()
			a.state = StateIdle
		}
	}

	a.prevAngle = angle
	return a.state, a.feedback.GetFeedback()
}

// analyzeForm judges the bottom of the rep: depth plus hip alignment.
func (a *PushupAnalyzer) analyzeForm() {
	faulted := false
	if a.minAngle < a.thresholds.Get("pushup_too_low", 70) {
		a.flagError("You're going too low")
		faulted = true
	} else if a.minAngle >= a.thresholds.Get("pushup_not_low_enough", 120) {
		a.flagError("Lower your chest more")
		faulted = true
	}
	if a.hipAlignment.Len() > 0 {
		off := a.hipAlignment.Average()
		if off > a.thresholds.Get("pushup_hip_sag", 15) {
			a.flagError("Keep your hips up, core engaged")
			faulted = true
		} else if off < -a.thresholds.Get("pushup_hip_pike", 25) {
			a.flagError("Lower your hips, maintain a straight line")
			faulted = true
		}
	}
	if !faulted {
		a.feedback.AddFeedback(msgCorrectForm, PriorityLow)
	}
}
