package analysis

import (
	"math"

	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// Lunge phases.
const (
	StateLungeStart State = "LUNGE_START"
	StateLungeDown  State = "LUNGE_DOWN"
	StateLungeHold  State = "LUNGE_HOLD"
	StateLungeUp    State = "LUNGE_UP"
)

// LungeAnalyzer tracks lunges on both knee angles. The forward leg is locked
// in at the start of each rep (the leg whose ankle is further forward, i.e.
// further from the hip center on the x axis) and the two knees are judged
// against separate angle windows at the bottom.
type LungeAnalyzer struct {
	baseAnalyzer

	state     State
	prevAngle float64

	startThreshold float64
	downThreshold  float64
	upThreshold    float64

	frontIsLeft   bool
	frontLocked   bool
	kneeDeviation *SmoothingBuffer

	minFrontKnee float64
	minBackKnee  float64
	minTorso     float64
}

// NewLungeAnalyzer returns an analyzer in the idle state.
func NewLungeAnalyzer(thresholds Thresholds) *LungeAnalyzer {
	a := &LungeAnalyzer{
		baseAnalyzer:   newBaseAnalyzer(thresholds),
		state:          StateIdle,
		startThreshold: 160,
		downThreshold:  140,
		upThreshold:    150,
		kneeDeviation:  NewSmoothingBuffer(5),
	}
	a.Reset()
	return a
}

// Reset clears per-rep trackers and unlocks the forward-leg choice.
func (a *LungeAnalyzer) Reset() {
	a.prevAngle = 180
	a.minFrontKnee = 180
	a.minBackKnee = 180
	a.minTorso = 180
	a.frontLocked = false
	a.kneeDeviation.Clear()
	a.repError = false
}

func (a *LungeAnalyzer) StateName() string { return string(a.state) }

// kneeAngles returns the left and right knee angles. ok is false when either
// leg is missing; a lunge needs both.
func kneeAngles(frame pose.Frame) (left, right float64, ok bool) {
	if !frame.Has(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle,
		pose.RightHip, pose.RightKnee, pose.RightAnkle) {
		return 0, 0, false
	}
	left = geometry.AngleAtVertex(frame[pose.LeftHip], frame[pose.LeftKnee], frame[pose.LeftAnkle])
	right = geometry.AngleAtVertex(frame[pose.RightHip], frame[pose.RightKnee], frame[pose.RightAnkle])
	return left, right, true
}

// lockFrontLeg decides which leg leads, by ankle distance from the hip
// center along x.
func (a *LungeAnalyzer) lockFrontLeg(frame pose.Frame) {
	hip, ok := frame.Center(pose.LeftHip, pose.RightHip)
	if !ok {
		return
	}
	leftReach := math.Abs(frame[pose.LeftAnkle].X - hip.X)
	rightReach := math.Abs(frame[pose.RightAnkle].X - hip.X)
	a.frontIsLeft = leftReach >= rightReach
	a.frontLocked = true
}

// UpdateState advances the lunge state machine with one frame.
func (a *LungeAnalyzer) UpdateState(frame pose.Frame) (State, []string) {
	left, right, ok := kneeAngles(frame)
	if !ok {
		return a.state, []string{msgMoveIntoView}
	}
	angle := math.Min(left, right)

	if a.frontLocked {
		front, back := right, left
		if a.frontIsLeft {
			front, back = left, right
		}
		if front < a.minFrontKnee {
			a.minFrontKnee = front
		}
		if back < a.minBackKnee {
			a.minBackKnee = back
		}
		a.trackAlignment(frame)
	}

	switch a.state {
	case StateIdle:
		if angle < a.startThreshold && angle < a.prevAngle {
			a.state = StateLungeStart
			a.feedback.ClearFeedback()
			a.Reset()
			a.lockFrontLeg(frame)
		}

	case StateLungeStart:
		if angle < a.downThreshold {
			a.state = StateLungeDown
		} else if angle > a.prevAngle+angleEpsilon {
			a.state = StateIdle
			a.feedback.ClearFeedback()
		}

	case StateLungeDown:
		if angle >= a.prevAngle-angleEpsilon {
			a.state = StateLungeHold
			a.analyzeForm()
		}

	case StateLungeHold:
		if angle > a.prevAngle {
			a.state = StateLungeUp
		}

	case StateLungeUp:
		if angle >= a.upThreshold {
			a.state = StateCompleted
			a.finishRep()
			a.state = StateIdle
		}
	}

	a.prevAngle = angle
	return a.state, a.feedback.GetFeedback()
}

// trackAlignment feeds the knee-over-foot and torso trackers while a rep is
// in progress. Knee alignment is judged on the front leg; the torso angle is
// measured against the trailing thigh, which points away from the shoulders
// when the user stays upright.
func (a *LungeAnalyzer) trackAlignment(frame pose.Frame) {
	frontKnee, frontAnkle := pose.RightKnee, pose.RightAnkle
	backHip, backShoulder, backKnee := pose.LeftHip, pose.LeftShoulder, pose.LeftKnee
	if a.frontIsLeft {
		frontKnee, frontAnkle = pose.LeftKnee, pose.LeftAnkle
		backHip, backShoulder, backKnee = pose.RightHip, pose.RightShoulder, pose.RightKnee
	}
	a.kneeDeviation.Push(math.Abs(frame[frontKnee].X - frame[frontAnkle].X))

	if frame.Has(backHip, backShoulder, backKnee) {
		torso := geometry.AngleAtVertex(frame[backShoulder], frame[backHip], frame[backKnee])
		if torso < a.minTorso {
			a.minTorso = torso
		}
	}
}

// analyzeForm judges the bottom of the rep: both knee windows, knee-over-
// foot alignment and torso posture.
func (a *LungeAnalyzer) analyzeForm() {
	faulted := false

	if a.minFrontKnee < a.thresholds.Get("lunge_front_knee_angle_min", 80) {
		a.flagError("Front knee bent too much")
		faulted = true
	} else if a.minFrontKnee > a.thresholds.Get("lunge_front_knee_angle_max", 100) {
		a.flagError("Bend front knee more")
		faulted = true
	}

	if a.minBackKnee < a.thresholds.Get("lunge_back_knee_angle_min", 80) {
		a.flagError("Back knee bent too much")
		faulted = true
	} else if a.minBackKnee > a.thresholds.Get("lunge_back_knee_angle_max", 110) {
		a.flagError("Lower your back knee more")
		faulted = true
	}

	if a.kneeDeviation.Len() > 0 &&
		a.kneeDeviation.Average() > a.thresholds.Get("lunge_knee_deviation", 20) {
		a.flagError("Keep front knee aligned with foot")
		faulted = true
	}

	if a.minTorso < 180 && a.minTorso < a.thresholds.Get("lunge_torso_upright", 160) {
		a.flagError("Keep your torso upright")
		faulted = true
	}

	if !faulted {
		a.feedback.AddFeedback(msgCorrectForm, PriorityLow)
	}
}
