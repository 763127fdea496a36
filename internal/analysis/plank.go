package analysis

import (
	"time"

	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// Plank phases.
const (
	StatePlankPosition State = "PLANK_POSITION"
	StatePlankHold     State = "PLANK_HOLD"
)

// requiredFramesInPosition is how many consecutive good frames confirm that
// the user is actually holding a plank rather than passing through it.
const requiredFramesInPosition = 5

// PlankAnalyzer is a timed analyzer. It confirms the plank position over
// several frames, then accumulates hold time until the position breaks or
// the target duration is reached. Each completed hold counts as one rep.
type PlankAnalyzer struct {
	baseAnalyzer

	state State

	bodyAngle    *SmoothingBuffer
	hipAlignment *SmoothingBuffer

	inPositionCount int
	holdTime        float64
	lastTick        time.Time
	haveTick        bool
	targetDuration  float64

	now func() time.Time
}

// NewPlankAnalyzer returns an analyzer in the idle state.
func NewPlankAnalyzer(thresholds Thresholds) *PlankAnalyzer {
	a := &PlankAnalyzer{
		baseAnalyzer: newBaseAnalyzer(thresholds),
		state:        StateIdle,
		bodyAngle:    NewSmoothingBuffer(10),
		hipAlignment: NewSmoothingBuffer(10),
		now:          time.Now,
	}
	return a
}

// Reset clears the hold timer and the smoothing buffers.
func (a *PlankAnalyzer) Reset() {
	a.bodyAngle.Clear()
	a.hipAlignment.Clear()
	a.inPositionCount = 0
	a.holdTime = 0
	a.haveTick = false
	a.repError = false
}

func (a *PlankAnalyzer) StateName() string { return string(a.state) }
func (a *PlankAnalyzer) IsTimed() bool     { return true }

// SetTargetDuration sets the hold goal in seconds. Zero means open-ended.
func (a *PlankAnalyzer) SetTargetDuration(seconds float64) { a.targetDuration = seconds }

// ElapsedTime returns the current hold time in seconds.
func (a *PlankAnalyzer) ElapsedTime() float64 { return a.holdTime }

// RemainingTime returns the seconds left to the target, or 0 when no target
// is set or it has been reached.
func (a *PlankAnalyzer) RemainingTime() float64 {
	if a.targetDuration <= 0 {
		return 0
	}
	if rem := a.targetDuration - a.holdTime; rem > 0 {
		return rem
	}
	return 0
}

// plankMeasurements returns the smoothed body-line angle and the smoothed
// hip deviation as a fraction of the shoulder-ankle distance. Positive
// deviation is a piked hip (raised above the body line for a standard
// side-on camera).
func (a *PlankAnalyzer) plankMeasurements(frame pose.Frame) (bodyAngle, hipDev float64, ok bool) {
	shoulder, ok1 := frame.Center(pose.LeftShoulder, pose.RightShoulder)
	hip, ok2 := frame.Center(pose.LeftHip, pose.RightHip)
	ankle, ok3 := frame.Center(pose.LeftAnkle, pose.RightAnkle)
	if !ok1 || !ok2 || !ok3 {
		return 0, 0, false
	}
	span := geometry.Distance(shoulder, ankle)
	if span < 1 {
		return 0, 0, false
	}

	a.bodyAngle.Push(geometry.AngleAtVertex(shoulder, hip, ankle))

	// Signed perpendicular offset of the hip from the shoulder-ankle
	// line. Image y grows downward, so a hip above the line (pike) gives
	// a negative cross product; flip the sign so pike reads positive.
	cross := (ankle.X-shoulder.X)*(hip.Y-shoulder.Y) - (ankle.Y-shoulder.Y)*(hip.X-shoulder.X)
	a.hipAlignment.Push(-cross / (span * span))

	return a.bodyAngle.Average(), a.hipAlignment.Average(), true
}

// inPosition reports whether the smoothed measurements describe a valid
// plank.
func (a *PlankAnalyzer) inPosition(bodyAngle, hipDev float64) bool {
	if bodyAngle < a.thresholds.Get("plank_body_straightness", 165) {
		return false
	}
	if hipDev > a.thresholds.Get("plank_hip_pike", 0.15) {
		return false
	}
	if hipDev < -a.thresholds.Get("plank_hip_sag", 0.10) {
		return false
	}
	return true
}

// UpdateState advances the plank state machine with one frame.
func (a *PlankAnalyzer) UpdateState(frame pose.Frame) (State, []string) {
	bodyAngle, hipDev, ok := a.plankMeasurements(frame)
	if !ok {
		return a.state, []string{msgMoveIntoView}
	}
	good := a.inPosition(bodyAngle, hipDev)

	switch a.state {
	case StateIdle:
		if good {
			a.inPositionCount++
			if a.inPositionCount >= requiredFramesInPosition {
				a.state = StatePlankPosition
				a.feedback.ClearFeedback()
				a.holdTime = 0
				a.lastTick = a.now()
				a.haveTick = true
			}
		} else {
			a.inPositionCount = 0
		}

	case StatePlankPosition:
		if good {
			a.state = StatePlankHold
			a.tick()
		} else {
			a.breakHold()
		}

	case StatePlankHold:
		if good {
			a.tick()
			a.analyzeForm(bodyAngle, hipDev)
			if a.targetDuration > 0 && a.holdTime >= a.targetDuration {
				a.state = StateCompleted
				a.repCount++
				a.feedback.AddFeedback(msgTimeComplete, PrioritySuccess)
				a.state = StateIdle
				a.inPositionCount = 0
				a.haveTick = false
			}
		} else {
			a.breakHold()
		}
	}

	return a.state, a.feedback.GetFeedback()
}

// tick accrues hold time from the last observed instant.
func (a *PlankAnalyzer) tick() {
	now := a.now()
	if a.haveTick {
		a.holdTime += now.Sub(a.lastTick).Seconds()
	}
	a.lastTick = now
	a.haveTick = true
}

// breakHold ends the current hold. Holds long enough to matter still count.
func (a *PlankAnalyzer) breakHold() {
	if a.state == StatePlankHold && a.holdTime >= a.thresholds.Get("plank_min_hold", 5) {
		a.repCount++
	}
	a.state = StateIdle
	a.inPositionCount = 0
	a.haveTick = false
}

// analyzeForm surfaces posture feedback during the hold. inPosition filters
// frames on the same limits, so a frame that reaches this point always
// reports good form; the corrective branches name which limit broke should
// the gate and form limits ever diverge.
func (a *PlankAnalyzer) analyzeForm(bodyAngle, hipDev float64) {
	switch {
	case hipDev > a.thresholds.Get("plank_hip_pike", 0.15):
		a.flagError("Lower your hips, don't pike")
	case hipDev < -a.thresholds.Get("plank_hip_sag", 0.10):
		a.flagError("Raise your hips, don't sag")
	case bodyAngle < a.thresholds.Get("plank_body_straightness", 165):
		a.flagError("Straighten your body")
	default:
		a.feedback.AddFeedback("Good plank form", PriorityLow)
	}
}
