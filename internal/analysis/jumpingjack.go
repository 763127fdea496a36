package analysis

import (
	"time"

	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// Jumping jack phases.
const (
	StateJackStarting  State = "JACK_STARTING"
	StateJackArmsUp    State = "ARMS_UP"
	StateJackLegsApart State = "LEGS_APART"
	StateJackReturning State = "RETURNING"
)

// JumpingJackAnalyzer counts jumping jacks on the arm raise angle and the
// ankle spread relative to hip width. It also times full cycles to give
// rhythm feedback, and can run in timed mode where the goal is a duration
// instead of a rep target.
type JumpingJackAnalyzer struct {
	baseAnalyzer

	state State

	armAngle  *SmoothingBuffer
	legSpread *SmoothingBuffer
	cycles    *SmoothingBuffer

	lastCycleStart time.Time
	haveCycleStart bool

	timedMode      bool
	targetDuration float64
	elapsed        float64
	lastTick       time.Time
	haveTick       bool

	now func() time.Time
}

// NewJumpingJackAnalyzer returns an analyzer in the idle state.
func NewJumpingJackAnalyzer(thresholds Thresholds) *JumpingJackAnalyzer {
	return &JumpingJackAnalyzer{
		baseAnalyzer: newBaseAnalyzer(thresholds),
		state:        StateIdle,
		armAngle:     NewSmoothingBuffer(5),
		legSpread:    NewSmoothingBuffer(5),
		cycles:       NewSmoothingBuffer(10),
		now:          time.Now,
	}
}

// Reset clears the smoothing buffers and cycle tracking. Timed-mode progress
// survives; it belongs to the set, not the rep.
func (a *JumpingJackAnalyzer) Reset() {
	a.armAngle.Clear()
	a.legSpread.Clear()
	a.cycles.Clear()
	a.haveCycleStart = false
	a.repError = false
}

func (a *JumpingJackAnalyzer) StateName() string { return string(a.state) }
func (a *JumpingJackAnalyzer) IsTimed() bool     { return a.timedMode }

// SetTimedMode switches between rep counting and duration mode.
func (a *JumpingJackAnalyzer) SetTimedMode(timed bool, seconds float64) {
	a.timedMode = timed
	a.targetDuration = seconds
	a.elapsed = 0
	a.haveTick = false
}

// SetTargetDuration enables timed mode with the given goal in seconds.
func (a *JumpingJackAnalyzer) SetTargetDuration(seconds float64) {
	a.SetTimedMode(seconds > 0, seconds)
}

// ElapsedTime returns the seconds spent in timed mode.
func (a *JumpingJackAnalyzer) ElapsedTime() float64 { return a.elapsed }

// RemainingTime returns the seconds left to the timed goal.
func (a *JumpingJackAnalyzer) RemainingTime() float64 {
	if !a.timedMode || a.targetDuration <= 0 {
		return 0
	}
	if rem := a.targetDuration - a.elapsed; rem > 0 {
		return rem
	}
	return 0
}

// jackMeasurements returns the smoothed arm raise angle (hip-shoulder-wrist,
// averaged over visible sides) and the smoothed ankle spread as a multiple
// of hip width.
func (a *JumpingJackAnalyzer) jackMeasurements(frame pose.Frame) (arm, spread float64, ok bool) {
	armRaw, armOK := jointAngle(frame,
		[2]string{pose.LeftHip, pose.RightHip},
		[2]string{pose.LeftShoulder, pose.RightShoulder},
		[2]string{pose.LeftWrist, pose.RightWrist})
	if !armOK {
		return 0, 0, false
	}
	if !frame.Has(pose.LeftHip, pose.RightHip, pose.LeftAnkle, pose.RightAnkle) {
		return 0, 0, false
	}
	hipWidth := geometry.Distance(frame[pose.LeftHip], frame[pose.RightHip])
	if hipWidth < 1 {
		return 0, 0, false
	}
	ankleDist := geometry.Distance(frame[pose.LeftAnkle], frame[pose.RightAnkle])

	a.armAngle.Push(armRaw)
	a.legSpread.Push(ankleDist / hipWidth)
	return a.armAngle.Average(), a.legSpread.Average(), true
}

// UpdateState advances the jumping jack state machine with one frame.
func (a *JumpingJackAnalyzer) UpdateState(frame pose.Frame) (State, []string) {
	arm, spread, ok := a.jackMeasurements(frame)
	if !ok {
		return a.state, []string{msgMoveIntoView}
	}

	if a.timedMode {
		if done := a.tickTimed(); done {
			return a.state, a.feedback.GetFeedback()
		}
	}

	extension := a.thresholds.Get("jumping_jack_arm_extension", 140)
	armsDown := a.thresholds.Get("jumping_jack_arms_down", 45)
	apart := a.thresholds.Get("jumping_jack_leg_spread", 1.8)
	together := a.thresholds.Get("jumping_jack_legs_together", 1.2)

	switch a.state {
	case StateIdle:
		if arm > 90 && arm < extension {
			a.recordCycleStart()
			a.state = StateJackStarting
			a.feedback.ClearFeedback()
			a.repError = false
		}

	case StateJackStarting:
		if arm >= extension {
			a.state = StateJackArmsUp
			a.analyzeForm(arm, spread)
		} else if arm < armsDown {
			a.state = StateIdle
		}

	case StateJackArmsUp:
		if spread >= apart {
			a.state = StateJackLegsApart
			a.analyzeForm(arm, spread)
		} else if arm < extension {
			a.flagError("Spread your legs wider")
			a.state = StateJackReturning
		}

	case StateJackLegsApart:
		if arm < extension || spread < apart {
			a.state = StateJackReturning
		}

	case StateJackReturning:
		if arm < armsDown && spread < together {
			a.state = StateCompleted
			a.finishRep()
			a.state = StateIdle
		}
	}

	return a.state, a.feedback.GetFeedback()
}

// tickTimed accrues elapsed time and reports whether the timed goal was just
// reached.
func (a *JumpingJackAnalyzer) tickTimed() bool {
	now := a.now()
	if a.haveTick {
		a.elapsed += now.Sub(a.lastTick).Seconds()
	}
	a.lastTick = now
	a.haveTick = true

	if a.targetDuration > 0 && a.elapsed >= a.targetDuration {
		a.repCount++
		a.feedback.AddFeedback(msgTimeComplete, PrioritySuccess)
		a.timedMode = false
		a.state = StateIdle
		return true
	}
	return false
}

// recordCycleStart times the gap between consecutive rep starts for rhythm
// feedback. Gaps outside a plausible human cadence are ignored.
func (a *JumpingJackAnalyzer) recordCycleStart() {
	now := a.now()
	if a.haveCycleStart {
		ct := now.Sub(a.lastCycleStart).Seconds()
		if ct > 0.1 && ct < 5.0 {
			a.cycles.Push(ct)
		}
	}
	a.lastCycleStart = now
	a.haveCycleStart = true
}

// analyzeForm judges extension and rhythm at phase peaks.
func (a *JumpingJackAnalyzer) analyzeForm(arm, spread float64) {
	faulted := false
	if arm < a.thresholds.Get("jumping_jack_arm_extension", 140) {
		a.flagError("Raise your arms higher")
		faulted = true
	}
	if a.state == StateJackLegsApart && spread < a.thresholds.Get("jumping_jack_leg_spread", 1.8) {
		a.flagError("Spread your legs wider")
		faulted = true
	}

	if a.cycles.Len() > 3 {
		avg := a.cycles.Average()
		if avg < 0.5 {
			a.feedback.AddFeedback("Slow down for better form", PriorityMedium)
		} else if avg > 2.0 {
			a.feedback.AddFeedback("Try to keep a steady rhythm", PriorityMedium)
		}
	}

	if !faulted && !a.repError {
		a.feedback.AddFeedback("Good jumping jack form", PriorityLow)
	}
}
