package analysis

import (
	"math"

	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// Bicep curl phases.
const (
	StateCurlStart State = "CURL_START"
	StateCurlUp    State = "CURL_UP"
	StateCurlDown  State = "CURL_DOWN"
)

// BicepCurlAnalyzer tracks curls on the elbow angle of whichever arm is
// doing the work, with stability checks on the elbow position, the torso
// sway and the elbow-torso separation.
type BicepCurlAnalyzer struct {
	baseAnalyzer

	state     State
	prevAngle float64

	startThreshold float64
	downThreshold  float64

	elbowTorso *SmoothingBuffer

	minAngle float64
	maxAngle float64

	startElbow    pose.Keypoint
	haveStart     bool
	startBodyTilt float64
	haveBodyTilt  bool
	maxSwing      float64
}

// NewBicepCurlAnalyzer returns an analyzer in the idle state.
func NewBicepCurlAnalyzer(thresholds Thresholds) *BicepCurlAnalyzer {
	a := &BicepCurlAnalyzer{
		baseAnalyzer:   newBaseAnalyzer(thresholds),
		state:          StateIdle,
		startThreshold: 160,
		downThreshold:  150,
		elbowTorso:     NewSmoothingBuffer(5),
	}
	a.Reset()
	return a
}

// Reset clears per-rep trackers and the rep-start snapshots.
func (a *BicepCurlAnalyzer) Reset() {
	a.prevAngle = 180
	a.minAngle = 180
	a.maxAngle = 0
	a.haveStart = false
	a.haveBodyTilt = false
	a.maxSwing = 0
	a.elbowTorso.Clear()
	a.repError = false
}

func (a *BicepCurlAnalyzer) StateName() string { return string(a.state) }

// workingArm picks the side with the smaller elbow angle, on the assumption
// that the bent arm is the one curling. ok is false when neither arm is
// fully visible.
func workingArm(frame pose.Frame) (side int, angle float64, ok bool) {
	shoulders := [2]string{pose.LeftShoulder, pose.RightShoulder}
	elbows := [2]string{pose.LeftElbow, pose.RightElbow}
	wrists := [2]string{pose.LeftWrist, pose.RightWrist}

	best := -1
	bestAngle := math.MaxFloat64
	for i := 0; i < 2; i++ {
		if !frame.Has(shoulders[i], elbows[i], wrists[i]) {
			continue
		}
		v := geometry.AngleAtVertex(frame[shoulders[i]], frame[elbows[i]], frame[wrists[i]])
		if v < bestAngle {
			best, bestAngle = i, v
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestAngle, true
}

// UpdateState advances the curl state machine with one frame.
func (a *BicepCurlAnalyzer) UpdateState(frame pose.Frame) (State, []string) {
	side, angle, ok := workingArm(frame)
	if !ok {
		return a.state, []string{"Can't detect arm position"}
	}
	if angle < a.minAngle {
		a.minAngle = angle
	}
	if angle > a.maxAngle {
		a.maxAngle = angle
	}

	switch a.state {
	case StateIdle:
		if angle < a.startThreshold && angle < a.prevAngle {
			// Bottom extension between reps is the max angle seen
			// since the last rep finished.
			shortExtension := a.repCount > 0 && a.maxAngle < a.thresholds.Get("bicep_curl_not_low_enough", 160)
			a.state = StateCurlStart
			a.feedback.ClearFeedback()
			a.Reset()
			a.snapshotStart(frame, side)
			if shortExtension {
				a.flagError("Extend your arm fully at the bottom")
			}
		}

	case StateCurlStart:
		if angle >= a.prevAngle-angleEpsilon {
			// Top of the curl.
			a.state = StateCurlUp
			if a.minAngle > a.thresholds.Get("bicep_curl_not_high_enough", 90) {
				a.flagError("Curl the weight higher")
			} else if !a.repError {
				a.feedback.AddFeedback(msgCorrectForm, PriorityLow)
			}
		}

	case StateCurlUp:
		if angle > a.prevAngle+angleEpsilon {
			a.state = StateCurlDown
		}

	case StateCurlDown:
		if angle >= a.downThreshold {
			a.state = StateCompleted
			a.finishRep()
			a.state = StateIdle
		}
	}

	if a.state != StateIdle {
		a.analyzeForm(frame, side)
	}
	a.prevAngle = angle
	return a.state, a.feedback.GetFeedback()
}

// snapshotStart remembers where the elbow and torso were when the rep began
// so later frames can measure drift.
func (a *BicepCurlAnalyzer) snapshotStart(frame pose.Frame, side int) {
	elbows := [2]string{pose.LeftElbow, pose.RightElbow}
	hips := [2]string{pose.LeftHip, pose.RightHip}
	shoulders := [2]string{pose.LeftShoulder, pose.RightShoulder}

	a.startElbow = frame[elbows[side]]
	a.haveStart = true
	if tilt, ok := geometry.HipShoulderAngle(frame[hips[side]], frame[shoulders[side]], pose.DefaultVisibilityThreshold); ok && frame.Has(hips[side], shoulders[side]) {
		a.startBodyTilt = tilt
		a.haveBodyTilt = true
	}
}

// analyzeForm runs the stability checks every in-rep frame.
func (a *BicepCurlAnalyzer) analyzeForm(frame pose.Frame, side int) {
	elbows := [2]string{pose.LeftElbow, pose.RightElbow}
	hips := [2]string{pose.LeftHip, pose.RightHip}
	shoulders := [2]string{pose.LeftShoulder, pose.RightShoulder}

	if a.haveStart && frame.Has(elbows[side]) {
		drift := geometry.Distance(a.startElbow, frame[elbows[side]])
		if drift > a.thresholds.Get("bicep_curl_elbow_movement", 5) {
			a.flagError("Keep your elbow still")
		}
	}

	if a.haveBodyTilt && frame.Has(hips[side], shoulders[side]) {
		if tilt, ok := geometry.HipShoulderAngle(frame[hips[side]], frame[shoulders[side]], pose.DefaultVisibilityThreshold); ok {
			swing := math.Abs(tilt - a.startBodyTilt)
			if swing > a.maxSwing {
				a.maxSwing = swing
			}
			if swing > a.thresholds.Get("bicep_curl_body_swing_angle", 18) {
				severity := "slightly"
				if swing > 2*a.thresholds.Get("bicep_curl_body_swing", 10) {
					severity = "excessively"
				}
				a.flagError("Your body is " + severity + " swinging. Keep your body stable.")
			}
		}
	}

	left, right, avg, view := geometry.ElbowTorsoAngles(
		frame[pose.LeftHip], frame[pose.LeftShoulder], frame[pose.LeftElbow],
		frame[pose.RightHip], frame[pose.RightShoulder], frame[pose.RightElbow],
		pose.DefaultVisibilityThreshold)
	separation := avg
	switch view {
	case geometry.ViewLeftSide:
		separation = left
	case geometry.ViewRightSide:
		separation = right
	}
	if view != geometry.ViewUnclear {
		a.elbowTorso.Push(separation)
		if a.elbowTorso.Average() > a.thresholds.Get("bicep_curl_elbow_torso_angle", 35) {
			a.flagError("Keep your upper arm still, excessive elbow movement")
		}
	}

}
