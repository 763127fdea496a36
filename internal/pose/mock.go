package pose

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	frames []Frame
	next   int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets a single keypoint frame that Detect will keep returning.
func (m *MockDetector) SetFrame(frame Frame) {
	m.frames = []Frame{frame}
	m.next = 0
}

// SetSequence sets a sequence of keypoint frames. Detect returns them in
// order and keeps returning the last one once the sequence is exhausted.
func (m *MockDetector) SetSequence(frames []Frame) {
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.frames) == 0 {
		return Frame{}, nil
	}
	f := m.frames[m.next]
	if m.next < len(m.frames)-1 {
		m.next++
	}
	return f, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset pose fixtures. Coordinates are in pixels for a nominal 640x480
// frame, y increasing downward, matching the estimator's output scale.

const fixtureVisibility = 0.95

func kp(x, y float64) Keypoint {
	return Keypoint{X: x, Y: y, Visibility: fixtureVisibility}
}

// LegsPose returns a frame containing only hips, knees and ankles, with both
// legs bent so that the hip-knee-ankle angle equals kneeAngle degrees. The
// shin points straight down from the knee and the thigh is rotated to match.
func LegsPose(kneeAngle float64) Frame {
	frame := Frame{}
	rad := kneeAngle * math.Pi / 180
	const limb = 90.0 // thigh and shin length in pixels

	for i, kneeX := range []float64{290, 350} {
		knee := kp(kneeX, 300)
		ankle := kp(kneeX, 300+limb)
		hip := kp(kneeX+limb*math.Sin(rad), 300+limb*math.Cos(rad))

		if i == 0 {
			frame[LeftKnee] = knee
			frame[LeftAnkle] = ankle
			frame[LeftHip] = hip
		} else {
			frame[RightKnee] = knee
			frame[RightAnkle] = ankle
			frame[RightHip] = hip
		}
	}
	return frame
}

// StandingPose returns a full-body frame of a person standing upright with
// arms hanging straight down.
func StandingPose() Frame {
	frame := LegsPose(178)

	// Torso straight above the hips, arms straight down from the shoulders.
	leftHip := frame[LeftHip]
	rightHip := frame[RightHip]

	frame[LeftShoulder] = kp(leftHip.X, leftHip.Y-140)
	frame[RightShoulder] = kp(rightHip.X, rightHip.Y-140)
	frame[LeftElbow] = kp(leftHip.X, leftHip.Y-70)
	frame[RightElbow] = kp(rightHip.X, rightHip.Y-70)
	frame[LeftWrist] = kp(leftHip.X, leftHip.Y)
	frame[RightWrist] = kp(rightHip.X, rightHip.Y)

	return frame
}

// CurlPose returns a frame of a standing person with the left arm bent so
// that the shoulder-elbow-wrist angle equals elbowAngle degrees. The elbow
// stays fixed relative to the shoulder across calls, so varying elbowAngle
// over a sequence simulates a clean curl.
func CurlPose(elbowAngle float64) Frame {
	rad := elbowAngle * math.Pi / 180
	const forearm = 70.0

	shoulder := kp(300, 160)
	elbow := kp(300, 230)
	wrist := kp(elbow.X+forearm*math.Sin(rad), elbow.Y-forearm*math.Cos(rad))

	return Frame{
		LeftShoulder:  shoulder,
		LeftElbow:     elbow,
		LeftWrist:     wrist,
		LeftHip:       kp(300, 330),
		RightShoulder: kp(360, 160),
		RightHip:      kp(360, 330),
	}
}

// PushupPose returns a frame of a horizontal body with the elbow angle set
// to elbowAngle degrees and the hips offset vertically from the
// shoulder line by hipDrop pixels (positive = sagging toward the floor).
func PushupPose(elbowAngle, hipDrop float64) Frame {
	rad := elbowAngle * math.Pi / 180
	const forearm = 70.0

	frame := Frame{}
	for i, y := range []float64{300, 310} {
		shoulder := kp(200, y)
		elbow := kp(200, y+70)
		wrist := kp(elbow.X+forearm*math.Sin(rad), elbow.Y-forearm*math.Cos(rad))
		hip := kp(380, y+hipDrop)
		ankle := kp(540, y)

		if i == 0 {
			frame[LeftShoulder] = shoulder
			frame[LeftElbow] = elbow
			frame[LeftWrist] = wrist
			frame[LeftHip] = hip
			frame[LeftAnkle] = ankle
		} else {
			frame[RightShoulder] = shoulder
			frame[RightElbow] = elbow
			frame[RightWrist] = wrist
			frame[RightHip] = hip
			frame[RightAnkle] = ankle
		}
	}
	return frame
}

// PlankPose returns a frame of a horizontal plank. hipDrop shifts the hips
// off the shoulder-ankle line by the given fraction of the shoulder-ankle
// distance (positive = hips above the line in image terms).
func PlankPose(hipDrop float64) Frame {
	frame := Frame{}
	const span = 360.0 // shoulder to ankle distance in pixels

	for i, y := range []float64{300, 308} {
		shoulder := kp(140, y)
		ankle := kp(140+span, y)
		hip := kp(140+span/2, y-hipDrop*span)

		if i == 0 {
			frame[LeftShoulder] = shoulder
			frame[LeftHip] = hip
			frame[LeftAnkle] = ankle
		} else {
			frame[RightShoulder] = shoulder
			frame[RightHip] = hip
			frame[RightAnkle] = ankle
		}
	}
	return frame
}

// LungePose returns a legs-only frame of a lunge with the left leg forward.
// Each shin is vertical so the front knee stays over the foot; the thighs
// are rotated so the hip-knee-ankle angles equal frontKnee and backKnee
// degrees.
func LungePose(frontKnee, backKnee float64) Frame {
	const limb = 90.0
	frontRad := frontKnee * math.Pi / 180
	backRad := backKnee * math.Pi / 180

	leftKnee := kp(240, 300)
	rightKnee := kp(360, 300)

	return Frame{
		LeftKnee:   leftKnee,
		LeftAnkle:  kp(leftKnee.X, leftKnee.Y+limb),
		LeftHip:    kp(leftKnee.X+limb*math.Sin(frontRad), leftKnee.Y+limb*math.Cos(frontRad)),
		RightKnee:  rightKnee,
		RightAnkle: kp(rightKnee.X, rightKnee.Y+limb),
		RightHip:   kp(rightKnee.X-limb*math.Sin(backRad), rightKnee.Y+limb*math.Cos(backRad)),
	}
}

// JumpingJackPose returns a frame with the arms raised so the hip-shoulder-
// wrist angle equals armAngle degrees and the ankles spread to legRatio
// times the hip width.
func JumpingJackPose(armAngle, legRatio float64) Frame {
	rad := armAngle * math.Pi / 180
	const arm = 100.0
	const hipWidth = 60.0

	frame := Frame{}
	for i, x := range []float64{290, 290 + hipWidth} {
		sign := float64(1)
		if i == 0 {
			sign = -1
		}

		shoulder := kp(x, 160)
		hip := kp(x, 300)
		// Rotate the wrist around the shoulder: 0 deg puts the arm along
		// the shoulder-hip line (straight down), 180 deg straight up.
		wrist := kp(shoulder.X+sign*arm*math.Sin(rad), shoulder.Y+arm*math.Cos(rad))
		ankle := kp(290+hipWidth/2+sign*legRatio*hipWidth/2, 470)

		if i == 0 {
			frame[LeftShoulder] = shoulder
			frame[LeftHip] = hip
			frame[LeftWrist] = wrist
			frame[LeftAnkle] = ankle
		} else {
			frame[RightShoulder] = shoulder
			frame[RightHip] = hip
			frame[RightWrist] = wrist
			frame[RightAnkle] = ankle
		}
	}
	return frame
}
