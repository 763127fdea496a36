package analysis

import (
	"github.com/ayusman/repcoach/internal/geometry"
	"github.com/ayusman/repcoach/internal/pose"
)

// State labels a phase of an exercise repetition state machine.
type State string

// States shared by every analyzer. StateCompleted is transient: an analyzer
// that reaches it collapses back to StateIdle within the same update.
const (
	StateIdle      State = "IDLE"
	StateCompleted State = "COMPLETED"
)

// Feedback messages shared across analyzers.
const (
	msgMoveIntoView  = "Move into camera view"
	msgCorrectForm   = "Correct form"
	msgIncompleteRep = "Incomplete rep, check your form"
	msgTimeComplete  = "Time complete!"
)

// Analyzer is one exercise's repetition state machine. Implementations are
// not safe for concurrent use; the dispatcher serializes access.
type Analyzer interface {
	// UpdateState advances the state machine with one keypoint frame and
	// returns the new state plus the feedback messages to surface.
	UpdateState(frame pose.Frame) (State, []string)

	// Reset clears per-repetition buffers and phase snapshots. The rep
	// counter and accumulated feedback totals survive.
	Reset()

	RepCount() int
	StateName() string
	IsTimed() bool
}

// TimedAnalyzer is an Analyzer whose goal is a hold or elapsed duration
// rather than a rep target.
type TimedAnalyzer interface {
	Analyzer

	// SetTargetDuration sets the goal in seconds. Zero disables the goal.
	SetTargetDuration(seconds float64)
	ElapsedTime() float64
	RemainingTime() float64
}

// baseAnalyzer carries the pieces every analyzer shares: thresholds, the
// feedback manager, the rep counter and the current-rep error flag.
type baseAnalyzer struct {
	thresholds Thresholds
	feedback   *FeedbackManager
	repCount   int
	repError   bool
}

func newBaseAnalyzer(thresholds Thresholds) baseAnalyzer {
	return baseAnalyzer{
		thresholds: thresholds,
		feedback:   NewFeedbackManager(5),
	}
}

func (b *baseAnalyzer) RepCount() int { return b.repCount }
func (b *baseAnalyzer) IsTimed() bool { return false }

// FeedbackCounts exposes per-message totals for session aggregation.
func (b *baseAnalyzer) FeedbackCounts() map[string]int { return b.feedback.Counts() }

// finishRep credits or rejects the repetition that just completed.
func (b *baseAnalyzer) finishRep() {
	if b.repError {
		b.feedback.AddFeedback(msgIncompleteRep, PriorityMedium)
		return
	}
	b.repCount++
	b.feedback.AddFeedback(msgCorrectForm, PrioritySuccess)
}

// flagError records a form fault for the current rep.
func (b *baseAnalyzer) flagError(message string) {
	b.repError = true
	b.feedback.AddFeedback(message, PriorityHigh)
}

// jointAngle returns the angle at the middle joint averaged over the sides
// for which all three keypoints are present. ok is false when neither side
// is fully visible.
func jointAngle(frame pose.Frame, first, mid, last [2]string) (angle float64, ok bool) {
	var sum float64
	var n int
	for i := 0; i < 2; i++ {
		if !frame.Has(first[i], mid[i], last[i]) {
			continue
		}
		sum += geometry.AngleAtVertex(frame[first[i]], frame[mid[i]], frame[last[i]])
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
