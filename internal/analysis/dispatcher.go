package analysis

import (
	"log"
	"strings"
	"sync"

	"github.com/ayusman/repcoach/internal/pose"
)

// Canonical exercise names.
const (
	ExerciseSquat       = "squat"
	ExerciseBicepCurl   = "bicep curl"
	ExercisePushup      = "pushup"
	ExerciseLunge       = "lunge"
	ExercisePlank       = "plank"
	ExerciseJumpingJack = "jumping jack"
)

// exerciseSynonyms maps common spellings to canonical names.
var exerciseSynonyms = map[string]string{
	"curl":          ExerciseBicepCurl,
	"curls":         ExerciseBicepCurl,
	"bicep":         ExerciseBicepCurl,
	"biceps":        ExerciseBicepCurl,
	"bicep curls":   ExerciseBicepCurl,
	"squats":        ExerciseSquat,
	"push-up":       ExercisePushup,
	"push up":       ExercisePushup,
	"pushups":       ExercisePushup,
	"push-ups":      ExercisePushup,
	"lunges":        ExerciseLunge,
	"planks":        ExercisePlank,
	"jumping jacks": ExerciseJumpingJack,
	"jumps":         ExerciseJumpingJack,
	"jump":          ExerciseJumpingJack,
}

var canonicalExercises = []string{
	ExerciseSquat, ExerciseBicepCurl, ExercisePushup,
	ExerciseLunge, ExercisePlank, ExerciseJumpingJack,
}

// ResolveExerciseName normalizes a free-form exercise name to a canonical
// one. Unresolvable names fall back to squat with a logged warning.
func ResolveExerciseName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range canonicalExercises {
		if n == c {
			return c
		}
	}
	if c, ok := exerciseSynonyms[n]; ok {
		return c
	}
	for _, c := range canonicalExercises {
		if strings.Contains(n, c) || (n != "" && strings.Contains(c, n)) {
			return c
		}
	}
	log.Printf("analysis: unknown exercise %q, defaulting to %s", name, ExerciseSquat)
	return ExerciseSquat
}

// ExerciseStatus is the per-frame snapshot published to the UI.
type ExerciseStatus struct {
	Name           string   `json:"name"`
	RepCount       int      `json:"rep_count"`
	State          string   `json:"state"`
	Feedback       []string `json:"feedback"`
	TargetReps     int      `json:"target_reps"`
	TargetSets     int      `json:"target_sets"`
	CurrentSet     int      `json:"current_set"`
	IsTimed        bool     `json:"is_timed"`
	ElapsedTime    float64  `json:"elapsed_time"`
	RemainingTime  float64  `json:"remaining_time"`
	TargetDuration float64  `json:"target_duration"`
}

// Dispatcher owns one analyzer per exercise and routes keypoint frames to
// whichever is active. It layers set/rep targets on top of the analyzers and
// forwards all surfaced feedback to the session tracker. Safe for concurrent
// use.
type Dispatcher struct {
	mu         sync.Mutex
	thresholds Thresholds
	analyzers  map[string]Analyzer
	session    *SessionTracker

	current        string
	targetReps     int
	targetSets     int
	currentSet     int
	targetDuration float64
}

// NewDispatcher builds analyzers for every supported exercise using the
// given thresholds.
func NewDispatcher(thresholds Thresholds) *Dispatcher {
	d := &Dispatcher{
		thresholds: thresholds,
		analyzers:  make(map[string]Analyzer, len(canonicalExercises)),
		session:    NewSessionTracker(),
	}
	for _, name := range canonicalExercises {
		d.analyzers[name] = newAnalyzerFor(name, thresholds)
	}
	return d
}

// newAnalyzerFor builds a fresh analyzer for a canonical exercise name.
func newAnalyzerFor(name string, thresholds Thresholds) Analyzer {
	switch name {
	case ExerciseBicepCurl:
		return NewBicepCurlAnalyzer(thresholds)
	case ExercisePushup:
		return NewPushupAnalyzer(thresholds)
	case ExerciseLunge:
		return NewLungeAnalyzer(thresholds)
	case ExercisePlank:
		return NewPlankAnalyzer(thresholds)
	case ExerciseJumpingJack:
		return NewJumpingJackAnalyzer(thresholds)
	default:
		return NewSquatAnalyzer(thresholds)
	}
}

// SetExercise activates an exercise with the given targets. Zero targets
// mean open-ended. A positive duration puts duration-capable analyzers in
// timed mode.
func (d *Dispatcher) SetExercise(name string, targetReps, targetSets int, targetDuration float64) string {
	canonical := ResolveExerciseName(name)
	d.mu.Lock()
	defer d.mu.Unlock()

	d.current = canonical
	d.targetReps = targetReps
	d.targetSets = targetSets
	d.targetDuration = targetDuration
	d.currentSet = 1

	// A fresh analyzer, so counters from an earlier round of the same
	// exercise do not leak into this one.
	a := newAnalyzerFor(canonical, d.thresholds)
	d.analyzers[canonical] = a
	if timed, ok := a.(TimedAnalyzer); ok {
		timed.SetTargetDuration(targetDuration)
	}
	log.Printf("analysis: active exercise %s (reps=%d sets=%d duration=%.0fs)",
		canonical, targetReps, targetSets, targetDuration)
	return canonical
}

// CurrentExercise returns the active canonical exercise name, or "" when
// none has been set.
func (d *Dispatcher) CurrentExercise() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// ProcessFrame runs the active analyzer over one keypoint frame and returns
// the updated status. Frames arriving before SetExercise are ignored.
func (d *Dispatcher) ProcessFrame(frame pose.Frame) (ExerciseStatus, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == "" {
		return ExerciseStatus{}, false
	}

	a := d.analyzers[d.current]
	state, feedback := a.UpdateState(frame)

	for _, msg := range feedback {
		d.session.AddFeedback(d.current, msg)
	}

	// Advance to the next set once this set's rep target is met.
	if d.targetReps > 0 && d.currentSet < d.targetSets &&
		a.RepCount() >= d.targetReps*d.currentSet {
		d.currentSet++
	}

	status := ExerciseStatus{
		Name:       d.current,
		RepCount:   a.RepCount(),
		State:      string(state),
		Feedback:   feedback,
		TargetReps: d.targetReps,
		TargetSets: d.targetSets,
		CurrentSet: d.currentSet,
		IsTimed:    a.IsTimed(),
	}
	if timed, ok := a.(TimedAnalyzer); ok && a.IsTimed() {
		status.ElapsedTime = timed.ElapsedTime()
		status.RemainingTime = timed.RemainingTime()
		status.TargetDuration = d.targetDuration
	}
	return status, true
}

// SessionStats returns the per-exercise feedback totals for the session.
func (d *Dispatcher) SessionStats() map[string]map[string]int {
	return d.session.Stats()
}

// CommonIssues returns the most frequent corrective feedback, optionally
// filtered to one exercise.
func (d *Dispatcher) CommonIssues(exercise string, limit int) []IssueCount {
	if exercise != "" {
		exercise = ResolveExerciseName(exercise)
	}
	return d.session.CommonIssues(exercise, limit)
}

// ResetSession clears the session tracker. Analyzer state is untouched;
// callers that want fresh counters call SetExercise again.
func (d *Dispatcher) ResetSession() {
	d.session.Clear()
}
