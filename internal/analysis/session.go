package analysis

import (
	"sort"
	"strings"
	"sync"
)

// IssueCount pairs a feedback message with how often it occurred.
type IssueCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SessionTracker aggregates feedback across a whole workout session, keyed by
// exercise name. It is safe for concurrent use; the dispatcher writes from
// the capture goroutine while HTTP handlers read stats.
type SessionTracker struct {
	mu    sync.Mutex
	stats map[string]map[string]int
}

// NewSessionTracker returns an empty tracker.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{stats: make(map[string]map[string]int)}
}

// AddFeedback records one occurrence of message for exercise.
func (t *SessionTracker) AddFeedback(exercise, message string) {
	if exercise == "" || message == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	byMsg, ok := t.stats[exercise]
	if !ok {
		byMsg = make(map[string]int)
		t.stats[exercise] = byMsg
	}
	byMsg[message]++
}

// Stats returns a copy of the per-exercise message counts.
func (t *SessionTracker) Stats() map[string]map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]map[string]int, len(t.stats))
	for ex, byMsg := range t.stats {
		cp := make(map[string]int, len(byMsg))
		for msg, n := range byMsg {
			cp[msg] = n
		}
		out[ex] = cp
	}
	return out
}

// CommonIssues returns the most frequent corrective messages for exercise,
// most frequent first, at most limit entries. Positive reinforcement
// messages are excluded. An empty exercise name aggregates all exercises.
func (t *SessionTracker) CommonIssues(exercise string, limit int) []IssueCount {
	t.mu.Lock()
	totals := make(map[string]int)
	for ex, byMsg := range t.stats {
		if exercise != "" && ex != exercise {
			continue
		}
		for msg, n := range byMsg {
			if isPositiveFeedback(msg) {
				continue
			}
			totals[msg] += n
		}
	}
	t.mu.Unlock()

	issues := make([]IssueCount, 0, len(totals))
	for msg, n := range totals {
		issues = append(issues, IssueCount{Message: msg, Count: n})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Count != issues[j].Count {
			return issues[i].Count > issues[j].Count
		}
		return issues[i].Message < issues[j].Message
	})
	if limit > 0 && len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}

// Clear drops all accumulated session data.
func (t *SessionTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = make(map[string]map[string]int)
}

// isPositiveFeedback reports whether message is reinforcement rather than a
// correction.
func isPositiveFeedback(message string) bool {
	return strings.Contains(message, "Correct form") || strings.Contains(message, "Good")
}
