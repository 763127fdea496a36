package analysis

import "container/heap"

// Priority orders feedback messages. Higher values win when the manager picks
// what to surface.
type Priority int

const (
	PriorityInfo Priority = iota
	PriorityLow
	PrioritySuccess
	PriorityMedium
	PriorityWarn
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityInfo:
		return "info"
	case PriorityLow:
		return "low"
	case PrioritySuccess:
		return "success"
	case PriorityMedium:
		return "medium"
	case PriorityWarn:
		return "warn"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// feedbackEntry is a heap element. seq breaks priority ties so that the most
// recently added message of the top priority surfaces first.
type feedbackEntry struct {
	message  string
	priority Priority
	seq      uint64
}

type feedbackHeap []feedbackEntry

func (h feedbackHeap) Len() int { return len(h) }
func (h feedbackHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq > h[j].seq
}
func (h feedbackHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *feedbackHeap) Push(x any)        { *h = append(*h, x.(feedbackEntry)) }
func (h *feedbackHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FeedbackManager collects form feedback messages and decides which one the
// user should see. Two views cooperate:
//
//   - a priority heap holding every message added since the last clear; the
//     top of the heap is what GetFeedback surfaces. Entries are only removed
//     by ClearFeedback, so a high-priority message keeps being shown until a
//     rep boundary clears it.
//   - a short sliding window of recent messages; WindowConsensus reports
//     messages seen in a strict majority of the window, which filters
//     single-frame flickers for callers that want stable feedback.
//
// Counts of every message ever added are kept for session aggregation.
type FeedbackManager struct {
	heapEntries feedbackHeap
	seq         uint64

	window     []string
	windowSize int

	counts map[string]int
}

// NewFeedbackManager returns a manager with a consensus window of windowSize
// frames. Sizes below one are clamped to one.
func NewFeedbackManager(windowSize int) *FeedbackManager {
	if windowSize < 1 {
		windowSize = 1
	}
	return &FeedbackManager{
		window:     make([]string, 0, windowSize),
		windowSize: windowSize,
		counts:     make(map[string]int),
	}
}

// AddFeedback records a message with the given priority.
func (m *FeedbackManager) AddFeedback(message string, priority Priority) {
	if message == "" {
		return
	}
	m.seq++
	heap.Push(&m.heapEntries, feedbackEntry{message: message, priority: priority, seq: m.seq})
	if len(m.window) == m.windowSize {
		copy(m.window, m.window[1:])
		m.window = m.window[:len(m.window)-1]
	}
	m.window = append(m.window, message)
	m.counts[message]++
}

// GetFeedback returns the highest-priority message added since the last
// clear, or an empty slice when there is none.
func (m *FeedbackManager) GetFeedback() []string {
	if len(m.heapEntries) == 0 {
		return []string{}
	}
	return []string{m.heapEntries[0].message}
}

// WindowConsensus returns the messages present in a strict majority of the
// recent window, deduplicated, in first-seen order.
func (m *FeedbackManager) WindowConsensus() []string {
	if len(m.window) == 0 {
		return nil
	}
	need := len(m.window)/2 + 1
	seen := make(map[string]int, len(m.window))
	var out []string
	for _, msg := range m.window {
		seen[msg]++
		if seen[msg] == need {
			out = append(out, msg)
		}
	}
	return out
}

// ClearFeedback empties the heap and the window. Counts survive; they belong
// to the session, not the rep.
func (m *FeedbackManager) ClearFeedback() {
	m.heapEntries = m.heapEntries[:0]
	m.window = m.window[:0]
}

// Counts returns a copy of the per-message totals since construction.
func (m *FeedbackManager) Counts() map[string]int {
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}
