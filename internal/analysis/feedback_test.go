package analysis

import (
	"reflect"
	"testing"
)

func TestFeedbackManagerSurfacesHighestPriority(t *testing.T) {
	m := NewFeedbackManager(5)
	m.AddFeedback("Correct form", PriorityLow)
	m.AddFeedback("Lower your hips", PriorityHigh)
	m.AddFeedback("Keep going", PriorityInfo)

	got := m.GetFeedback()
	want := []string{"Lower your hips"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetFeedback() = %v, want %v", got, want)
	}
}

func TestFeedbackManagerTieBreaksOnRecency(t *testing.T) {
	m := NewFeedbackManager(5)
	m.AddFeedback("first", PriorityHigh)
	m.AddFeedback("second", PriorityHigh)

	got := m.GetFeedback()
	if len(got) != 1 || got[0] != "second" {
		t.Errorf("GetFeedback() = %v, want [second]", got)
	}
}

// A high-priority message keeps being surfaced until a rep boundary clears
// the manager, even after lower-priority messages arrive.
func TestFeedbackManagerStaleHighPriorityPersists(t *testing.T) {
	m := NewFeedbackManager(5)
	m.AddFeedback("Keep your elbow still", PriorityHigh)
	for i := 0; i < 10; i++ {
		m.AddFeedback("Correct form", PriorityLow)
	}
	got := m.GetFeedback()
	if len(got) != 1 || got[0] != "Keep your elbow still" {
		t.Errorf("GetFeedback() = %v, want the high-priority message", got)
	}

	m.ClearFeedback()
	if got := m.GetFeedback(); len(got) != 0 {
		t.Errorf("after clear GetFeedback() = %v, want empty", got)
	}
}

func TestFeedbackManagerWindowConsensus(t *testing.T) {
	m := NewFeedbackManager(5)
	for i := 0; i < 3; i++ {
		m.AddFeedback("Lower your hips", PriorityHigh)
	}
	m.AddFeedback("Bend forward more", PriorityHigh)
	m.AddFeedback("Bend forward more", PriorityHigh)

	// Window is [hips, hips, hips, bend, bend]; only "hips" has a strict
	// majority.
	got := m.WindowConsensus()
	want := []string{"Lower your hips"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WindowConsensus() = %v, want %v", got, want)
	}
}

func TestFeedbackManagerCountsSurviveClear(t *testing.T) {
	m := NewFeedbackManager(5)
	m.AddFeedback("Lower your hips", PriorityHigh)
	m.AddFeedback("Lower your hips", PriorityHigh)
	m.ClearFeedback()

	counts := m.Counts()
	if counts["Lower your hips"] != 2 {
		t.Errorf("counts = %v, want Lower your hips: 2", counts)
	}
}

func TestPriorityOrdering(t *testing.T) {
	order := []Priority{PriorityInfo, PriorityLow, PrioritySuccess, PriorityMedium, PriorityWarn, PriorityHigh}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Errorf("priority %v should sort below %v", order[i-1], order[i])
		}
	}
}
