package analysis

import "testing"

func TestSessionTrackerStats(t *testing.T) {
	s := NewSessionTracker()
	s.AddFeedback("squat", "Lower your hips")
	s.AddFeedback("squat", "Lower your hips")
	s.AddFeedback("squat", "Correct form")
	s.AddFeedback("pushup", "Keep your hips up, core engaged")

	stats := s.Stats()
	if stats["squat"]["Lower your hips"] != 2 {
		t.Errorf("squat counts = %v", stats["squat"])
	}
	if stats["pushup"]["Keep your hips up, core engaged"] != 1 {
		t.Errorf("pushup counts = %v", stats["pushup"])
	}
}

func TestSessionTrackerCommonIssuesExcludesPositive(t *testing.T) {
	s := NewSessionTracker()
	for i := 0; i < 5; i++ {
		s.AddFeedback("squat", "Correct form")
	}
	for i := 0; i < 3; i++ {
		s.AddFeedback("squat", "Lower your hips")
	}
	s.AddFeedback("squat", "Bend forward more")
	s.AddFeedback("plank", "Good plank form")

	issues := s.CommonIssues("squat", 10)
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want 2 corrective messages", issues)
	}
	if issues[0].Message != "Lower your hips" || issues[0].Count != 3 {
		t.Errorf("top issue = %+v, want Lower your hips x3", issues[0])
	}
}

func TestSessionTrackerCommonIssuesAggregatesAndLimits(t *testing.T) {
	s := NewSessionTracker()
	s.AddFeedback("squat", "Lower your hips")
	s.AddFeedback("lunge", "Bend front knee more")
	s.AddFeedback("lunge", "Bend front knee more")

	issues := s.CommonIssues("", 1)
	if len(issues) != 1 {
		t.Fatalf("issues = %v, want limit of 1", issues)
	}
	if issues[0].Message != "Bend front knee more" {
		t.Errorf("top issue = %+v", issues[0])
	}
}

func TestSessionTrackerClear(t *testing.T) {
	s := NewSessionTracker()
	s.AddFeedback("squat", "Lower your hips")
	s.Clear()
	if len(s.Stats()) != 0 {
		t.Errorf("stats after clear = %v, want empty", s.Stats())
	}
}
