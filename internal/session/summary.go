package session

// Summary holds the data displayed when a session finishes.
type Summary struct {
	Category string
	Total    int
	Answered int
	Correct  int
	Accuracy float64
}

// BuildSummary creates a Summary from the current session state.
func BuildSummary(s *Session) Summary {
	var accuracy float64
	if s.answered > 0 {
		accuracy = float64(s.correct) / float64(s.answered)
	}
	return Summary{
		Category: s.category,
		Total:    len(s.pool),
		Answered: s.answered,
		Correct:  s.correct,
		Accuracy: accuracy,
	}
}
