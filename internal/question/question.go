package question

// Question is a validated multiple-choice question ready for display.
type Question struct {
	// Text is the prompt shown to the learner. Never empty.
	Text string

	// Options are the answer alternatives in display order. At least one.
	Options []string

	// CorrectIndex is the 0-based index of the correct option.
	// Always within [0, len(Options)).
	CorrectIndex int

	// Explanation is shown after answering or in learn mode. May be empty.
	Explanation string

	// Category and Subcategory are provenance tags copied from the source.
	Category    string
	Subcategory string
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// IsCorrect reports whether index selects the correct option.
func (q Question) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// HasExplanation reports whether the source supplied an explanation.
func (q Question) HasExplanation() bool {
	return q.Explanation != ""
}
