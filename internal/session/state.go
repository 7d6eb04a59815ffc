package session

import "fmt"

// Phase is the current phase of a quiz session.
type Phase int

const (
	PhaseIdle     Phase = iota // No category requested yet
	PhaseLoading               // Waiting for a category load to complete
	PhaseReady                 // Current question awaiting an answer
	PhaseAnswered              // Current question answered, explanation shown
	PhaseFinished              // No current question; terminal until restart or category change
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseAnswered:
		return "answered"
	case PhaseFinished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Generation identifies one load request. Only the latest generation may
// complete a load.
type Generation uint64

// Mode selects the display mapping applied on top of the state machine.
type Mode int

const (
	// ModeQuiz reveals the correct option and a wrong pick only after answering.
	ModeQuiz Mode = iota
	// ModeLearn always highlights the correct option; answering is optional.
	ModeLearn
)

func (m Mode) String() string {
	if m == ModeLearn {
		return "learn"
	}
	return "quiz"
}

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "quiz":
		return ModeQuiz, nil
	case "learn":
		return ModeLearn, nil
	}
	return ModeQuiz, fmt.Errorf("unknown mode %q (want quiz or learn)", s)
}

// Highlight is the display state of a single option.
type Highlight int

const (
	HighlightNeutral Highlight = iota
	HighlightCorrect
	HighlightIncorrect
)

// Result describes the outcome of an accepted answer.
type Result struct {
	Selected     int
	CorrectIndex int
	Correct      bool
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Phase     Phase
	Category  string
	Total     int // Questions in the pool
	Remaining int // Questions not yet drawn
	Answered  int
	Correct   int
	Selected  int // -1 when nothing is selected
	HasErr    bool
}

// Wrong returns the number of incorrect answers.
func (s Snapshot) Wrong() int {
	return s.Answered - s.Correct
}

// Position returns the 1-based position of the current question in the pass.
func (s Snapshot) Position() int {
	if s.Total == 0 {
		return 0
	}
	return s.Total - s.Remaining
}
