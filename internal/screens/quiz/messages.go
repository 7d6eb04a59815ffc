package quiz

import (
	"github.com/aginor/exphil/internal/question"
	"github.com/aginor/exphil/internal/session"
)

// loadedMsg carries the result of a category load.
type loadedMsg struct {
	gen       session.Generation
	questions []question.Question
	err       error
}

// explainedMsg carries an AI explanation for the question with the given
// text.
type explainedMsg struct {
	question string
	text     string
	err      error
}
