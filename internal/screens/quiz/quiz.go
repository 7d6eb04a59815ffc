// Package quiz is the question screen for quiz and learn mode.
package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/catalog"
	"github.com/aginor/exphil/internal/explain"
	"github.com/aginor/exphil/internal/router"
	"github.com/aginor/exphil/internal/screen"
	"github.com/aginor/exphil/internal/session"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
)

// Deps are the services the quiz screen needs.
type Deps struct {
	Catalog   *catalog.Catalog
	Loader    session.Loader
	Explainer *explain.Service // nil disables AI explanations
	Logger    *zap.Logger
	Rand      *rand.Rand

	// ExplainTimeout bounds a single explanation request. Zero means none.
	ExplainTimeout time.Duration
}

// Finished-state button labels. The action buttons are followed by one
// button per category.
const (
	btnRestart      = "Start på nytt"
	btnHome         = "Tilbake til startsiden"
	btnRetry        = "Prøv på nytt"
	categoryHeading = "Bytt kategori"
)

// aiState tracks the explanation requested for one question.
type aiState struct {
	question string
	text     string
	err      error
	loading  bool
}

// QuizScreen drives a session.Session from key presses.
type QuizScreen struct {
	deps Deps
	mode session.Mode
	sess *session.Session

	initial string
	cursor  int
	hint    bool
	confirm string // category code awaiting confirmation
	cancel  context.CancelFunc
	buttons components.ButtonRow
	ai      aiState
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a quiz screen that loads code (or the catalog default) on
// Init.
func New(deps Deps, mode session.Mode, code string) *QuizScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &QuizScreen{
		deps:    deps,
		mode:    mode,
		sess:    session.New(deps.Rand, deps.Logger),
		initial: deps.Catalog.Resolve(code).Code,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.load(s.initial)
}

func (s *QuizScreen) Title() string {
	if s.mode == session.ModeLearn {
		return "ExPhil lære"
	}
	return "ExPhil Quiz"
}

// Status shows the running score once questions are loaded.
func (s *QuizScreen) Status() string {
	snap := s.sess.Snapshot()
	if snap.Total == 0 {
		return ""
	}
	return fmt.Sprintf("Korrekt: %d  Feil: %d", snap.Correct, snap.Wrong())
}

// Session exposes the underlying state machine.
func (s *QuizScreen) Session() *session.Session { return s.sess }

// Close cancels an in-flight load.
func (s *QuizScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirm != "" {
		return []layout.KeyHint{
			{Key: "J", Description: "Bytt kategori"},
			{Key: "N", Description: "Avbryt"},
		}
	}

	switch s.sess.Phase() {
	case session.PhaseFinished:
		return []layout.KeyHint{
			{Key: "←→", Description: "Velg"},
			{Key: "Enter", Description: "OK"},
			{Key: "Esc", Description: "Tilbake"},
		}
	case session.PhaseReady, session.PhaseAnswered:
		hints := []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Svar"},
			{Key: "N", Description: "Neste"},
			{Key: "Tab", Description: "Kategori"},
			{Key: "R", Description: "Start på nytt"},
		}
		if s.mode == session.ModeQuiz {
			hints = append(hints, layout.KeyHint{Key: "H", Description: "Svartips"})
		}
		if s.canRequestExplanation() {
			hints = append(hints, layout.KeyHint{Key: "X", Description: "AI-forklaring"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Tilbake"})
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Kategori"},
		{Key: "Esc", Description: "Tilbake"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if s.sess.CompleteLoad(msg.gen, msg.questions, msg.err) {
			s.Close()
			s.resetView()
		}
		return s, nil

	case explainedMsg:
		if s.ai.loading && s.ai.question == msg.question {
			s.ai = aiState{question: msg.question, text: msg.text, err: msg.err}
			if msg.err != nil {
				s.deps.Logger.Warn("explanation failed", zap.Error(msg.err))
			}
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// load begins a new generation for code. Any older request is cancelled
// and its result will be rejected by the session.
func (s *QuizScreen) load(code string) tea.Cmd {
	s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	gen := s.sess.ChangeCategory(code)
	s.confirm = ""
	s.resetView()

	loader := s.deps.Loader
	return func() tea.Msg {
		qs, err := loader.Load(ctx, code)
		return loadedMsg{gen: gen, questions: qs, err: err}
	}
}

// resetView clears per-question UI state.
func (s *QuizScreen) resetView() {
	s.cursor = 0
	s.hint = false
	s.buttons = components.NewButtonRow(s.finishedLabels()...)
	if cur, ok := s.sess.Current(); !ok || cur.Text != s.ai.question {
		s.ai = aiState{}
	}
}

func (s *QuizScreen) finishedLabels() []string {
	labels := s.finishedActions()
	for _, c := range s.deps.Catalog.All() {
		labels = append(labels, c.Label())
	}
	return labels
}

func (s *QuizScreen) finishedActions() []string {
	if s.sess.Snapshot().Total == 0 {
		return []string{btnRetry, btnHome}
	}
	return []string{btnRestart, btnHome}
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirm != "" {
		code := s.confirm
		s.confirm = ""
		switch key {
		case "j", "y", "enter":
			return s, s.load(code)
		}
		return s, nil
	}

	// In the finished state the arrows move between buttons instead.
	if s.sess.Phase() == session.PhaseFinished {
		return s.handleFinishedKey(msg)
	}

	switch key {
	case "left", "shift+tab":
		return s.switchCategory(s.deps.Catalog.Prev(s.sess.Category()).Code)
	case "right", "tab":
		return s.switchCategory(s.deps.Catalog.Next(s.sess.Category()).Code)
	}

	switch s.sess.Phase() {
	case session.PhaseReady, session.PhaseAnswered:
		return s.handleQuestionKey(key)
	}
	return s, nil
}

// switchCategory loads code, asking first when answered questions would be
// discarded.
func (s *QuizScreen) switchCategory(code string) (screen.Screen, tea.Cmd) {
	if s.sess.NeedsConfirmation() {
		s.confirm = code
		return s, nil
	}
	return s, s.load(code)
}

func (s *QuizScreen) handleQuestionKey(key string) (screen.Screen, tea.Cmd) {
	q, _ := s.sess.Current()

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(q.Options)-1 {
			s.cursor++
		}
	case "enter", "space":
		if s.sess.Phase() == session.PhaseAnswered {
			s.next()
		} else {
			s.answer(s.cursor)
		}
	case "n":
		if s.sess.Phase() == session.PhaseAnswered || s.mode == session.ModeLearn {
			s.next()
		}
	case "h":
		if s.mode == session.ModeQuiz && s.sess.Phase() == session.PhaseReady {
			s.hint = !s.hint
		}
	case "r":
		s.sess.Restart()
		s.resetView()
	case "x":
		return s, s.requestExplanation()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			s.answer(int(key[0] - '1'))
		}
	}
	return s, nil
}

// answer is ignored while the quiz-mode hint is showing.
func (s *QuizScreen) answer(i int) {
	if s.mode == session.ModeQuiz && s.hint {
		return
	}
	if _, ok := s.sess.Answer(i); ok {
		s.cursor = i
	}
}

func (s *QuizScreen) next() {
	s.sess.Advance()
	s.resetView()
}

func (s *QuizScreen) handleFinishedKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "r" {
		return s, s.restartOrRetry()
	}

	var pressed int
	s.buttons, pressed = s.buttons.Update(msg)
	if pressed < 0 {
		return s, nil
	}

	actions := s.finishedActions()
	if pressed >= len(actions) {
		cats := s.deps.Catalog.All()
		if i := pressed - len(actions); i < len(cats) {
			return s, s.load(cats[i].Code)
		}
		return s, nil
	}
	switch actions[pressed] {
	case btnRestart, btnRetry:
		return s, s.restartOrRetry()
	case btnHome:
		return s, router.PopToRoot
	}
	return s, nil
}

// restartOrRetry reshuffles a loaded pool or refetches an empty category.
func (s *QuizScreen) restartOrRetry() tea.Cmd {
	if s.sess.Snapshot().Total == 0 {
		return s.load(s.sess.Category())
	}
	s.sess.Restart()
	s.resetView()
	return nil
}

// explanationVisible reports whether the explanation panel is on screen.
func (s *QuizScreen) explanationVisible() bool {
	return s.sess.Phase() == session.PhaseAnswered || s.mode == session.ModeLearn || s.hint
}

func (s *QuizScreen) canRequestExplanation() bool {
	q, ok := s.sess.Current()
	return ok && !q.HasExplanation() && s.deps.Explainer.Available() && s.explanationVisible()
}

// requestExplanation asks the explainer for the current question. The reply
// is dropped if the learner has moved on by the time it arrives.
func (s *QuizScreen) requestExplanation() tea.Cmd {
	if !s.canRequestExplanation() || s.ai.loading {
		return nil
	}
	q, _ := s.sess.Current()
	if s.ai.question == q.Text && s.ai.text != "" {
		return nil
	}
	if text, ok := s.deps.Explainer.Cached(q); ok {
		s.ai = aiState{question: q.Text, text: text}
		return nil
	}

	s.ai = aiState{question: q.Text, loading: true}
	svc, timeout := s.deps.Explainer, s.deps.ExplainTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		text, err := svc.Explain(ctx, q)
		return explainedMsg{question: q.Text, text: text, err: err}
	}
}
