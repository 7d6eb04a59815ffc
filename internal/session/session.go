package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/question"
)

var (
	// ErrNoQuestions is reported when a load yields zero usable questions.
	ErrNoQuestions = errors.New("no questions available for category")

	// ErrSuperseded is returned by Load when a newer load replaced it before
	// it completed.
	ErrSuperseded = errors.New("load superseded by a newer request")
)

// Loader fetches and normalizes the questions of one category.
type Loader interface {
	Load(ctx context.Context, code string) ([]question.Question, error)
}

// Session delivers a non-repeating random sequence of questions from a
// fixed pool and tracks correctness. It is owned by a single goroutine
// (the UI event loop) and is not safe for concurrent use.
type Session struct {
	id     string
	rng    *rand.Rand
	logger *zap.Logger

	category   string
	generation Generation
	phase      Phase
	err        error

	pool      []question.Question
	remaining []question.Question
	current   *question.Question
	selected  int

	correct  int
	answered int
}

// New creates an idle session. A nil rng is seeded from the clock; a nil
// logger discards output.
func New(rng *rand.Rand, logger *zap.Logger) *Session {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		rng:      rng,
		logger:   logger.With(zap.String("session_id", id)),
		selected: -1,
	}
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() string { return s.id }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Category returns the category code of the latest load request.
func (s *Session) Category() string { return s.category }

// Generation returns the latest load generation.
func (s *Session) Generation() Generation { return s.generation }

// Err returns the failure of the latest completed load, if any.
func (s *Session) Err() error { return s.err }

// Current returns the question awaiting or showing an answer.
func (s *Session) Current() (question.Question, bool) {
	if s.current == nil {
		return question.Question{}, false
	}
	return *s.current, true
}

// Selected returns the chosen option for the current question.
func (s *Session) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

// BeginLoad discards all progress and enters PhaseLoading for code.
// The returned generation must be passed to CompleteLoad.
func (s *Session) BeginLoad(code string) Generation {
	s.generation++
	s.category = code
	s.phase = PhaseLoading
	s.err = nil
	s.pool = nil
	s.remaining = nil
	s.current = nil
	s.selected = -1
	s.correct = 0
	s.answered = 0

	s.logger.Debug("load started",
		zap.String("category", code),
		zap.Uint64("generation", uint64(s.generation)))
	return s.generation
}

// CompleteLoad applies the result of a load. It returns false, leaving the
// session untouched, when gen is not the latest generation or the session
// is not loading. A fetch error or an empty result lands the session in
// PhaseFinished with no current question.
func (s *Session) CompleteLoad(gen Generation, qs []question.Question, err error) bool {
	if gen != s.generation || s.phase != PhaseLoading {
		s.logger.Debug("stale load ignored",
			zap.Uint64("generation", uint64(gen)),
			zap.Uint64("latest", uint64(s.generation)))
		return false
	}

	if err == nil && len(qs) == 0 {
		err = ErrNoQuestions
	}
	if err != nil {
		s.err = err
		s.phase = PhaseFinished
		s.logger.Warn("load failed",
			zap.String("category", s.category),
			zap.Uint64("generation", uint64(gen)),
			zap.Error(err))
		return true
	}

	s.pool = slices.Clone(qs)
	s.start()
	s.logger.Info("load complete",
		zap.String("category", s.category),
		zap.Uint64("generation", uint64(gen)),
		zap.Int("count", len(s.pool)))
	return true
}

// Load is the synchronous form of BeginLoad, loader call and CompleteLoad.
func (s *Session) Load(ctx context.Context, loader Loader, code string) error {
	gen := s.BeginLoad(code)
	qs, err := loader.Load(ctx, code)
	if !s.CompleteLoad(gen, qs, err) {
		return ErrSuperseded
	}
	return s.err
}

// ChangeCategory discards the current pool and progress and begins a new
// load. It performs no confirmation; see NeedsConfirmation.
func (s *Session) ChangeCategory(code string) Generation {
	if s.answered > 0 {
		s.logger.Info("category changed with progress discarded",
			zap.String("from", s.category),
			zap.String("to", code),
			zap.Int("answered", s.answered))
	}
	return s.BeginLoad(code)
}

// NeedsConfirmation reports whether changing category would discard
// answered questions.
func (s *Session) NeedsConfirmation() bool {
	return s.answered > 0
}

// Answer records index as the answer to the current question. It is a no-op
// returning false when there is no current question, an answer is already
// selected, or index is not a valid option.
func (s *Session) Answer(index int) (Result, bool) {
	if s.current == nil || s.phase != PhaseReady {
		return Result{}, false
	}
	if index < 0 || index >= len(s.current.Options) {
		return Result{}, false
	}

	s.selected = index
	s.answered++
	correct := s.current.IsCorrect(index)
	if correct {
		s.correct++
	}
	s.phase = PhaseAnswered

	return Result{
		Selected:     index,
		CorrectIndex: s.current.CorrectIndex,
		Correct:      correct,
	}, true
}

// Advance draws the next question uniformly from the remaining ones and
// clears the selection. When nothing remains the session enters
// PhaseFinished. It returns true when the session changed, so the
// transition into PhaseFinished is reported exactly once.
func (s *Session) Advance() bool {
	if s.phase != PhaseReady && s.phase != PhaseAnswered {
		return false
	}

	s.selected = -1
	if len(s.remaining) == 0 {
		s.current = nil
		s.phase = PhaseFinished
		s.logger.Info("session finished",
			zap.String("category", s.category),
			zap.Int("answered", s.answered),
			zap.Int("correct", s.correct))
		return true
	}

	next, rest := draw(s.rng, s.remaining)
	s.remaining = rest
	s.current = &next
	s.phase = PhaseReady
	return true
}

// Restart reshuffles the full pool and zeroes all counters without
// refetching. With an empty pool the session stays in PhaseFinished.
// Restart is ignored while a load is in flight.
func (s *Session) Restart() {
	if s.phase == PhaseLoading || s.phase == PhaseIdle {
		return
	}
	if len(s.pool) == 0 {
		s.current = nil
		s.selected = -1
		s.correct = 0
		s.answered = 0
		s.phase = PhaseFinished
		return
	}
	s.start()
	s.logger.Debug("session restarted", zap.String("category", s.category))
}

// start shuffles a fresh copy of the pool and pops its first element.
func (s *Session) start() {
	remaining := slices.Clone(s.pool)
	Shuffle(s.rng, remaining)

	first := remaining[0]
	s.current = &first
	s.remaining = remaining[1:]
	s.selected = -1
	s.correct = 0
	s.answered = 0
	s.err = nil
	s.phase = PhaseReady
}

// Highlights maps each option of the current question to its display state.
// It returns nil when there is no current question.
func (s *Session) Highlights(mode Mode) []Highlight {
	if s.current == nil {
		return nil
	}
	out := make([]Highlight, len(s.current.Options))
	answered := s.selected >= 0
	for i := range out {
		switch {
		case i == s.current.CorrectIndex && (answered || mode == ModeLearn):
			out[i] = HighlightCorrect
		case answered && i == s.selected:
			out[i] = HighlightIncorrect
		}
	}
	return out
}

// Snapshot returns the counters and phase for rendering.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		Category:  s.category,
		Total:     len(s.pool),
		Remaining: len(s.remaining),
		Answered:  s.answered,
		Correct:   s.correct,
		Selected:  s.selected,
		HasErr:    s.err != nil,
	}
}

// Remaining returns a copy of the questions not yet drawn.
func (s *Session) Remaining() []question.Question {
	return slices.Clone(s.remaining)
}

// Pool returns a copy of all loaded questions.
func (s *Session) Pool() []question.Question {
	return slices.Clone(s.pool)
}
