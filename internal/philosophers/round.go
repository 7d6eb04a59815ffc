package philosophers

import (
	"errors"
	"math/rand/v2"
)

// DefaultRoundSize is the number of candidates in a guessing round.
const DefaultRoundSize = 3

// ErrTooFew is returned when the catalog cannot supply a round.
var ErrTooFew = errors.New("not enough philosophers with clues for a round")

// ClueKind tells which list the round's clues were taken from.
type ClueKind int

const (
	ClueContributions ClueKind = iota
	ClueQuotes
)

// Label returns the display heading for the clue list.
func (k ClueKind) Label() string {
	if k == ClueQuotes {
		return "Kjente sitater og konsepter"
	}
	return "Viktigste bidrag"
}

// Round is one "who said or did this" question.
type Round struct {
	Candidates []Philosopher
	Answer     int
	Kind       ClueKind
	Clues      []string

	guess int
}

// NewRound draws n distinct philosophers that carry clues, picks one as the
// answer, and shows either its contributions or its quotes.
func NewRound(rng *rand.Rand, c *Catalog, n int) (*Round, error) {
	if n < 2 {
		n = DefaultRoundSize
	}
	var pool []Philosopher
	for _, p := range c.list {
		if len(p.Contributions) > 0 || len(p.Quotes) > 0 {
			pool = append(pool, p)
		}
	}
	if len(pool) < n {
		return nil, ErrTooFew
	}

	for i := len(pool) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	candidates := pool[:n]
	answer := rng.IntN(n)
	p := candidates[answer]

	kind := ClueQuotes
	if rng.IntN(2) == 0 {
		kind = ClueContributions
	}
	switch {
	case kind == ClueContributions && len(p.Contributions) == 0:
		kind = ClueQuotes
	case kind == ClueQuotes && len(p.Quotes) == 0:
		kind = ClueContributions
	}

	clues := p.Contributions
	if kind == ClueQuotes {
		clues = p.Quotes
	}

	return &Round{
		Candidates: candidates,
		Answer:     answer,
		Kind:       kind,
		Clues:      clues,
		guess:      -1,
	}, nil
}

// Guess records the pick i. It returns whether the pick was right and
// whether it was accepted; only the first valid guess counts.
func (r *Round) Guess(i int) (correct, ok bool) {
	if r.guess >= 0 || i < 0 || i >= len(r.Candidates) {
		return false, false
	}
	r.guess = i
	return i == r.Answer, true
}

// Guessed returns the recorded pick, or -1.
func (r *Round) Guessed() int { return r.guess }

// Done reports whether a guess has been made.
func (r *Round) Done() bool { return r.guess >= 0 }

// Subject returns the philosopher the clues describe.
func (r *Round) Subject() Philosopher { return r.Candidates[r.Answer] }
