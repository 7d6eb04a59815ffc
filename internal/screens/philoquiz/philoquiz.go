// Package philoquiz is the "who said or did this" guessing game.
package philoquiz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	phil "github.com/aginor/exphil/internal/philosophers"
	"github.com/aginor/exphil/internal/screen"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

// GuessScreen plays consecutive philosopher rounds and keeps score.
type GuessScreen struct {
	catalog *phil.Catalog
	rng     *rand.Rand
	size    int

	round   *phil.Round
	err     error
	cursor  int
	correct int
	played  int
}

var _ screen.Screen = (*GuessScreen)(nil)
var _ screen.KeyHintProvider = (*GuessScreen)(nil)
var _ screen.StatusProvider = (*GuessScreen)(nil)

// New creates the game with rounds of size candidates.
func New(c *phil.Catalog, rng *rand.Rand, size int) *GuessScreen {
	if size < 2 {
		size = phil.DefaultRoundSize
	}
	s := &GuessScreen{catalog: c, rng: rng, size: size}
	s.nextRound()
	return s
}

func (s *GuessScreen) Init() tea.Cmd { return nil }

func (s *GuessScreen) Title() string { return "Filosofer-quiz" }

func (s *GuessScreen) Status() string {
	return fmt.Sprintf("Korrekt: %d  Feil: %d", s.correct, s.played-s.correct)
}

func (s *GuessScreen) KeyHints() []layout.KeyHint {
	if s.round != nil && s.round.Done() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Neste"},
			{Key: "Esc", Description: "Tilbake"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-9", Description: "Gjett"},
		{Key: "Esc", Description: "Tilbake"},
	}
}

// Round returns the round in play.
func (s *GuessScreen) Round() *phil.Round { return s.round }

func (s *GuessScreen) nextRound() {
	s.round, s.err = phil.NewRound(s.rng, s.catalog, s.size)
	s.cursor = 0
}

func (s *GuessScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || s.round == nil {
		return s, nil
	}
	key := kmsg.String()

	if s.round.Done() {
		switch key {
		case "enter", "space", "n":
			s.nextRound()
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.round.Candidates)-1 {
			s.cursor++
		}
	case "enter", "space":
		s.guess(s.cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			s.guess(int(key[0] - '1'))
		}
	}
	return s, nil
}

func (s *GuessScreen) guess(i int) {
	correct, ok := s.round.Guess(i)
	if !ok {
		return
	}
	s.played++
	if correct {
		s.correct++
	}
	s.cursor = i
}

func (s *GuessScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.err != nil {
		return layout.Center(theme.Incorrect.Render("Kunne ikke lage en runde: "+s.err.Error()), width)
	}

	r := s.round
	var b strings.Builder
	b.WriteString(theme.Title.Render("Hvem er dette?"))
	b.WriteString("\n\n")

	clues := make([]string, 0, len(r.Clues))
	for _, c := range r.Clues {
		clues = append(clues, "• "+c)
	}
	b.WriteString(components.Card(theme.Selected.Render(r.Kind.Label()+":")+"\n"+
		layout.Wrap(strings.Join(clues, "\n"), cw-4, theme.Body), cw))
	b.WriteString("\n\n")

	for i, p := range r.Candidates {
		prefix := "  "
		if i == s.cursor && !r.Done() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, p.Name)

		var style lipgloss.Style
		switch {
		case r.Done() && i == r.Answer:
			style = theme.Correct
			line += " ✓"
		case r.Done() && i == r.Guessed():
			style = theme.Incorrect
			line += " ✗"
		case r.Done():
			style = theme.Muted
		case i == s.cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if r.Done() {
		b.WriteString("\n")
		subject := r.Subject()
		if r.Guessed() == r.Answer {
			b.WriteString(theme.Correct.Render("Riktig! Det var " + subject.Name + "."))
		} else {
			b.WriteString(theme.Incorrect.Render("Feil. Det var " + subject.Name + "."))
		}
		if subject.Represents != "" {
			b.WriteString("\n" + theme.Muted.Render(subject.FullName+" · "+subject.Represents))
		}
		b.WriteString("\n\n" + theme.Hint.Render("Trykk Enter for neste runde"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Width(cw).Render(b.String()))
}
