// Package start is the root menu screen.
package start

import (
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	phil "github.com/aginor/exphil/internal/philosophers"
	"github.com/aginor/exphil/internal/router"
	"github.com/aginor/exphil/internal/screen"
	philscreen "github.com/aginor/exphil/internal/screens/philosophers"
	"github.com/aginor/exphil/internal/screens/philoquiz"
	"github.com/aginor/exphil/internal/screens/quiz"
	tipsscreen "github.com/aginor/exphil/internal/screens/tips"
	"github.com/aginor/exphil/internal/session"
	"github.com/aginor/exphil/internal/tips"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

const banner = `╔═╗═╗ ╦╔═╗╦ ╦╦╦
║╣ ╔╩╦╝╠═╝╠═╣║║
╚═╝╩ ╚═╩  ╩ ╩╩╩═╝`

// Deps are the services reachable from the start menu.
type Deps struct {
	Quiz         quiz.Deps
	Philosophers *phil.Catalog
	Tips         []tips.Section
	Rand         *rand.Rand
	Category     string // initial quiz category
}

// StartScreen shows the title and main menu.
type StartScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*StartScreen)(nil)
var _ screen.KeyHintProvider = (*StartScreen)(nil)

// New creates the start screen.
func New(deps Deps) *StartScreen {
	items := []components.MenuItem{
		{Label: "Quiz", Shortcut: "1", Action: func() tea.Cmd {
			return router.Push(quiz.New(deps.Quiz, session.ModeQuiz, deps.Category))
		}},
		{Label: "Lære", Shortcut: "2", Action: func() tea.Cmd {
			return router.Push(quiz.New(deps.Quiz, session.ModeLearn, deps.Category))
		}},
		{Label: "Filosofer", Shortcut: "3", Action: func() tea.Cmd {
			return router.Push(philscreen.NewList(deps.Philosophers))
		}},
		{Label: "Filosofer-quiz", Shortcut: "4", Action: func() tea.Cmd {
			return router.Push(philoquiz.New(deps.Philosophers, deps.Rand, phil.DefaultRoundSize))
		}},
		{Label: "Eksamenstips", Shortcut: "5", Action: func() tea.Cmd {
			return router.Push(tipsscreen.New(deps.Tips))
		}},
		{Label: "Avslutt", Shortcut: "6", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &StartScreen{menu: components.NewMenu(items)}
}

func (s *StartScreen) Init() tea.Cmd { return nil }

func (s *StartScreen) Title() string { return "Start" }

func (s *StartScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Velg"},
		{Key: "Enter", Description: "Start"},
		{Key: "1-6", Description: "Snarvei"},
		{Key: "Ctrl+C", Description: "Avslutt"},
	}
}

func (s *StartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *StartScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + 6)

	var sections []string
	if !compact {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner))
	}
	sections = append(sections,
		theme.Title.Render("EXAMEN PHILOSOPHICUM"),
		theme.Subtitle.Render("Øv til eksamen: quiz, læring, filosofer og tips"),
		s.menu.View(min(cw, 32)),
		theme.Hint.Render("Spørsmål eller feil? "+layout.SupportMail),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, interleave(sections, "")...)
	return components.Frame(content, width, height)
}

func interleave(parts []string, sep string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, strings.TrimRight(p, "\n"))
	}
	return out
}
