// Package tips holds the exam preparation screen.
package tips

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/screen"
	"github.com/aginor/exphil/internal/tips"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

// TipsScreen lists the preparation notes as collapsible sections, all
// closed initially.
type TipsScreen struct {
	sections components.Collapsible
}

var _ screen.Screen = (*TipsScreen)(nil)
var _ screen.KeyHintProvider = (*TipsScreen)(nil)

// New creates the screen over secs.
func New(secs []tips.Section) *TipsScreen {
	out := make([]components.Section, len(secs))
	for i, s := range secs {
		blocks := make([]components.Block, len(s.Groups))
		for j, g := range s.Groups {
			blocks[j] = components.Block{Heading: g.Heading, Lines: g.Lines()}
		}
		out[i] = components.Section{Title: s.Title, Blocks: blocks}
	}
	return &TipsScreen{sections: components.Collapsible{Sections: out}}
}

func (s *TipsScreen) Init() tea.Cmd { return nil }

func (s *TipsScreen) Title() string { return "Eksamenstips" }

func (s *TipsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Velg"},
		{Key: "Enter", Description: "Vis/skjul"},
		{Key: "Esc", Description: "Tilbake"},
	}
}

// Open reports whether section i is expanded.
func (s *TipsScreen) Open(i int) bool { return s.sections.IsOpen(i) }

func (s *TipsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.sections = s.sections.Update(msg)
	return s, nil
}

func (s *TipsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	head := theme.Title.Width(cw).Render("EX PHIL FORBEREDELSER")
	lines, cursor := s.sections.Lines(cw)

	// Scroll so the selected heading stays on screen.
	if avail := height - 2; avail > 0 && len(lines) > avail {
		start := min(cursor, len(lines)-avail)
		lines = lines[start : start+avail]
	}

	body := head + "\n\n" + strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Width(cw).Render(body))
}
