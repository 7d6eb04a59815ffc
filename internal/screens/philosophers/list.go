// Package philosophers holds the philosopher list and detail screens.
package philosophers

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	phil "github.com/aginor/exphil/internal/philosophers"
	"github.com/aginor/exphil/internal/router"
	"github.com/aginor/exphil/internal/screen"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

// ListScreen shows the tier-coloured philosopher list with a name filter.
type ListScreen struct {
	catalog *phil.Catalog
	filter  components.TextInput
	results []phil.Philosopher
	cursor  int
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)

// NewList creates the list screen over c.
func NewList(c *phil.Catalog) *ListScreen {
	return &ListScreen{
		catalog: c,
		filter:  components.NewTextInput("navn eller fullt navn", 40),
		results: c.All(),
	}
}

func (s *ListScreen) Init() tea.Cmd {
	return s.filter.Init()
}

func (s *ListScreen) Title() string {
	return "Filosofer"
}

func (s *ListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Skriv", Description: "Filtrer"},
		{Key: "↑↓", Description: "Velg"},
		{Key: "Enter", Description: "Åpne"},
		{Key: "Esc", Description: "Tilbake"},
	}
}

// Results returns the philosophers matching the current filter.
func (s *ListScreen) Results() []phil.Philosopher { return s.results }

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		case "down":
			if s.cursor < len(s.results)-1 {
				s.cursor++
			}
			return s, nil
		case "enter":
			if len(s.results) == 0 {
				return s, nil
			}
			return s, router.Push(NewDetail(s.results[s.cursor]))
		}
	}

	var cmd tea.Cmd
	before := s.filter.Value()
	s.filter, cmd = s.filter.Update(msg)
	if s.filter.Value() != before {
		s.results = s.catalog.Filter(s.filter.Value())
		s.cursor = 0
	}
	return s, cmd
}

func (s *ListScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.filter.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d av %d filosofer", len(s.results), s.catalog.Len())))
	b.WriteString("\n\n")

	if len(s.results) == 0 {
		b.WriteString(theme.Muted.Render("Ingen treff."))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Width(cw).Render(b.String()))
	}

	lines := s.renderLines(cw)
	visible := max(height-5, 3)
	start, end := window(len(lines), s.cursorLine(), visible)
	b.WriteString(strings.Join(lines[start:end], "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

// renderLines returns one line per philosopher with a heading before each
// tier group.
func (s *ListScreen) renderLines(cw int) []string {
	var lines []string
	var tier phil.Tier
	for i, p := range s.results {
		if i == 0 || p.Tier != tier {
			tier = p.Tier
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, TierStyle(tier).Bold(true).Render(strings.ToUpper(tier.Label())))
		}

		text := p.Name
		if p.Years != "" {
			text += " (" + p.Years + ")"
		}
		if p.Represents != "" {
			text += " · " + p.Represents
		}
		text = truncate(text, cw-2)

		if i == s.cursor {
			lines = append(lines, TierStyle(tier).Bold(true).Render("▸ "+text))
		} else {
			lines = append(lines, theme.Body.Render("  "+text))
		}
	}
	return lines
}

// cursorLine maps the cursor to its line index in renderLines.
func (s *ListScreen) cursorLine() int {
	line := 0
	var tier phil.Tier
	for i, p := range s.results {
		if i == 0 || p.Tier != tier {
			tier = p.Tier
			if i > 0 {
				line++
			}
			line++
		}
		if i == s.cursor {
			return line
		}
		line++
	}
	return line
}

// TierStyle returns the colour style of a tier.
func TierStyle(t phil.Tier) lipgloss.Style {
	switch t {
	case phil.TierTop10:
		return lipgloss.NewStyle().Foreground(theme.TierTop10)
	case phil.TierImportant:
		return lipgloss.NewStyle().Foreground(theme.TierImportant)
	case phil.TierNotable:
		return lipgloss.NewStyle().Foreground(theme.TierNotable)
	}
	return theme.Body
}

// window returns the [start, end) slice of n lines of at most size lines
// that keeps focus visible.
func window(n, focus, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := min(max(focus-size/2, 0), n-size)
	return start, start + size
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
