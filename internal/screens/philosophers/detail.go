package philosophers

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	phil "github.com/aginor/exphil/internal/philosophers"
	"github.com/aginor/exphil/internal/screen"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

// DetailScreen shows one philosopher with collapsible sections.
type DetailScreen struct {
	p        phil.Philosopher
	sections components.Collapsible
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates the detail screen for p. Empty sections are omitted;
// the first section starts open.
func NewDetail(p phil.Philosopher) *DetailScreen {
	var secs []components.Section
	add := func(title string, lines []string) {
		if len(lines) > 0 {
			secs = append(secs, components.Section{Title: title, Blocks: []components.Block{{Lines: lines}}})
		}
	}
	if p.About != "" {
		add("Om", []string{p.About})
	}
	add(phil.ClueContributions.Label(), bullets(p.Contributions))
	add(phil.ClueQuotes.Label(), bullets(p.Quotes))
	add("Til eksamen", bullets(p.ExamPoints))

	if len(secs) > 0 {
		secs[0].Open = true
	}
	return &DetailScreen{p: p, sections: components.Collapsible{Sections: secs}}
}

func bullets(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = "• " + it
	}
	return out
}

func (s *DetailScreen) Init() tea.Cmd { return nil }

func (s *DetailScreen) Title() string { return s.p.Name }

func (s *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Velg"},
		{Key: "Enter", Description: "Vis/skjul"},
		{Key: "Esc", Description: "Tilbake"},
	}
}

// Open reports whether section i is expanded.
func (s *DetailScreen) Open(i int) bool {
	return s.sections.IsOpen(i)
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.sections = s.sections.Update(msg)
	return s, nil
}

func (s *DetailScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	style := TierStyle(s.p.Tier)

	var b strings.Builder
	b.WriteString(style.Bold(true).Render(s.p.Name))
	if s.p.FullName != "" && s.p.FullName != s.p.Name {
		b.WriteString("  " + theme.Muted.Render(s.p.FullName))
	}
	b.WriteString("\n")
	b.WriteString(style.Render(s.p.Tier.Label()))

	var facts []string
	for _, f := range []string{s.p.Years, s.p.Epoch, s.p.Field} {
		if f != "" {
			facts = append(facts, f)
		}
	}
	if len(facts) > 0 {
		b.WriteString(theme.Muted.Render("  ·  " + strings.Join(facts, "  ·  ")))
	}
	if s.p.Represents != "" {
		b.WriteString("\n" + theme.Body.Render("Representerer: "+s.p.Represents))
	}
	b.WriteString("\n\n")

	if len(s.sections.Sections) == 0 {
		b.WriteString(theme.Hint.Render("Ingen biografi tilgjengelig."))
	} else {
		b.WriteString(s.sections.View(cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Width(cw).Render(b.String()))
}
