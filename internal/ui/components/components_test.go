package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/aginor/exphil/internal/session"
)

func TestOptionList(t *testing.T) {
	o := OptionList{
		Options:    []string{"Descartes", "Hume", "Kant"},
		Highlights: []session.Highlight{session.HighlightNeutral, session.HighlightIncorrect, session.HighlightCorrect},
		Cursor:     1,
		Locked:     true,
	}
	view := o.View(40)
	for _, want := range []string{"1) Descartes", "2) Hume ✗", "3) Kant ✓"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "▸") {
		t.Error("locked list should hide the cursor")
	}

	o.Locked = false
	o.Highlights = nil
	if !strings.Contains(o.View(40), "▸ 2) Hume") {
		t.Error("cursor not shown on option 2")
	}
}

func TestButtonRow(t *testing.T) {
	tests := []struct {
		name        string
		keys        []tea.KeyPressMsg
		wantFocused int
		wantPressed int
	}{
		{"enter on first", []tea.KeyPressMsg{{Code: tea.KeyEnter}}, 0, 0},
		{"right then enter", []tea.KeyPressMsg{{Code: tea.KeyRight}, {Code: tea.KeyEnter}}, 1, 1},
		{"left wraps", []tea.KeyPressMsg{{Code: tea.KeyLeft}}, 2, -1},
		{"tab wraps forward", []tea.KeyPressMsg{{Code: tea.KeyTab}, {Code: tea.KeyTab}, {Code: tea.KeyTab}}, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewButtonRow("a", "b", "c")
			pressed := -1
			for _, k := range tt.keys {
				b, pressed = b.Update(k)
			}
			if b.Focused != tt.wantFocused {
				t.Errorf("focused = %d, want %d", b.Focused, tt.wantFocused)
			}
			if pressed != tt.wantPressed {
				t.Errorf("pressed = %d, want %d", pressed, tt.wantPressed)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		want           float64
	}{
		{0, 0, 0},
		{1, 4, 0.25},
		{4, 4, 1},
		{5, 4, 1},
	}
	for _, tt := range tests {
		if got := NewProgressBar(tt.current, tt.total, 40).Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
	if !strings.Contains(NewProgressBar(3, 10, 40).View(), "3 av 10") {
		t.Error("label missing")
	}
}

func TestMenu(t *testing.T) {
	var picked string
	item := func(label, shortcut string, disabled bool) MenuItem {
		return MenuItem{Label: label, Shortcut: shortcut, Disabled: disabled, Action: func() tea.Cmd {
			picked = label
			return nil
		}}
	}
	m := NewMenu([]MenuItem{
		item("Av", "", true),
		item("Quiz", "1", false),
		item("Lære", "2", false),
		item("Skjult", "3", true),
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want first enabled item", m.Selected)
	}

	down := tea.KeyPressMsg{Code: tea.KeyDown}
	up := tea.KeyPressMsg{Code: tea.KeyUp}

	m, _ = m.Update(down)
	if m.Selected != 2 {
		t.Errorf("after down = %d, want 2", m.Selected)
	}
	m, _ = m.Update(down)
	if m.Selected != 1 {
		t.Errorf("down should wrap past disabled items, got %d", m.Selected)
	}
	m, _ = m.Update(up)
	if m.Selected != 2 {
		t.Errorf("up should wrap to the last enabled item, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "Lære" {
		t.Errorf("enter picked %q", picked)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	if picked != "Quiz" || m.Selected != 1 {
		t.Errorf("shortcut picked %q at %d", picked, m.Selected)
	}
	picked = ""
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if picked != "" {
		t.Errorf("disabled shortcut picked %q", picked)
	}

	view := m.View(30)
	if !strings.Contains(view, "▸ 1  Quiz") {
		t.Errorf("view missing selected item:\n%s", view)
	}
}

func TestCollapsible(t *testing.T) {
	c := Collapsible{Sections: []Section{
		{Title: "ETIKK", Blocks: []Block{{Heading: "Pliktetikk", Lines: []string{"• Kant"}}}},
		{Title: "TOM"},
	}}

	lines, cursor := c.Lines(40)
	if len(lines) != 2 || cursor != 0 {
		t.Fatalf("collapsed: %d lines, cursor %d", len(lines), cursor)
	}

	c = c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := c.View(40)
	for _, want := range []string{"▸ − ETIKK", "Pliktetikk", "• Kant", "+ TOM"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	c = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	c = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if c.Cursor != 1 {
		t.Errorf("cursor = %d, want clamped at 1", c.Cursor)
	}
	if _, cursor = c.Lines(40); cursor != 3 {
		t.Errorf("cursor line = %d, want 3", cursor)
	}
	c = c.Update(tea.KeyPressMsg{Code: '+', Text: "+"})
	if !c.IsOpen(1) || !c.IsOpen(0) || c.IsOpen(2) {
		t.Error("unexpected open state")
	}
}

func TestButtonRowViewSpan(t *testing.T) {
	b := NewButtonRow("Start", "00 Filosofi", "10 Logikk", "20 Etikk")
	b.Focused = 2

	one := b.ViewSpan(1, 4, 0)
	if strings.Contains(one, "Start") || strings.Count(one, "\n") != strings.Count(b.ViewSpan(1, 2, 0), "\n") {
		t.Errorf("unwrapped span should be a single row without Start:\n%s", one)
	}
	if !strings.Contains(one, "▸ 10 Logikk") {
		t.Error("focused button not marked")
	}

	wrapped := b.ViewSpan(1, 4, 20)
	if strings.Count(wrapped, "\n") <= strings.Count(one, "\n") {
		t.Errorf("narrow span should wrap:\n%s", wrapped)
	}
	for _, want := range []string{"00 Filosofi", "10 Logikk", "20 Etikk"} {
		if !strings.Contains(wrapped, want) {
			t.Errorf("wrapped view missing %q", want)
		}
	}
}
