package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Shortcut, when set, activates the item
// directly.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of buttons. The cursor wraps around and skips
// disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	return m
}

// move steps the cursor dir positions at a time until it lands on an
// enabled item. It leaves the cursor alone when every item is disabled.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.move(-1)
		return m, nil
	case "down", "j":
		m.move(1)
		return m, nil
	case "enter":
		return m, m.activate(m.Selected)
	}
	for i, item := range m.Items {
		if item.Shortcut != "" && item.Shortcut == key && !item.Disabled {
			m.Selected = i
			return m, m.activate(i)
		}
	}
	return m, nil
}

// View renders each item as a centered button of the given width.
func (m Menu) View(width int) string {
	var b strings.Builder
	for i, item := range m.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := item.Label
		if item.Shortcut != "" {
			label = item.Shortcut + "  " + label
		}
		style := theme.ButtonInactive
		if item.Disabled {
			style = style.Foreground(theme.TextDim)
		} else if i == m.Selected {
			style = theme.ButtonActive
			label = "▸ " + label
		}
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(label))
	}
	return b.String()
}
