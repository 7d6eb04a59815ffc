package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/ui/theme"
)

// ButtonRow is a horizontal set of buttons with one focused.
type ButtonRow struct {
	Labels  []string
	Focused int
}

// NewButtonRow creates a row focused on the first button.
func NewButtonRow(labels ...string) ButtonRow {
	return ButtonRow{Labels: labels}
}

// Update moves focus with left/right/tab and reports the pressed button
// index on enter, or -1.
func (b ButtonRow) Update(msg tea.Msg) (ButtonRow, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(b.Labels) == 0 {
		return b, -1
	}

	switch kmsg.String() {
	case "left", "h", "shift+tab":
		b.Focused = (b.Focused - 1 + len(b.Labels)) % len(b.Labels)
	case "right", "l", "tab":
		b.Focused = (b.Focused + 1) % len(b.Labels)
	case "enter", "space":
		return b, b.Focused
	}
	return b, -1
}

// View renders the buttons side by side.
func (b ButtonRow) View() string {
	return b.ViewSpan(0, len(b.Labels), 0)
}

// ViewSpan renders buttons [from, to) side by side, starting a new line
// whenever the next button would exceed width. A width of zero or less
// never wraps.
func (b ButtonRow) ViewSpan(from, to, width int) string {
	from, to = max(from, 0), min(to, len(b.Labels))
	var rows []string
	var row []string
	rowWidth := 0
	for i := from; i < to; i++ {
		btn := theme.ButtonInactive.Render(b.Labels[i])
		if i == b.Focused {
			btn = theme.ButtonActive.Render("▸ " + b.Labels[i])
		}
		w := lipgloss.Width(btn)
		if len(row) > 0 && width > 0 && rowWidth+1+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
			row, rowWidth = nil, 0
		}
		if len(row) > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, btn)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}
