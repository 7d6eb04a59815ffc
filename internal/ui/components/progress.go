package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar labelled "n av total".
type ProgressBar struct {
	Current int
	Total   int
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(current, total, width int) ProgressBar {
	return ProgressBar{Current: current, Total: total, Width: width}
}

// Percent returns the filled fraction in [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Current)/float64(p.Total), 0), 1)
}

// View renders the bar followed by its label.
func (p ProgressBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d av %d", p.Current, p.Total))

	barWidth := max(p.Width-lipgloss.Width(label), 4)
	filled := min(int(float64(barWidth)*p.Percent()), barWidth)

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		label
}
