package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/session"
	"github.com/aginor/exphil/internal/ui/theme"
)

// OptionList renders numbered answer options with their highlight state.
type OptionList struct {
	Options    []string
	Highlights []session.Highlight
	Cursor     int  // -1 hides the cursor
	Locked     bool // answering disabled; options are dimmed unless highlighted
}

// View renders one option per line wrapped to width.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Options {
		h := session.HighlightNeutral
		if i < len(o.Highlights) {
			h = o.Highlights[i]
		}

		prefix := "  "
		if i == o.Cursor && !o.Locked {
			prefix = "▸ "
		}
		mark := ""
		switch h {
		case session.HighlightCorrect:
			mark = " ✓"
		case session.HighlightIncorrect:
			mark = " ✗"
		}
		line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, opt, mark)

		var style lipgloss.Style
		switch {
		case h == session.HighlightCorrect:
			style = theme.Correct
		case h == session.HighlightIncorrect:
			style = theme.Incorrect
		case o.Locked:
			style = theme.Muted
		case i == o.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Width(max(width, 1)).Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
