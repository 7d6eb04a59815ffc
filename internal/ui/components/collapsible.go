package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

// Block is a run of body lines under an optional heading.
type Block struct {
	Heading string
	Lines   []string
}

// Section is one expandable entry of a Collapsible.
type Section struct {
	Title  string
	Blocks []Block
	Open   bool
}

// Collapsible is a vertical list of sections toggled open and closed
// with enter, space, + or -.
type Collapsible struct {
	Sections []Section
	Cursor   int
}

// IsOpen reports whether section i is expanded.
func (c Collapsible) IsOpen(i int) bool {
	return i >= 0 && i < len(c.Sections) && c.Sections[i].Open
}

func (c Collapsible) Update(msg tea.Msg) Collapsible {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Sections) == 0 {
		return c
	}
	switch kmsg.String() {
	case "up", "k":
		c.Cursor = max(c.Cursor-1, 0)
	case "down", "j":
		c.Cursor = min(c.Cursor+1, len(c.Sections)-1)
	case "enter", "space", "+", "-":
		c.Sections[c.Cursor].Open = !c.Sections[c.Cursor].Open
	}
	return c
}

// Lines renders the sections at width and returns the rendered lines
// together with the index of the line holding the cursor heading.
func (c Collapsible) Lines(width int) ([]string, int) {
	var out []string
	cursorLine := 0
	for i, sec := range c.Sections {
		marker := "+"
		if sec.Open {
			marker = "−"
		}
		head := marker + " " + sec.Title
		if i == c.Cursor {
			cursorLine = len(out)
			out = append(out, theme.Selected.Render("▸ "+head))
		} else {
			out = append(out, theme.Body.Render("  "+head))
		}
		if !sec.Open {
			continue
		}
		for _, blk := range sec.Blocks {
			if blk.Heading != "" {
				out = append(out, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("    "+blk.Heading))
			}
			for _, line := range blk.Lines {
				out = append(out, strings.Split(layout.Wrap("    "+line, width, theme.Body), "\n")...)
			}
		}
	}
	return out, cursorLine
}

func (c Collapsible) View(width int) string {
	lines, _ := c.Lines(width)
	return strings.Join(lines, "\n")
}
