// Package tips provides the embedded exam preparation notes: exam tips,
// a timeline and the main positions per branch of philosophy.
package tips

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

//go:embed tips.json
var tipsJSON []byte

// Style controls how the items of a group are listed.
type Style string

const (
	StyleBullet   Style = "bullet" // default
	StyleNumbered Style = "numbered"
	StylePlain    Style = "plain"
)

// Group is a list of items under an optional heading.
type Group struct {
	Heading string   `json:"heading"`
	Style   Style    `json:"style"`
	Items   []string `json:"items"`
}

// Lines returns the items with their list markers.
func (g Group) Lines() []string {
	out := make([]string, len(g.Items))
	for i, item := range g.Items {
		switch g.Style {
		case StyleNumbered:
			out[i] = strconv.Itoa(i+1) + ". " + item
		case StylePlain:
			out[i] = item
		default:
			out[i] = "• " + item
		}
	}
	return out
}

// Section is one topic of the notes.
type Section struct {
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

// Parse decodes notes of the form {"sections": [...]}. Every section needs
// a title and at least one item.
func Parse(data []byte) ([]Section, error) {
	var doc struct {
		Sections []Section `json:"sections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}
	for i, s := range doc.Sections {
		if s.Title == "" {
			return nil, errors.New("tips section without title")
		}
		items := 0
		for j, g := range s.Groups {
			switch g.Style {
			case "":
				doc.Sections[i].Groups[j].Style = StyleBullet
			case StyleBullet, StyleNumbered, StylePlain:
			default:
				return nil, fmt.Errorf("section %q: unknown style %q", s.Title, g.Style)
			}
			items += len(g.Items)
		}
		if items == 0 {
			return nil, fmt.Errorf("section %q has no items", s.Title)
		}
	}
	return doc.Sections, nil
}

var (
	defaultOnce     sync.Once
	defaultSections []Section
)

// Default returns the embedded notes in display order.
func Default() []Section {
	defaultOnce.Do(func() {
		s, err := Parse(tipsJSON)
		if err != nil {
			panic(err)
		}
		defaultSections = s
	})
	return defaultSections
}
