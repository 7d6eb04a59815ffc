// Package catalog holds the table of quiz categories and the source URL of
// each. The table is an explicit value passed to loaders; nothing here is
// package-level mutable state.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aginor/exphil/internal/question"
)

// ErrUnknownCategory is returned by Lookup for codes not in the table.
var ErrUnknownCategory = errors.New("unknown category")

// DefaultCode is the category used when a code is missing or unknown.
const DefaultCode = "00"

// Category is one selectable topic.
type Category struct {
	Code        string         `mapstructure:"code"`
	Name        string         `mapstructure:"name"`
	Description string         `mapstructure:"description"`
	URL         string         `mapstructure:"url"`
	Basis       question.Basis `mapstructure:"basis"`
}

// Label returns "CODE NAME" for list output.
func (c Category) Label() string {
	return c.Code + " " + c.Name
}

// Defaults returns the built-in category table.
func Defaults() []Category {
	return []Category{
		{
			Code:        "00",
			Name:        "VITE",
			Description: "epistemologi, vitenskapsteori, skeptisisme",
			URL:         "https://gist.githubusercontent.com/Eilertsten/85a25274b278a8992dddf8ede4bd5e63/raw/84984a729416b17428f1170acb81a85efb7e8734/00VITEquestionsSub",
			Basis:       question.BasisAuto,
		},
		{
			Code:        "01",
			Name:        "VÆRE",
			Description: "ontologi, virkelighet, metafysikk",
			URL:         "https://gist.githubusercontent.com/Eilertsten/ae0daf8954b57a3c95430bc8e378490e/raw/75d3b2b742d61bb6a385430f5c39699532698de3/01VEAREquestionsSub",
			Basis:       question.BasisAuto,
		},
		{
			Code:        "02",
			Name:        "GJØRE",
			Description: "etikk, moral, samfunnsfilosofi",
			URL:         "https://gist.githubusercontent.com/Eilertsten/84dd14fc0afd494cda1398eed02681f1/raw/443ee56f31c24f8d4836f97702f97c0b60262644/02GJOREquestionsSub",
			Basis:       question.BasisAuto,
		},
	}
}

// Catalog is an ordered, immutable category table.
type Catalog struct {
	categories []Category
	index      map[string]int
	fallback   string
}

// New validates categories and builds a Catalog. fallback names the code
// used for unknown lookups; empty means the first category.
func New(categories []Category, fallback string) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, errors.New("catalog: no categories configured")
	}

	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for _, cat := range categories {
		cat.Code = strings.TrimSpace(cat.Code)
		if cat.Code == "" {
			return nil, errors.New("catalog: category with empty code")
		}
		if cat.URL == "" {
			return nil, fmt.Errorf("catalog: category %s has no url", cat.Code)
		}
		if _, dup := c.index[cat.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate category code %s", cat.Code)
		}
		basis, err := question.ParseBasis(string(cat.Basis))
		if err != nil {
			return nil, fmt.Errorf("catalog: category %s: %w", cat.Code, err)
		}
		cat.Basis = basis
		if cat.Name == "" {
			cat.Name = cat.Code
		}
		c.index[cat.Code] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	switch {
	case fallback == "":
		c.fallback = c.categories[0].Code
	case c.has(fallback):
		c.fallback = fallback
	default:
		return nil, fmt.Errorf("catalog: default category %s: %w", fallback, ErrUnknownCategory)
	}
	return c, nil
}

// Default returns the catalog built from Defaults.
func Default() *Catalog {
	c, err := New(Defaults(), DefaultCode)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) has(code string) bool {
	_, ok := c.index[code]
	return ok
}

// All returns the categories in display order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }

// DefaultCode returns the fallback category code.
func (c *Catalog) DefaultCode() string { return c.fallback }

// Lookup returns the category for code or ErrUnknownCategory.
func (c *Catalog) Lookup(code string) (Category, error) {
	i, ok := c.index[code]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, code)
	}
	return c.categories[i], nil
}

// Resolve returns the category for code, falling back to the default
// category when code is unknown.
func (c *Catalog) Resolve(code string) Category {
	if i, ok := c.index[code]; ok {
		return c.categories[i]
	}
	return c.categories[c.index[c.fallback]]
}

// URL returns the source URL for code, with the same fallback as Resolve.
func (c *Catalog) URL(code string) string {
	return c.Resolve(code).URL
}

// Index returns the display position of code, or -1.
func (c *Catalog) Index(code string) int {
	if i, ok := c.index[code]; ok {
		return i
	}
	return -1
}

// At returns the category at display position i, wrapping around.
func (c *Catalog) At(i int) Category {
	n := len(c.categories)
	return c.categories[((i%n)+n)%n]
}

// Next returns the category after code, wrapping around.
func (c *Catalog) Next(code string) Category {
	return c.At(c.Index(c.Resolve(code).Code) + 1)
}

// Prev returns the category before code, wrapping around.
func (c *Catalog) Prev(code string) Category {
	return c.At(c.Index(c.Resolve(code).Code) - 1)
}
