// Package philosophers provides the embedded catalog of course
// philosophers and the guessing round built on it.
package philosophers

import (
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

//go:embed philosophers.json
var catalogJSON []byte

// Tier ranks a philosopher's importance for the exam.
type Tier string

const (
	TierTop10     Tier = "top10"
	TierImportant Tier = "important"
	TierNotable   Tier = "notable"
)

// Tiers lists the tiers from most to least important.
var Tiers = []Tier{TierTop10, TierImportant, TierNotable}

// Label returns the display heading of the tier.
func (t Tier) Label() string {
	switch t {
	case TierTop10:
		return "Topp 10"
	case TierImportant:
		return "Svært viktige"
	case TierNotable:
		return "Viktige"
	}
	return string(t)
}

func (t Tier) rank() int {
	if i := slices.Index(Tiers, t); i >= 0 {
		return i
	}
	return len(Tiers)
}

// Philosopher is one catalog entry. Biography fields may be empty.
type Philosopher struct {
	Name          string   `json:"name"`
	FullName      string   `json:"fullName"`
	Tier          Tier     `json:"tier"`
	Years         string   `json:"years"`
	Epoch         string   `json:"epoch"`
	Field         string   `json:"field"`
	Represents    string   `json:"represents"`
	About         string   `json:"about"`
	Contributions []string `json:"contributions"`
	Quotes        []string `json:"quotes"`
	ExamPoints    []string `json:"examPoints"`
}

// Catalog is an immutable, ordered set of philosophers.
type Catalog struct {
	list   []Philosopher
	byName map[string]int
}

// Parse builds a Catalog from JSON of the form {"philosophers": [...]}.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Philosophers []Philosopher `json:"philosophers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode philosophers: %w", err)
	}

	c := &Catalog{byName: make(map[string]int, len(doc.Philosophers))}
	for _, p := range doc.Philosophers {
		if p.Name == "" {
			return nil, errors.New("philosopher without name")
		}
		if p.FullName == "" {
			p.FullName = p.Name
		}
		c.list = append(c.list, p)
	}

	slices.SortStableFunc(c.list, func(a, b Philosopher) int {
		if r := cmp.Compare(a.Tier.rank(), b.Tier.rank()); r != 0 {
			return r
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i, p := range c.list {
		key := strings.ToLower(p.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate philosopher %q", p.Name)
		}
		c.byName[key] = i
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogJSON)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Len returns the number of philosophers.
func (c *Catalog) Len() int { return len(c.list) }

// All returns every philosopher ordered by tier, then name.
func (c *Catalog) All() []Philosopher {
	return slices.Clone(c.list)
}

// ByTier returns the philosophers of one tier in name order.
func (c *Catalog) ByTier(t Tier) []Philosopher {
	var out []Philosopher
	for _, p := range c.list {
		if p.Tier == t {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns philosophers whose name or full name contains query,
// ignoring case. An empty query returns All.
func (c *Catalog) Filter(query string) []Philosopher {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []Philosopher
	for _, p := range c.list {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.FullName), q) {
			out = append(out, p)
		}
	}
	return out
}

// Get looks up a philosopher by short name, ignoring case.
func (c *Catalog) Get(name string) (Philosopher, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Philosopher{}, false
	}
	return c.list[i], true
}

// HasBiography reports whether any detail field beyond the names is set.
func (p Philosopher) HasBiography() bool {
	return p.About != "" || p.Years != "" || len(p.Contributions) > 0 ||
		len(p.Quotes) > 0 || len(p.ExamPoints) > 0
}
