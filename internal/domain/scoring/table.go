// Package scoring turns place records into a per-category score breakdown.
package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Weight assigns points to a place category.
type Weight struct {
	Category string
	Points   int
}

// Table is an immutable, ordered mapping from category to weight. The key set
// is the universe of scored categories and doubles as the upstream type filter.
type Table struct {
	order   []string
	weights map[string]int
}

// DefaultTable returns the built-in weights.
func DefaultTable() Table {
	t, err := NewTable([]Weight{
		{Category: "bar", Points: 1},
		{Category: "night_club", Points: 2},
		{Category: "casino", Points: 3},
		{Category: "liquor_store", Points: 8},
		{Category: "place_of_worship", Points: 7},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable builds a Table keeping the order of weights.
func NewTable(weights []Weight) (Table, error) {
	if len(weights) == 0 {
		return Table{}, ErrEmptyTable
	}
	t := Table{
		order:   make([]string, 0, len(weights)),
		weights: make(map[string]int, len(weights)),
	}
	for _, w := range weights {
		category := strings.TrimSpace(w.Category)
		if category == "" {
			return Table{}, fmt.Errorf("%w: blank category", ErrInvalidWeight)
		}
		if w.Points <= 0 {
			return Table{}, fmt.Errorf("%w: %s has %d points, must be positive", ErrInvalidWeight, category, w.Points)
		}
		if _, dup := t.weights[category]; dup {
			return Table{}, fmt.Errorf("%w: duplicate category %s", ErrInvalidWeight, category)
		}
		t.order = append(t.order, category)
		t.weights[category] = w.Points
	}
	return t, nil
}

// TableFromMap builds a Table from a map, ordering categories by name so the
// output stays reproducible.
func TableFromMap(m map[string]int) (Table, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	weights := make([]Weight, 0, len(names))
	for _, name := range names {
		weights = append(weights, Weight{Category: name, Points: m[name]})
	}
	return NewTable(weights)
}

// Categories returns the scored categories in table order.
func (t Table) Categories() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Weight returns the points for category and whether it is scored.
func (t Table) Weight(category string) (int, bool) {
	w, ok := t.weights[category]
	return w, ok
}

// Len returns the number of scored categories.
func (t Table) Len() int {
	return len(t.order)
}
