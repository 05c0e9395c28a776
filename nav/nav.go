// Package nav provides a linear cursor over the populated statistics of a
// bag, in category declaration order, wrapping at both ends.
package nav

import (
	"slices"

	"github.com/histtext/insights/category"
	"github.com/histtext/insights/stats"
)

// Direction selects which way Navigate moves.
type Direction string

const (
	Next Direction = "next"
	Prev Direction = "prev"
)

// State is the navigation position over the flattened key order. Zero Total
// or an out-of-sync selection make Navigate a no-op; the caller reconciles
// by rebuilding the state from current data.
type State struct {
	Keys  []string `json:"keys"`
	Index int      `json:"index"` // -1 when the selected key is not in Keys
}

// Flatten produces the stable total order of populated statistic keys:
// categories in declaration order, member keys in declared order, present
// keys only.
func Flatten(categories []category.Category, bag stats.Bag) []string {
	var keys []string
	for _, c := range categories {
		for _, key := range c.MemberKeys {
			if bag.Has(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// NewState flattens the categories and positions the cursor on selected.
func NewState(categories []category.Category, bag stats.Bag, selected string) State {
	keys := Flatten(categories, bag)
	return State{Keys: keys, Index: slices.Index(keys, selected)}
}

// Total returns the number of navigable statistics.
func (s State) Total() int {
	return len(s.Keys)
}

// Current returns the selected key, or "" when the cursor is out of sync.
func (s State) Current() string {
	if s.Index < 0 || s.Index >= len(s.Keys) {
		return ""
	}
	return s.Keys[s.Index]
}

// IsFirst reports whether the cursor is on the first statistic. False when
// there is nothing to navigate.
func (s State) IsFirst() bool {
	return s.Total() > 0 && s.Index == 0
}

// IsLast reports whether the cursor is on the last statistic. False when
// there is nothing to navigate.
func (s State) IsLast() bool {
	return s.Total() > 0 && s.Index == s.Total()-1
}

// Navigate moves the cursor one step, wrapping at the ends. It returns the
// state unchanged when there is nothing to navigate or the selection is out
// of sync with the key list.
func (s State) Navigate(dir Direction) State {
	total := s.Total()
	if total == 0 || s.Index < 0 || s.Index >= total {
		return s
	}
	switch dir {
	case Next:
		s.Index = (s.Index + 1) % total
	case Prev:
		s.Index = (s.Index - 1 + total) % total
	}
	return s
}
