package table

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the sort order applied to the sort column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" (any case). Anything else is an error.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", s)
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Filter is one active column constraint.
type Filter struct {
	Key   string
	Value string
}

// State is the interaction state of one table instance. The zero value is
// a valid empty state. It is owned by a single view and never persisted.
type State struct {
	SearchTerm    string
	SortColumn    string
	SortDirection Direction
	// ActiveFilters keeps insertion order so chips render in the order the
	// user picked them.
	ActiveFilters []Filter
	ShowFilters   bool
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	s.ActiveFilters = slices.Clone(s.ActiveFilters)
	return s
}

// SetSearch replaces the search term.
func (s *State) SetSearch(term string) {
	s.SearchTerm = term
}

// ToggleSort flips the direction when key is already the sort column and
// otherwise makes key the sort column in ascending order.
func (s *State) ToggleSort(key string) {
	if s.SortColumn == key {
		s.SortDirection = s.direction().Reverse()
		return
	}
	s.SortColumn = key
	s.SortDirection = Asc
}

func (s State) direction() Direction {
	if s.SortDirection == "" {
		return Asc
	}
	return s.SortDirection
}

// Filter returns the active value for key.
func (s State) Filter(key string) (string, bool) {
	for _, f := range s.ActiveFilters {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// ApplyFilter sets the constraint for key. Re-applying an existing key keeps
// its position; an empty value removes the constraint, like picking "Todos".
func (s *State) ApplyFilter(key, value string) {
	if value == "" {
		s.RemoveFilter(key)
		return
	}
	for i := range s.ActiveFilters {
		if s.ActiveFilters[i].Key == key {
			s.ActiveFilters[i].Value = value
			return
		}
	}
	s.ActiveFilters = append(s.ActiveFilters, Filter{Key: key, Value: value})
}

// RemoveFilter drops the constraint for key only.
func (s *State) RemoveFilter(key string) {
	s.ActiveFilters = slices.DeleteFunc(s.ActiveFilters, func(f Filter) bool {
		return f.Key == key
	})
	if len(s.ActiveFilters) == 0 {
		s.ActiveFilters = nil
	}
}

// ClearAll empties the search term and every filter. Sorting is not a filter
// and is left alone.
func (s *State) ClearAll() {
	s.SearchTerm = ""
	s.ActiveFilters = nil
}

// ToggleFilters shows or hides the filter panel.
func (s *State) ToggleFilters() {
	s.ShowFilters = !s.ShowFilters
}

// HasConstraints reports whether a search term or any filter is active.
func (s State) HasConstraints() bool {
	return s.SearchTerm != "" || len(s.ActiveFilters) > 0
}
