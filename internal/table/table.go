// Package table derives and lays out the rows of a filterable, sortable,
// searchable list of records. It holds no I/O: callers pass in records that
// are already loaded and get back the visible subset or a view model to
// render as a desktop table or as mobile cards.
package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// FilterOption is one choice of a column's filter select.
type FilterOption struct {
	Label string
	Value string
}

// Column describes how one field of T is read, shown, searched and sorted.
type Column[T any] struct {
	Header string
	// Key identifies the column in sort and filter state.
	Key string
	// Value reads the raw field. It is what filters, search and sort see.
	Value func(T) any
	// Cell optionally replaces the default rendering of Value. It must be a
	// pure function of the record.
	Cell          func(T) string
	Sortable      bool
	Searchable    bool
	FilterOptions []FilterOption
}

// Text renders the column for one record.
func (c Column[T]) Text(item T) string {
	if c.Cell != nil {
		return c.Cell(item)
	}
	return Display(c.value(item))
}

func (c Column[T]) value(item T) any {
	if c.Value == nil {
		return Undefined
	}
	return c.Value(item)
}

const (
	DefaultEmptyMessage      = "Nenhum dado encontrado"
	DefaultSearchPlaceholder = "Buscar..."
)

// Table is the configuration of one list. Columns are not mutated after
// construction; per-view interaction lives in State.
type Table[T any] struct {
	Columns []Column[T]
	// KeyExtractor identifies a record. Callers guarantee uniqueness within
	// one data set.
	KeyExtractor func(T) string
	// OnRowClick fires once per activation of a rendered row.
	OnRowClick           func(T)
	EmptyMessage         string
	SearchPlaceholder    string
	InitialSortColumn    string
	InitialSortDirection Direction
}

// Validate checks the configuration for mistakes that would otherwise only
// show up as blank cells.
func (t *Table[T]) Validate() error {
	var errs []error
	if t.KeyExtractor == nil {
		errs = append(errs, errors.New("key extractor is required"))
	}
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		if c.Key == "" {
			errs = append(errs, fmt.Errorf("column %d (%q) has no key", i, c.Header))
			continue
		}
		if seen[c.Key] {
			errs = append(errs, fmt.Errorf("duplicate column key %q", c.Key))
		}
		seen[c.Key] = true
		if c.Value == nil {
			errs = append(errs, fmt.Errorf("column %q has no accessor", c.Key))
		}
	}
	return errors.Join(errs...)
}

// NewState returns the empty state a freshly mounted view starts with.
func (t *Table[T]) NewState() State {
	dir := t.InitialSortDirection
	if dir == "" {
		dir = Asc
	}
	return State{SortColumn: t.InitialSortColumn, SortDirection: dir}
}

// Column looks up a column by key.
func (t *Table[T]) Column(key string) (Column[T], bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) emptyMessage() string {
	if t.EmptyMessage == "" {
		return DefaultEmptyMessage
	}
	return t.EmptyMessage
}

func (t *Table[T]) searchPlaceholder() string {
	if t.SearchPlaceholder == "" {
		return DefaultSearchPlaceholder
	}
	return t.SearchPlaceholder
}

// valueOf reads key from item. Keys without a column read as undefined.
func (t *Table[T]) valueOf(item T, key string) any {
	c, ok := t.Column(key)
	if !ok {
		return Undefined
	}
	return c.value(item)
}

// Derive returns the visible rows: column filters first, then the search
// term, then the sort. The input slice is never modified.
func (t *Table[T]) Derive(data []T, s State) []T {
	rows := t.filter(data, s.ActiveFilters)
	rows = t.search(rows, s.SearchTerm)
	return t.sort(rows, s.SortColumn, s.direction())
}

func (t *Table[T]) filter(data []T, filters []Filter) []T {
	out := slices.Clone(data)
	for _, f := range filters {
		if f.Value == "" {
			continue
		}
		want := strings.ToLower(f.Value)
		out = slices.DeleteFunc(out, func(item T) bool {
			return strings.ToLower(Stringify(t.valueOf(item, f.Key))) != want
		})
	}
	return out
}

func (t *Table[T]) search(rows []T, term string) []T {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)
	return slices.DeleteFunc(rows, func(item T) bool {
		for _, c := range t.Columns {
			if !c.Searchable {
				continue
			}
			if strings.Contains(strings.ToLower(Stringify(c.value(item))), needle) {
				return false
			}
		}
		return true
	})
}

func (t *Table[T]) sort(rows []T, key string, dir Direction) []T {
	if key == "" {
		return rows
	}
	type keyed struct {
		item  T
		value any
	}
	ks := make([]keyed, len(rows))
	for i, item := range rows {
		ks[i] = keyed{item: item, value: t.valueOf(item, key)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		c := Compare(a.value, b.value)
		if dir == Desc {
			return -c
		}
		return c
	})
	for i := range ks {
		rows[i] = ks[i].item
	}
	return rows
}

// Chip is a removable label for one active filter.
type Chip struct {
	Key   string
	Value string
	Label string
}

// Chips lists the active filters as "<header>: <value>" in the order they
// were applied.
func (t *Table[T]) Chips(s State) []Chip {
	chips := make([]Chip, 0, len(s.ActiveFilters))
	for _, f := range s.ActiveFilters {
		header := ""
		if c, ok := t.Column(f.Key); ok {
			header = c.Header
		}
		chips = append(chips, Chip{Key: f.Key, Value: f.Value, Label: header + ": " + f.Value})
	}
	return chips
}

// Activate invokes OnRowClick for the visible row identified by key. It
// reports whether a callback ran.
func (t *Table[T]) Activate(data []T, s State, key string) bool {
	if t.OnRowClick == nil || t.KeyExtractor == nil {
		return false
	}
	for _, item := range t.Derive(data, s) {
		if t.KeyExtractor(item) == key {
			t.OnRowClick(item)
			return true
		}
	}
	return false
}
