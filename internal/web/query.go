package web

import (
	"net/url"
	"slices"
	"strings"

	"condo/internal/table"
)

// Query parameters carrying list state.
const (
	paramSearch      = "q"
	paramSort        = "sort"
	paramDir         = "dir"
	paramShowFilters = "filters"
	// paramOrder lists the active filter keys in the order they were
	// applied, so a filter form that submits selects in column order does
	// not reshuffle the chips.
	paramOrder   = "fo"
	filterPrefix = "f."
)

type queryPair struct{ key, value string }

// orderedQuery splits a raw query keeping parameter order.
func orderedQuery(raw string) []queryPair {
	var out []queryPair
	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		out = append(out, queryPair{key, value})
	}
	return out
}

// stateFromQuery rebuilds list state for t from a request query. Unknown
// sort columns and directions fall back to the table's initial sort.
func stateFromQuery[T any](t *table.Table[T], raw string) table.State {
	st := t.NewState()
	pairs := orderedQuery(raw)

	filters := map[string]string{}
	var seen []string
	var order []string
	sortSet := false
	for _, p := range pairs {
		switch {
		case p.key == paramSearch:
			st.SetSearch(p.value)
		case p.key == paramSort:
			sortSet = true
			if p.value == "" {
				st.SortColumn = ""
				continue
			}
			if c, ok := t.Column(p.value); ok && c.Sortable {
				st.SortColumn = c.Key
			}
		case p.key == paramDir:
			if d, err := table.ParseDirection(p.value); err == nil {
				st.SortDirection = d
			}
		case p.key == paramShowFilters:
			st.ShowFilters = p.value == "1" || p.value == "true"
		case p.key == paramOrder:
			for k := range strings.SplitSeq(p.value, ",") {
				if k != "" {
					order = append(order, k)
				}
			}
		case strings.HasPrefix(p.key, filterPrefix):
			key := strings.TrimPrefix(p.key, filterPrefix)
			if _, ok := t.Column(key); !ok {
				continue
			}
			if _, dup := filters[key]; !dup {
				seen = append(seen, key)
			}
			filters[key] = p.value
		}
	}
	if sortSet && st.SortColumn == "" {
		st.SortDirection = table.Asc
	}

	for _, key := range order {
		if v, ok := filters[key]; ok {
			st.ApplyFilter(key, v)
		}
	}
	for _, key := range seen {
		if slices.Contains(order, key) {
			continue
		}
		st.ApplyFilter(key, filters[key])
	}
	return st
}

// encodeState writes st as a query string, omitting defaults.
func encodeState(st table.State, initial table.State) string {
	var parts []string
	add := func(k, v string) {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}
	if st.SearchTerm != "" {
		add(paramSearch, st.SearchTerm)
	}
	if st.SortColumn != initial.SortColumn || st.SortDirection != initial.SortDirection {
		add(paramSort, st.SortColumn)
		if st.SortColumn != "" {
			add(paramDir, string(st.SortDirection))
		}
	}
	keys := make([]string, 0, len(st.ActiveFilters))
	for _, f := range st.ActiveFilters {
		add(filterPrefix+f.Key, f.Value)
		keys = append(keys, f.Key)
	}
	if len(keys) > 1 {
		add(paramOrder, strings.Join(keys, ","))
	}
	if st.ShowFilters {
		add(paramShowFilters, "1")
	}
	return strings.Join(parts, "&")
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
