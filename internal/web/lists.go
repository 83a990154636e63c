package web

import (
	"context"
	"net/http"
	"strings"

	"condo/internal/auth"
	"condo/internal/model"
	"condo/internal/table"
)

// rowAction is a control rendered next to a row, outside its link.
type rowAction struct {
	Label string
	Href  string
	// Method "POST" renders a form button; anything else a link.
	Method  string
	Confirm string
	Fields  map[string]string
}

// resourceList wires one record type to its table, page and API.
type resourceList[T any] struct {
	resource model.Resource
	title    string
	path     string
	table    func() *table.Table[T]
	roles    []string
	actions  func(T, auth.User) []rowAction

	// detail links rows to path/{key} when set.
	detail bool

	// newRoles may open newPath; empty means anyone allowed to list.
	newPath  string
	newRoles []string

	// clean strips fields that must not leave the server.
	clean func(T) T
}

func (l *resourceList[T]) allowed(u auth.User) bool {
	return len(l.roles) == 0 || u.HasRole(l.roles...)
}

func (l *resourceList[T]) load(ctx context.Context, s *Server) ([]T, error) {
	items, err := loadList[T](ctx, s, l.resource)
	if err != nil {
		return nil, err
	}
	if l.clean != nil {
		for i := range items {
			items[i] = l.clean(items[i])
		}
	}
	return items, nil
}

// listPage is the template model of a list. It is the table view with
// every interaction already turned into a URL.
type listPage struct {
	Title             string
	Path              string
	NewPath           string
	Layout            string
	Breakpoint        int
	Status            string
	Headers           []headerLink
	Rows              []rowView
	Chips             []chipLink
	Filters           []filterSelect
	ShowFilters       bool
	HasFilterOptions  bool
	ToggleFiltersHref string
	SearchTerm        string
	SearchPlaceholder string
	EmptyMessage      string
	ShowClear         bool
	ClearHref         string
	Skeletons         []int

	// Hidden is the state both forms resubmit; FilterFields are the active
	// filters, resubmitted by the search form only.
	Hidden       []hiddenField
	FilterFields []hiddenField
	Count        int
	Total        int
}

type headerLink struct {
	Label     string
	Sortable  bool
	Sorted    bool
	Indicator string
	Href      string
}

type rowView struct {
	Key     string
	Href    string
	Cells   []table.Cell
	Actions []rowAction
}

type chipLink struct {
	Label      string
	RemoveHref string
}

type filterSelect struct {
	Name    string
	Label   string
	Options []selectOption
}

type selectOption struct {
	Label    string
	Value    string
	Selected bool
}

type hiddenField struct {
	Name  string
	Value string
}

// buildListPage runs the table over data and resolves every link against
// the current state.
func (l *resourceList[T]) buildListPage(data []T, st table.State, layout table.Layout, loading bool, user auth.User, breakpoint int) listPage {
	t := l.table()
	if l.detail {
		// row activation is a plain link; the callback only marks rows clickable
		t.OnRowClick = func(T) {}
	}
	initial := t.NewState()
	view := t.Build(data, st, layout, loading)

	href := func(mutate func(*table.State)) string {
		next := st.Clone()
		mutate(&next)
		return withQuery(l.path, encodeState(next, initial))
	}

	p := listPage{
		Title:             l.title,
		Path:              l.path,
		Layout:            view.Layout.String(),
		Breakpoint:        breakpoint,
		Status:            view.Status.String(),
		ShowFilters:       st.ShowFilters,
		ToggleFiltersHref: href(func(s *table.State) { s.ToggleFilters() }),
		SearchTerm:        view.SearchTerm,
		SearchPlaceholder: view.SearchPlaceholder,
		EmptyMessage:      view.EmptyMessage,
		ShowClear:         view.ShowClear,
		ClearHref:         href(func(s *table.State) { s.ClearAll() }),
		Skeletons:         make([]int, view.Skeletons),
		Count:             len(view.Rows),
		Total:             len(data),
	}
	if l.newPath != "" && (len(l.newRoles) == 0 || user.HasRole(l.newRoles...)) {
		p.NewPath = l.newPath
	}

	for _, h := range view.Headers {
		hl := headerLink{Label: h.Label, Sortable: h.Sortable, Sorted: h.Sorted}
		if h.Sortable {
			key := h.Key
			hl.Href = href(func(s *table.State) { s.ToggleSort(key) })
		}
		if h.Sorted {
			hl.Indicator = "▲"
			if h.Direction == table.Desc {
				hl.Indicator = "▼"
			}
		}
		p.Headers = append(p.Headers, hl)
	}

	for _, r := range view.Rows {
		rv := rowView{Key: r.Key, Cells: r.Cells}
		if view.Clickable {
			rv.Href = l.path + "/" + r.Key
		}
		if l.actions != nil {
			rv.Actions = l.actions(r.Item, user)
		}
		p.Rows = append(p.Rows, rv)
	}

	for _, c := range view.Chips {
		key := c.Key
		p.Chips = append(p.Chips, chipLink{
			Label:      c.Label,
			RemoveHref: href(func(s *table.State) { s.RemoveFilter(key) }),
		})
	}

	for _, c := range t.Columns {
		if len(c.FilterOptions) > 0 {
			p.HasFilterOptions = true
			break
		}
	}
	for _, fc := range view.FilterPanel {
		sel := filterSelect{Name: filterPrefix + fc.Key, Label: fc.Label}
		sel.Options = append(sel.Options, selectOption{Label: "Todos", Value: "", Selected: fc.Selected == ""})
		for _, o := range fc.Options {
			sel.Options = append(sel.Options, selectOption{Label: o.Label, Value: o.Value, Selected: o.Value == fc.Selected})
		}
		p.Filters = append(p.Filters, sel)
	}

	// forms resubmit whatever state they do not edit themselves
	if st.SortColumn != initial.SortColumn || st.SortDirection != initial.SortDirection {
		p.Hidden = append(p.Hidden, hiddenField{paramSort, st.SortColumn})
		if st.SortColumn != "" {
			p.Hidden = append(p.Hidden, hiddenField{paramDir, string(st.SortDirection)})
		}
	}
	if st.ShowFilters {
		p.Hidden = append(p.Hidden, hiddenField{paramShowFilters, "1"})
	}
	if len(st.ActiveFilters) > 1 {
		keys := make([]string, len(st.ActiveFilters))
		for i, f := range st.ActiveFilters {
			keys[i] = f.Key
		}
		p.Hidden = append(p.Hidden, hiddenField{paramOrder, strings.Join(keys, ",")})
	}
	for _, f := range st.ActiveFilters {
		p.FilterFields = append(p.FilterFields, hiddenField{filterPrefix + f.Key, f.Value})
	}
	return p
}

// servePage renders the HTML list.
func (l *resourceList[T]) servePage(s *Server, w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	if !l.allowed(sess.User) {
		http.Redirect(w, r, "/acesso-negado", http.StatusFound)
		return
	}
	requestClientHints(w)

	t := l.table()
	st := stateFromQuery(t, r.URL.RawQuery)
	layout := s.layoutFor(r)

	data, err := l.load(r.Context(), s)
	if err != nil {
		s.renderError(w, r, l.title, err)
		return
	}
	p := l.buildListPage(data, st, layout, false, sess.User, s.opts.Breakpoint)
	s.render(w, r, http.StatusOK, "list.html", l.title, l.resource.String(), p)
}

// serveAPI answers GET /api/{resource}?q=&sort=&f.<key>= with the derived
// rows, using the same state parameters as the page.
func (l *resourceList[T]) serveAPI(s *Server, w http.ResponseWriter, r *http.Request) {
	data, err := l.load(r.Context(), s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t := l.table()
	writeJSON(w, http.StatusOK, t.Derive(data, stateFromQuery(t, r.URL.RawQuery)))
}
