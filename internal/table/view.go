package table

// Layout is the presentation mode picked from the viewport width.
type Layout int

const (
	Desktop Layout = iota
	Mobile
)

func (l Layout) String() string {
	if l == Mobile {
		return "mobile"
	}
	return "desktop"
}

// DefaultBreakpoint is the viewport width in CSS pixels below which lists
// switch to cards.
const DefaultBreakpoint = 768

// LayoutFor picks the layout for a viewport width. Unknown widths (<= 0)
// render as Desktop.
func LayoutFor(width, breakpoint int) Layout {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	if width > 0 && width < breakpoint {
		return Mobile
	}
	return Desktop
}

// Status is the content state layered over the layout.
type Status int

const (
	Populated Status = iota
	Loading
	Empty
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	default:
		return "populated"
	}
}

// Skeleton counts shown while loading.
const (
	desktopSkeletonRows = 5
	mobileSkeletonCards = 3
)

// HeaderCell is one desktop column header.
type HeaderCell struct {
	Key       string
	Label     string
	Sortable  bool
	Sorted    bool
	Direction Direction
}

// Cell is one rendered value. Desktop rows and mobile cards read the same
// cells, so a custom renderer runs once per record and column.
type Cell struct {
	Key    string
	Header string
	Text   string
}

// Row is a visible record with its rendered cells.
type Row[T any] struct {
	Key   string
	Item  T
	Cells []Cell
}

// FilterControl is one select of the filter panel.
type FilterControl struct {
	Key      string
	Label    string
	Selected string
	Options  []FilterOption
}

// View is everything a renderer needs for one pass.
type View[T any] struct {
	Status            Status
	Layout            Layout
	Headers           []HeaderCell
	Rows              []Row[T]
	Chips             []Chip
	FilterPanel       []FilterControl
	SearchTerm        string
	SearchPlaceholder string
	EmptyMessage      string
	// ShowClear offers "Limpar filtros" when a search or filter is active.
	ShowClear bool
	Skeletons int
	Clickable bool
}

// Build derives the rows for s and packages them for layout. While loading
// no record is rendered regardless of data.
func (t *Table[T]) Build(data []T, s State, layout Layout, loading bool) View[T] {
	v := View[T]{
		Layout:            layout,
		Headers:           t.headers(s),
		SearchTerm:        s.SearchTerm,
		SearchPlaceholder: t.searchPlaceholder(),
		EmptyMessage:      t.emptyMessage(),
		Clickable:         t.OnRowClick != nil,
	}
	if loading {
		v.Status = Loading
		v.Skeletons = desktopSkeletonRows
		if layout == Mobile {
			v.Skeletons = mobileSkeletonCards
		}
		return v
	}

	v.Chips = t.Chips(s)
	v.ShowClear = s.HasConstraints()
	v.FilterPanel = t.filterPanel(s)

	derived := t.Derive(data, s)
	if len(derived) == 0 {
		v.Status = Empty
		return v
	}
	v.Status = Populated
	v.Rows = make([]Row[T], len(derived))
	for i, item := range derived {
		v.Rows[i] = t.row(item)
	}
	return v
}

func (t *Table[T]) headers(s State) []HeaderCell {
	hs := make([]HeaderCell, len(t.Columns))
	for i, c := range t.Columns {
		hs[i] = HeaderCell{Key: c.Key, Label: c.Header, Sortable: c.Sortable}
		if c.Sortable && s.SortColumn == c.Key {
			hs[i].Sorted = true
			hs[i].Direction = s.direction()
		}
	}
	return hs
}

func (t *Table[T]) row(item T) Row[T] {
	r := Row[T]{Item: item, Cells: make([]Cell, len(t.Columns))}
	if t.KeyExtractor != nil {
		r.Key = t.KeyExtractor(item)
	}
	for i, c := range t.Columns {
		r.Cells[i] = Cell{Key: c.Key, Header: c.Header, Text: c.Text(item)}
	}
	return r
}

func (t *Table[T]) filterPanel(s State) []FilterControl {
	if !s.ShowFilters {
		return nil
	}
	var controls []FilterControl
	for _, c := range t.Columns {
		if len(c.FilterOptions) == 0 {
			continue
		}
		selected, _ := s.Filter(c.Key)
		controls = append(controls, FilterControl{
			Key:      c.Key,
			Label:    c.Header,
			Selected: selected,
			Options:  c.FilterOptions,
		})
	}
	return controls
}
