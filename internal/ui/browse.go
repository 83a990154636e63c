// Package ui is the terminal browser for the condominium records. It drives
// the same table engine as the web dashboard with keyboard interaction.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "condo/internal/errors"
	"condo/internal/table"
)

// DefaultBreakpoint is the terminal width in columns below which rows render
// as cards.
const DefaultBreakpoint = 100

// Loader fetches the records of one list.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Options tunes a Browser.
type Options struct {
	Breakpoint int
	// Markdown renders detail text; nil uses glamour.
	Markdown func(string) (string, error)
	// Attempts and RetryDelay bound retries of retryable load failures.
	Attempts   int
	RetryDelay time.Duration
	Timeout    time.Duration
}

func (o *Options) setDefaults() {
	if o.Breakpoint <= 0 {
		o.Breakpoint = DefaultBreakpoint
	}
	if o.Markdown == nil {
		o.Markdown = RenderMarkdown
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 500 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
}

type loadedMsg[T any] struct {
	items []T
	err   error
}

// Browser is a bubbletea model listing one record type.
type Browser[T any] struct {
	title  string
	tbl    *table.Table[T]
	state  table.State
	load   Loader[T]
	detail func(T) string
	opts   Options

	data    []T
	loading bool
	err     error

	width  int
	height int
	cursor int
	// focus is the index of the focused filter control.
	focus int

	searching  bool
	prevSearch string // restored when an edit is abandoned
	search     textinput.Model
	spinner    spinner.Model
	help       help.Model
	keys       browseKeyMap

	inDetail   bool
	detailView viewport.Model
	opened     string
}

// NewBrowser creates a browser over tbl. detail, when set, turns a record
// into markdown shown on enter.
func NewBrowser[T any](title string, tbl *table.Table[T], load Loader[T], detail func(T) string, opts Options) *Browser[T] {
	opts.setDefaults()

	ti := textinput.New()
	ti.Placeholder = tbl.SearchPlaceholder
	if ti.Placeholder == "" {
		ti.Placeholder = table.DefaultSearchPlaceholder
	}
	ti.Prompt = "/ "
	ti.CharLimit = 100

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	b := &Browser[T]{
		title:      title,
		tbl:        tbl,
		state:      tbl.NewState(),
		load:       load,
		detail:     detail,
		opts:       opts,
		loading:    true,
		search:     ti,
		spinner:    s,
		help:       help.New(),
		keys:       browseKeys,
		detailView: viewport.New(0, 0),
	}
	if detail != nil && tbl.OnRowClick == nil {
		tbl.OnRowClick = b.open
	}
	return b
}

// State returns the current interaction state.
func (m *Browser[T]) State() table.State { return m.state.Clone() }

// Opened is the key of the record shown in the detail pane, if any.
func (m *Browser[T]) Opened() string { return m.opened }

func (m *Browser[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m *Browser[T]) fetch() tea.Cmd {
	load, opts := m.load, m.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()
		var items []T
		err := apperrors.Retry(ctx, opts.Attempts, opts.RetryDelay, func(ctx context.Context) error {
			var err error
			items, err = load(ctx)
			return err
		})
		return loadedMsg[T]{items: items, err: err}
	}
}

func (m *Browser[T]) layout() table.Layout {
	return table.LayoutFor(m.width, m.opts.Breakpoint)
}

func (m *Browser[T]) view() table.View[T] {
	return m.tbl.Build(m.data, m.state, m.layout(), m.loading)
}

// open shows item in the detail pane.
func (m *Browser[T]) open(item T) {
	text, err := m.opts.Markdown(m.detail(item))
	if err != nil {
		text = m.detail(item)
	}
	m.opened = m.tbl.KeyExtractor(item)
	m.inDetail = true
	m.detailView.SetContent(text)
	m.detailView.GotoTop()
}

func (m *Browser[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-10, 10)
		m.detailView.Width = max(msg.Width-6, 10)
		m.detailView.Height = max(msg.Height-6, 3)
		return m, nil

	case loadedMsg[T]:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.data = msg.items
		}
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.inDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Browser[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.prevSearch)
		m.state.SetSearch(m.prevSearch)
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.state.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m *Browser[T]) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), msg.Type == tea.KeyEnter:
		m.inDetail = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

func (m *Browser[T]) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	case m.loading:
		// the list is not interactive until the first rows arrive
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.prevSearch = m.state.SearchTerm
		m.search.SetValue(m.state.SearchTerm)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
	case key.Matches(msg, m.keys.Reverse):
		if m.state.SortColumn != "" {
			m.state.ToggleSort(m.state.SortColumn)
		}
	case key.Matches(msg, m.keys.Filters):
		m.state.ToggleFilters()
		m.focus = 0
	case m.state.ShowFilters && key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
	case m.state.ShowFilters && key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
	case m.state.ShowFilters && key.Matches(msg, m.keys.Cycle):
		m.cycleFilter()
	case key.Matches(msg, m.keys.Remove):
		if n := len(m.state.ActiveFilters); n > 0 {
			m.state.RemoveFilter(m.state.ActiveFilters[n-1].Key)
		}
	case key.Matches(msg, m.keys.Clear):
		m.state.ClearAll()
		m.search.SetValue("")
	case key.Matches(msg, m.keys.Back):
		if m.state.ShowFilters {
			m.state.ToggleFilters()
		}
	case key.Matches(msg, m.keys.Enter):
		rows := m.view().Rows
		if m.cursor < len(rows) {
			m.tbl.Activate(m.data, m.state, rows[m.cursor].Key)
		}
	}
	m.clampCursor()
	return m, nil
}

// cycleSort moves the sort to the next sortable column, ascending, and
// after the last one back to no ordering.
func (m *Browser[T]) cycleSort() {
	var keys []string
	for _, c := range m.tbl.Columns {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	if len(keys) == 0 {
		return
	}
	next := keys[0]
	for i, k := range keys {
		if k == m.state.SortColumn {
			next = ""
			if i+1 < len(keys) {
				next = keys[i+1]
			}
			break
		}
	}
	m.state.SortColumn = next
	m.state.SortDirection = table.Asc
}

func (m *Browser[T]) controls() []table.FilterControl {
	return m.view().FilterPanel
}

func (m *Browser[T]) moveFocus(delta int) {
	n := len(m.controls())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

// cycleFilter advances the focused control through its options and back to
// "all".
func (m *Browser[T]) cycleFilter() {
	controls := m.controls()
	if len(controls) == 0 {
		return
	}
	c := controls[min(m.focus, len(controls)-1)]
	next := ""
	if c.Selected == "" {
		if len(c.Options) > 0 {
			next = c.Options[0].Value
		}
	} else {
		for i, o := range c.Options {
			if o.Value == c.Selected && i+1 < len(c.Options) {
				next = c.Options[i+1].Value
				break
			}
		}
	}
	m.state.ApplyFilter(c.Key, next)
}

func (m *Browser[T]) clampCursor() {
	if m.loading {
		return
	}
	n := len(m.tbl.Derive(m.data, m.state))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Browser[T]) View() string {
	if m.inDetail {
		return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.title),
			detailStyle.Render(m.detailView.View()),
			mutedStyle.Render("esc: voltar • q: sair"),
		))
	}

	v := m.view()
	parts := []string{titleStyle.Render(m.title)}
	if m.searching {
		parts = append(parts, m.search.View())
	} else if v.SearchTerm != "" {
		parts = append(parts, mutedStyle.Render("Busca: "+v.SearchTerm))
	}
	if chips := renderChips(v.Chips); chips != "" {
		parts = append(parts, chips)
	}
	if panel := renderFilterPanel(v.FilterPanel, m.focus); panel != "" {
		parts = append(parts, panel)
	}
	if m.err != nil {
		parts = append(parts, renderError(m.err))
	}

	switch v.Status {
	case table.Loading:
		parts = append(parts, m.spinner.View()+" Carregando...", renderSkeletons(v))
	case table.Empty:
		body := mutedStyle.Render(v.EmptyMessage)
		if v.ShowClear {
			body += "\n" + mutedStyle.Render("c: limpar filtros")
		}
		parts = append(parts, body)
	default:
		if v.Layout == table.Mobile {
			parts = append(parts, renderCards(v, m.cursor, m.width))
		} else {
			parts = append(parts, renderTable(v, m.cursor))
		}
		parts = append(parts, mutedStyle.Render(countLine(len(v.Rows), len(m.data))))
	}

	parts = append(parts, helpStyle.Render(m.help.View(m.keys)))
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
