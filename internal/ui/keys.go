package ui

import "github.com/charmbracelet/bubbles/key"

type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Search  key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Filters key.Binding
	Next    key.Binding
	Prev    key.Binding
	Cycle   key.Binding
	Remove  key.Binding
	Clear   key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.Filters, k.Enter, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.Search, k.Sort, k.Reverse, k.Reload},
		{k.Filters, k.Prev, k.Next, k.Cycle},
		{k.Remove, k.Clear, k.Help, k.Quit},
	}
}

var browseKeys = browseKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort column"),
	),
	Reverse: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reverse sort"),
	),
	Filters: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filters"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab", "next filter"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab", "prev filter"),
	),
	Cycle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "cycle value"),
	),
	Remove: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "remove last filter"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filters"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R", "ctrl+r"),
		key.WithHelp("R", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
