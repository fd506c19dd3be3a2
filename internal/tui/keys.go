package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the non-chord key bindings. Pane operations themselves go
// through the prefix chord (ctrl+b by default), tmux style.
type KeyMap struct {
	// Layout switching.
	LayoutHorizontal key.Binding
	LayoutVertical   key.Binding
	LayoutGrid       key.Binding

	// Tab management.
	NewTab   key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	CloseTab key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	LayoutHorizontal: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "horizontal layout"),
	),
	LayoutVertical: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "vertical layout"),
	),
	LayoutGrid: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "grid layout"),
	),
	NewTab: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "new tab"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev tab"),
	),
	CloseTab: key.NewBinding(
		key.WithKeys("W"),
		key.WithHelp("W", "close tab"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings for the mini help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns the bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.LayoutHorizontal, k.LayoutVertical, k.LayoutGrid},
		{k.NewTab, k.NextTab, k.PrevTab, k.CloseTab},
		{k.Help, k.Quit},
	}
}
