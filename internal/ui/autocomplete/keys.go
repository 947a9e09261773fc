package autocomplete

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the keys a widget reacts to
type KeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Cancel  key.Binding
	Confirm key.Binding

	// Ignore lists keys that never start a query on release
	Ignore key.Binding
}

// DefaultKeyMap returns the arrow/enter/escape bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous suggestion"),
		),
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next suggestion / reopen"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close suggestions"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept suggestion"),
		),
		Ignore: key.NewBinding(
			key.WithKeys("left", "right", "tab", "shift+tab", "home", "end", "pgup", "pgdown"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Confirm, k.Cancel}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ignoredOnRelease reports whether releasing msg can never change the query
func (k KeyMap) ignoredOnRelease(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Prev, k.Confirm, k.Cancel, k.Ignore)
}
