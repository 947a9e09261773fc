package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"suggestbox/internal/ui/autocomplete"
)

// keyMap holds the host's own bindings. Submit and ClearField only apply
// when no dropdown claimed the key.
type keyMap struct {
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	ClearField key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add text to history")),
		ClearField: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear field")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll page down")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// helpKeys is what the footer shows
type helpKeys struct {
	suggest autocomplete.KeyMap
	host    keyMap
}

func (k helpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.suggest.Next, k.suggest.Confirm, k.suggest.Cancel, k.host.NextField, k.host.Help, k.host.Quit}
}

func (k helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.suggest.ShortHelp(),
		{k.host.NextField, k.host.PrevField, k.host.Submit, k.host.ClearField},
		{k.host.PageUp, k.host.PageDown, k.host.Help, k.host.Quit},
	}
}
