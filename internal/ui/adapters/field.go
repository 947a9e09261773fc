package adapters

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"suggestbox/internal/domain"
)

// TextField adapts a bubbles text input to the field a suggestion widget
// attaches to. Bounds come from the host layout.
type TextField struct {
	id     string
	label  string
	input  textinput.Model
	bounds func() domain.Rect
}

// NewTextField creates an unfocused field
func NewTextField(id, label, placeholder string, bounds func() domain.Rect) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	return &TextField{
		id:     id,
		label:  label,
		input:  ti,
		bounds: bounds,
	}
}

func (f *TextField) ID() string    { return f.id }
func (f *TextField) Label() string { return f.label }
func (f *TextField) Value() string { return f.input.Value() }

func (f *TextField) Focused() bool {
	return f.input.Focused()
}

// Bounds returns the cells the input occupies
func (f *TextField) Bounds() domain.Rect {
	if f.bounds == nil {
		return domain.Rect{}
	}
	return f.bounds()
}

func (f *TextField) Focus() tea.Cmd {
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.input.Blur()
}

// SetValue replaces the text and moves the cursor to the end
func (f *TextField) SetValue(s string) {
	f.input.SetValue(s)
	f.input.CursorEnd()
}

// SetWidth fits the input, prompt included, into width cells
func (f *TextField) SetWidth(width int) {
	w := width - len(f.input.Prompt) - 1
	if w < 1 {
		w = 1
	}
	f.input.Width = w
}

func (f *TextField) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *TextField) View() string {
	return f.input.View()
}
