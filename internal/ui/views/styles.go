package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Label         lipgloss.Style
	Field         lipgloss.Style
	FieldFocused  lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style

	// Dropdown rows
	Row      lipgloss.Style
	Selected lipgloss.Style
	Group    lipgloss.Style
	Empty    lipgloss.Style

	classes map[string]lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	s := &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:          lipgloss.NewStyle().Faint(true),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Field:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		FieldFocused:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green

		Row:      lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("33")).Foreground(lipgloss.Color("231")),
		Group:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		Empty:    lipgloss.NewStyle().Faint(true).Italic(true),
	}

	s.classes = map[string]lipgloss.Style{
		"selected": s.Selected,
		"group":    s.Group,
		"empty":    s.Empty,
	}
	return s
}

// RegisterClass associates a style with a class name so layers and rows
// carrying that class pick it up
func (s *Styles) RegisterClass(name string, style lipgloss.Style) {
	if s.classes == nil {
		s.classes = make(map[string]lipgloss.Style)
	}
	s.classes[name] = style
}

// Resolve merges the styles of classes, earlier classes taking precedence,
// on top of the base Row style. Unknown classes are ignored.
func (s *Styles) Resolve(classes ...string) lipgloss.Style {
	style := lipgloss.NewStyle()
	for _, c := range classes {
		if cs, ok := s.classes[c]; ok {
			style = style.Inherit(cs)
		}
	}
	return style.Inherit(s.Row)
}
