package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"suggestbox/internal/domain"
)

// Page layout, in terminal cells
const (
	HeaderHeight  = 2 // title and a blank line
	FieldHeight   = 3 // label, input, gap
	FieldX        = 2
	MaxFieldWidth = 48
)

// FieldState is what the renderer needs to draw one field
type FieldState struct {
	Label   string
	Input   string // rendered text input
	Focused bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Fields        []FieldState
	History       []string // confirmed selections, oldest first
	PageOffset    int
	StatusMessage string
	StatusIsError bool
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// FieldBounds returns the on-screen rectangle of field i's input line
func FieldBounds(i, width, pageOffset int) domain.Rect {
	w := width - 2*FieldX
	if w > MaxFieldWidth {
		w = MaxFieldWidth
	}
	if w < 1 {
		w = 1
	}
	return domain.Rect{
		X:      FieldX,
		Y:      HeaderHeight + i*FieldHeight + 1 - pageOffset,
		Width:  w,
		Height: 1,
	}
}

// PageLines returns the number of scrollable lines the page has
func PageLines(state ViewState) int {
	return len(pageLines(state, nil))
}

// FooterHeight is the number of lines pinned to the bottom of the screen
const FooterHeight = 2

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	lines := pageLines(state, r.styles)

	offset := state.PageOffset
	if offset > len(lines) {
		offset = len(lines)
	}
	if offset < 0 {
		offset = 0
	}
	lines = lines[offset:]

	// Pin status and help to the bottom
	avail := state.Height - FooterHeight
	if avail < 0 {
		avail = 0
	}
	if len(lines) > avail {
		lines = lines[:avail]
	}
	for len(lines) < avail {
		lines = append(lines, "")
	}

	status := state.StatusMessage
	if status != "" {
		if state.StatusIsError {
			status = r.styles.StatusError.Render(status)
		} else {
			status = r.styles.StatusSuccess.Render(status)
		}
	}
	lines = append(lines, status, state.HelpView)

	return strings.Join(lines, "\n")
}

// pageLines lays out the scrollable page. A nil styles renders plain text.
func pageLines(state ViewState, styles *Styles) []string {
	render := func(style func(*Styles) lipgloss.Style, s string) string {
		if styles == nil {
			return s
		}
		return style(styles).Render(s)
	}

	indent := strings.Repeat(" ", FieldX)
	lines := []string{render(func(s *Styles) lipgloss.Style { return s.Title }, "suggestbox"), ""}

	for _, f := range state.Fields {
		label := render(func(s *Styles) lipgloss.Style { return s.Label }, f.Label)
		input := f.Input
		if f.Focused {
			input = render(func(s *Styles) lipgloss.Style { return s.FieldFocused }, input)
		} else {
			input = render(func(s *Styles) lipgloss.Style { return s.Field }, input)
		}
		lines = append(lines, indent+label, indent+input, "")
	}

	lines = append(lines, render(func(s *Styles) lipgloss.Style { return s.Label }, fmt.Sprintf("History (%d)", len(state.History))))
	if len(state.History) == 0 {
		lines = append(lines, indent+render(func(s *Styles) lipgloss.Style { return s.Dim }, "nothing selected yet"))
	}
	for i := len(state.History) - 1; i >= 0; i-- {
		lines = append(lines, indent+state.History[i])
	}
	return lines
}
