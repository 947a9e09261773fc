package layers

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"suggestbox/internal/domain"
)

// Row classes understood by the widget and its styles
const (
	ClassSelected = "selected"
	ClassGroup    = "group"
	ClassEmpty    = "empty"
)

// Row is one entry of a layer. Text may span several lines.
type Row struct {
	Text     string
	Classes  []string
	Style    lipgloss.Style
	Activate func() tea.Cmd // run when the row is pressed; nil rows swallow the press
}

// HasClass reports whether the row carries class c
func (r Row) HasClass(c string) bool {
	return slices.Contains(r.Classes, c)
}

// Layer is a rectangular list of rows drawn over the host view
type Layer struct {
	id      string
	classes []string

	Top       int
	Left      int
	Width     int
	MaxHeight int // negative means unbounded

	rows      []Row
	offsets   []int // first content line of each row
	lines     int
	scrollTop int
}

// NewLayer creates a detached, empty layer
func NewLayer(classes ...string) *Layer {
	return &Layer{
		id:        uuid.NewString(),
		classes:   classes,
		MaxHeight: -1,
	}
}

// ID returns the layer's unique id, used as the scroll event source
func (l *Layer) ID() string {
	return l.id
}

// Classes returns the layer's classes
func (l *Layer) Classes() []string {
	return l.classes
}

// ClassName joins the classes the way they appear in markup
func (l *Layer) ClassName() string {
	return strings.Join(l.classes, " ")
}

// HasClass reports whether the layer carries class c
func (l *Layer) HasClass(c string) bool {
	return slices.Contains(l.classes, c)
}

// SetRows replaces the layer's rows
func (l *Layer) SetRows(rows []Row) {
	l.rows = rows
	l.offsets = make([]int, len(rows))
	l.lines = 0
	for i, r := range rows {
		l.offsets[i] = l.lines
		l.lines += rowLines(r)
	}
	l.SetScrollTop(l.scrollTop)
}

// Rows returns the current rows
func (l *Layer) Rows() []Row {
	return l.rows
}

// Clear drops all rows and resets the scroll position
func (l *Layer) Clear() {
	l.SetRows(nil)
	l.scrollTop = 0
}

// Height is the number of lines the layer occupies on screen
func (l *Layer) Height() int {
	if l.MaxHeight >= 0 && l.lines > l.MaxHeight {
		return l.MaxHeight
	}
	return l.lines
}

// Bounds returns the on-screen rectangle of the layer
func (l *Layer) Bounds() domain.Rect {
	return domain.Rect{X: l.Left, Y: l.Top, Width: l.Width, Height: l.Height()}
}

// RowSpan returns the first content line and line count of row i
func (l *Layer) RowSpan(i int) (top, height int) {
	if i < 0 || i >= len(l.rows) {
		return 0, 0
	}
	return l.offsets[i], rowLines(l.rows[i])
}

// ScrollTop returns the first visible content line
func (l *Layer) ScrollTop() int {
	return l.scrollTop
}

// SetScrollTop scrolls the layer, clamped to its content
func (l *Layer) SetScrollTop(n int) {
	maxTop := l.lines - l.Height()
	if n > maxTop {
		n = maxTop
	}
	if n < 0 {
		n = 0
	}
	l.scrollTop = n
}

// RowAt maps a line relative to the layer's top edge to a row index
func (l *Layer) RowAt(line int) (int, bool) {
	if line < 0 || line >= l.Height() {
		return 0, false
	}
	content := line + l.scrollTop
	for i := len(l.offsets) - 1; i >= 0; i-- {
		if content >= l.offsets[i] {
			return i, true
		}
	}
	return 0, false
}

// View renders the visible window of the layer, each line exactly Width
// cells wide
func (l *Layer) View() string {
	height := l.Height()
	if height == 0 || l.Width <= 0 {
		return ""
	}

	out := make([]string, 0, height)
	line := 0
	for _, r := range l.rows {
		for _, text := range strings.Split(r.Text, "\n") {
			if line >= l.scrollTop && line < l.scrollTop+height {
				out = append(out, r.Style.Render(fit(text, l.Width)))
			}
			line++
		}
	}
	return strings.Join(out, "\n")
}

func rowLines(r Row) int {
	return strings.Count(r.Text, "\n") + 1
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
