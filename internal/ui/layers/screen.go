package layers

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"suggestbox/internal/domain"
	"suggestbox/internal/eventbus"
)

const resetStyle = "\x1b[0m"

// Screen owns the terminal surface: its size, the layers drawn over the
// host view, and the document-level events they cause
type Screen struct {
	bus    eventbus.EventBus
	width  int
	height int
	layers []*Layer // bottom to top
}

// NewScreen creates a screen publishing on bus
func NewScreen(bus eventbus.EventBus) *Screen {
	return &Screen{bus: bus}
}

// Width returns the terminal width
func (s *Screen) Width() int {
	return s.width
}

// Height returns the terminal height
func (s *Screen) Height() int {
	return s.height
}

// Resize records the terminal size and notifies subscribers
func (s *Screen) Resize(width, height int) tea.Cmd {
	s.width, s.height = width, height
	return s.bus.Publish(&domain.ResizeEvent{Width: width, Height: height})
}

// Attach puts l on top of the screen. Attaching twice is a no-op.
func (s *Screen) Attach(l *Layer) {
	if s.Attached(l) {
		return
	}
	s.layers = append(s.layers, l)
}

// Detach removes l from the screen. Detaching a detached layer is a no-op.
func (s *Screen) Detach(l *Layer) {
	for i, attached := range s.layers {
		if attached == l {
			s.layers = append(s.layers[:i:i], s.layers[i+1:]...)
			return
		}
	}
}

// Attached reports whether l is on screen
func (s *Screen) Attached(l *Layer) bool {
	for _, attached := range s.layers {
		if attached == l {
			return true
		}
	}
	return false
}

// LayerAt returns the topmost layer covering (x, y)
func (s *Screen) LayerAt(x, y int) *Layer {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].Bounds().Contains(x, y) {
			return s.layers[i]
		}
	}
	return nil
}

// Scrolled announces that source scrolled. It reports whether a
// subscriber prevented the default handling.
func (s *Screen) Scrolled(source string) (tea.Cmd, bool) {
	ev := &domain.ScrollEvent{Source: source}
	cmd := s.bus.Publish(ev)
	return cmd, ev.DefaultPrevented()
}

// Press delivers a pointer press at (x, y). Presses that land on a layer are
// consumed whether or not the row under them has an action.
func (s *Screen) Press(x, y int) (tea.Cmd, bool) {
	l := s.LayerAt(x, y)
	if l == nil {
		return nil, false
	}

	idx, ok := l.RowAt(y - l.Top)
	if !ok {
		return nil, true
	}
	if act := l.rows[idx].Activate; act != nil {
		return act(), true
	}
	return nil, true
}

// Wheel scrolls the layer under (x, y) by delta lines. It reports false when
// no layer is there so the host can scroll its own content.
func (s *Screen) Wheel(x, y, delta int) (tea.Cmd, bool) {
	l := s.LayerAt(x, y)
	if l == nil {
		return nil, false
	}

	before := l.ScrollTop()
	l.SetScrollTop(before + delta)
	if l.ScrollTop() == before {
		return nil, true
	}
	cmd, _ := s.Scrolled(l.ID())
	return cmd, true
}

// Render draws attached layers over base
func (s *Screen) Render(base string) string {
	lines := strings.Split(base, "\n")
	for len(lines) < s.height {
		lines = append(lines, "")
	}

	for _, l := range s.layers {
		view := l.View()
		if view == "" {
			continue
		}
		for i, text := range strings.Split(view, "\n") {
			y := l.Top + i
			if y < 0 || y >= len(lines) {
				continue
			}
			lines[y] = overlay(lines[y], text, l.Left)
		}
	}
	return strings.Join(lines, "\n")
}

// overlay replaces the cells of line starting at column x with text
func overlay(line, text string, x int) string {
	if x < 0 {
		text = ansi.TruncateLeft(text, -x, "")
		x = 0
	}

	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ansi.TruncateLeft(line, x+ansi.StringWidth(text), "")
	return left + resetStyle + text + resetStyle + right
}
