package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"suggestbox/internal/domain"
)

// ItemRenderer turns a candidate into row text. Returning false omits the
// row.
type ItemRenderer interface {
	RenderItem(c *domain.Candidate, query string) (string, bool)
}

// GroupRenderer turns a group value into header text. Returning false
// omits the header.
type GroupRenderer interface {
	RenderGroup(group, query string) (string, bool)
}

// ItemRenderFunc adapts a function to ItemRenderer
type ItemRenderFunc func(c *domain.Candidate, query string) (string, bool)

func (f ItemRenderFunc) RenderItem(c *domain.Candidate, query string) (string, bool) {
	return f(c, query)
}

// GroupRenderFunc adapts a function to GroupRenderer
type GroupRenderFunc func(group, query string) (string, bool)

func (f GroupRenderFunc) RenderGroup(group, query string) (string, bool) {
	return f(group, query)
}

// LabelRenderer renders a candidate's label as is
type LabelRenderer struct{}

func (LabelRenderer) RenderItem(c *domain.Candidate, _ string) (string, bool) {
	return c.Label, true
}

// GroupLabelRenderer renders the group value as is
type GroupLabelRenderer struct{}

func (GroupLabelRenderer) RenderGroup(group, _ string) (string, bool) {
	return group, true
}

// HighlightRenderer renders the label with the first case-insensitive
// occurrence of the query emphasised
type HighlightRenderer struct {
	Styles   *Styles
	MaxWidth int // labels wider than this are truncated; 0 disables
}

func (h HighlightRenderer) RenderItem(c *domain.Candidate, query string) (string, bool) {
	label := c.Label
	if h.MaxWidth > 0 {
		label = TruncateLabel(label, h.MaxWidth)
	}
	if query == "" {
		return label, true
	}
	return highlightMatch(label, query, h.Styles.Highlight), true
}

// highlightMatch highlights matching text within a string
func highlightMatch(text, query string, highlightStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	// Lowercasing can change byte lengths; only slice when it did not
	if len(lowerText) != len(text) || len(lowerQuery) != len(query) {
		return text
	}

	index := strings.Index(lowerText, lowerQuery)
	if index == -1 {
		return text
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	return before + highlightStyle.Render(match) + after
}

// TruncateLabel shortens s to at most width cells, marking the cut
func TruncateLabel(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
