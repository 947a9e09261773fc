package autocomplete

import (
	tea "github.com/charmbracelet/bubbletea"

	"suggestbox/internal/domain"
	"suggestbox/internal/ui/layers"
)

// update re-renders the dropdown from the current candidates and shows it,
// or clears when there is nothing to show
func (w *Widget) update() {
	rows, visible := w.buildRows()
	if visible == 0 {
		if w.opts.EmptyMsg == "" {
			w.clear()
			return
		}
		rows = []layers.Row{w.row(w.opts.EmptyMsg, nil, layers.ClassEmpty)}
	}

	w.layer.SetRows(rows)
	w.screen.Attach(w.layer)
	w.updatePosition()
	w.placement.EnsureVisible(w.layer)
}

// buildRows renders candidates in order, emitting a group header before the
// first candidate of each new group value. It returns the rows and how many
// of them are candidates.
func (w *Widget) buildRows() ([]layers.Row, int) {
	var (
		rows      []layers.Row
		visible   int
		prevGroup string
	)

	for _, c := range w.selection.Items() {
		if c.Group != "" && c.Group != prevGroup {
			prevGroup = c.Group
			if text, ok := w.opts.RenderGroup.RenderGroup(c.Group, w.query); ok && text != "" {
				rows = append(rows, w.row(text, nil, layers.ClassGroup))
			}
		}

		text, ok := w.opts.Render.RenderItem(c, w.query)
		if !ok || text == "" {
			continue
		}
		var classes []string
		if w.selection.IsSelected(c) {
			classes = append(classes, layers.ClassSelected)
		}
		rows = append(rows, w.row(text, w.activate(c), classes...))
		visible++
	}
	return rows, visible
}

func (w *Widget) row(text string, activate func() tea.Cmd, classes ...string) layers.Row {
	return layers.Row{
		Text:     text,
		Classes:  classes,
		Style:    w.opts.Styles.Resolve(append(classes, w.layer.Classes()...)...),
		Activate: activate,
	}
}

// activate builds the press action of a candidate row
func (w *Widget) activate(c *domain.Candidate) func() tea.Cmd {
	return func() tea.Cmd {
		if w.state != StateBound {
			return nil
		}
		return w.confirm(c)
	}
}
