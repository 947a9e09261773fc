package placement

import (
	"suggestbox/internal/domain"
	"suggestbox/internal/ui/layers"
)

// Service positions a dropdown layer under its field and keeps the
// selected row in view
type Service struct {
	customize CustomizeFunc
}

// NewService creates a placement service. customize may be nil.
func NewService(customize CustomizeFunc) *Service {
	return &Service{customize: customize}
}

// Place aligns the layer with the field's left edge and width, directly
// below it, and limits its height to the space left on screen
func (s *Service) Place(layer *layers.Layer, field domain.Rect, screenHeight int) {
	layer.Top = field.Bottom()
	layer.Left = field.X
	layer.Width = field.Width

	maxHeight := screenHeight - layer.Top
	if maxHeight < 0 {
		maxHeight = 0
	}
	layer.MaxHeight = maxHeight
	layer.SetScrollTop(layer.ScrollTop())

	if s.customize != nil {
		s.customize(field, layer, maxHeight)
	}
}

// EnsureVisible scrolls the layer so the selected row is fully shown. When
// the selected row directly follows a group header that is the first row,
// the header is revealed as well.
func (s *Service) EnsureVisible(layer *layers.Layer) {
	rows := layer.Rows()
	selected := -1
	for i, r := range rows {
		if r.HasClass(layers.ClassSelected) {
			selected = i
			break
		}
	}
	if selected < 0 {
		return
	}

	target := selected
	if selected == 1 && rows[0].HasClass(layers.ClassGroup) {
		target = 0
	}

	top, _ := layer.RowSpan(target)
	selTop, selHeight := layer.RowSpan(selected)
	bottom := selTop + selHeight
	height := layer.Height()

	switch {
	case top < layer.ScrollTop():
		layer.SetScrollTop(top)
	case bottom > layer.ScrollTop()+height:
		layer.SetScrollTop(bottom - height)
	}
}
