package placement

import (
	"suggestbox/internal/domain"
	"suggestbox/internal/ui/layers"
)

// CustomizeFunc adjusts a layer after it has been positioned under its
// field. It receives the field's bounds and the height available below it.
type CustomizeFunc func(field domain.Rect, layer *layers.Layer, maxHeight int)
