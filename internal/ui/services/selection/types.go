package selection

import "suggestbox/internal/domain"

// State holds selection state
type State struct {
	Items    []*domain.Candidate
	Selected *domain.Candidate // nil or a member of Items
}

// Direction represents traversal directions
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)
