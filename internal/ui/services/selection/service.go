package selection

import (
	"suggestbox/internal/domain"
)

// Service tracks the current candidate sequence and which one is selected.
// Selection is by identity, so a candidate keeps its selection state across
// re-renders regardless of where it ends up in the list.
type Service struct {
	state *State
}

// NewService creates a new selection service
func NewService() *Service {
	return &Service{
		state: &State{},
	}
}

// Replace swaps in a new candidate sequence and selects its first element
func (s *Service) Replace(items []*domain.Candidate) {
	s.state.Items = items
	s.state.Selected = nil
	if len(items) > 0 {
		s.state.Selected = items[0]
	}
}

// Reset drops the sequence and the selection
func (s *Service) Reset() {
	s.state.Items = nil
	s.state.Selected = nil
}

// Items returns the current sequence
func (s *Service) Items() []*domain.Candidate {
	return s.state.Items
}

// Len returns the number of candidates
func (s *Service) Len() int {
	return len(s.state.Items)
}

// Selected returns the selected candidate or nil
func (s *Service) Selected() *domain.Candidate {
	return s.state.Selected
}

// IsSelected reports whether c is the selected candidate
func (s *Service) IsSelected(c *domain.Candidate) bool {
	return c != nil && c == s.state.Selected
}

// Navigate moves the selection one step, wrapping at both ends
func (s *Service) Navigate(direction Direction) *domain.Candidate {
	switch direction {
	case DirectionNext:
		return s.Next()
	case DirectionPrev:
		return s.Prev()
	}
	return s.state.Selected
}

// Next selects the candidate after the current one.
// With nothing selected it picks the first.
func (s *Service) Next() *domain.Candidate {
	n := len(s.state.Items)
	if n == 0 {
		s.state.Selected = nil
		return nil
	}

	idx := s.indexOf(s.state.Selected)
	if idx < 0 {
		s.state.Selected = s.state.Items[0]
	} else {
		s.state.Selected = s.state.Items[(idx+1)%n]
	}
	return s.state.Selected
}

// Prev selects the candidate before the current one.
// With nothing selected it picks the last.
func (s *Service) Prev() *domain.Candidate {
	n := len(s.state.Items)
	if n == 0 {
		s.state.Selected = nil
		return nil
	}

	idx := s.indexOf(s.state.Selected)
	if idx <= 0 {
		s.state.Selected = s.state.Items[n-1]
	} else {
		s.state.Selected = s.state.Items[idx-1]
	}
	return s.state.Selected
}

func (s *Service) indexOf(c *domain.Candidate) int {
	if c == nil {
		return -1
	}
	for i, item := range s.state.Items {
		if item == c {
			return i
		}
	}
	return -1
}
