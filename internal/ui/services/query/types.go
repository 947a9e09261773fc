package query

import (
	"suggestbox/internal/domain"
	"suggestbox/internal/ui/services/staleness"
)

// Request is one scheduled lookup: the text captured at key-up and the
// generation token it was issued under
type Request struct {
	Query string
	Token staleness.Token
}

// FireMsg is delivered when a debounce timer expires
type FireMsg struct {
	Owner   string
	TimerID int
	Request Request
}

// ResultMsg carries candidates delivered by a source for Request
type ResultMsg struct {
	Owner   string
	Request Request
	Items   []*domain.Candidate
}
