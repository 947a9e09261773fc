package source

import (
	"strings"

	"suggestbox/internal/domain"
)

// Static matches a fixed candidate list by case-insensitive substring
type Static struct {
	Items []*domain.Candidate
	Limit int // 0 means no limit
}

// NewStatic builds a static source from plain labels
func NewStatic(labels ...string) *Static {
	items := make([]*domain.Candidate, len(labels))
	for i, l := range labels {
		items[i] = &domain.Candidate{Label: l, Value: l}
	}
	return &Static{Items: items}
}

// Fetch delivers every item whose label contains query
func (s *Static) Fetch(query string, deliver func([]*domain.Candidate)) {
	q := strings.ToLower(query)
	var out []*domain.Candidate
	for _, c := range s.Items {
		if strings.Contains(strings.ToLower(c.Label), q) {
			out = append(out, c)
			if s.Limit > 0 && len(out) == s.Limit {
				break
			}
		}
	}
	deliver(out)
}
