package source

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"suggestbox/internal/domain"
)

// Cached memoises another source's answers per query
type Cached struct {
	fetcher domain.Fetcher
	cache   *lru.Cache[string, []*domain.Candidate]
}

// NewCached keeps up to size answers from fetcher
func NewCached(fetcher domain.Fetcher, size int) (*Cached, error) {
	cache, err := lru.New[string, []*domain.Candidate](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cached{fetcher: fetcher, cache: cache}, nil
}

// Fetch answers from the cache or asks the wrapped source
func (c *Cached) Fetch(query string, deliver func([]*domain.Candidate)) {
	if items, ok := c.cache.Get(query); ok {
		deliver(items)
		return
	}
	c.fetcher.Fetch(query, func(items []*domain.Candidate) {
		c.cache.Add(query, items)
		deliver(items)
	})
}
