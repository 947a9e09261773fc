package source

import (
	"math/rand/v2"
	"time"

	"suggestbox/internal/domain"
)

// Delayed wraps a source with artificial latency. With jitter, answers to
// quick successive queries can arrive out of order.
type Delayed struct {
	Fetcher domain.Fetcher
	Latency time.Duration
	Jitter  time.Duration
}

// Fetch forwards to the wrapped source after the configured delay
func (d *Delayed) Fetch(query string, deliver func([]*domain.Candidate)) {
	wait := d.Latency
	if d.Jitter > 0 {
		wait += rand.N(d.Jitter)
	}
	time.AfterFunc(wait, func() {
		d.Fetcher.Fetch(query, deliver)
	})
}
