package staleness

import "sync/atomic"

// Token identifies one generation of requests
type Token uint64

// Guard hands out monotonically increasing tokens. A result is applied only
// if the token captured when its request was scheduled is still current.
type Guard struct {
	current atomic.Uint64
}

// NewGuard creates a guard at generation zero
func NewGuard() *Guard {
	return &Guard{}
}

// Advance invalidates every outstanding token and returns the new one
func (g *Guard) Advance() Token {
	return Token(g.current.Add(1))
}

// Current returns the live token without advancing
func (g *Guard) Current() Token {
	return Token(g.current.Load())
}

// Valid reports whether t is still the live token
func (g *Guard) Valid(t Token) bool {
	return Token(g.current.Load()) == t
}
