package domain

// Candidate is one suggestion produced by a fetch source.
// Widgets track candidates by pointer identity, never by position.
type Candidate struct {
	Label string
	Group string // optional; consecutive candidates sharing it render under one header
	Value any    // caller payload, never inspected by the widget
}

// Rect is an area of the terminal in cells, origin top-left
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bottom returns the first row below the rectangle
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Right returns the first column right of the rectangle
func (r Rect) Right() int {
	return r.X + r.Width
}

// Contains reports whether the cell (x, y) lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Fetcher supplies candidates for a query. Implementations call deliver at
// most once, from any goroutine; never calling it is allowed.
type Fetcher interface {
	Fetch(query string, deliver func([]*Candidate))
}

// FetchFunc adapts a plain function to Fetcher
type FetchFunc func(query string, deliver func([]*Candidate))

// Fetch calls f(query, deliver)
func (f FetchFunc) Fetch(query string, deliver func([]*Candidate)) {
	f(query, deliver)
}
