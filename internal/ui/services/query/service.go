package query

import (
	"sync"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"suggestbox/internal/domain"
	"suggestbox/internal/ui/services/staleness"
)

// DefaultMinLength applies when a non-positive minimum is configured
const DefaultMinLength = 2

// Trigger turns keystrokes into debounced lookups for one widget
type Trigger struct {
	owner     string
	guard     *staleness.Guard
	timer     Timer
	wait      time.Duration
	minLength int
}

// NewTrigger creates a trigger whose messages are tagged with owner
func NewTrigger(owner string, guard *staleness.Guard, wait time.Duration, minLength int) *Trigger {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if wait < 0 {
		wait = 0
	}
	return &Trigger{
		owner:     owner,
		guard:     guard,
		wait:      wait,
		minLength: minLength,
	}
}

// Keystroke records a qualifying text change. Every call invalidates
// in-flight results. When text is long enough it returns the command that
// fires after the debounce wait; otherwise it cancels the pending timer and
// returns false so the caller can clear.
func (t *Trigger) Keystroke(text string) (tea.Cmd, bool) {
	token := t.guard.Advance()

	if utf8.RuneCountInString(text) < t.minLength {
		t.timer.Stop()
		return nil, false
	}

	req := Request{Query: text, Token: token}
	owner := t.owner
	return t.timer.Start(t.wait, func(id int) tea.Msg {
		return FireMsg{Owner: owner, TimerID: id, Request: req}
	}), true
}

// Fired accepts a timer message. It returns false for messages belonging to
// another trigger or to a timer that was canceled or superseded.
func (t *Trigger) Fired(msg FireMsg) (Request, bool) {
	if msg.Owner != t.owner || !t.timer.Expire(msg.TimerID) {
		return Request{}, false
	}
	return msg.Request, true
}

// Pending reports whether a debounce timer is waiting to fire
func (t *Trigger) Pending() bool {
	return t.timer.Pending()
}

// Cancel stops the pending debounce timer
func (t *Trigger) Cancel() {
	t.timer.Stop()
}

// Fetch runs the source for req and waits for it to deliver. The command
// returns nil when done closes first, so a source that never delivers only
// holds its own goroutine.
func (t *Trigger) Fetch(f domain.Fetcher, req Request, done <-chan struct{}) tea.Cmd {
	owner := t.owner
	return func() tea.Msg {
		delivered := make(chan []*domain.Candidate, 1)
		var once sync.Once
		deliver := func(items []*domain.Candidate) {
			once.Do(func() { delivered <- items })
		}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					deliver(nil)
				}
			}()
			f.Fetch(req.Query, deliver)
		}()

		select {
		case items := <-delivered:
			return ResultMsg{Owner: owner, Request: req, Items: items}
		case <-done:
			return nil
		}
	}
}
