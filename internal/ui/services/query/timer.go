package query

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Timer is a single-slot cancelable timer. Starting it cancels whatever was
// pending, and a canceled timer's goroutine exits without producing a message.
type Timer struct {
	mu     sync.Mutex
	id     int
	cancel chan struct{}
}

// Start schedules fn to build a message after d. A non-positive d fires on
// the next turn of the event loop.
func (t *Timer) Start(d time.Duration, fn func(id int) tea.Msg) tea.Cmd {
	t.mu.Lock()
	t.stopLocked()
	t.id++
	id := t.id
	cancel := make(chan struct{})
	t.cancel = cancel
	t.mu.Unlock()

	return func() tea.Msg {
		if d <= 0 {
			select {
			case <-cancel:
				return nil
			default:
				return fn(id)
			}
		}

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			return fn(id)
		case <-cancel:
			return nil
		}
	}
}

// Stop cancels the pending timer, if any
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
}

// Pending reports whether a timer is scheduled and has not been consumed
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Expire consumes the timer identified by id. It returns false when id was
// superseded or stopped, in which case the message must be dropped.
func (t *Timer) Expire(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil || id != t.id {
		return false
	}
	t.cancel = nil
	return true
}
