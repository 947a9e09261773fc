package eventbus

import (
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventKeyDown = domain.EventKeyDown
	EventKeyUp   = domain.EventKeyUp
	EventBlur    = domain.EventBlur
	EventResize  = domain.EventResize
	EventScroll  = domain.EventScroll
)

// EventHandler handles a domain event and may hand back a command for the
// Bubble Tea runtime to execute
type EventHandler func(DomainEvent) tea.Cmd

// EventBus is the interface for the event bus
type EventBus interface {
	// Publish delivers the event to every current subscriber on the calling
	// goroutine and batches the commands they return. A handler that panics
	// is logged and contributes no command.
	Publish(event DomainEvent) tea.Cmd
	// Subscribe registers handler for eventType.
	// Returns an unsubscribe function that only removes this registration.
	Subscribe(eventType EventType, handler EventHandler) func()
	// Subscribers returns the number of handlers registered for eventType
	Subscribers(eventType EventType) int
}

type subscription struct {
	id      uint64
	handler EventHandler
	removed *atomic.Bool
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
	logger   *log.Logger
}

// New creates a new event bus
func New() EventBus {
	return NewWithLogger(log.New(io.Discard))
}

// NewWithLogger creates a new event bus that reports handler panics to logger
func NewWithLogger(logger *log.Logger) EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
		logger:   logger,
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) tea.Cmd {
	// Copy so handlers may subscribe or unsubscribe while we iterate.
	// Handlers added meanwhile wait for the next event; removed ones are
	// skipped.
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	var cmds []tea.Cmd
	for _, sub := range subs {
		if sub.removed.Load() {
			continue
		}
		if cmd := b.call(sub.handler, event); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (b *bus) call(h EventHandler, event DomainEvent) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", "event", event.Type(), "panic", r, "stack", string(debug.Stack()))
			cmd = nil
		}
	}()
	return h(event)
}

// Subscribe subscribes to events of a specific type
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	removed := new(atomic.Bool)
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler, removed: removed})

	var once sync.Once
	return func() {
		once.Do(func() {
			removed.Store(true)

			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns how many handlers listen for eventType
func (b *bus) Subscribers(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
