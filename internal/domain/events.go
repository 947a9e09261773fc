package domain

import tea "github.com/charmbracelet/bubbletea"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventKeyDown EventType = "KeyDown"
	EventKeyUp   EventType = "KeyUp"
	EventBlur    EventType = "Blur"
	EventResize  EventType = "Resize"
	EventScroll  EventType = "Scroll"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// Cancelable is embedded by events whose listeners may veto the host's
// default handling or keep the host from reacting further.
type Cancelable struct {
	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault asks the host to skip its default action for the event
func (c *Cancelable) PreventDefault() {
	c.defaultPrevented = true
}

// StopPropagation asks the host not to handle the event any further
func (c *Cancelable) StopPropagation() {
	c.propagationStopped = true
}

// DefaultPrevented reports whether a listener called PreventDefault
func (c *Cancelable) DefaultPrevented() bool {
	return c.defaultPrevented
}

// PropagationStopped reports whether a listener called StopPropagation
func (c *Cancelable) PropagationStopped() bool {
	return c.propagationStopped
}

// KeyDownEvent is published before the focused field sees a key
type KeyDownEvent struct {
	Cancelable
	Target string // field id
	Key    tea.KeyMsg
}

func (e *KeyDownEvent) Type() EventType { return EventKeyDown }

// KeyUpEvent is published after the focused field has processed a key,
// so listeners observe the updated text
type KeyUpEvent struct {
	Target string
	Key    tea.KeyMsg
}

func (e *KeyUpEvent) Type() EventType { return EventKeyUp }

// BlurEvent is published when a field loses focus
type BlurEvent struct {
	Target string
}

func (e *BlurEvent) Type() EventType { return EventBlur }

// ResizeEvent is published when the terminal changes size
type ResizeEvent struct {
	Width  int
	Height int
}

func (e *ResizeEvent) Type() EventType { return EventResize }

// ScrollEvent is published when anything on screen scrolls.
// Source identifies what scrolled: a layer id or a host-defined name.
type ScrollEvent struct {
	Cancelable
	Source string
}

func (e *ScrollEvent) Type() EventType { return EventScroll }
