package autocomplete

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/domain"
	"suggestbox/internal/ui/layers"
	"suggestbox/internal/ui/services/query"
	"suggestbox/internal/ui/views"
)

// Option validation errors
var (
	ErrNoField    = errors.New("field is required")
	ErrNoFetcher  = errors.New("fetcher is required")
	ErrNoOnSelect = errors.New("onSelect callback is required")
)

// Field is the text field a widget attaches to
type Field interface {
	// ID distinguishes the field's events on the shared bus
	ID() string
	Value() string
	Focused() bool
	// Bounds is the field's on-screen rectangle
	Bounds() domain.Rect
}

// SelectFunc is called when the user confirms a candidate
type SelectFunc func(c *domain.Candidate, field Field) tea.Cmd

// CustomizeFunc adjusts the dropdown after it has been positioned
type CustomizeFunc func(field Field, bounds domain.Rect, layer *layers.Layer, maxHeight int)

// Options configures a widget
type Options struct {
	Field    Field
	Fetcher  domain.Fetcher
	OnSelect SelectFunc

	Render      views.ItemRenderer
	RenderGroup views.GroupRenderer
	Customize   CustomizeFunc

	DebounceWait time.Duration
	MinLength    int // runes; non-positive means 2
	ClassName    string
	EmptyMsg     string

	Keys   *KeyMap
	Styles *views.Styles
	Logger *log.Logger
}

func (o *Options) validate() error {
	switch {
	case o.Field == nil:
		return ErrNoField
	case o.Fetcher == nil:
		return ErrNoFetcher
	case o.OnSelect == nil:
		return ErrNoOnSelect
	}
	return nil
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Render == nil {
		out.Render = views.LabelRenderer{}
	}
	if out.RenderGroup == nil {
		out.RenderGroup = views.GroupLabelRenderer{}
	}
	if out.MinLength <= 0 {
		out.MinLength = query.DefaultMinLength
	}
	if out.Keys == nil {
		keys := DefaultKeyMap()
		out.Keys = &keys
	}
	if out.Styles == nil {
		out.Styles = views.NewStyles()
	}
	if out.Logger == nil {
		out.Logger = log.New(io.Discard)
	}
	return out
}

func invalid(err error) error {
	return fmt.Errorf("invalid autocomplete options: %w", err)
}
