package autocomplete

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/log"

	"suggestbox/internal/domain"
	"suggestbox/internal/eventbus"
	"suggestbox/internal/ui/layers"
	"suggestbox/internal/ui/services/placement"
	"suggestbox/internal/ui/services/query"
	"suggestbox/internal/ui/services/selection"
	"suggestbox/internal/ui/services/staleness"
)

// BlurDelay is how long a widget waits after its field loses focus before
// closing, so a press on a row can land first
const BlurDelay = 200 * time.Millisecond

// ContainerClass is carried by every dropdown layer
const ContainerClass = "autocomplete"

// State is the lifecycle state of a widget
type State int

const (
	StateUnbound State = iota
	StateBound
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// blurMsg is delivered when the blur delay has elapsed
type blurMsg struct {
	owner   string
	timerID int
}

// Widget is a suggestion dropdown bound to one field
type Widget struct {
	opts   Options
	bus    eventbus.EventBus
	screen *layers.Screen
	layer  *layers.Layer
	logger *log.Logger

	guard     *staleness.Guard
	trigger   *query.Trigger
	selection *selection.Service
	placement *placement.Service
	blurTimer query.Timer

	query       string
	state       State
	unsubscribe []func()
	done        chan struct{}
}

// New validates opts and binds a widget to opts.Field. On error nothing is
// subscribed.
func New(bus eventbus.EventBus, screen *layers.Screen, opts Options) (*Widget, error) {
	if err := opts.validate(); err != nil {
		return nil, invalid(err)
	}
	opts = opts.withDefaults()

	classes := []string{ContainerClass}
	if opts.ClassName != "" {
		classes = append(classes, opts.ClassName)
	}
	layer := layers.NewLayer(classes...)

	var customize placement.CustomizeFunc
	if opts.Customize != nil {
		field := opts.Field
		customize = func(bounds domain.Rect, l *layers.Layer, maxHeight int) {
			opts.Customize(field, bounds, l, maxHeight)
		}
	}

	guard := staleness.NewGuard()
	w := &Widget{
		opts:      opts,
		bus:       bus,
		screen:    screen,
		layer:     layer,
		logger:    opts.Logger.With("field", opts.Field.ID()),
		guard:     guard,
		trigger:   query.NewTrigger(layer.ID(), guard, opts.DebounceWait, opts.MinLength),
		selection: selection.NewService(),
		placement: placement.NewService(customize),
		state:     StateUnbound,
		done:      make(chan struct{}),
	}
	w.bind()
	return w, nil
}

func (w *Widget) bind() {
	w.unsubscribe = []func(){
		w.bus.Subscribe(eventbus.EventKeyDown, w.onKeyDown),
		w.bus.Subscribe(eventbus.EventKeyUp, w.onKeyUp),
		w.bus.Subscribe(eventbus.EventBlur, w.onBlur),
		w.bus.Subscribe(eventbus.EventResize, w.onResize),
		w.bus.Subscribe(eventbus.EventScroll, w.onScroll),
	}
	w.state = StateBound
}

// Destroy unbinds the widget. Results still in flight are discarded and
// goroutines waiting on them are released. Calling it again is a no-op.
func (w *Widget) Destroy() {
	if w.state == StateDestroyed {
		return
	}
	for _, unsubscribe := range w.unsubscribe {
		unsubscribe()
	}
	w.unsubscribe = nil

	w.trigger.Cancel()
	w.blurTimer.Stop()
	w.clear()
	w.guard.Advance()
	close(w.done)
	w.state = StateDestroyed
	w.logger.Debug("autocomplete destroyed")
}

// ID returns the widget id; messages produced by this widget carry it
func (w *Widget) ID() string {
	return w.layer.ID()
}

// Layer returns the dropdown layer
func (w *Widget) Layer() *layers.Layer {
	return w.layer
}

// Items returns the current candidate sequence
func (w *Widget) Items() []*domain.Candidate {
	return w.selection.Items()
}

// Selected returns the selected candidate or nil
func (w *Widget) Selected() *domain.Candidate {
	return w.selection.Selected()
}

// Query returns the text that produced the current candidates
func (w *Widget) Query() string {
	return w.query
}

// Displayed reports whether the dropdown is attached to the screen
func (w *Widget) Displayed() bool {
	return w.screen.Attached(w.layer)
}

// State returns the lifecycle state
func (w *Widget) State() State {
	return w.state
}

// Update handles messages produced by the widget's own commands. Messages
// belonging to other widgets are ignored.
func (w *Widget) Update(msg tea.Msg) tea.Cmd {
	if w.state != StateBound {
		return nil
	}

	switch msg := msg.(type) {
	case query.FireMsg:
		req, ok := w.trigger.Fired(msg)
		if !ok {
			return nil
		}
		w.logger.Debug("fetching suggestions", "query", req.Query)
		return w.trigger.Fetch(w.opts.Fetcher, req, w.done)

	case query.ResultMsg:
		if msg.Owner != w.ID() {
			return nil
		}
		if !w.guard.Valid(msg.Request.Token) {
			w.logger.Debug("stale result dropped", "query", msg.Request.Query)
			return nil
		}
		w.selection.Replace(msg.Items)
		w.query = msg.Request.Query
		w.update()

	case blurMsg:
		if msg.owner != w.ID() || !w.blurTimer.Expire(msg.timerID) {
			return nil
		}
		if !w.opts.Field.Focused() {
			w.clear()
		}
	}
	return nil
}

func (w *Widget) onKeyDown(e eventbus.DomainEvent) tea.Cmd {
	ev, ok := e.(*domain.KeyDownEvent)
	if !ok || ev.Target != w.opts.Field.ID() {
		return nil
	}
	keys := w.opts.Keys

	switch {
	case key.Matches(ev.Key, keys.Cancel):
		displayed := w.Displayed()
		w.clear()
		ev.PreventDefault()
		if displayed {
			ev.StopPropagation()
		}

	case key.Matches(ev.Key, keys.Prev, keys.Next):
		if w.selection.Len() == 0 {
			return nil
		}
		displayed := w.Displayed()
		direction := selection.DirectionNext
		if key.Matches(ev.Key, keys.Prev) {
			direction = selection.DirectionPrev
		}
		w.selection.Navigate(direction)
		w.update()
		ev.PreventDefault()
		if displayed {
			ev.StopPropagation()
		}

	case key.Matches(ev.Key, keys.Confirm):
		c := w.selection.Selected()
		if c == nil {
			return nil
		}
		ev.PreventDefault()
		ev.StopPropagation()
		return w.confirm(c)
	}
	return nil
}

// onKeyUp schedules a query for the field's text. Down reopens a closed
// dropdown this way.
func (w *Widget) onKeyUp(e eventbus.DomainEvent) tea.Cmd {
	ev, ok := e.(*domain.KeyUpEvent)
	if !ok || ev.Target != w.opts.Field.ID() {
		return nil
	}
	keys := w.opts.Keys
	if keys.ignoredOnRelease(ev.Key) {
		return nil
	}
	// Down opens a closed dropdown and is otherwise handled on key-down
	if key.Matches(ev.Key, keys.Next) && w.Displayed() {
		return nil
	}

	text := w.opts.Field.Value()
	superseded := w.trigger.Pending()
	cmd, ok := w.trigger.Keystroke(text)
	if !ok {
		w.clear()
		return nil
	}
	w.logger.Debug("query scheduled", "query", text, "wait", w.opts.DebounceWait, "superseded", superseded)
	return cmd
}

func (w *Widget) onBlur(e eventbus.DomainEvent) tea.Cmd {
	ev, ok := e.(*domain.BlurEvent)
	if !ok || ev.Target != w.opts.Field.ID() {
		return nil
	}
	owner := w.ID()
	return w.blurTimer.Start(BlurDelay, func(id int) tea.Msg {
		return blurMsg{owner: owner, timerID: id}
	})
}

func (w *Widget) onResize(eventbus.DomainEvent) tea.Cmd {
	w.updateIfDisplayed()
	return nil
}

func (w *Widget) onScroll(e eventbus.DomainEvent) tea.Cmd {
	ev, ok := e.(*domain.ScrollEvent)
	if !ok {
		return nil
	}
	if ev.Source == w.layer.ID() {
		ev.PreventDefault()
		return nil
	}
	w.updateIfDisplayed()
	return nil
}

// confirm hands c to the caller and closes the dropdown
func (w *Widget) confirm(c *domain.Candidate) tea.Cmd {
	w.logger.Debug("selection confirmed", "label", c.Label)
	cmd := w.opts.OnSelect(c, w.opts.Field)
	w.clear()
	return cmd
}

// clear resets to the empty state and invalidates anything in flight
func (w *Widget) clear() {
	w.guard.Advance()
	w.trigger.Cancel()
	w.selection.Reset()
	w.query = ""
	w.layer.Clear()
	w.screen.Detach(w.layer)
}

func (w *Widget) updateIfDisplayed() {
	if w.Displayed() {
		w.update()
	}
}

func (w *Widget) updatePosition() {
	if !w.Displayed() {
		return
	}
	w.placement.Place(w.layer, w.opts.Field.Bounds(), w.screen.Height())
}
