package autocomplete

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"suggestbox/internal/domain"
	"suggestbox/internal/eventbus"
	"suggestbox/internal/ui/layers"
)

type fakeField struct {
	id      string
	value   string
	focused bool
	bounds  domain.Rect
}

func (f *fakeField) ID() string          { return f.id }
func (f *fakeField) Value() string       { return f.value }
func (f *fakeField) Focused() bool       { return f.focused }
func (f *fakeField) Bounds() domain.Rect { return f.bounds }

// loop stands in for the Bubble Tea runtime: commands run on their own
// goroutines and their messages are applied on the test goroutine
type loop struct {
	t       *testing.T
	bus     eventbus.EventBus
	screen  *layers.Screen
	widgets []*Widget
	msgs    chan tea.Msg
}

func newLoop(t *testing.T) *loop {
	bus := eventbus.New()
	screen := layers.NewScreen(bus)
	screen.Resize(80, 24)
	return &loop{
		t:      t,
		bus:    bus,
		screen: screen,
		msgs:   make(chan tea.Msg, 64),
	}
}

func (l *loop) add(opts Options) *Widget {
	w, err := New(l.bus, l.screen, opts)
	require.NoError(l.t, err)
	l.widgets = append(l.widgets, w)
	return w
}

func (l *loop) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				l.run(c)
			}
			return
		}
		if msg != nil {
			l.msgs <- msg
		}
	}()
}

func (l *loop) dispatch(msg tea.Msg) {
	for _, w := range l.widgets {
		l.run(w.Update(msg))
	}
}

// settle applies messages until none arrive for a short while
func (l *loop) settle() {
	for {
		select {
		case msg := <-l.msgs:
			l.dispatch(msg)
		case <-time.After(40 * time.Millisecond):
			return
		}
	}
}

// until applies messages until cond holds or the timeout passes
func (l *loop) until(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return false
		}
		select {
		case msg := <-l.msgs:
			l.dispatch(msg)
		case <-time.After(5 * time.Millisecond):
		}
	}
	return true
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends key-down then key-up for k on field
func (l *loop) press(f *fakeField, k string) *domain.KeyDownEvent {
	down := &domain.KeyDownEvent{Target: f.id, Key: keyMsg(k)}
	l.run(l.bus.Publish(down))
	l.run(l.bus.Publish(&domain.KeyUpEvent{Target: f.id, Key: keyMsg(k)}))
	return down
}

// typeText appends s to the field one rune at a time
func (l *loop) typeText(f *fakeField, s string) {
	for _, r := range s {
		f.value += string(r)
		l.press(f, string(r))
	}
}

// setText replaces the field text as a single edit
func (l *loop) setText(f *fakeField, s string) {
	f.value = s
	l.press(f, "backspace")
}

// recordingFetcher answers from a fixed list by prefix and records queries
type recordingFetcher struct {
	mu      sync.Mutex
	items   []*domain.Candidate
	queries []string
	times   []time.Time
}

func (f *recordingFetcher) Fetch(q string, deliver func([]*domain.Candidate)) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.times = append(f.times, time.Now())
	f.mu.Unlock()

	var out []*domain.Candidate
	for _, c := range f.items {
		if strings.HasPrefix(strings.ToLower(c.Label), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	deliver(out)
}

func (f *recordingFetcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// manualFetcher holds deliveries until the test releases them
type manualFetcher struct {
	mu      sync.Mutex
	pending map[string]func([]*domain.Candidate)
	called  chan string
}

func newManualFetcher() *manualFetcher {
	return &manualFetcher{
		pending: make(map[string]func([]*domain.Candidate)),
		called:  make(chan string, 16),
	}
}

func (f *manualFetcher) Fetch(q string, deliver func([]*domain.Candidate)) {
	f.mu.Lock()
	f.pending[q] = deliver
	f.mu.Unlock()
	f.called <- q
}

func (f *manualFetcher) waitCalled(t *testing.T, l *loop, q string) {
	t.Helper()
	ok := l.until(func() bool {
		select {
		case got := <-f.called:
			require.Equal(t, q, got)
			return true
		default:
			return false
		}
	}, time.Second)
	require.True(t, ok, "fetch for %q never started", q)
}

func (f *manualFetcher) deliver(q string, items []*domain.Candidate) {
	f.mu.Lock()
	d := f.pending[q]
	f.mu.Unlock()
	d(items)
}

func cands(specs ...string) []*domain.Candidate {
	out := make([]*domain.Candidate, len(specs))
	for i, s := range specs {
		label, group, _ := strings.Cut(s, "/")
		out[i] = &domain.Candidate{Label: label, Group: group}
	}
	return out
}
