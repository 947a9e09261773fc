package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/config"
	"suggestbox/internal/domain"
	"suggestbox/internal/eventbus"
	"suggestbox/internal/source"
	"suggestbox/internal/ui/adapters"
	"suggestbox/internal/ui/autocomplete"
	"suggestbox/internal/ui/layers"
	"suggestbox/internal/ui/views"
)

// PageSource is the scroll event source name of the page itself
const PageSource = "page"

// readyMarker is shown once when running under the e2e harness
const readyMarker = "__READY__"

// ErrNoWords is returned when the model has no word source
var ErrNoWords = errors.New("word source is required")

// Languages feeds the second field
var Languages = []string{
	"Ada", "Bash", "C", "C++", "C#", "Clojure", "COBOL", "Crystal", "D", "Dart",
	"Elixir", "Elm", "Erlang", "F#", "Fortran", "Go", "Groovy", "Haskell", "Java",
	"JavaScript", "Julia", "Kotlin", "Lisp", "Lua", "Nim", "OCaml", "Odin", "Pascal",
	"Perl", "PHP", "Prolog", "Python", "R", "Racket", "Ruby", "Rust", "Scala",
	"Scheme", "Smalltalk", "SQL", "Swift", "Tcl", "TypeScript", "V", "Zig",
}

// Options configures the demo model
type Options struct {
	Config *config.Config
	Words  domain.Fetcher // candidates for the first field
	Logger *log.Logger
	Keys   *autocomplete.KeyMap // dropdown bindings, shared by every field
}

type fieldSpec struct {
	id, label, placeholder string
	fetcher                domain.Fetcher
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	screen *layers.Screen
	config *config.Config
	logger *log.Logger

	styles   *views.Styles
	renderer *views.Renderer
	help        help.Model
	keys        keyMap
	suggestKeys autocomplete.KeyMap
	helpText    *HelpRenderer

	fields    []*adapters.TextField
	widgets   []*autocomplete.Widget
	renderers []*views.HighlightRenderer // one per field, sized to it
	focus   int // index into fields, -1 when nothing has focus

	history    []string
	pageOffset int
	status     string
	statusErr  bool

	width       int
	height      int
	inPagerMode bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates the demo model with one widget per field
func NewModel(bus eventbus.EventBus, opts Options) (*Model, error) {
	if opts.Words == nil {
		return nil, ErrNoWords
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	styles := views.NewStyles()
	m := &Model{
		bus:         bus,
		screen:      layers.NewScreen(bus),
		config:      cfg,
		logger:      logger,
		styles:      styles,
		renderer:    views.NewRenderer(styles),
		help:        help.New(),
		keys:        defaultKeyMap(),
		suggestKeys: autocomplete.DefaultKeyMap(),
		focus:       -1,
	}
	if opts.Keys != nil {
		m.suggestKeys = *opts.Keys
	}
	m.helpText = NewHelpRenderer(m.suggestKeys, m.keys)

	if os.Getenv("SUGGESTBOX_E2E_TEST") == "1" {
		m.status = readyMarker
	}

	specs := []fieldSpec{
		{"word", "Word", "start typing a word", opts.Words},
	}
	if cfg.UI.SecondField {
		languages := source.NewStatic(Languages...)
		languages.Limit = cfg.Autocomplete.Limit
		specs = append(specs, fieldSpec{"language", "Language", "pick a programming language", languages})
	}

	for i, f := range specs {
		field := adapters.NewTextField(f.id, f.label, f.placeholder, func() domain.Rect {
			return views.FieldBounds(i, m.width, m.pageOffset)
		})
		render := &views.HighlightRenderer{Styles: styles}
		w, err := autocomplete.New(bus, m.screen, autocomplete.Options{
			Field:        field,
			Fetcher:      f.fetcher,
			OnSelect:     m.onSelect,
			Render:       render,
			DebounceWait: cfg.Autocomplete.DebounceWait(),
			MinLength:    cfg.Autocomplete.MinLength,
			ClassName:    cfg.Autocomplete.ClassName,
			EmptyMsg:     cfg.Autocomplete.EmptyMsg,
			Keys:         &m.suggestKeys,
			Styles:       styles,
			Logger:       logger,
		})
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to attach suggestions to %s: %w", f.id, err)
		}
		m.fields = append(m.fields, field)
		m.widgets = append(m.widgets, w)
		m.renderers = append(m.renderers, render)
	}

	m.fields[0].Focus()
	m.focus = 0
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Close destroys every widget
func (m *Model) Close() {
	for _, w := range m.widgets {
		w.Destroy()
	}
}

// History returns the confirmed entries, oldest first
func (m *Model) History() []string {
	return m.history
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i, f := range m.fields {
			width := views.FieldBounds(i, m.width, m.pageOffset).Width
			f.SetWidth(width)
			m.renderers[i].MaxWidth = width
		}
		m.clampPage()
		return m, m.screen.Resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Error("help pager failed", "err", msg.err)
			m.setStatus(fmt.Sprintf("help: %v", msg.err), true)
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard copy failed", "err", msg.err)
			m.setStatus(fmt.Sprintf("clipboard: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("copied %q", msg.text), false)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	// Widget timers and fetch results, then cursor blinks
	cmds := make([]tea.Cmd, 0, len(m.widgets)+1)
	for _, w := range m.widgets {
		cmds = append(cmds, w.Update(msg))
	}
	if f := m.focused(); f != nil {
		cmds = append(cmds, f.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		History:       m.history,
		PageOffset:    m.pageOffset,
		StatusMessage: m.status,
		StatusIsError: m.statusErr,
		HelpView:      m.help.View(helpKeys{suggest: m.suggestKeys, host: m.keys}),
	}
	for i, f := range m.fields {
		state.Fields = append(state.Fields, views.FieldState{
			Label:   f.Label(),
			Input:   f.View(),
			Focused: i == m.focus,
		})
	}
	return m.screen.Render(m.renderer.Render(state))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m.fetchHelpPager(m.helpText.renderHelpContent())
	case key.Matches(msg, m.keys.NextField):
		return m.focusField((m.focus + 1) % len(m.fields))
	case key.Matches(msg, m.keys.PrevField):
		return m.focusField((m.focus - 1 + len(m.fields)) % len(m.fields))
	case key.Matches(msg, m.keys.PageUp):
		return m.scrollPage(-m.pageStep())
	case key.Matches(msg, m.keys.PageDown):
		return m.scrollPage(m.pageStep())
	}

	field := m.focused()
	if field == nil {
		return nil
	}

	// Listeners see the key before the field does and may claim it
	down := &domain.KeyDownEvent{Target: field.ID(), Key: msg}
	cmds := []tea.Cmd{m.bus.Publish(down)}

	if !down.DefaultPrevented() {
		cmds = append(cmds, field.Update(msg))
	}
	if !down.PropagationStopped() {
		switch {
		case key.Matches(msg, m.keys.Submit):
			if v := field.Value(); v != "" {
				m.record(field, v)
				field.SetValue("")
			}
		case key.Matches(msg, m.keys.ClearField):
			field.SetValue("")
		}
	}

	cmds = append(cmds, m.bus.Publish(&domain.KeyUpEvent{Target: field.ID(), Key: msg}))
	return tea.Batch(cmds...)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if cmd, consumed := m.screen.Press(msg.X, msg.Y); consumed {
			return cmd
		}
		for i, f := range m.fields {
			if f.Bounds().Contains(msg.X, msg.Y) {
				return m.focusField(i)
			}
		}
		return m.focusField(-1)

	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelDown:
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		if cmd, handled := m.screen.Wheel(msg.X, msg.Y, delta); handled {
			return cmd
		}
		return m.scrollPage(delta)
	}
	return nil
}

// focusField moves focus to field i, or nowhere when i is -1
func (m *Model) focusField(i int) tea.Cmd {
	if i == m.focus {
		return nil
	}
	var cmds []tea.Cmd
	if prev := m.focused(); prev != nil {
		prev.Blur()
		cmds = append(cmds, m.bus.Publish(&domain.BlurEvent{Target: prev.ID()}))
	}
	m.focus = i
	if next := m.focused(); next != nil {
		cmds = append(cmds, next.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *Model) focused() *adapters.TextField {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return m.fields[m.focus]
}

func (m *Model) pageStep() int {
	step := (m.height - views.FooterHeight) / 2
	if step < 1 {
		step = 1
	}
	return step
}

func (m *Model) maxPageOffset() int {
	lines := views.PageLines(views.ViewState{Fields: make([]views.FieldState, len(m.fields)), History: m.history})
	limit := lines - (m.height - views.FooterHeight)
	if limit < 0 {
		return 0
	}
	return limit
}

func (m *Model) clampPage() {
	if limit := m.maxPageOffset(); m.pageOffset > limit {
		m.pageOffset = limit
	}
}

// scrollPage moves the page and tells listeners the page scrolled
func (m *Model) scrollPage(delta int) tea.Cmd {
	prev := m.pageOffset
	m.pageOffset += delta
	if m.pageOffset < 0 {
		m.pageOffset = 0
	}
	m.clampPage()
	if m.pageOffset == prev {
		return nil
	}
	cmd, _ := m.screen.Scrolled(PageSource)
	return cmd
}

// onSelect runs on the update goroutine when a suggestion is accepted
func (m *Model) onSelect(c *domain.Candidate, f autocomplete.Field) tea.Cmd {
	text := c.Label
	for _, field := range m.fields {
		if field.ID() == f.ID() {
			field.SetValue(text)
		}
	}
	m.record(f, text)
	m.logger.Info("suggestion accepted", "field", f.ID(), "label", text, "group", c.Group)

	if !m.config.UI.CopyOnSelect {
		return nil
	}
	return copyToClipboard(text)
}

func (m *Model) record(f autocomplete.Field, text string) {
	m.history = append(m.history, fmt.Sprintf("%s: %s", f.ID(), text))
	m.setStatus(fmt.Sprintf("%s set to %q", f.ID(), text), false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: clipboard.WriteAll(text)}
	}
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := NewHelpOps(m.program).ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}
