// ABOUTME: Bubbletea host for the presentation engine: the browse screen.
// ABOUTME: Translates keys, scrolling, and timer ticks into intents and runs the effects.
package tui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/diag"
	"github.com/takubon0202/if-instagram-auto/internal/engine"
	"github.com/takubon0202/if-instagram-auto/internal/session"
)

// LineUnits converts one terminal line into engine scroll units, so the
// engine's 200-unit threshold is ten lines from the bottom.
const LineUnits = 20

// scrollCheckInterval limits scroll-driven bottom checks to one per frame. A
// check dropped by the limit is retried once the interval has passed.
const scrollCheckInterval = 16 * time.Millisecond

type (
	contentLoadedMsg struct{ bundle *content.Bundle }
	loadFailedMsg    struct{ err error }
	pageReadyMsg     struct{ generation uint64 }
	storyTickMsg     struct{ handle engine.TimerHandle }
	restoreScrollMsg struct{ offset int }
	scrollCheckMsg   struct{}

	// ReloadMsg asks the model to load content again, e.g. after a file change.
	ReloadMsg struct{}
)

// senderHolder shares the program's Send func across model copies so that
// scheduler goroutines can reach the running program.
type senderHolder struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (h *senderHolder) deliver(msg tea.Msg) {
	h.mu.Lock()
	send := h.send
	h.mu.Unlock()
	if send != nil {
		go send(msg)
	}
}

// BrowseOptions configures the browse model.
type BrowseOptions struct {
	Repo     content.Repository
	ViewMode engine.ViewMode
	Account  string
	Logger   *slog.Logger
	Diag     *diag.Ring
}

// BrowseModel is the bubbletea model for the post stream and its overlays.
type BrowseModel struct {
	state  engine.State
	repo   content.Repository
	logger *slog.Logger
	diag   *diag.Ring

	timers     *session.Timers
	sender     *senderHolder
	scrollGate *rate.Sometimes
	captions   *captionRenderer

	// checkPending is set while a trailing bottom check is scheduled.
	checkPending bool

	account string
	site    content.Site

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	width, height int
	cursor        int
	showDebug     bool
	quitting      bool
}

// NewBrowseModel creates the model and its story timer scheduler. Call Close
// when the program exits.
func NewBrowseModel(opts BrowseOptions) (BrowseModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sender := &senderHolder{}
	timers, err := session.NewTimers(func(h engine.TimerHandle) {
		sender.deliver(storyTickMsg{handle: h})
	})
	if err != nil {
		return BrowseModel{}, err
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return BrowseModel{
		state:      engine.New(opts.ViewMode),
		repo:       opts.Repo,
		logger:     logger,
		diag:       opts.Diag,
		timers:     timers,
		sender:     sender,
		scrollGate: &rate.Sometimes{Interval: scrollCheckInterval},
		captions:   &captionRenderer{},
		account:    opts.Account,
		viewport:   vp,
		spinner:    s,
		help:       help.New(),
		keys:       defaultKeyMap(),
		width:      80,
		height:     24,
	}, nil
}

// Attach wires the running program so timer ticks can be delivered.
func (m BrowseModel) Attach(send func(tea.Msg)) {
	m.sender.mu.Lock()
	m.sender.send = send
	m.sender.mu.Unlock()
}

// Close stops the story timers.
func (m BrowseModel) Close() error {
	m.Attach(nil)
	return m.timers.Close()
}

// State returns the engine state the model is rendering.
func (m BrowseModel) State() engine.State {
	return m.state
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m BrowseModel) load() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		bundle, err := repo.Load(context.Background())
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return contentLoadedMsg{bundle: bundle}
	}
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerLines-footerLines, 3)
		m.refresh()
		return m.checkBottom(false)

	case contentLoadedMsg:
		m.site = content.SiteFromConfig(msg.bundle.Config)
		m.cursor = 0
		m.viewport.SetYOffset(0)
		return m.dispatch(msg.bundle.Intent())

	case loadFailedMsg:
		m.logger.Error("content load failed", "error", msg.err)
		return m.dispatch(engine.LoadFailed{Err: msg.err})

	case ReloadMsg:
		return m, m.load()

	case pageReadyMsg:
		var cmd, more tea.Cmd
		m, cmd = m.dispatch(engine.PageReady{Generation: msg.generation})
		m, more = m.checkBottom(false)
		return m, tea.Batch(cmd, more)

	case storyTickMsg:
		return m.dispatch(engine.StoryTick{Handle: msg.handle})

	case restoreScrollMsg:
		m.viewport.SetYOffset(msg.offset / LineUnits)
		return m.syncScroll()

	case scrollCheckMsg:
		m.checkPending = false
		return m.checkBottom(false)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state.Status == engine.StatusLoading || m.state.Feed.Loading {
			m.refresh()
		}
		return m, cmd

	case tea.MouseMsg:
		if m.state.Overlay.Kind != engine.OverlayNone {
			return m, nil
		}
		var cmd, more tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m, more = m.syncScroll()
		return m, tea.Batch(cmd, more)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	switch m.state.Overlay.Kind {
	case engine.OverlayPost:
		return m.handlePostKey(msg)
	case engine.OverlayStory:
		return m.handleStoryKey(msg)
	}
	return m.handleFeedKey(msg)
}

func (m BrowseModel) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Debug):
		m.showDebug = !m.showDebug
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	}

	if m.state.Status != engine.StatusReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-m.columns())
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(m.columns())
	case key.Matches(msg, m.keys.Left):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m.syncScroll()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m.syncScroll()
	case key.Matches(msg, m.keys.Open):
		return m.dispatch(engine.OpenPost{Index: m.cursor})
	case key.Matches(msg, m.keys.ToggleView):
		var cmd, more tea.Cmd
		m, cmd = m.dispatch(engine.ToggleViewMode{})
		m.ensureCursorVisible()
		m, more = m.syncScroll()
		return m, tea.Batch(cmd, more)
	case key.Matches(msg, m.keys.NextFilter):
		return m.setFilter(m.nextCategory(1))
	case key.Matches(msg, m.keys.PrevFilter):
		return m.setFilter(m.nextCategory(-1))
	case key.Matches(msg, m.keys.AllFilter):
		return m.setFilter(engine.AllCategories)
	case key.Matches(msg, m.keys.LoadMore):
		return m.dispatch(engine.LoadMore{})
	case key.Matches(msg, m.keys.Stories):
		return m.dispatch(engine.OpenStories{Index: 0})
	case key.Matches(msg, m.keys.Highlight):
		idx := int(msg.Runes[0] - '1')
		if idx < 0 || idx >= len(m.state.Highlights) {
			return m, nil
		}
		return m.dispatch(engine.OpenHighlight{Highlight: m.state.Highlights[idx].Name})
	}
	return m, nil
}

func (m BrowseModel) handlePostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Quit):
		return m.dispatch(engine.ClosePost{})
	case key.Matches(msg, m.keys.Left):
		return m.dispatch(engine.NavigateCarousel{Direction: -1})
	case key.Matches(msg, m.keys.Right):
		return m.dispatch(engine.NavigateCarousel{Direction: 1})
	case key.Matches(msg, m.keys.Highlight):
		return m.dispatch(engine.JumpToSlide{Index: int(msg.Runes[0] - '1')})
	}
	return m, nil
}

func (m BrowseModel) handleStoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Quit):
		return m.dispatch(engine.CloseStory{})
	case key.Matches(msg, m.keys.Left):
		return m.dispatch(engine.NavigateStory{Direction: -1})
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.PageDown):
		return m.dispatch(engine.NavigateStory{Direction: 1})
	}
	return m, nil
}

func (m BrowseModel) setFilter(category string) (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.viewport.SetYOffset(0)
	m, cmd := m.dispatch(engine.SetFilter{Category: category})
	m, more := m.syncScroll()
	return m, tea.Batch(cmd, more)
}

// nextCategory cycles through "all" followed by every category label.
func (m BrowseModel) nextCategory(step int) string {
	options := append([]string{engine.AllCategories}, m.state.Categories...)
	current := 0
	for i, c := range options {
		if c == m.state.Feed.Category {
			current = i
			break
		}
	}
	next := (current + step + len(options)) % len(options)
	return options[next]
}

func (m BrowseModel) moveCursor(delta int) (tea.Model, tea.Cmd) {
	n := len(m.state.Feed.Displayed)
	if n == 0 {
		return m, nil
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.refresh()
	m.ensureCursorVisible()
	return m.syncScroll()
}

// dispatch runs one intent through the engine and turns its effects into
// commands. Effects are executed in order.
func (m BrowseModel) dispatch(in engine.Intent) (BrowseModel, tea.Cmd) {
	next, effects := engine.Reduce(m.state, in)
	m.state = next

	var cmds []tea.Cmd
	names := make([]string, 0, len(effects))
	for _, eff := range effects {
		names = append(names, eff.String())
		switch e := eff.(type) {
		case engine.SchedulePage:
			gen := e.Generation
			cmds = append(cmds, func() tea.Msg { return pageReadyMsg{generation: gen} })
		case engine.StartTimer:
			if err := m.timers.Start(e.Handle, e.Interval); err != nil {
				m.logger.Error("failed to start story timer", "error", err)
			}
		case engine.CancelTimer:
			if err := m.timers.Cancel(e.Handle); err != nil {
				m.logger.Error("failed to cancel story timer", "error", err)
			}
		case engine.RestoreScroll:
			offset := e.Offset
			cmds = append(cmds, func() tea.Msg { return restoreScrollMsg{offset: offset} })
		}
	}

	if _, tick := in.(engine.StoryTick); !tick || len(effects) > 0 {
		m.logger.Debug("intent applied", "intent", in.Name(), "effects", names)
	}
	m.diag.Record(diag.Entry{
		Intent:  in.Name(),
		Effects: names,
		Overlay: string(m.state.Overlay.Kind),
		Shown:   len(m.state.Feed.Displayed),
	})

	if n := len(m.state.Feed.Displayed); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

// syncScroll reports the viewport offset to the engine and runs a throttled
// bottom check.
func (m BrowseModel) syncScroll() (BrowseModel, tea.Cmd) {
	var cmd tea.Cmd
	if offset := m.viewport.YOffset * LineUnits; offset != m.state.Scroll.Offset {
		m, cmd = m.dispatch(engine.Scrolled{Offset: offset})
	}
	m, more := m.checkBottom(true)
	return m, tea.Batch(cmd, more)
}

// checkBottom sends LoadMore when the viewport is within the scroll threshold
// of the end of the stream.
func (m BrowseModel) checkBottom(throttled bool) (BrowseModel, tea.Cmd) {
	if m.state.Status != engine.StatusReady || m.state.Overlay.Kind != engine.OverlayNone {
		return m, nil
	}
	near, checked := false, false
	check := func() {
		checked = true
		near = engine.NearBottom(
			m.viewport.YOffset*LineUnits,
			m.viewport.Height*LineUnits,
			m.viewport.TotalLineCount()*LineUnits,
		)
	}
	if throttled {
		m.scrollGate.Do(check)
	} else {
		check()
	}
	if !checked {
		if m.checkPending {
			return m, nil
		}
		m.checkPending = true
		return m, tea.Tick(scrollCheckInterval, func(time.Time) tea.Msg { return scrollCheckMsg{} })
	}
	if !near || m.state.Feed.Loading || m.state.Feed.EndOfData {
		return m, nil
	}
	return m.dispatch(engine.LoadMore{})
}

// refresh re-renders the stream into the viewport.
func (m *BrowseModel) refresh() {
	m.viewport.SetContent(m.renderStream())
}

// ensureCursorVisible scrolls the viewport so the selected post is on screen.
func (m *BrowseModel) ensureCursorVisible() {
	top, bottom := m.cursorLines()
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}
