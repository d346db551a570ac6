package ui

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/jokefinder/internal/logtail"
	"github.com/five82/jokefinder/internal/prefs"
	"github.com/five82/jokefinder/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewJoke View = iota
	ViewFavorites
	ViewLogs
)

var viewOrder = []View{ViewJoke, ViewFavorites, ViewLogs}

// ParseView maps a view name back to a View. Unknown names mean ViewJoke.
func ParseView(name string) View {
	for _, v := range viewOrder {
		if strings.EqualFold(v.String(), strings.TrimSpace(name)) {
			return v
		}
	}
	return ViewJoke
}

func (v View) String() string {
	switch v {
	case ViewFavorites:
		return "Favorites"
	case ViewLogs:
		return "Log"
	default:
		return "Joke"
	}
}

const (
	defaultTick  = time.Second
	logTailLines = 400
)

// Controller is the part of the joke manager the UI drives.
type Controller interface {
	RefreshJoke(ctx context.Context) <-chan error
	SaveCurrentAsFavorite() bool
	DeleteFavorite(id int) int
	ReloadFavorites()
	Snapshot() state.Snapshot
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Jokes     Controller
	Notifier  *Notifier
	LogPath   string
	ThemeName string
	View      string
	PrefsPath string // empty disables remembering theme and view
	Logger    zerolog.Logger
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	jokes     Controller
	logPath   string
	prefsPath string
	logger    zerolog.Logger
	tick      time.Duration
	copyFn    func(string) error

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	fetching    bool
	flash       string
	flashIsErr  bool

	// Data state
	snapshot state.Snapshot

	// Favorites state
	selected    int
	favViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		jokes:       opts.Jokes,
		logPath:     opts.LogPath,
		prefsPath:   opts.PrefsPath,
		logger:      opts.Logger.With().Str("component", "ui").Logger(),
		tick:        tick,
		copyFn:      clipboard.WriteAll,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		currentView: ParseView(opts.View),
	}
	if m.jokes != nil {
		m.snapshot = m.jokes.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tick),
		m.spinner.Tick,
		fetchSnapshotCmd(m.jokes),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.favViewport = viewport.New(msg.Width, m.bodyHeight())
			m.logViewport = viewport.New(msg.Width, m.bodyHeight())
		}
		m.ready = true
		m.help.Width = msg.Width
		m.resizeViewports()
		m.updateFavoritesViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick), fetchSnapshotCmd(m.jokes)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, readLogCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case changedMsg:
		return m, fetchSnapshotCmd(m.jokes)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshDoneMsg:
		m.fetching = false
		if msg.err != nil {
			m.setFlash("Could not fetch a joke: "+msg.err.Error(), true)
		} else {
			m.flash = ""
		}
		return m, fetchSnapshotCmd(m.jokes)

	case favoritesDoneMsg:
		m.applyFavoritesResult(msg)
		return m, fetchSnapshotCmd(m.jokes)

	case logLinesMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.updateFavoritesViewport()
		m.updateLogViewport()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(1)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(-1)

	case key.Matches(msg, m.keys.NewJoke):
		return m.startRefresh()

	case key.Matches(msg, m.keys.Save):
		return m.saveCurrent()

	case key.Matches(msg, m.keys.Share):
		return m.shareCurrent()
	}

	switch m.currentView {
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) switchView(step int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, v := range viewOrder {
		if v == m.currentView {
			idx = i
		}
	}
	idx = (idx + step + len(viewOrder)) % len(viewOrder)
	m.currentView = viewOrder[idx]
	m.savePrefs()
	if m.currentView == ViewLogs {
		return m, readLogCmd(m.logPath)
	}
	return m, nil
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	if m.jokes == nil || m.fetching {
		return m, nil
	}
	m.fetching = true
	m.flash = ""
	return m, refreshCmd(m.ctx, m.jokes)
}

func (m Model) saveCurrent() (tea.Model, tea.Cmd) {
	if m.jokes == nil {
		return m, nil
	}
	return m, saveCurrentCmd(m.jokes)
}

func (m Model) shareCurrent() (tea.Model, tea.Cmd) {
	text := ""
	if m.currentView == ViewFavorites {
		if sel, ok := m.selectedFavorite(); ok {
			text = sel.CombinedText()
		}
	} else if m.snapshot.Current != nil {
		text = m.snapshot.Current.CombinedText()
	}
	if text == "" {
		m.setFlash("Nothing to share", true)
		return m, nil
	}
	if err := m.copyFn(text); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		m.setFlash("Clipboard unavailable", true)
		return m, nil
	}
	m.setFlash("Copied to clipboard", false)
	return m, nil
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Favorites)
	switch {
	case key.Matches(msg, m.keys.Reload):
		if m.jokes == nil {
			return m, nil
		}
		return m, reloadFavoritesCmd(m.jokes)
	case count == 0:
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.Delete):
		sel, ok := m.selectedFavorite()
		if !ok || m.jokes == nil {
			return m, nil
		}
		return m, deleteFavoriteCmd(m.jokes, sel.ID)
	}
	m.updateFavoritesViewport()
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reload):
		return m, readLogCmd(m.logPath)
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	}
	return m, nil
}

func (m *Model) applyFavoritesResult(msg favoritesDoneMsg) {
	switch msg.op {
	case favoritesSave:
		if !msg.ok {
			m.setFlash("No joke to save yet", true)
			return
		}
		m.setFlash("Saved to favorites", false)
	case favoritesDelete:
		if msg.removed > 0 {
			m.setFlash("Favorite removed", false)
		}
	case favoritesReload:
		m.setFlash("Favorites reloaded", false)
	}
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if m.selected >= len(snap.Favorites) {
		m.selected = len(snap.Favorites) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.updateFavoritesViewport()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Msg("saving preferences failed")
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashIsErr = isErr
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type changedMsg struct{}

type refreshDoneMsg struct{ err error }

type favoritesOp int

const (
	favoritesSave favoritesOp = iota
	favoritesDelete
	favoritesReload
)

// favoritesDoneMsg reports a favorites mutation that ran off the event loop.
type favoritesDoneMsg struct {
	op      favoritesOp
	ok      bool
	removed int
}

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(jokes Controller) tea.Cmd {
	if jokes == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(jokes.Snapshot())
	}
}

func refreshCmd(ctx context.Context, jokes Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: <-jokes.RefreshJoke(ctx)}
	}
}

// The favorites commands persist to disk, so they never run inside Update.

func saveCurrentCmd(jokes Controller) tea.Cmd {
	return func() tea.Msg {
		return favoritesDoneMsg{op: favoritesSave, ok: jokes.SaveCurrentAsFavorite()}
	}
}

func deleteFavoriteCmd(jokes Controller, id int) tea.Cmd {
	return func() tea.Msg {
		n := jokes.DeleteFavorite(id)
		return favoritesDoneMsg{op: favoritesDelete, ok: n > 0, removed: n}
	}
}

func reloadFavoritesCmd(jokes Controller) tea.Cmd {
	return func() tea.Msg {
		jokes.ReloadFavorites()
		return favoritesDoneMsg{op: favoritesReload, ok: true}
	}
}

func readLogCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, logTailLines)
		return logLinesMsg{entries: entries, err: err}
	}
}

// Notifier forwards manager change notifications to a running program. Pass
// its Notify method to manager.WithOnChange.
type Notifier struct {
	program atomic.Pointer[tea.Program]
}

// Attach starts delivering notifications to p.
func (n *Notifier) Attach(p *tea.Program) {
	n.program.Store(p)
}

// Notify tells the program that manager state changed. Notifications before
// Attach are dropped; the model reads a fresh snapshot on start anyway.
func (n *Notifier) Notify(state.Snapshot) {
	p := n.program.Load()
	if p == nil {
		return
	}
	// Send blocks until the event loop reads the message.
	go p.Send(changedMsg{})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if opts.Notifier != nil {
		opts.Notifier.Attach(p)
	}
	_, err := p.Run()
	if opts.Notifier != nil {
		opts.Notifier.Attach(nil)
	}
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
