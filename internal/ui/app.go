package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/usher-tui/usher/internal/logging"
	"github.com/usher-tui/usher/internal/logview"
	"github.com/usher-tui/usher/internal/prefs"
	"github.com/usher-tui/usher/internal/pueue"
	"github.com/usher-tui/usher/internal/view"
)

// Daemon is the slice of the pueue client the UI drives. Implementations
// block; the update loop calls them synchronously and paints whatever state
// the call left behind.
type Daemon interface {
	Status() (pueue.State, error)
	Start(ids []int) error
	Pause(ids []int) error
	Kill(ids []int) error
	Remove(ids []int) error
	Restart(tasks []pueue.RestartTask) error
	FollowLogs(id, lines int) (pueue.Stream, string, error)
}

var _ Daemon = (*pueue.Client)(nil)

// mode is the input mode of the main screen.
type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeSort
	modeLog
)

// health tracks the connection state shown in the footer. A nil err means
// connected; failed marks a redial that also failed, which stays on screen
// until some operation succeeds.
type health struct {
	err    error
	failed bool
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Daemon    Daemon
	Initial   *pueue.State
	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
	PollEvery time.Duration
	LogLines  int
	Clock     func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	daemon    Daemon
	userPrefs prefs.Prefs
	prefsPath string
	pollEvery time.Duration
	logLines  int
	clock     func() time.Time

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool
	mode   mode

	// Data state
	snapshot    pueue.State
	hasSnapshot bool
	lastRefresh time.Time
	health      health

	// Table state
	table       *view.Table
	tableOffset int

	// Filter input
	filterInput textinput.Model

	// Log view
	logs   *logview.Viewport
	stream pueue.Stream

	// Overlays
	overlay    overlayKind
	overlayErr string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	pollEvery := opts.PollEvery
	if pollEvery == 0 {
		pollEvery = 250 * time.Millisecond
	}
	logLines := opts.LogLines
	if logLines == 0 {
		logLines = 200
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 128

	m := Model{
		daemon:      opts.Daemon,
		userPrefs:   opts.Prefs,
		prefsPath:   prefsPath,
		pollEvery:   pollEvery,
		logLines:    logLines,
		clock:       clock,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		table:       view.NewTable(),
		filterInput: input,
	}
	if opts.Initial != nil {
		m.snapshot = *opts.Initial
		m.hasSnapshot = true
		m.lastRefresh = clock()
		m.table.Refresh(m.snapshot, clock())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.pollEvery)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.logs != nil {
			m.logs.Reclamp(m.logPageWidth(), m.logPageHeight())
		}
		m.ensureCursorVisible()
		return m, nil

	case tickMsg:
		m.refresh()
		// The next tick is armed only now, after the refresh finished.
		// A slow daemon stretches the period; ticks never stack up.
		return m, tickCmd(m.pollEvery)

	case logChunkMsg:
		return m.handleLogChunk(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == modeLog && m.logs != nil {
		return m.renderLogView()
	}
	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayDetails:
		return m.renderDetails()
	case overlayError:
		return m.renderError()
	}
	return m.renderMain()
}

// renderMain paints the task list screen: header, hints, table, footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeaderBar())
	b.WriteString("\n")
	b.WriteString(m.renderHintBar())
	b.WriteString("\n")
	b.WriteString(m.renderTable(m.width, m.tableHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// tableHeight is the box height left between the two header lines and the
// footer.
func (m Model) tableHeight() int {
	h := m.height - 3
	if h < 2 {
		h = 2
	}
	return h
}

// tableRowCapacity is how many task rows fit in the table box after its
// borders and header row.
func (m Model) tableRowCapacity() int {
	c := m.tableHeight() - 3
	if c < 1 {
		c = 1
	}
	return c
}

// ensureCursorVisible scrolls the table window the minimal amount that
// keeps the cursor row on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.tableRowCapacity()
	row := m.table.SelectedRow()
	if row < 0 {
		m.tableOffset = 0
		return
	}
	if row < m.tableOffset {
		m.tableOffset = row
	}
	if row >= m.tableOffset+visible {
		m.tableOffset = row - visible + 1
	}
	maxOffset := len(m.table.Rows()) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.tableOffset = clampInt(m.tableOffset, 0, maxOffset)
}

// handleKey routes keyboard input: overlays swallow keys until dismissed,
// then the active mode's handler takes over.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.overlay != overlayNone {
		if m.overlay == overlayError {
			if msg.String() == "esc" {
				m.overlay = overlayNone
				m.overlayErr = ""
			}
			return m, nil
		}
		// Help and details close on any key.
		m.overlay = overlayNone
		return m, nil
	}

	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeSort:
		return m.handleSortKey(msg)
	case modeLog:
		return m.handleLogKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

// handleNormalKey processes keys on the task list.
func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		m.table.Move(1)
		m.ensureCursorVisible()
	case "k", "up":
		m.table.Move(-1)
		m.ensureCursorVisible()
	case "pgdown":
		m.table.MoveClamped(m.tableRowCapacity())
		m.ensureCursorVisible()
	case "pgup":
		m.table.MoveClamped(-m.tableRowCapacity())
		m.ensureCursorVisible()
	case "home":
		m.table.SelectFirst()
		m.ensureCursorVisible()
	case "end":
		m.table.SelectLast()
		m.ensureCursorVisible()

	case "f":
		m.enterFilterMode()
	case "s":
		m.mode = modeSort

	case "r":
		m.runOrRestart()
	case "p":
		m.pauseTasks()
	case "x":
		m.killTasks()
	case "backspace":
		m.removeTasks()
	case " ":
		m.table.ToggleMark()

	case "l", "enter":
		cmd := m.openLogView()
		return m, cmd
	case "d":
		if _, ok := m.table.Selected(); ok {
			m.overlay = overlayDetails
		}
	case "?":
		m.overlay = overlayHelp
	case "T":
		m.cycleTheme()

	case "esc":
		if m.table.Filter != "" {
			m.table.Filter = ""
			m.syncTable()
		} else if m.table.MarkedCount() > 0 {
			m.table.ClearMarks()
		}
	}
	return m, nil
}

// handleFilterKey processes keys while the filter input is live. Every
// edit re-applies the filter immediately.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.table.Filter = ""
		m.syncTable()
		m.mode = modeNormal
		return m, nil
	case "enter":
		m.filterInput.Blur()
		m.table.Filter = m.filterInput.Value()
		m.syncTable()
		m.mode = modeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.table.Filter = m.filterInput.Value()
	m.syncTable()
	return m, cmd
}

// handleSortKey processes the sort mnemonic prompt.
func (m Model) handleSortKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i":
		m.setSort(view.FieldID)
	case "s":
		m.setSort(view.FieldStatus)
	case "c":
		m.setSort(view.FieldCommand)
	case "p":
		m.setSort(view.FieldPath)
	case "esc":
		m.mode = modeNormal
	}
	return m, nil
}

func (m *Model) setSort(f view.Field) {
	m.table.Sort = f
	m.syncTable()
	m.mode = modeNormal
}

func (m *Model) enterFilterMode() {
	m.mode = modeFilter
	m.filterInput.SetValue(m.table.Filter)
	m.filterInput.CursorEnd()
	m.filterInput.Focus()
}

// refresh pulls a fresh snapshot. On failure the previous snapshot stays on
// screen and only the footer changes.
func (m *Model) refresh() {
	if m.daemon == nil {
		return
	}
	st, err := m.daemon.Status()
	if err != nil {
		m.noteOpError("refresh", err)
		return
	}
	m.health = health{}
	m.snapshot = st
	m.hasSnapshot = true
	m.lastRefresh = m.clock()
	m.syncTable()
}

// syncTable recomputes rows and selection against the current snapshot.
func (m *Model) syncTable() {
	m.table.Refresh(m.snapshot, m.clock())
	m.ensureCursorVisible()
}

// noteOpError files a failed daemon call where the user will see it:
// transport trouble goes to the footer, daemon rejections become a modal.
func (m *Model) noteOpError(op string, err error) {
	logging.Warn(op+" failed", "error", err)
	switch {
	case errors.Is(err, pueue.ErrReconnectFailed):
		m.health = health{err: err, failed: true}
	case pueue.IsTransportErr(err):
		m.health = health{err: err}
	default:
		m.overlay = overlayError
		m.overlayErr = err.Error()
	}
}

// runOrRestart starts the targeted tasks, or re-enqueues them with their
// original invocation when they already ran to completion.
func (m *Model) runOrRestart() {
	var restarts []pueue.RestartTask
	var starts []int
	for _, id := range m.table.TargetIDs() {
		task, ok := m.snapshot.Tasks[id]
		if !ok {
			continue
		}
		if task.IsDone() {
			restarts = append(restarts, task.ToRestart())
		} else {
			starts = append(starts, id)
		}
	}
	if len(restarts) > 0 {
		if err := m.daemon.Restart(restarts); err != nil {
			m.noteOpError("restart", err)
			return
		}
	}
	if len(starts) > 0 {
		if err := m.daemon.Start(starts); err != nil {
			m.noteOpError("start", err)
			return
		}
	}
	if len(restarts)+len(starts) > 0 {
		m.health = health{}
	}
}

func (m *Model) pauseTasks() {
	m.doAction("pause", m.daemon.Pause, m.table.TargetIDs())
}

func (m *Model) killTasks() {
	m.doAction("kill", m.daemon.Kill, m.table.TargetIDs())
}

// removeTasks drops the targeted tasks, silently skipping any the daemon
// would refuse because they are still running or paused.
func (m *Model) removeTasks() {
	var removable []int
	for _, id := range m.table.TargetIDs() {
		if task, ok := m.snapshot.Tasks[id]; ok && task.Removable() {
			removable = append(removable, id)
		}
	}
	m.doAction("remove", m.daemon.Remove, removable)
}

// doAction issues one mutating call and settles the error state: success
// clears any lingering connection notice, failure files the error.
func (m *Model) doAction(op string, call func([]int) error, ids []int) {
	if len(ids) == 0 {
		return
	}
	if err := call(ids); err != nil {
		m.noteOpError(op, err)
		return
	}
	m.health = health{}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.userPrefs.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, m.userPrefs); err != nil {
		logging.Warn("save prefs", "error", err)
	}
}

// Messages

type tickMsg time.Time

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
