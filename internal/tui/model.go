// Package tui provides the live tracker for pacer.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pacer/internal/config"
	"github.com/javiermolinar/pacer/internal/projection"
	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
	"github.com/javiermolinar/pacer/internal/tui/commands"
	"github.com/javiermolinar/pacer/internal/tui/theme"
)

// Mode represents what the tracker is showing.
type Mode int

const (
	ModePreview  Mode = iota // No session: calculated schedule
	ModeTracking             // Session running: live forecast
	ModeFinished             // Every task dealt with
)

func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeTracking:
		return "tracking"
	case ModeFinished:
		return "done"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// modeFor returns the mode matching a saved session over n tasks.
func modeFor(st session.State, n int) Mode {
	switch {
	case st.Active:
		return ModeTracking
	case st.Finished(n):
		return ModeFinished
	default:
		return ModePreview
	}
}

// shiftStep is how far one press of + or - moves the preview start.
const shiftStep = 5 * time.Minute

// statusTimeout is how long a status message stays on screen.
const statusTimeout = 3 * time.Second

// sender forwards messages from outside the update loop. The program is
// attached after the model has been handed to bubbletea.
type sender struct {
	send func(tea.Msg)
}

// Model is the main tracker model.
type Model struct {
	// Dependencies
	store  commands.Store
	config *config.Config
	now    func() time.Time
	calc   *schedule.DebouncedCalculator
	bus    *sender

	// Presentation
	keys   KeyMap
	help   help.Model
	styles *Styles

	// Data
	tasks    []task.Task
	state    session.State
	progress []session.Progress

	mode    Mode
	loading bool
	saving  bool // session change in flight

	// Preview
	start   time.Time // anchor the preview is calculated from
	shifted bool      // start moved by hand; ticks no longer follow the clock
	pending bool      // debounced recalculation not yet delivered
	result  schedule.Result

	// Tracking
	projected []projection.ProjectedTask

	// Terminal dimensions and scrolling
	width  int
	height int
	cursor int
	offset int

	// Messages
	statusMsg string

	// Error state
	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithSender sets where debounced recalculations are delivered.
func WithSender(send func(tea.Msg)) ModelOption {
	return func(m *Model) {
		m.bus = &sender{send: send}
	}
}

func withBus(bus *sender) ModelOption {
	return func(m *Model) {
		m.bus = bus
	}
}

// New creates a new tracker model.
func New(store commands.Store, cfg *config.Config, opts ...ModelOption) Model {
	t, err := theme.Load(cfg.UI.Theme)

	m := Model{
		store:   store,
		config:  cfg,
		now:     time.Now,
		bus:     &sender{},
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  NewStyles(t),
		state:   session.Idle(),
		mode:    ModePreview,
		loading: true,
	}
	if err != nil {
		m.statusMsg = err.Error()
	}

	for _, opt := range opts {
		opt(&m)
	}
	m.calc = schedule.NewDebouncedCalculator(cfg.DebounceDelay(), m.now)

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.Load(m.store), commands.Tick())
}

// configuredStart is where the preview starts when untouched.
func (m Model) configuredStart(now time.Time) time.Time {
	return schedule.StartTime(m.config.ScheduleFor(now), now)
}

// recalculate refreshes the preview synchronously from m.start.
func (m *Model) recalculate(now time.Time) {
	cfg := schedule.Config{Mode: schedule.ModeCustom, CustomStart: m.start}
	m.result = schedule.Calculate(m.tasks, cfg, now)
	m.pending = false
	LogRecalc(m.start, m.result, false)
}

// shiftStart moves the preview start by d and asks for a debounced
// recalculation. Without a sender the preview is recalculated at once.
func (m *Model) shiftStart(d time.Duration) {
	m.start = m.start.Add(d)
	m.shifted = true
	if m.bus == nil || m.bus.send == nil {
		m.recalculate(m.now())
		return
	}
	m.pending = true
	commands.Recalculate(m.calc, m.bus.send, m.tasks, m.start)
}

// resetStart drops any manual shift and follows the configured start again.
func (m *Model) resetStart() {
	m.calc.Cancel()
	now := m.now()
	m.shifted = false
	m.start = m.configuredStart(now)
	m.recalculate(now)
}

// reproject refreshes the live forecast.
func (m *Model) reproject(now time.Time) {
	m.projected = projection.Project(m.tasks, m.progress, m.state.CurrentIndex, m.state.Elapsed(now), now)
}

// setMode switches mode and prepares the data the new mode shows.
func (m *Model) setMode(to Mode, reason string) {
	if to != m.mode {
		LogModeChange(m.mode, to, reason)
	}
	m.mode = to
	now := m.now()

	switch to {
	case ModePreview:
		m.projected = nil
		if !m.shifted {
			m.start = m.configuredStart(now)
		}
		m.recalculate(now)
	case ModeTracking:
		m.calc.Cancel()
		m.pending = false
		m.reproject(now)
		m.cursor = max(min(m.state.CurrentIndex, len(m.tasks)-1), 0)
	case ModeFinished:
		m.calc.Cancel()
		m.pending = false
		m.reproject(now)
	}
	m.ensureCursorVisible()
}

// Run starts the tracker.
func Run(store commands.Store, cfg *config.Config) error {
	return RunWithDebug(store, cfg, false)
}

// RunWithDebug starts the tracker with optional debug logging.
func RunWithDebug(store commands.Store, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	bus := &sender{}
	model := New(store, cfg, withBus(bus))
	defer model.calc.Cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	bus.send = p.Send
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tracker: %w", err)
	}
	return nil
}
