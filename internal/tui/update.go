package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
	"github.com/javiermolinar/pacer/internal/tui/commands"
	"github.com/javiermolinar/pacer/internal/tui/view"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case commands.LoadedMsg:
		m.loading = false
		m.err = nil
		m.tasks = msg.Tasks
		m.state = msg.State
		m.progress = msg.Progress
		m.setMode(modeFor(m.state, len(m.tasks)), "loaded")
		return m, nil

	case commands.SessionSavedMsg:
		return m.handleSessionSaved(msg)

	case commands.ScheduleMsg:
		// Results for an older start, or arriving after the session began,
		// are stale.
		if m.mode != ModePreview || !msg.Start.Equal(m.start) {
			return m, nil
		}
		m.result = msg.Result
		m.pending = false
		LogRecalc(msg.Start, msg.Result, true)
		return m, nil

	case commands.TickMsg:
		now := time.Time(msg)
		switch m.mode {
		case ModeTracking:
			m.reproject(now)
			LogTick(now, m.projected)
		case ModePreview:
			if !m.loading && !m.shifted && !m.pending {
				m.start = m.configuredStart(now)
				m.recalculate(now)
			}
		}
		return m, commands.Tick()

	case commands.ErrMsg:
		m.saving = false
		m.loading = false
		m.err = msg.Err
		LogError("command", msg.Err)
		return m, nil

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.calc.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		m.ensureCursorVisible()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()
		return m, nil
	}

	if m.loading || m.saving {
		return m, nil
	}

	// Mode-specific handling
	switch m.mode {
	case ModeTracking:
		return m.handleTrackingKeys(msg)
	case ModeFinished:
		return m.handleFinishedKeys(msg)
	default:
		return m.handlePreviewKeys(msg)
	}
}

// handlePreviewKeys handles keys while no session is running.
func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Later):
		m.shiftStart(shiftStep)
	case key.Matches(msg, m.keys.Earlier):
		m.shiftStart(-shiftStep)
	case key.Matches(msg, m.keys.Reset):
		m.resetStart()
	case key.Matches(msg, m.keys.Start):
		if len(m.tasks) == 0 {
			m.statusMsg = session.ErrNoTasks.Error()
			return m, commands.ClearStatusAfter(statusTimeout)
		}
		m.calc.Cancel()
		m.pending = false
		m.saving = true
		return m, commands.Start(m.store, m.tasks, m.now())
	}
	return m, nil
}

// handleTrackingKeys handles keys while a session is running.
func (m Model) handleTrackingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Complete):
		return m.advance(task.StatusComplete)
	case key.Matches(msg, m.keys.Missed):
		return m.advance(task.StatusMissed)
	case key.Matches(msg, m.keys.Clear):
		m.saving = true
		return m, commands.Reset(m.store, m.tasks)
	}
	return m, nil
}

// handleFinishedKeys handles keys once every task is done.
func (m Model) handleFinishedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Clear) {
		m.saving = true
		return m, commands.Reset(m.store, m.tasks)
	}
	return m, nil
}

func (m Model) advance(outcome task.Status) (tea.Model, tea.Cmd) {
	m.saving = true
	return m, commands.Advance(m.store, m.tasks, m.state, m.progress, outcome, m.now())
}

// handleSessionSaved applies a persisted session change.
func (m Model) handleSessionSaved(msg commands.SessionSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	m.err = nil
	m.tasks = msg.Tasks
	m.state = msg.State
	m.progress = msg.Progress

	switch {
	case msg.Done != nil:
		m.statusMsg = fmt.Sprintf("%s %s", outcomeSymbol(msg.Outcome), msg.Done.Name)
	case m.state.Active:
		m.statusMsg = "Started: " + m.tasks[0].Name
	default:
		m.statusMsg = "Session cleared"
		m.shifted = false
	}

	m.setMode(modeFor(m.state, len(m.tasks)), "session saved")
	return m, commands.ClearStatusAfter(statusTimeout)
}

// tableRows returns how many task rows fit below the header line and above
// the footer, leaving room for the table borders and column headers.
func (m Model) tableRows() int {
	footer := 2
	if m.help.ShowAll {
		footer += 3
	}
	return max(m.height-1-4-footer, 1)
}

// ensureCursorVisible scrolls so the cursor row is inside the table window.
func (m *Model) ensureCursorVisible() {
	if m.height == 0 {
		return
	}
	m.offset = view.VisibleWindow(m.offset, m.cursor, m.tableRows(), len(m.tasks))
}

func outcomeSymbol(s task.Status) string {
	switch s {
	case task.StatusComplete:
		return "✓"
	case task.StatusMissed:
		return "✗"
	case task.StatusActive:
		return "▶"
	default:
		return " "
	}
}
