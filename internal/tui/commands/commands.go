// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
)

// TickInterval is how often the tracker refreshes its forecast.
const TickInterval = time.Second

// Store is the persistence the tracker reads and writes.
type Store interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	ReplaceTasks(ctx context.Context, tasks []task.Task) error
	session.Store
}

// LoadedMsg is sent when the task list and session have been read.
type LoadedMsg struct {
	Tasks    []task.Task
	State    session.State
	Progress []session.Progress
}

// SessionSavedMsg is sent after a session change has been persisted.
type SessionSavedMsg struct {
	Tasks    []task.Task
	State    session.State
	Progress []session.Progress
	Done     *task.Task  // task that was just closed, nil on start and reset
	Outcome  task.Status // outcome of Done
}

// ScheduleMsg carries a debounced recalculation of the preview.
type ScheduleMsg struct {
	Start  time.Time
	Result schedule.Result
}

// TickMsg is sent once per TickInterval.
type TickMsg time.Time

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Load reads the task list and the saved session.
func Load(store Store) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := store.ListTasks(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("listing tasks: %w", err)}
		}
		st, progress, err := store.LoadSession(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading session: %w", err)}
		}
		return LoadedMsg{Tasks: tasks, State: st, Progress: progress}
	}
}

// Start begins a session at the first task.
func Start(store Store, tasks []task.Task, now time.Time) tea.Cmd {
	return func() tea.Msg {
		st, progress, err := session.Start(tasks, now)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return persist(store, tasks, st, progress, nil, "")
	}
}

// Advance closes the current task with outcome and moves to the next one.
func Advance(store Store, tasks []task.Task, st session.State, progress []session.Progress, outcome task.Status, now time.Time) tea.Cmd {
	return func() tea.Msg {
		next, recs, err := session.Advance(st, progress, tasks, outcome, now)
		if err != nil {
			return ErrMsg{Err: err}
		}
		done := tasks[st.CurrentIndex]
		return persist(store, tasks, next, recs, &done, outcome)
	}
}

// Reset discards the session and marks every task pending.
func Reset(store Store, tasks []task.Task) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := store.ClearSession(ctx); err != nil {
			return ErrMsg{Err: fmt.Errorf("clearing session: %w", err)}
		}
		st := session.Idle()
		saved := session.ApplyStatuses(tasks, st, nil)
		if err := store.ReplaceTasks(ctx, saved); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving task statuses: %w", err)}
		}
		return SessionSavedMsg{Tasks: saved, State: st}
	}
}

func persist(store Store, tasks []task.Task, st session.State, progress []session.Progress, done *task.Task, outcome task.Status) tea.Msg {
	ctx := context.Background()
	if err := store.SaveSession(ctx, st, progress); err != nil {
		return ErrMsg{Err: fmt.Errorf("saving session: %w", err)}
	}
	saved := session.ApplyStatuses(tasks, st, progress)
	if err := store.ReplaceTasks(ctx, saved); err != nil {
		return ErrMsg{Err: fmt.Errorf("saving task statuses: %w", err)}
	}
	return SessionSavedMsg{Tasks: saved, State: st, Progress: progress, Done: done, Outcome: outcome}
}

// Recalculate asks calc for a debounced schedule of tasks from start and
// delivers the result through send. Bursts of calls collapse into one
// ScheduleMsg for the last start.
func Recalculate(calc *schedule.DebouncedCalculator, send func(tea.Msg), tasks []task.Task, start time.Time) {
	cfg := schedule.Config{Mode: schedule.ModeCustom, CustomStart: start}
	calc.Calculate(tasks, cfg, func(r schedule.Result) {
		send(ScheduleMsg{Start: start, Result: r})
	})
}

// Tick schedules the next TickMsg.
func Tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
