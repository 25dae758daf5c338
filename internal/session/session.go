// Package session tracks progress through the task list: which task is
// current, when it started, and what actually happened to finished tasks.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/pacer/internal/task"
)

// Session errors.
var (
	ErrNoTasks        = errors.New("no tasks to track")
	ErrAlreadyActive  = errors.New("a session is already running")
	ErrNotActive      = errors.New("no session is running")
	ErrInvalidOutcome = errors.New("outcome must be complete or missed")
)

// Progress records what happened to one task during a session.
type Progress struct {
	TaskID             string
	PlannedDurationSec int
	ActualDurationSec  int
	CompletedAt        time.Time
	Status             task.Status
}

// State is the position of a session in the task list.
type State struct {
	Active        bool
	CurrentIndex  int // -1 before the first start
	StartedAt     time.Time
	TaskStartedAt time.Time
}

// Idle returns the state of a list that has not been started.
func Idle() State {
	return State{CurrentIndex: -1}
}

// Started returns true once the session has begun, even if it is finished.
func (s State) Started() bool {
	return s.CurrentIndex >= 0
}

// Finished returns true when every one of n tasks has been dealt with.
func (s State) Finished(n int) bool {
	return s.Started() && !s.Active && s.CurrentIndex >= n
}

// Elapsed returns how long the current task has been running at now.
func (s State) Elapsed(now time.Time) time.Duration {
	if !s.Active || s.TaskStartedAt.IsZero() {
		return 0
	}
	if d := now.Sub(s.TaskStartedAt); d > 0 {
		return d
	}
	return 0
}

// Start begins a session at the first task.
func Start(tasks []task.Task, now time.Time) (State, []Progress, error) {
	if len(tasks) == 0 {
		return Idle(), nil, ErrNoTasks
	}

	progress := make([]Progress, len(tasks))
	for i, t := range tasks {
		progress[i] = Progress{
			TaskID:             t.ID,
			PlannedDurationSec: t.PlannedDurationSec,
			Status:             task.StatusPending,
		}
	}
	progress[0].Status = task.StatusActive

	return State{
		Active:        true,
		CurrentIndex:  0,
		StartedAt:     now,
		TaskStartedAt: now,
	}, progress, nil
}

// Advance closes the current task with outcome (complete or missed) and makes
// the next task current. After the last task the session stops.
// The inputs are not modified.
func Advance(s State, progress []Progress, tasks []task.Task, outcome task.Status, now time.Time) (State, []Progress, error) {
	if !s.Active {
		return s, progress, ErrNotActive
	}
	if outcome != task.StatusComplete && outcome != task.StatusMissed {
		return s, progress, ErrInvalidOutcome
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(tasks) {
		return s, progress, fmt.Errorf("current index %d out of range for %d tasks", s.CurrentIndex, len(tasks))
	}

	out := append([]Progress(nil), progress...)
	current := tasks[s.CurrentIndex]
	rec := Progress{
		TaskID:             current.ID,
		PlannedDurationSec: current.PlannedDurationSec,
		ActualDurationSec:  int(s.Elapsed(now) / time.Second),
		CompletedAt:        now,
		Status:             outcome,
	}
	out = upsert(out, rec)

	next := s
	next.CurrentIndex++
	next.TaskStartedAt = now
	if next.CurrentIndex >= len(tasks) {
		next.Active = false
		next.TaskStartedAt = time.Time{}
		return next, out, nil
	}

	nt := tasks[next.CurrentIndex]
	if i := indexOf(out, nt.ID); i >= 0 {
		out[i].Status = task.StatusActive
	} else {
		out = append(out, Progress{TaskID: nt.ID, PlannedDurationSec: nt.PlannedDurationSec, Status: task.StatusActive})
	}
	return next, out, nil
}

// ApplyStatuses returns a copy of tasks with Status set from the session:
// recorded outcomes for finished tasks, active for the current one and
// pending for the rest.
func ApplyStatuses(tasks []task.Task, s State, progress []Progress) []task.Task {
	byID := Index(progress)
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		switch {
		case s.Started() && i < s.CurrentIndex:
			t.Status = task.StatusComplete
			if p, ok := byID[t.ID]; ok && p.Status == task.StatusMissed {
				t.Status = task.StatusMissed
			}
		case s.Active && i == s.CurrentIndex:
			t.Status = task.StatusActive
		default:
			t.Status = task.StatusPending
		}
		out[i] = t
	}
	return out
}

// Index maps progress records by task ID.
func Index(progress []Progress) map[string]Progress {
	m := make(map[string]Progress, len(progress))
	for _, p := range progress {
		m[p.TaskID] = p
	}
	return m
}

func indexOf(progress []Progress, taskID string) int {
	for i, p := range progress {
		if p.TaskID == taskID {
			return i
		}
	}
	return -1
}

func upsert(progress []Progress, rec Progress) []Progress {
	if i := indexOf(progress, rec.TaskID); i >= 0 {
		progress[i] = rec
		return progress
	}
	return append(progress, rec)
}

// Store persists session state between runs.
type Store interface {
	// LoadSession returns the saved state, or Idle() with no progress if
	// nothing was saved.
	LoadSession(ctx context.Context) (State, []Progress, error)

	// SaveSession replaces the saved state and progress records.
	SaveSession(ctx context.Context, s State, progress []Progress) error

	// ClearSession removes any saved state.
	ClearSession(ctx context.Context) error
}
