// Package projection forecasts a running session: when each remaining task
// will start, whether fixed appointments are at risk, and which flexible
// tasks will be cut by an appointment.
//
// Projections are always rebuilt from scratch from the task list, the
// session position and the elapsed time, so a restored session projects
// exactly like one that never stopped.
package projection

import (
	"time"

	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
)

// DisplayStatus is where a task sits relative to the session position.
type DisplayStatus string

const (
	StatusCompleted DisplayStatus = "completed"
	StatusCurrent   DisplayStatus = "current"
	StatusPending   DisplayStatus = "pending"
)

// InterruptingTask identifies the fixed task that will cut a flexible one.
type InterruptingTask struct {
	ID    string
	Name  string
	Start time.Time
}

// ProjectedTask is a task with its live forecast.
type ProjectedTask struct {
	task.Task

	ProjectedStart time.Time
	ProjectedEnd   time.Time
	DisplayStatus  DisplayStatus
	IsDraggable    bool
	ElapsedSec     int

	// Fixed tasks only. Risk is set only while the task is pending.
	Risk      RiskLevel
	BufferSec int
	HasBuffer bool

	// Pending flexible tasks only.
	WillBeInterrupted bool
	InterruptingTask  *InterruptingTask
}

// Project forecasts every task. Tasks before currentIndex are completed and
// shown at their recorded times, the task at currentIndex started elapsed
// ago, and later tasks are queued after it. A negative currentIndex means the
// session has not started and everything is queued from now.
func Project(tasks []task.Task, progress []session.Progress, currentIndex int, elapsed time.Duration, now time.Time) []ProjectedTask {
	byID := session.Index(progress)
	out := make([]ProjectedTask, len(tasks))

	for i, t := range tasks {
		pt := ProjectedTask{Task: t}

		switch {
		case i < currentIndex:
			pt.DisplayStatus = StatusCompleted
			pt.ProjectedStart, pt.ProjectedEnd, pt.ElapsedSec = completedTimes(t, byID)

		case i == currentIndex:
			pt.DisplayStatus = StatusCurrent
			pt.ProjectedStart = now.Add(-elapsed)
			pt.ProjectedEnd = pt.ProjectedStart.Add(max(t.Duration(), elapsed))
			pt.ElapsedSec = int(elapsed / time.Second)

		default:
			pt.DisplayStatus = StatusPending
			pt.IsDraggable = t.IsFlexible()
			pt.ProjectedStart = ProjectedStart(tasks, currentIndex, elapsed, i, now)
			pt.ProjectedEnd = pt.ProjectedStart.Add(t.Duration())
			if t.IsFixed() {
				pt.Risk = CalculateRisk(pt.ProjectedStart, t.PlannedStart)
			} else {
				markInterruption(&pt, tasks, i)
			}
		}

		if t.IsFixed() {
			pt.BufferSec = BufferSeconds(pt.ProjectedStart, t.PlannedStart)
			pt.HasBuffer = true
		}

		out[i] = pt
	}
	return out
}

func completedTimes(t task.Task, byID map[string]session.Progress) (start, end time.Time, elapsedSec int) {
	if p, ok := byID[t.ID]; ok && !p.CompletedAt.IsZero() {
		end = p.CompletedAt
		start = end.Add(-time.Duration(p.ActualDurationSec) * time.Second)
		return start, end, p.ActualDurationSec
	}
	return t.PlannedStart, t.PlannedEnd(), t.PlannedDurationSec
}

func markInterruption(pt *ProjectedTask, tasks []task.Task, i int) {
	if pt.IsMilestone() {
		return
	}
	j := schedule.NextInterrupter(tasks, i+1, pt.ProjectedStart)
	if j < 0 {
		return
	}
	fixedStart := tasks[j].PlannedStart
	if fixedStart.After(pt.ProjectedStart) && fixedStart.Before(pt.ProjectedEnd) {
		pt.WillBeInterrupted = true
		pt.InterruptingTask = &InterruptingTask{
			ID:    tasks[j].ID,
			Name:  tasks[j].Name,
			Start: fixedStart,
		}
	}
}

// ProjectedStart forecasts when the task at targetIndex starts.
//
// The current task's own query returns now. Tasks before the current one
// return their planned start. Later tasks start after what is left of the
// current task (never negative, overtime does not pull them earlier) plus the
// full planned duration of every task in between.
func ProjectedStart(tasks []task.Task, currentIndex int, elapsed time.Duration, targetIndex int, now time.Time) time.Time {
	switch {
	case targetIndex == currentIndex:
		return now
	case targetIndex < currentIndex:
		return tasks[targetIndex].PlannedStart
	}

	var ahead time.Duration
	if currentIndex >= 0 && currentIndex < len(tasks) {
		ahead = max(tasks[currentIndex].Duration()-elapsed, 0)
	}
	for k := max(currentIndex+1, 0); k < targetIndex && k < len(tasks); k++ {
		ahead += tasks[k].Duration()
	}
	return now.Add(ahead)
}

// Summary condenses a projection for status lines.
type Summary struct {
	ForecastEnd time.Time // latest projected end; zero for no tasks
	Remaining   int       // current and pending tasks
	AtRisk      int       // pending fixed tasks in yellow
	Late        int       // pending fixed tasks in red
	Interrupted int       // pending flexible tasks that will be cut
}

// Summarize aggregates a projection.
func Summarize(projected []ProjectedTask) Summary {
	var s Summary
	for _, pt := range projected {
		if pt.ProjectedEnd.After(s.ForecastEnd) {
			s.ForecastEnd = pt.ProjectedEnd
		}
		if pt.DisplayStatus == StatusCompleted {
			continue
		}
		s.Remaining++
		switch pt.Risk {
		case RiskYellow:
			s.AtRisk++
		case RiskRed:
			s.Late++
		}
		if pt.WillBeInterrupted {
			s.Interrupted++
		}
	}
	return s
}
