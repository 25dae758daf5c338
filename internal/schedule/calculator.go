// Package schedule places an ordered task list on the clock: flexible tasks run
// back to back from a start anchor, fixed tasks keep their planned time and
// split any flexible task they land inside.
package schedule

import (
	"errors"
	"time"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/task"
)

// ErrMissingCustomStart is returned by Config.Validate for custom mode without
// a start time.
var ErrMissingCustomStart = errors.New("custom start mode requires a start time")

// Mode selects the anchor the schedule starts from.
type Mode string

const (
	ModeNow    Mode = "now"
	ModeCustom Mode = "custom"
)

// Config holds the schedule anchor.
type Config struct {
	Mode        Mode
	CustomStart time.Time // required iff Mode is ModeCustom
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeNow:
		return nil
	case ModeCustom:
		if c.CustomStart.IsZero() {
			return ErrMissingCustomStart
		}
		return nil
	default:
		return errors.New("schedule mode must be 'now' or 'custom'")
	}
}

// StartTime returns the time sequential placement begins at.
func StartTime(cfg Config, now time.Time) time.Time {
	if cfg.Mode == ModeCustom && !cfg.CustomStart.IsZero() {
		return cfg.CustomStart
	}
	return now
}

// Segment is one contiguous span of work on a task.
type Segment struct {
	Start time.Time
	End   time.Time
}

// ScheduledTask is a task with its calculated placement.
type ScheduledTask struct {
	task.Task

	CalculatedStart time.Time
	CalculatedEnd   time.Time

	// Set when a fixed task starts inside this flexible task. The pause
	// fields describe the first split; Segments lists every working span.
	IsInterrupted          bool
	PauseTime              time.Time
	DurationBeforePauseSec int
	RemainingDurationSec   int

	Segments []Segment
}

// FixedTaskConflict reports two fixed tasks whose planned intervals overlap.
type FixedTaskConflict struct {
	TaskID1    string
	TaskID2    string
	OverlapSec int
}

// Result is the output of Calculate.
type Result struct {
	ScheduledTasks  []ScheduledTask
	Conflicts       []FixedTaskConflict
	HasOverflow     bool
	ScheduleEndTime time.Time // zero for an empty list
}

// Calculate places tasks in list order starting at StartTime(cfg, now).
//
// Fixed tasks keep their planned start; the cursor only moves forward past
// them. A flexible task starts at the cursor and, if the next fixed task
// starts strictly inside its span, pauses there and resumes when that fixed
// task ends. The check repeats after each resume, so a long task can be split
// by several fixed tasks. Zero-duration tasks never move the cursor.
func Calculate(tasks []task.Task, cfg Config, now time.Time) Result {
	start := StartTime(cfg, now)
	result := Result{
		ScheduledTasks: make([]ScheduledTask, 0, len(tasks)),
		Conflicts:      DetectFixedConflicts(tasks),
	}
	if len(tasks) == 0 {
		return result
	}

	cursor := start
	for i, t := range tasks {
		var st ScheduledTask
		if t.IsFixed() {
			st = placeFixed(t)
			if !t.IsMilestone() && st.CalculatedEnd.After(cursor) {
				cursor = st.CalculatedEnd
			}
		} else {
			st = placeFlexible(tasks, i, cursor)
			if !t.IsMilestone() {
				cursor = st.CalculatedEnd
			}
		}
		result.ScheduledTasks = append(result.ScheduledTasks, st)

		if i == 0 || st.CalculatedEnd.After(result.ScheduleEndTime) {
			result.ScheduleEndTime = st.CalculatedEnd
		}
	}

	result.HasOverflow = HasOverflow(result.ScheduleEndTime, start)
	return result
}

func placeFixed(t task.Task) ScheduledTask {
	end := t.PlannedEnd()
	return ScheduledTask{
		Task:            t,
		CalculatedStart: t.PlannedStart,
		CalculatedEnd:   end,
		Segments:        []Segment{{Start: t.PlannedStart, End: end}},
	}
}

func placeFlexible(tasks []task.Task, i int, cursor time.Time) ScheduledTask {
	t := tasks[i]
	st := ScheduledTask{Task: t, CalculatedStart: cursor}

	segStart := cursor
	remaining := t.Duration()
	for from := i + 1; ; {
		segEnd := segStart.Add(remaining)
		j := NextInterrupter(tasks, from, segStart)
		if j < 0 || !startsInside(tasks[j].PlannedStart, segStart, segEnd) {
			// After a pause, work cannot resume while the next fixed task is
			// already running; skip past it.
			if st.IsInterrupted && j >= 0 && !tasks[j].PlannedStart.After(segStart) {
				segStart = tasks[j].PlannedEnd()
				from = j + 1
				continue
			}
			st.Segments = append(st.Segments, Segment{Start: segStart, End: segEnd})
			st.CalculatedEnd = segEnd
			return st
		}

		pause := tasks[j].PlannedStart
		st.Segments = append(st.Segments, Segment{Start: segStart, End: pause})
		if !st.IsInterrupted {
			st.IsInterrupted = true
			st.PauseTime = pause
			st.DurationBeforePauseSec, st.RemainingDurationSec = InterruptionSplit(t, cursor, pause)
		}

		remaining -= pause.Sub(segStart)
		segStart = tasks[j].PlannedEnd()
		from = j + 1
	}
}

// NextInterrupter returns the index of the first fixed task at or after from
// that could still interrupt work at or after the given time: it has a
// non-zero duration and ends after it. Returns -1 if there is none.
func NextInterrupter(tasks []task.Task, from int, after time.Time) int {
	for j := from; j < len(tasks); j++ {
		t := tasks[j]
		if t.IsFixed() && !t.IsMilestone() && t.PlannedEnd().After(after) {
			return j
		}
	}
	return -1
}

// startsInside reports whether at lies strictly inside (start, end).
func startsInside(at, start, end time.Time) bool {
	return at.After(start) && at.Before(end)
}

// InterruptionSplit returns how much of t runs before a fixed task starting at
// fixedStart when t starts at flexibleStart, and how much is left after.
// The two always sum to the planned duration.
func InterruptionSplit(t task.Task, flexibleStart, fixedStart time.Time) (beforePauseSec, remainingSec int) {
	beforePauseSec = max(int(fixedStart.Sub(flexibleStart)/time.Second), 0)
	return beforePauseSec, t.PlannedDurationSec - beforePauseSec
}

// HasOverflow reports whether end falls at or after the midnight that follows
// start.
func HasOverflow(end, start time.Time) bool {
	if end.IsZero() {
		return false
	}
	return !end.Before(dateutil.NextMidnight(start))
}

// Tasks returns the scheduled tasks with each flexible task's PlannedStart
// refreshed to its calculated start, so chronological reorders compare
// against where flexible work actually lands.
func (r Result) Tasks() []task.Task {
	out := make([]task.Task, len(r.ScheduledTasks))
	for i, st := range r.ScheduledTasks {
		out[i] = st.Task
		if st.IsFlexible() {
			out[i].PlannedStart = st.CalculatedStart
		}
	}
	return out
}

// Interrupted returns the scheduled tasks that were split.
func (r Result) Interrupted() []ScheduledTask {
	var out []ScheduledTask
	for _, st := range r.ScheduledTasks {
		if st.IsInterrupted {
			out = append(out, st)
		}
	}
	return out
}
