package task

import (
	"time"

	"github.com/google/uuid"
)

// Draft is a task still being planned, before it is confirmed into the
// tracked list. It is what import produces.
type Draft struct {
	DraftID     string
	Name        string
	Kind        Type
	Time        time.Time
	DurationSec int
	Line        int // source line, for error messages
}

// OrderKey implements Chronological.
func (d Draft) OrderKey() string { return d.DraftID }

// OrderTime implements Chronological.
func (d Draft) OrderTime() time.Time { return d.Time }

// PinnedAt implements Chronological: the copy is fixed at at.
func (d Draft) PinnedAt(at time.Time) Draft {
	d.Kind = TypeFixed
	d.Time = at
	return d
}

// Confirm turns drafts into pending tasks, keeping their order.
func Confirm(drafts []Draft) []Task {
	tasks := make([]Task, len(drafts))
	for i, d := range drafts {
		tasks[i] = Task{
			ID:                 uuid.NewString(),
			Name:               d.Name,
			Type:               d.Kind,
			PlannedStart:       d.Time,
			PlannedDurationSec: d.DurationSec,
			SortOrder:          i,
			Status:             StatusPending,
		}
	}
	return tasks
}
