// Package task defines the core domain types for pacer.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/pacer/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidType     = errors.New("type must be 'fixed' or 'flexible'")
	ErrInvalidDuration = errors.New("duration must look like 30m, 1h 30m or 45:00")
	ErrInvalidTime     = errors.New("time must look like 09:30 or 9:30 AM")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// Type tells whether a task is pinned to a wall-clock time.
type Type string

const (
	TypeFixed    Type = "fixed"
	TypeFlexible Type = "flexible"
)

// Valid returns true if the type is a known value.
func (t Type) Valid() bool {
	return t == TypeFixed || t == TypeFlexible
}

// ParseType parses "fixed" or "flexible" (case-insensitive).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return TypeFixed, nil
	case "flexible", "flex":
		return TypeFlexible, nil
	default:
		return "", ErrInvalidType
	}
}

// Status represents the tracking state of a task. It is owned by session
// tracking; the calculators never change it.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
	StatusMissed   Status = "missed"
)

// Valid returns true if the status is a valid value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusComplete, StatusMissed:
		return true
	default:
		return false
	}
}

// Task is a planned block of work.
type Task struct {
	ID                 string
	Name               string
	Type               Type
	PlannedStart       time.Time
	PlannedDurationSec int // zero marks a milestone
	SortOrder          int
	Status             Status
}

// New creates a flexible or fixed task with validation.
// duration is parsed with dateutil.ParseDuration. If start is empty the task
// is flexible, otherwise it is fixed at that time of day on day.
func New(name, duration, start string, day time.Time) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	sec, ok := dateutil.ParseDuration(duration)
	if !ok {
		return nil, ErrInvalidDuration
	}

	t := &Task{
		ID:                 uuid.NewString(),
		Name:               name,
		Type:               TypeFlexible,
		PlannedStart:       dateutil.TruncateToDay(day),
		PlannedDurationSec: sec,
		Status:             StatusPending,
	}

	if strings.TrimSpace(start) != "" {
		at, ok := dateutil.ParseTime(start, day)
		if !ok {
			return nil, ErrInvalidTime
		}
		t.Type = TypeFixed
		t.PlannedStart = at
	}

	return t, nil
}

// IsFixed returns true if the task is pinned to its planned start.
func (t Task) IsFixed() bool {
	return t.Type == TypeFixed
}

// IsFlexible returns true if the task is placed sequentially.
func (t Task) IsFlexible() bool {
	return t.Type == TypeFlexible
}

// IsMilestone returns true for zero-duration markers.
func (t Task) IsMilestone() bool {
	return t.PlannedDurationSec == 0
}

// Duration returns the planned duration.
func (t Task) Duration() time.Duration {
	return time.Duration(t.PlannedDurationSec) * time.Second
}

// PlannedEnd returns PlannedStart plus the planned duration.
func (t Task) PlannedEnd() time.Time {
	return t.PlannedStart.Add(t.Duration())
}

// OrderKey implements Chronological.
func (t Task) OrderKey() string { return t.ID }

// OrderTime implements Chronological.
func (t Task) OrderTime() time.Time { return t.PlannedStart }

// PinnedAt implements Chronological: the copy is fixed at at.
func (t Task) PinnedAt(at time.Time) Task {
	t.Type = TypeFixed
	t.PlannedStart = at
	return t
}

// Index returns the position of the task with the given ID, or -1.
func Index(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
