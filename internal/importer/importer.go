// Package importer reads a day's task list from CSV into planning drafts.
//
// The first row is a header naming the columns. name and duration are
// required; start and type are optional:
//
//	name,duration,start,type
//	Standup,15m,09:00,
//	Deep work,2h,,
//	Lunch,45m,12:30,fixed
//
// A row with a start and no type is fixed. Lines starting with # are ignored.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/task"
)

// Import errors.
var (
	ErrEmpty         = errors.New("no tasks in input")
	ErrMissingColumn = errors.New("header must name the name and duration columns")
	ErrFixedNoStart  = errors.New("fixed task needs a start time")
)

type columns struct {
	name, duration, start, kind int
}

func parseHeader(record []string) (columns, error) {
	cols := columns{name: -1, duration: -1, start: -1, kind: -1}
	for i, field := range record {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "name":
			cols.name = i
		case "duration":
			cols.duration = i
		case "start", "time":
			cols.start = i
		case "type", "kind":
			cols.kind = i
		}
	}
	if cols.name < 0 || cols.duration < 0 {
		return cols, ErrMissingColumn
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Read parses CSV from r into drafts for day.
//
// Rows without a start inherit the previous row's time, so a flexible row
// keeps its place relative to the fixed rows around it. Every fixed draft is
// then moved into chronological position.
func Read(r io.Reader, day time.Time) ([]task.Draft, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var drafts []task.Draft
	last := dateutil.TruncateToDay(day)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		d, err := parseRow(record, cols, day, last)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		d.Line = line
		last = d.Time
		drafts = append(drafts, d)
	}

	if len(drafts) == 0 {
		return nil, ErrEmpty
	}
	return orderFixed(drafts), nil
}

func parseRow(record []string, cols columns, day, last time.Time) (task.Draft, error) {
	name := field(record, cols.name)
	if name == "" {
		return task.Draft{}, task.ErrEmptyName
	}

	sec, ok := dateutil.ParseDuration(field(record, cols.duration))
	if !ok {
		return task.Draft{}, fmt.Errorf("%q: %w", field(record, cols.duration), task.ErrInvalidDuration)
	}

	d := task.Draft{
		DraftID:     uuid.NewString(),
		Name:        name,
		Kind:        task.TypeFlexible,
		Time:        last,
		DurationSec: sec,
	}

	start := field(record, cols.start)
	if start != "" {
		at, ok := dateutil.ParseTime(start, day)
		if !ok {
			return task.Draft{}, fmt.Errorf("%q: %w", start, task.ErrInvalidTime)
		}
		d.Time = at
		d.Kind = task.TypeFixed
	}

	if kind := field(record, cols.kind); kind != "" {
		k, err := task.ParseType(kind)
		if err != nil {
			return task.Draft{}, fmt.Errorf("%q: %w", kind, err)
		}
		d.Kind = k
	}

	if d.Kind == task.TypeFixed && start == "" {
		return task.Draft{}, ErrFixedNoStart
	}
	return d, nil
}

func orderFixed(drafts []task.Draft) []task.Draft {
	ids := make([]string, 0, len(drafts))
	for _, d := range drafts {
		if d.Kind == task.TypeFixed {
			ids = append(ids, d.DraftID)
		}
	}
	for _, id := range ids {
		for _, d := range drafts {
			if d.DraftID == id {
				drafts = task.ReorderChronologically(drafts, id, d.Time)
				break
			}
		}
	}
	return drafts
}
