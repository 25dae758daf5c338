// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
)

// SQLite implements task.Repository and session.Store using SQLite.
type SQLite struct {
	db *sql.DB
}

var (
	_ task.Repository = (*SQLite)(nil)
	_ session.Store   = (*SQLite)(nil)
)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const taskColumns = `id, name, type, planned_start, duration_sec, position, status`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t     task.Task
		start string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Type, &start, &t.PlannedDurationSec, &t.SortOrder, &t.Status); err != nil {
		return task.Task{}, err
	}
	at, err := parseTime(start)
	if err != nil {
		return task.Task{}, fmt.Errorf("parsing planned start of %s: %w", t.ID, err)
	}
	t.PlannedStart = at
	return t, nil
}

// ListTasks returns every task ordered by position.
func (s *SQLite) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY position, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return &t, nil
}

// CreateTask appends t to the end of the list. An empty ID is filled in and
// SortOrder is set to the stored position.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var pos int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM tasks`).Scan(&pos); err != nil {
		return fmt.Errorf("finding next position: %w", err)
	}
	t.SortOrder = pos

	if err := insertTask(ctx, tx, *t, pos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertTask(ctx context.Context, tx *sql.Tx, t task.Task, pos int) error {
	query := `
		INSERT INTO tasks (id, name, type, planned_start, duration_sec, position, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	status := t.Status
	if status == "" {
		status = task.StatusPending
	}
	_, err := tx.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Type,
		formatTime(t.PlannedStart),
		t.PlannedDurationSec,
		pos,
		status,
	)
	if err != nil {
		return fmt.Errorf("inserting task %q: %w", t.Name, err)
	}
	return nil
}

// UpdateTask rewrites a task's fields, keeping its position.
func (s *SQLite) UpdateTask(ctx context.Context, t task.Task) error {
	query := `
		UPDATE tasks
		SET name = ?, type = ?, planned_start = ?, duration_sec = ?, status = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		t.Name,
		t.Type,
		formatTime(t.PlannedStart),
		t.PlannedDurationSec,
		t.Status,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s: %w", t.ID, task.ErrTaskNotFound)
	}
	return nil
}

// ReplaceTasks atomically replaces the whole list. Positions follow the
// order of tasks.
func (s *SQLite) ReplaceTasks(ctx context.Context, tasks []task.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	for i, t := range tasks {
		if err := insertTask(ctx, tx, t, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteTask removes a task and closes the gap in positions.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var pos int
	err = tx.QueryRowContext(ctx, `SELECT position FROM tasks WHERE id = ?`, id).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", id, task.ErrTaskNotFound)
	}
	if err != nil {
		return fmt.Errorf("querying task: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET position = position - 1 WHERE position > ?`, pos); err != nil {
		return fmt.Errorf("renumbering tasks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadSession returns the saved session, or an idle one.
func (s *SQLite) LoadSession(ctx context.Context) (session.State, []session.Progress, error) {
	var (
		st            session.State
		active        int
		startedAt     sql.NullString
		taskStartedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT active, current_index, started_at, task_started_at FROM session WHERE id = 1`,
	).Scan(&active, &st.CurrentIndex, &startedAt, &taskStartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Idle(), nil, nil
	}
	if err != nil {
		return session.Idle(), nil, fmt.Errorf("querying session: %w", err)
	}
	st.Active = active != 0
	if st.StartedAt, err = parseTime(startedAt.String); err != nil {
		return session.Idle(), nil, fmt.Errorf("parsing session start: %w", err)
	}
	if st.TaskStartedAt, err = parseTime(taskStartedAt.String); err != nil {
		return session.Idle(), nil, fmt.Errorf("parsing task start: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, planned_duration_sec, actual_duration_sec, completed_at, status
		FROM progress
		ORDER BY seq
	`)
	if err != nil {
		return session.Idle(), nil, fmt.Errorf("querying progress: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var progress []session.Progress
	for rows.Next() {
		var (
			p           session.Progress
			completedAt sql.NullString
		)
		if err := rows.Scan(&p.TaskID, &p.PlannedDurationSec, &p.ActualDurationSec, &completedAt, &p.Status); err != nil {
			return session.Idle(), nil, fmt.Errorf("scanning progress: %w", err)
		}
		if p.CompletedAt, err = parseTime(completedAt.String); err != nil {
			return session.Idle(), nil, fmt.Errorf("parsing completion of %s: %w", p.TaskID, err)
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return session.Idle(), nil, fmt.Errorf("iterating progress: %w", err)
	}

	return st, progress, nil
}

// SaveSession replaces the saved session and its progress records.
func (s *SQLite) SaveSession(ctx context.Context, st session.State, progress []session.Progress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	active := 0
	if st.Active {
		active = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO session (id, active, current_index, started_at, task_started_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			active = excluded.active,
			current_index = excluded.current_index,
			started_at = excluded.started_at,
			task_started_at = excluded.task_started_at
	`, active, st.CurrentIndex, nullTime(st.StartedAt), nullTime(st.TaskStartedAt))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("clearing progress: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO progress (task_id, seq, planned_duration_sec, actual_duration_sec, completed_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, p := range progress {
		_, err := stmt.ExecContext(ctx, p.TaskID, i, p.PlannedDurationSec, p.ActualDurationSec, nullTime(p.CompletedAt), p.Status)
		if err != nil {
			return fmt.Errorf("saving progress for %s: %w", p.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ClearSession removes the saved session and all progress.
func (s *SQLite) ClearSession(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("clearing progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Times are stored as RFC 3339 with nanoseconds so the offset survives a
// round trip. The zero time is stored as an empty string or NULL.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
