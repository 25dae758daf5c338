package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			type          TEXT NOT NULL CHECK(type IN ('fixed', 'flexible')),
			planned_start TEXT NOT NULL,
			duration_sec  INTEGER NOT NULL CHECK(duration_sec >= 0),
			position      INTEGER NOT NULL,
			status        TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'active', 'complete', 'missed')),
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);

		CREATE TABLE IF NOT EXISTS session (
			id              INTEGER PRIMARY KEY CHECK(id = 1),
			active          INTEGER NOT NULL DEFAULT 0,
			current_index   INTEGER NOT NULL DEFAULT -1,
			started_at      TEXT,
			task_started_at TEXT
		);

		CREATE TABLE IF NOT EXISTS progress (
			task_id              TEXT PRIMARY KEY,
			seq                  INTEGER NOT NULL,
			planned_duration_sec INTEGER NOT NULL,
			actual_duration_sec  INTEGER NOT NULL DEFAULT 0,
			completed_at         TEXT,
			status               TEXT NOT NULL CHECK(status IN ('pending', 'active', 'complete', 'missed'))
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
