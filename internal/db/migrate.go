package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run on
// every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedWorkdays(db); err != nil {
		return fmt.Errorf("seeding workday configs: %w", err)
	}
	return nil
}

// seedWorkdays inserts the default week (Mon-Fri 09:00-18:00, lunch 12:00-13:00)
// for any weekday that has no row yet.
func seedWorkdays(db *sql.DB) error {
	for wd := 0; wd < 7; wd++ {
		enabled := 0
		if wd >= 1 && wd <= 5 {
			enabled = 1
		}
		if _, err := db.Exec(`INSERT OR IGNORE INTO workday_configs (weekday, enabled, start_time, end_time)
			VALUES (?, ?, '09:00', '18:00')`, wd, enabled); err != nil {
			return fmt.Errorf("weekday %d: %w", wd, err)
		}
		var breaks int
		if err := db.QueryRow(`SELECT COUNT(*) FROM workday_breaks WHERE weekday = ?`, wd).Scan(&breaks); err != nil {
			return fmt.Errorf("counting breaks for weekday %d: %w", wd, err)
		}
		var seeded int
		if err := db.QueryRow(`SELECT seeded_breaks FROM workday_configs WHERE weekday = ?`, wd).Scan(&seeded); err != nil {
			return fmt.Errorf("reading seed flag for weekday %d: %w", wd, err)
		}
		if breaks == 0 && seeded == 0 {
			if _, err := db.Exec(`INSERT INTO workday_breaks (weekday, position, start_time, end_time)
				VALUES (?, 0, '12:00', '13:00')`, wd); err != nil {
				return fmt.Errorf("seeding break for weekday %d: %w", wd, err)
			}
		}
		if _, err := db.Exec(`UPDATE workday_configs SET seeded_breaks = 1 WHERE weekday = ?`, wd); err != nil {
			return fmt.Errorf("marking weekday %d seeded: %w", wd, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	// parent_id and project_id are weak references: no foreign keys, so a
	// deleted parent or project leaves dangling ids that readers tolerate.
	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'TODO'
		                 CHECK(status IN ('TODO','IN_PROGRESS','WAITING','DONE')),
		parent_id        TEXT,
		order_in_parent  INTEGER,
		estimated_min    INTEGER CHECK(estimated_min IS NULL OR estimated_min >= 0),
		progress         INTEGER NOT NULL DEFAULT 0,
		project_id       TEXT,
		start_not_before TEXT,
		due_date         TEXT,
		is_fixed_time    INTEGER NOT NULL DEFAULT 0,
		planned_start    TEXT,
		planned_end      TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		task_id       TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		depends_on_id TEXT NOT NULL,
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, depends_on_id)
	)`,

	`CREATE TABLE IF NOT EXISTS workday_configs (
		weekday       INTEGER PRIMARY KEY CHECK(weekday BETWEEN 0 AND 6),
		enabled       INTEGER NOT NULL DEFAULT 0,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		seeded_breaks INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS workday_breaks (
		weekday    INTEGER NOT NULL REFERENCES workday_configs(weekday) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		PRIMARY KEY (weekday, position)
	)`,

	`CREATE TABLE IF NOT EXISTS day_schedule_entries (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		day     TEXT NOT NULL,
		minutes INTEGER NOT NULL CHECK(minutes >= 0),
		PRIMARY KEY (task_id, day)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_day ON day_schedule_entries(day)`,

	`CREATE TABLE IF NOT EXISTS kv_snapshots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
