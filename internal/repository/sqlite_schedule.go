package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/daywise/internal/db"
)

// SQLiteScheduleRepo stores day-indexed allocation records.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

// Upsert sets the minutes of a task on a day. Zero minutes removes the entry.
func (r *SQLiteScheduleRepo) Upsert(ctx context.Context, e ScheduleEntry) error {
	if e.Minutes <= 0 {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM day_schedule_entries WHERE task_id = ? AND day = ?`, e.TaskID, e.Day)
		if err != nil {
			return fmt.Errorf("removing schedule entry: %w", err)
		}
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO day_schedule_entries (task_id, day, minutes) VALUES (?, ?, ?)
		 ON CONFLICT(task_id, day) DO UPDATE SET minutes = excluded.minutes`,
		e.TaskID, e.Day, e.Minutes)
	if err != nil {
		return fmt.Errorf("upserting schedule entry: %w", err)
	}
	return nil
}

// ListRange returns entries with fromDay <= day <= toDay (ISO day strings).
func (r *SQLiteScheduleRepo) ListRange(ctx context.Context, fromDay, toDay string) ([]ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, day, minutes FROM day_schedule_entries
		 WHERE day >= ? AND day <= ? ORDER BY day, task_id`, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []ScheduleEntry
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.TaskID, &e.Day, &e.Minutes); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteScheduleRepo) DeleteForTask(ctx context.Context, taskID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM day_schedule_entries WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("deleting schedule entries: %w", err)
	}
	return nil
}

var (
	_ TaskRepo     = (*SQLiteTaskRepo)(nil)
	_ ProjectRepo  = (*SQLiteProjectRepo)(nil)
	_ WorkdayRepo  = (*SQLiteWorkdayRepo)(nil)
	_ ScheduleRepo = (*SQLiteScheduleRepo)(nil)
)
