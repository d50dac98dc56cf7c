package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/daywise/internal/db"
	"github.com/alexanderramin/daywise/internal/domain"
)

// SQLiteWorkdayRepo implements WorkdayRepo over workday_configs and
// workday_breaks. Migrations seed every weekday, so GetWeek always sees
// seven rows on a migrated database.
type SQLiteWorkdayRepo struct {
	db db.DBTX
}

// NewSQLiteWorkdayRepo creates a new SQLiteWorkdayRepo.
func NewSQLiteWorkdayRepo(conn db.DBTX) *SQLiteWorkdayRepo {
	return &SQLiteWorkdayRepo{db: conn}
}

// GetWeek returns the stored week. Weekdays without a row, or with times that
// fail to parse, keep the defaults from domain.DefaultWorkWeek.
func (r *SQLiteWorkdayRepo) GetWeek(ctx context.Context) (domain.WorkWeek, error) {
	week := domain.DefaultWorkWeek()

	rows, err := r.db.QueryContext(ctx,
		`SELECT weekday, enabled, start_time, end_time FROM workday_configs ORDER BY weekday`)
	if err != nil {
		return week, fmt.Errorf("listing workday configs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var wd, enabled int
		var startStr, endStr string
		if err := rows.Scan(&wd, &enabled, &startStr, &endStr); err != nil {
			return week, fmt.Errorf("scanning workday config: %w", err)
		}
		if wd < 0 || wd > 6 {
			continue
		}
		cfg := domain.WorkdayConfig{Weekday: time.Weekday(wd), Enabled: intToBool(enabled)}
		start, startErr := domain.ParseTimeOfDay(startStr)
		end, endErr := domain.ParseTimeOfDay(endStr)
		if startErr != nil || endErr != nil {
			week[wd].Breaks = nil
			continue
		}
		cfg.Start, cfg.End = start, end
		week[wd] = cfg
	}
	if err := rows.Err(); err != nil {
		return week, fmt.Errorf("iterating workday configs: %w", err)
	}

	breaks, err := r.db.QueryContext(ctx,
		`SELECT weekday, start_time, end_time FROM workday_breaks ORDER BY weekday, position`)
	if err != nil {
		return week, fmt.Errorf("listing workday breaks: %w", err)
	}
	defer breaks.Close()

	for breaks.Next() {
		var wd int
		var startStr, endStr string
		if err := breaks.Scan(&wd, &startStr, &endStr); err != nil {
			return week, fmt.Errorf("scanning workday break: %w", err)
		}
		start, startErr := domain.ParseTimeOfDay(startStr)
		end, endErr := domain.ParseTimeOfDay(endStr)
		if wd < 0 || wd > 6 || startErr != nil || endErr != nil {
			continue
		}
		week[wd].Breaks = append(week[wd].Breaks, domain.Interval{Start: start, End: end})
	}
	if err := breaks.Err(); err != nil {
		return week, fmt.Errorf("iterating workday breaks: %w", err)
	}
	return week, nil
}

// Upsert replaces the configuration and breaks of one weekday. Callers that
// need atomicity run it inside a UnitOfWork.
func (r *SQLiteWorkdayRepo) Upsert(ctx context.Context, cfg domain.WorkdayConfig) error {
	wd := int(cfg.Weekday)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workday_configs (weekday, enabled, start_time, end_time, seeded_breaks)
		 VALUES (?, ?, ?, ?, 1)
		 ON CONFLICT(weekday) DO UPDATE SET enabled = excluded.enabled,
		   start_time = excluded.start_time, end_time = excluded.end_time, seeded_breaks = 1`,
		wd, boolToInt(cfg.Enabled), cfg.Start.String(), cfg.End.String())
	if err != nil {
		return fmt.Errorf("upserting workday %d: %w", wd, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workday_breaks WHERE weekday = ?`, wd); err != nil {
		return fmt.Errorf("clearing breaks for workday %d: %w", wd, err)
	}
	for i, b := range cfg.Breaks {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO workday_breaks (weekday, position, start_time, end_time) VALUES (?, ?, ?, ?)`,
			wd, i, b.Start.String(), b.End.String())
		if err != nil {
			return fmt.Errorf("inserting break %d for workday %d: %w", i, wd, err)
		}
	}
	return nil
}
