package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/daywise/internal/db"
	"github.com/alexanderramin/daywise/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, title, status, parent_id, order_in_parent, estimated_min, progress,
		project_id, start_not_before, due_date, is_fixed_time, planned_start, planned_end,
		created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database. Dependency ids
// live in task_dependencies and are loaded with every task.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		string(domain.ParseTaskStatus(string(t.Status))),
		nullableStrToValue(t.ParentID),
		nullableIntToValue(t.OrderInParent),
		nullableIntToValue(t.EstimatedMin),
		t.Progress,
		nullableStrToValue(t.ProjectID),
		nullableTimeToString(t.StartNotBefore),
		nullableTimeToString(t.DueDate),
		boolToInt(t.IsFixedTime),
		nullableTimeToString(t.PlannedStart),
		nullableTimeToString(t.PlannedEnd),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return r.writeDependencies(ctx, t.ID, t.DependencyIDs)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	deps, err := r.loadDependencies(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	t.DependencyIDs = deps[t.ID]
	return t, nil
}

func (r *SQLiteTaskRepo) List(ctx context.Context, f TaskFilter) ([]*domain.Task, error) {
	var where []string
	var args []any
	if len(f.IDs) > 0 {
		in, inArgs := inClause(f.IDs)
		where = append(where, "id IN "+in)
		args = append(args, inArgs...)
	}
	if len(f.Statuses) > 0 {
		in, inArgs := inClause(f.Statuses)
		where = append(where, "status IN "+in)
		args = append(args, inArgs...)
	}
	if f.ProjectID != nil {
		if *f.ProjectID == domain.UnassignedProjectID {
			where = append(where, "project_id IS NULL")
		} else {
			where = append(where, "project_id = ?")
			args = append(args, *f.ProjectID)
		}
	}
	if f.ParentID != nil {
		where = append(where, "parent_id = ?")
		args = append(args, *f.ParentID)
	}
	if f.PlannedTo != nil {
		where = append(where, "(planned_start < ? OR (planned_start IS NULL AND planned_end IS NOT NULL))")
		args = append(args, formatTime(*f.PlannedTo))
	}
	if f.PlannedFrom != nil {
		where = append(where, "COALESCE(planned_end, planned_start) >= ?")
		args = append(args, formatTime(*f.PlannedFrom))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	deps, err := r.loadDependencies(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.DependencyIDs = deps[t.ID]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, status = ?, parent_id = ?, order_in_parent = ?,
		estimated_min = ?, progress = ?, project_id = ?, start_not_before = ?, due_date = ?,
		is_fixed_time = ?, planned_start = ?, planned_end = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		string(domain.ParseTaskStatus(string(t.Status))),
		nullableStrToValue(t.ParentID),
		nullableIntToValue(t.OrderInParent),
		nullableIntToValue(t.EstimatedMin),
		t.Progress,
		nullableStrToValue(t.ProjectID),
		nullableTimeToString(t.StartNotBefore),
		nullableTimeToString(t.DueDate),
		boolToInt(t.IsFixedTime),
		nullableTimeToString(t.PlannedStart),
		nullableTimeToString(t.PlannedEnd),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing task dependencies: %w", err)
	}
	return r.writeDependencies(ctx, t.ID, t.DependencyIDs)
}

// Delete removes the task. Other tasks keep their weak references to it.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) writeDependencies(ctx context.Context, taskID string, depIDs []string) error {
	seen := make(map[string]bool, len(depIDs))
	pos := 0
	for _, dep := range depIDs {
		if dep == "" || seen[dep] {
			continue
		}
		seen[dep] = true
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id, position) VALUES (?, ?, ?)`,
			taskID, dep, pos)
		if err != nil {
			return fmt.Errorf("inserting dependency %s -> %s: %w", taskID, dep, err)
		}
		pos++
	}
	return nil
}

func (r *SQLiteTaskRepo) loadDependencies(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	in, args := inClause(taskIDs)
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, depends_on_id FROM task_dependencies
		 WHERE task_id IN `+in+` ORDER BY task_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing task dependencies: %w", err)
	}
	defer rows.Close()

	deps := make(map[string][]string)
	for rows.Next() {
		var taskID, dep string
		if err := rows.Scan(&taskID, &dep); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps[taskID] = append(deps[taskID], dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans one task row from either *sql.Row or *sql.Rows.
func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var statusStr, createdAtStr, updatedAtStr string
	var parentID, projectID sql.NullString
	var startNotBefore, dueDate, plannedStart, plannedEnd sql.NullString
	var orderInParent, estimatedMin sql.NullInt64
	var fixedInt int

	err := row.Scan(
		&t.ID, &t.Title, &statusStr, &parentID, &orderInParent, &estimatedMin, &t.Progress,
		&projectID, &startNotBefore, &dueDate, &fixedInt, &plannedStart, &plannedEnd,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.ParseTaskStatus(statusStr)
	t.ParentID = nullableStrFromSQL(parentID)
	t.ProjectID = nullableStrFromSQL(projectID)
	t.OrderInParent = nullableIntFromSQL(orderInParent)
	t.EstimatedMin = nullableIntFromSQL(estimatedMin)
	t.IsFixedTime = intToBool(fixedInt)
	t.StartNotBefore = parseNullableTime(startNotBefore)
	t.DueDate = parseNullableTime(dueDate)
	t.PlannedStart = parseNullableTime(plannedStart)
	t.PlannedEnd = parseNullableTime(plannedEnd)

	var parseErr error
	if t.CreatedAt, parseErr = parseTime(createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if t.UpdatedAt, parseErr = parseTime(updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}
