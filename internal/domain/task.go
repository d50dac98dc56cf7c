package domain

import (
	"fmt"
	"time"
)

// Task is a unit of work owned by the task repository. Parent, dependency and
// project references are weak: they are ids that may not resolve.
type Task struct {
	ID            string
	Title         string
	Status        TaskStatus
	ParentID      *string
	OrderInParent *int
	DependencyIDs []string
	EstimatedMin  *int
	Progress      int
	ProjectID     *string

	// Constraints
	StartNotBefore *time.Time
	DueDate        *time.Time

	// Meeting-like tasks occupy a fixed calendar slot.
	IsFixedTime bool

	// Timeline placement
	PlannedStart *time.Time
	PlannedEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDone reports whether the task is complete.
func (t *Task) IsDone() bool {
	return t.Status == TaskDone
}

// EffectiveProgress returns progress clamped to [0,100], forced to 100 when done.
func (t *Task) EffectiveProgress() int {
	if t.IsDone() {
		return 100
	}
	return ClampInt(t.Progress, 0, 100)
}

// EstimateOr returns the estimated minutes, or fallback when unset or not positive.
func (t *Task) EstimateOr(fallback int) int {
	if t.EstimatedMin != nil && *t.EstimatedMin > 0 {
		return *t.EstimatedMin
	}
	return fallback
}

// HasDependencies reports whether the task declares any prerequisite ids.
func (t *Task) HasDependencies() bool {
	return len(t.DependencyIDs) > 0
}

// ParentKey returns the parent id or "" when the task has no parent.
func (t *Task) ParentKey() string {
	return StrFromPtr(t.ParentID)
}

// ProjectKey returns the project id or UnassignedProjectID.
func (t *Task) ProjectKey() string {
	return StrFromPtr(t.ProjectID)
}

// MarkDone transitions the task to DONE and pins progress to 100.
// Dependency gating is the caller's responsibility.
func (t *Task) MarkDone(now time.Time) {
	t.Status = TaskDone
	t.Progress = 100
	t.UpdatedAt = now
}

// Reopen transitions a DONE task back to TODO.
func (t *Task) Reopen(now time.Time) error {
	if t.Status != TaskDone {
		return fmt.Errorf("cannot reopen task in %s status", t.Status)
	}
	t.Status = TaskTodo
	if t.Progress >= 100 {
		t.Progress = 0
	}
	t.UpdatedAt = now
	return nil
}

// Clone returns a deep copy so callers can snapshot a task without aliasing.
func (t Task) Clone() Task {
	c := t
	c.ParentID = clonePtr(t.ParentID)
	c.OrderInParent = clonePtr(t.OrderInParent)
	c.EstimatedMin = clonePtr(t.EstimatedMin)
	c.ProjectID = clonePtr(t.ProjectID)
	c.StartNotBefore = clonePtr(t.StartNotBefore)
	c.DueDate = clonePtr(t.DueDate)
	c.PlannedStart = clonePtr(t.PlannedStart)
	c.PlannedEnd = clonePtr(t.PlannedEnd)
	if t.DependencyIDs != nil {
		c.DependencyIDs = append([]string(nil), t.DependencyIDs...)
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
