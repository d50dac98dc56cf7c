package testutil

import (
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/google/uuid"
)

// Project options
type ProjectOption func(*domain.Project)

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithParent(id string, order int) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
		t.OrderInParent = &order
	}
}

func WithProject(id string) TaskOption {
	return func(t *domain.Task) {
		t.ProjectID = &id
	}
}

func WithDependencies(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.DependencyIDs = append([]string(nil), ids...)
	}
}

func WithEstimate(min int) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedMin = &min
	}
}

func WithPlanned(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.PlannedStart = &start
		t.PlannedEnd = &end
	}
}

func WithStartNotBefore(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartNotBefore = &d
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithFixedTime() TaskOption {
	return func(t *domain.Task) {
		t.IsFixedTime = true
	}
}

// NewTestTask returns a TODO task with a fresh id and no estimate.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.TaskTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
