package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
)

// TaskFilter narrows TaskRepo.List. Zero values mean "no constraint".
type TaskFilter struct {
	IDs       []string
	Statuses  []domain.TaskStatus
	ProjectID *string
	ParentID  *string
	// PlannedFrom/PlannedTo keep tasks whose planned span overlaps
	// [PlannedFrom, PlannedTo). A missing start is open towards the past;
	// tasks with neither start nor end never match.
	PlannedFrom *time.Time
	PlannedTo   *time.Time
}

// ScheduleEntry is the persisted minutes of one task on one ISO day.
type ScheduleEntry struct {
	TaskID  string
	Day     string
	Minutes int
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

// WorkdayRepo is the Capacity Configuration Store.
type WorkdayRepo interface {
	GetWeek(ctx context.Context) (domain.WorkWeek, error)
	Upsert(ctx context.Context, cfg domain.WorkdayConfig) error
}

type ScheduleRepo interface {
	Upsert(ctx context.Context, e ScheduleEntry) error
	ListRange(ctx context.Context, fromDay, toDay string) ([]ScheduleEntry, error)
	DeleteForTask(ctx context.Context, taskID string) error
}
