package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/daywise/internal/daylock"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/gate"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/scheduler"
	"github.com/alexanderramin/daywise/internal/timeline"
)

// Settings are the tunables shared by the planning use cases.
type Settings struct {
	BufferMin          int
	DefaultEstimateMin int
	// Location interprets calendar days. Nil uses UTC.
	Location *time.Location
	// Now decides which day a stored lock belongs to. Nil uses time.Now.
	Now func() time.Time
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

type TodayRequest struct {
	Day         time.Time
	IncludeDone bool
}

// TodayRow is one entry of the day's list.
type TodayRow struct {
	TaskID      string
	Title       string
	ParentID    string
	ParentTitle string
	// Status is empty when the task is Missing.
	Status     domain.TaskStatus
	Progress   int
	Allocation scheduler.AllocationRecord
	// Missing is set for locked tasks that no longer exist; the row is
	// rendered from the lock snapshot.
	Missing      bool
	Blocked      bool
	BlockMessage string
}

type TodayView struct {
	Day        string
	Window     scheduler.WorkWindow
	Allocation scheduler.AllocationSummary
	Locked     bool
	LockedAt   time.Time
	Rows       []TodayRow
}

type TodayService interface {
	Today(ctx context.Context, req TodayRequest) (*TodayView, error)
	Lock(ctx context.Context, day time.Time) (*daylock.DailyLock, error)
	Unlock(ctx context.Context) error
}

// CompletionResult reports the outcome of a done/reopen request. A refused
// completion is a result, not an error.
type CompletionResult struct {
	Task    *domain.Task
	Changed bool
	Gate    gate.Result
	// Message explains a refusal.
	Message string
}

type CompletionService interface {
	SetDone(ctx context.Context, id string, done bool, known map[string]domain.Task) (*CompletionResult, error)
}

type TimelineService interface {
	Build(ctx context.Context, from time.Time, days int) (timeline.Tree, error)
}

// PlanRequest places a task on the timeline. DayMinutes maps ISO days to the
// minutes allocated on that day; zero removes an entry.
type PlanRequest struct {
	TaskID     string
	Start      *time.Time
	End        *time.Time
	DayMinutes map[string]int
}

// TaskUpdate holds optional field changes for TaskService.Update.
type TaskUpdate struct {
	Title     *string
	Status    *domain.TaskStatus
	Progress  *int
	Estimate  *int
	ProjectID *string
	DependsOn []string
	ClearDeps bool
	FixedTime *bool
	DueDate   *time.Time
	NotBefore *time.Time
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, f repository.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, id string, u TaskUpdate) (*domain.Task, error)
	Plan(ctx context.Context, req PlanRequest) (*domain.Task, error)
}

type ProjectService interface {
	Create(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

type WorkdayService interface {
	Week(ctx context.Context) (domain.WorkWeek, error)
	Windows(ctx context.Context) ([]scheduler.WorkWindow, error)
	Set(ctx context.Context, cfg domain.WorkdayConfig) error
	Import(ctx context.Context, r io.Reader) (int, error)
}
