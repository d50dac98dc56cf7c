package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/daywise/internal/db"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/google/uuid"
)

// ErrUseCompletion is returned when a generic update tries to set DONE, which
// must go through the dependency-gated completion use case.
var ErrUseCompletion = errors.New("use the completion command to mark a task done")

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "create-task", time.Now(), fields, &err)

	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.EstimatedMin != nil && *t.EstimatedMin < 0 {
		return fmt.Errorf("estimated minutes must not be negative")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Status = domain.ParseTaskStatus(string(t.Status))
	t.Progress = domain.ClampInt(t.Progress, 0, 100)
	if t.IsDone() {
		t.Progress = 100
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	fields["task_id"] = t.ID
	fields["dependencies"] = len(t.DependencyIDs)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, t)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, f repository.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, f)
}

func (s *taskService) Update(ctx context.Context, id string, u TaskUpdate) (task *domain.Task, err error) {
	defer observe(ctx, s.observer, "update-task", time.Now(), map[string]any{"task_id": id}, &err)

	if u.Status != nil && *u.Status == domain.TaskDone {
		return nil, ErrUseCompletion
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		t, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := applyTaskUpdate(t, u); err != nil {
			return err
		}
		t.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func applyTaskUpdate(t *domain.Task, u TaskUpdate) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return fmt.Errorf("task title is required")
		}
		t.Title = title
	}
	if u.Status != nil {
		if !domain.ValidTaskStatuses[*u.Status] {
			return fmt.Errorf("unknown status %q", *u.Status)
		}
		if t.IsDone() {
			return fmt.Errorf("task %s is done; reopen it first", t.ID)
		}
		t.Status = *u.Status
	}
	if u.Progress != nil {
		t.Progress = domain.ClampInt(*u.Progress, 0, 100)
	}
	if u.Estimate != nil {
		if *u.Estimate < 0 {
			return fmt.Errorf("estimated minutes must not be negative")
		}
		t.EstimatedMin = u.Estimate
	}
	if u.ProjectID != nil {
		t.ProjectID = u.ProjectID
	}
	if u.ClearDeps {
		t.DependencyIDs = nil
	}
	if len(u.DependsOn) > 0 {
		t.DependencyIDs = append(t.DependencyIDs, u.DependsOn...)
	}
	if u.FixedTime != nil {
		t.IsFixedTime = *u.FixedTime
	}
	if u.DueDate != nil {
		t.DueDate = u.DueDate
	}
	if u.NotBefore != nil {
		t.StartNotBefore = u.NotBefore
	}
	return nil
}

// Plan sets the planned span of a task and its per-day allocation records in
// one transaction.
func (s *taskService) Plan(ctx context.Context, req PlanRequest) (task *domain.Task, err error) {
	fields := map[string]any{"task_id": req.TaskID, "days": len(req.DayMinutes)}
	defer observe(ctx, s.observer, "plan-task", time.Now(), fields, &err)

	if req.Start != nil && req.End != nil && req.End.Before(*req.Start) {
		return nil, fmt.Errorf("planned end %s is before start %s",
			req.End.Format(time.RFC3339), req.Start.Format(time.RFC3339))
	}
	for day, minutes := range req.DayMinutes {
		if _, err := domain.ParseDayKey(day, nil); err != nil {
			return nil, err
		}
		if minutes < 0 {
			return nil, fmt.Errorf("minutes for %s must not be negative", day)
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		schedule := repository.NewSQLiteScheduleRepo(tx)

		t, err := tasks.GetByID(ctx, req.TaskID)
		if err != nil {
			return err
		}
		if req.Start != nil {
			t.PlannedStart = req.Start
		}
		if req.End != nil {
			t.PlannedEnd = req.End
		}
		t.UpdatedAt = time.Now().UTC()
		if err := tasks.Update(ctx, t); err != nil {
			return err
		}
		for day, minutes := range req.DayMinutes {
			entry := repository.ScheduleEntry{TaskID: t.ID, Day: day, Minutes: minutes}
			if err := schedule.Upsert(ctx, entry); err != nil {
				return err
			}
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
