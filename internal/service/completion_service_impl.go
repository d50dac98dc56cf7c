package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/gate"
	"github.com/alexanderramin/daywise/internal/repository"
)

type completionService struct {
	tasks    repository.TaskRepo
	gate     *gate.Gate
	now      func() time.Time
	observer UseCaseObserver
}

func NewCompletionService(tasks repository.TaskRepo, depGate *gate.Gate, observers ...UseCaseObserver) CompletionService {
	return &completionService{
		tasks:    tasks,
		gate:     depGate,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

// SetDone marks a task DONE (gated by its dependencies) or reopens it
// (never gated). Requests that would not change the status are no-ops.
func (s *completionService) SetDone(ctx context.Context, id string, done bool, known map[string]domain.Task) (res *CompletionResult, err error) {
	fields := map[string]any{"task_id": id, "done": done}
	name := "reopen"
	if done {
		name = "complete"
	}
	defer observe(ctx, s.observer, name, time.Now(), fields, &err)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res = &CompletionResult{Task: task}

	if !done {
		if !task.IsDone() {
			return res, nil
		}
		if err = task.Reopen(s.now()); err != nil {
			return nil, err
		}
		if err = s.save(ctx, task); err != nil {
			return nil, err
		}
		res.Changed = true
		return res, nil
	}

	if task.IsDone() {
		return res, nil
	}
	res.Gate = s.gate.Check(ctx, *task, known)
	decision := gate.Decide(domain.TaskDone, res.Gate)
	fields["blocked"] = res.Gate.Blocked
	if !decision.Allowed {
		fields["reason"] = string(decision.Reason)
		res.Message = decision.Message
		return res, nil
	}

	task.MarkDone(s.now())
	if err = s.save(ctx, task); err != nil {
		return nil, err
	}
	res.Changed = true
	return res, nil
}

// save persists the task and refreshes the gate cache so sibling checks see
// the new status without another fetch.
func (s *completionService) save(ctx context.Context, task *domain.Task) error {
	if err := s.tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	if _, cached := s.gate.Cache().Get(task.ID); cached {
		s.gate.Cache().Merge(map[string]domain.Task{task.ID: task.Clone()})
	}
	return nil
}
