package service

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/gate"
	"github.com/alexanderramin/daywise/internal/repository"
)

// NewDependencyGate returns a gate whose lazy fallback looks dependencies up
// in the task repository. NotFound and storage failures both leave the
// dependency unresolved. One gate should be shared per session so its cache
// is reused across checks.
func NewDependencyGate(tasks repository.TaskRepo, logger *slog.Logger) *gate.Gate {
	fetch := func(ctx context.Context, id string) (*domain.Task, error) {
		return tasks.GetByID(ctx, id)
	}
	return gate.New(fetch, gate.NewCache(), logger)
}
