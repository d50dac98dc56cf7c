package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CreateNormalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewTaskService(f.tasks, f.uow)

	task := &domain.Task{Title: "  Write report  ", Status: "bogus", Progress: 140}
	require.NoError(t, svc.Create(ctx, task))
	assert.NotEmpty(t, task.ID)

	stored, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", stored.Title)
	assert.Equal(t, domain.TaskTodo, stored.Status)
	assert.Equal(t, 100, stored.Progress)

	assert.Error(t, svc.Create(ctx, &domain.Task{Title: "   "}))
	negative := -5
	assert.Error(t, svc.Create(ctx, &domain.Task{Title: "x", EstimatedMin: &negative}))
}

func TestTaskService_UpdateRefusesDone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewTaskService(f.tasks, f.uow)
	f.create(t, testutil.NewTestTask("Task", testutil.WithID("t1"), testutil.WithDependencies("a")))

	done := domain.TaskDone
	_, err := svc.Update(ctx, "t1", TaskUpdate{Status: &done})
	assert.ErrorIs(t, err, ErrUseCompletion)

	title := "Renamed"
	waiting := domain.TaskWaiting
	updated, err := svc.Update(ctx, "t1", TaskUpdate{
		Title:     &title,
		Status:    &waiting,
		ClearDeps: true,
		DependsOn: []string{"b", "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, domain.TaskWaiting, updated.Status)

	stored, err := f.tasks.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, stored.DependencyIDs)
}

func TestTaskService_PlanStoresSpanAndDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewTaskService(f.tasks, f.uow)
	f.create(t, testutil.NewTestTask("Task", testutil.WithID("t1")))

	start, end := at(1, 9), at(3, 17)
	task, err := svc.Plan(ctx, PlanRequest{
		TaskID:     "t1",
		Start:      &start,
		End:        &end,
		DayMinutes: map[string]int{"2024-01-01": 60, "2024-01-03": 30},
	})
	require.NoError(t, err)
	assert.True(t, task.PlannedStart.Equal(start))

	entries, err := f.schedule.ListRange(ctx, "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-01", entries[0].Day)
	assert.Equal(t, 30, entries[1].Minutes)

	_, err = svc.Plan(ctx, PlanRequest{TaskID: "t1", Start: &end, End: &start})
	assert.Error(t, err, "inverted span")
	_, err = svc.Plan(ctx, PlanRequest{TaskID: "t1", DayMinutes: map[string]int{"Jan 1": 10}})
	assert.Error(t, err, "bad day key")
}

func TestTaskService_PlanRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, testutil.NewTestTask("Task", testutil.WithID("t1")))

	diskFull := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Match: "day_schedule_entries", Err: diskFull}
	svc := NewTaskService(f.tasks, uow)

	start := at(1, 9)
	_, err := svc.Plan(ctx, PlanRequest{
		TaskID:     "t1",
		Start:      &start,
		DayMinutes: map[string]int{"2024-01-01": 60, "2024-01-02": 30},
	})
	require.ErrorIs(t, err, diskFull)

	stored, err := f.tasks.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, stored.PlannedStart)
	entries, err := f.schedule.ListRange(ctx, "2024-01-01", "2024-01-02")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProjectService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProjectService(f.projects)

	_, err := svc.Create(ctx, " ")
	assert.Error(t, err)

	p, err := svc.Create(ctx, "Website")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Website", all[0].Name)
}
