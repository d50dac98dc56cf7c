package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateGetList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	beta := testutil.NewTestProject("Beta")
	alpha := testutil.NewTestProject("Alpha")
	require.NoError(t, repo.Create(ctx, beta))
	require.NoError(t, repo.Create(ctx, alpha))

	got, err := repo.GetByID(ctx, beta.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)
	assert.True(t, beta.CreatedAt.Equal(got.CreatedAt))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkdayRepo_SeededWeek(t *testing.T) {
	repo := NewSQLiteWorkdayRepo(testutil.NewTestDB(t))

	week, err := repo.GetWeek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWorkWeek(), week)
}

func TestWorkdayRepo_UpsertReplacesBreaks(t *testing.T) {
	repo := NewSQLiteWorkdayRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sat := domain.WorkdayConfig{
		Weekday: time.Saturday,
		Enabled: true,
		Start:   domain.MustTimeOfDay("10:00"),
		End:     domain.MustTimeOfDay("14:00"),
		Breaks: []domain.Interval{
			{Start: domain.MustTimeOfDay("11:00"), End: domain.MustTimeOfDay("11:15")},
			{Start: domain.MustTimeOfDay("12:30"), End: domain.MustTimeOfDay("13:00")},
		},
	}
	require.NoError(t, repo.Upsert(ctx, sat))

	week, err := repo.GetWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, sat, week[time.Saturday])

	sat.Breaks = nil
	require.NoError(t, repo.Upsert(ctx, sat))
	week, err = repo.GetWeek(ctx)
	require.NoError(t, err)
	assert.Empty(t, week[time.Saturday].Breaks)
	assert.Len(t, week[time.Monday].Breaks, 1)
}

func TestScheduleRepo_UpsertAndRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteTaskRepo(db)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("scheduled")
	require.NoError(t, tasks.Create(ctx, task))

	require.NoError(t, repo.Upsert(ctx, ScheduleEntry{TaskID: task.ID, Day: "2024-01-01", Minutes: 30}))
	require.NoError(t, repo.Upsert(ctx, ScheduleEntry{TaskID: task.ID, Day: "2024-01-03", Minutes: 45}))
	require.NoError(t, repo.Upsert(ctx, ScheduleEntry{TaskID: task.ID, Day: "2024-01-01", Minutes: 60}))
	require.NoError(t, repo.Upsert(ctx, ScheduleEntry{TaskID: task.ID, Day: "2024-01-09", Minutes: 10}))

	entries, err := repo.ListRange(ctx, "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, []ScheduleEntry{
		{TaskID: task.ID, Day: "2024-01-01", Minutes: 60},
		{TaskID: task.ID, Day: "2024-01-03", Minutes: 45},
	}, entries)

	require.NoError(t, repo.Upsert(ctx, ScheduleEntry{TaskID: task.ID, Day: "2024-01-03", Minutes: 0}))
	entries, err = repo.ListRange(ctx, "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Entries go with their task.
	require.NoError(t, tasks.Delete(ctx, task.ID))
	entries, err = repo.ListRange(ctx, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
