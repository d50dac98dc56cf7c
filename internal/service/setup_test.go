package service

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/daywise/internal/daylock"
	"github.com/alexanderramin/daywise/internal/db"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/gate"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/snapshot"
	"github.com/alexanderramin/daywise/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Tuesday.
var testDay = time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

// countingTaskRepo counts GetByID calls so tests can see gate fetches.
type countingTaskRepo struct {
	repository.TaskRepo
	gets atomic.Int32
}

func (r *countingTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.gets.Add(1)
	return r.TaskRepo.GetByID(ctx, id)
}

type fixture struct {
	db       *sql.DB
	tasks    *countingTaskRepo
	projects *repository.SQLiteProjectRepo
	workdays *repository.SQLiteWorkdayRepo
	schedule *repository.SQLiteScheduleRepo
	uow      db.UnitOfWork
	store    *snapshot.MemoryStore
	locks    *daylock.Manager
	gate     *gate.Gate
	settings Settings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	tasks := &countingTaskRepo{TaskRepo: repository.NewSQLiteTaskRepo(database)}
	store := snapshot.NewMemoryStore()
	return &fixture{
		db:       database,
		tasks:    tasks,
		projects: repository.NewSQLiteProjectRepo(database),
		workdays: repository.NewSQLiteWorkdayRepo(database),
		schedule: repository.NewSQLiteScheduleRepo(database),
		uow:      testutil.NewTestUoW(database),
		store:    store,
		locks:    daylock.NewManager(store, nil),
		gate:     NewDependencyGate(tasks, nil),
		settings: Settings{
			BufferMin:          60,
			DefaultEstimateMin: 30,
			Location:           time.UTC,
			Now:                func() time.Time { return testDay },
		},
	}
}

func (f *fixture) today() TodayService {
	return NewTodayService(f.tasks, f.workdays, f.locks, f.gate, f.settings)
}

func (f *fixture) completion() CompletionService {
	return NewCompletionService(f.tasks, f.gate)
}

func (f *fixture) create(t *testing.T, tasks ...*domain.Task) {
	t.Helper()
	for _, task := range tasks {
		require.NoError(t, f.tasks.Create(context.Background(), task))
	}
}

func rowIDs(rows []TodayRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.TaskID
	}
	return out
}
