package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/daywise/internal/daylock"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/service"
	"github.com/alexanderramin/daywise/internal/snapshot"
	"github.com/alexanderramin/daywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
// The clock is pinned to Tuesday 2024-01-02 10:00 UTC.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)

	taskRepo := repository.NewSQLiteTaskRepo(db)
	projRepo := repository.NewSQLiteProjectRepo(db)
	workdayRepo := repository.NewSQLiteWorkdayRepo(db)
	scheduleRepo := repository.NewSQLiteScheduleRepo(db)
	uow := testutil.NewTestUoW(db)

	now := func() time.Time { return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC) }
	settings := service.Settings{BufferMin: 60, DefaultEstimateMin: 30, Location: time.UTC, Now: now}
	depGate := service.NewDependencyGate(taskRepo, nil)
	locks := daylock.NewManager(snapshot.NewSQLiteStore(db), nil)

	return &App{
		Today:      service.NewTodayService(taskRepo, workdayRepo, locks, depGate, settings),
		Completion: service.NewCompletionService(taskRepo, depGate),
		Timeline:   service.NewTimelineService(taskRepo, projRepo, scheduleRepo, settings),
		Tasks:      service.NewTaskService(taskRepo, uow),
		Projects:   service.NewProjectService(projRepo),
		Workdays:   service.NewWorkdayService(workdayRepo, uow, settings),
		Location:   time.UTC,
		Now:        now,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr without styling.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func TestTaskAddAndList(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "task", "add", "Write", "notes", "--estimate", "60",
		"--start", "2024-01-02T09:00", "--end", "2024-01-02T10:00")
	assert.Contains(t, out, "Created task Write notes")

	mustExecute(t, app, "task", "add", "Review", "--parent", "Write notes", "--order", "1")

	out = mustExecute(t, app, "task", "list")
	assert.Contains(t, out, "Write notes")
	assert.Contains(t, out, "Jan 2 09:00-10:00")
	assert.Contains(t, out, "1h")

	out = mustExecute(t, app, "task", "list", "--tree")
	assert.Contains(t, out, "└─ 1. Review")

	_, err := executeCmd(t, app, "task", "add", "Bad", "--status", "done")
	assert.ErrorIs(t, err, service.ErrUseCompletion)
	_, err = executeCmd(t, app, "task", "add", "Bad", "--start", "next week")
	assert.Error(t, err)
}

func TestTodayLockFlow(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "task", "add", "Morning", "focus", "--estimate", "90", "--start", "2024-01-02T09:00")
	out := mustExecute(t, app, "today")
	assert.Contains(t, out, "Tue Jan 2, 2024")
	assert.Contains(t, out, "Morning focus")
	assert.Contains(t, out, "1h 30m")

	out = mustExecute(t, app, "lock")
	assert.Contains(t, out, "Locked 2024-01-02 with 1 task(s)")

	mustExecute(t, app, "task", "add", "Afternoon", "call", "--start", "2024-01-02T15:00")
	out = mustExecute(t, app)
	assert.Contains(t, out, "locked")
	assert.NotContains(t, out, "Afternoon call")

	// Looking at another day does not drop today's lock.
	out = mustExecute(t, app, "today", "--date", "tomorrow")
	assert.Contains(t, out, "Afternoon call")
	out = mustExecute(t, app)
	assert.Contains(t, out, "locked")
	assert.NotContains(t, out, "Afternoon call")

	assert.Contains(t, mustExecute(t, app, "unlock"), "Day unlocked.")
	out = mustExecute(t, app, "today", "--date", "2024-01-02")
	assert.Contains(t, out, "Afternoon call")

	// An open-ended plan carries over to later days.
	out = mustExecute(t, app, "today", "--date", "tomorrow")
	assert.Contains(t, out, "Wed Jan 3, 2024")
	assert.Contains(t, out, "Morning focus")

	out = mustExecute(t, app, "today", "--date", "yesterday")
	assert.Contains(t, out, "Mon Jan 1, 2024")
	assert.Contains(t, out, "Nothing planned")

	_, err := executeCmd(t, app, "today", "--date", "02/01/2024")
	assert.Error(t, err)
}

func TestDoneIsGatedByDependencies(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "task", "add", "Draft")
	mustExecute(t, app, "task", "add", "Publish", "--depends", "Draft")

	out := mustExecute(t, app, "done", "Publish")
	assert.Contains(t, out, "Cannot complete Publish")
	assert.Contains(t, out, "Complete dependencies first: Draft")

	assert.Contains(t, mustExecute(t, app, "done", "Draft"), "Completed Draft")
	assert.Contains(t, mustExecute(t, app, "done", "Publish"), "Completed Publish")
	assert.Contains(t, mustExecute(t, app, "done", "Publish"), "Already done")
	assert.Contains(t, mustExecute(t, app, "reopen", "Draft"), "Reopened Draft")

	_, err := executeCmd(t, app, "done", "Nope")
	assert.ErrorContains(t, err, "task not found")
}

type fetchCounter struct {
	repository.TaskRepo
	fetches int
}

func (c *fetchCounter) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	c.fetches++
	return c.TaskRepo.GetByID(ctx, id)
}

func TestDoneReusesResolvedTasksForTheGate(t *testing.T) {
	app := testApp(t)
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(db)
	counter := &fetchCounter{TaskRepo: repo}
	app.Tasks = service.NewTaskService(repo, testutil.NewTestUoW(db))
	app.Completion = service.NewCompletionService(counter, service.NewDependencyGate(counter, nil))

	mustExecute(t, app, "task", "add", "Draft")
	mustExecute(t, app, "task", "add", "Publish", "--depends", "Draft")

	out := mustExecute(t, app, "done", "Publish")
	assert.Contains(t, out, "Complete dependencies first: Draft")
	assert.Equal(t, 1, counter.fetches, "only the task itself is loaded; Draft comes from the resolved list")
}

func TestTaskUpdateAndPlan(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "task", "add", "Report")

	_, err := executeCmd(t, app, "task", "update", "Report", "--status", "done")
	assert.ErrorIs(t, err, service.ErrUseCompletion)

	out := mustExecute(t, app, "task", "update", "Report", "--title", "Quarterly report", "--status", "in-progress", "--progress", "30")
	assert.Contains(t, out, "Updated task Quarterly report")

	out = mustExecute(t, app, "task", "plan", "Quarterly report",
		"--start", "2024-01-02", "--end", "2024-01-04",
		"--day", "2024-01-02=60", "--day", "2024-01-04=30")
	assert.Contains(t, out, "2 day allocation(s)")

	_, err = executeCmd(t, app, "task", "plan", "Quarterly report", "--day", "2024-01-02")
	assert.Error(t, err)

	out = mustExecute(t, app, "task", "list", "--status", "in_progress")
	assert.Contains(t, out, "Quarterly report")
	assert.Contains(t, out, "In Progress")
}

func TestTimelineCommand(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "project", "add", "Website")
	mustExecute(t, app, "task", "add", "Launch", "--project", "website", "--start", "2024-01-02", "--end", "2024-01-04")
	mustExecute(t, app, "task", "add", "Copy", "--project", "Website", "--parent", "Launch", "--order", "1",
		"--start", "2024-01-03", "--end", "2024-01-03")

	out := mustExecute(t, app, "timeline", "--from", "2024-01-01", "--days", "7")
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "▸ Launch")
	assert.NotContains(t, out, "Copy")

	out = mustExecute(t, app, "timeline", "--from", "2024-01-01", "--days", "7", "--expand", "Launch")
	assert.Contains(t, out, "▾ Launch")
	assert.Contains(t, out, "1. Copy")

	out = mustExecute(t, app, "timeline", "--from", "2024-01-01", "--expand-all")
	assert.Contains(t, out, "1. Copy")

	out = mustExecute(t, app, "project", "list")
	assert.Contains(t, out, "Website")
}

func TestWorkdayCommands(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "workday", "show")
	assert.Contains(t, out, "Weekly capacity: 35h")

	mustExecute(t, app, "workday", "set", "sat", "--start", "10:00", "--end", "14:00", "--break", "")
	out = mustExecute(t, app, "workday", "show")
	assert.Contains(t, out, "10:00-14:00")
	assert.Contains(t, out, "Weekly capacity: 38h")

	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte("days:\n  sat: {enabled: false}\n  sun: {enabled: false}\n"), 0o644))
	assert.Contains(t, mustExecute(t, app, "workday", "import", path), "Imported 2 day(s)")
	assert.Contains(t, mustExecute(t, app, "workday", "show"), "Weekly capacity: 35h")

	_, err := executeCmd(t, app, "workday", "set", "someday")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "workday", "import", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveTaskID_Ambiguous(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "task", "add", "Twin")
	mustExecute(t, app, "task", "add", "twin")

	_, err := resolveTaskID(t.Context(), app, "TWIN")
	assert.ErrorContains(t, err, "ambiguous")
}
