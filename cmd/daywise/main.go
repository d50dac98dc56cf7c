package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/daywise/internal/cli"
	"github.com/alexanderramin/daywise/internal/cli/formatter"
	"github.com/alexanderramin/daywise/internal/config"
	"github.com/alexanderramin/daywise/internal/daylock"
	"github.com/alexanderramin/daywise/internal/db"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/service"
	"github.com/alexanderramin/daywise/internal/snapshot"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store, closeStore, err := openSnapshotStore(cfg, database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	workdayRepo := repository.NewSQLiteWorkdayRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	if cfg.MetricsFile != "" {
		reg := prometheus.NewRegistry()
		observers = append(observers, service.NewMetricsUseCaseObserver(reg))
		defer func() {
			if werr := prometheus.WriteToTextfile(cfg.MetricsFile, reg); werr != nil {
				logger.Warn("writing metrics file failed", "path", cfg.MetricsFile, "error", werr)
			}
		}()
	}

	settings := service.Settings{
		BufferMin:          cfg.BufferMinutes,
		DefaultEstimateMin: cfg.DefaultEstimateMinutes,
		Location:           cfg.Location(),
	}
	// One gate per process so its dependency cache is shared by every command.
	depGate := service.NewDependencyGate(taskRepo, logger)
	locks := daylock.NewManager(store, logger)

	app := &cli.App{
		Today:      service.NewTodayService(taskRepo, workdayRepo, locks, depGate, settings, observers...),
		Completion: service.NewCompletionService(taskRepo, depGate, observers...),
		Timeline:   service.NewTimelineService(taskRepo, projectRepo, scheduleRepo, settings, observers...),
		Tasks:      service.NewTaskService(taskRepo, uow, observers...),
		Projects:   service.NewProjectService(projectRepo),
		Workdays:   service.NewWorkdayService(workdayRepo, uow, settings, observers...),
		Location:   settings.Location,
	}

	formatter.ConfigureOutput(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	// Execute root command
	return cli.NewRootCmd(app).Execute()
}

// openSnapshotStore builds the configured daily lock backend and a func that
// releases it.
func openSnapshotStore(cfg config.Config, database db.DBTX, logger *slog.Logger) (snapshot.Store, func(), error) {
	noop := func() {}
	switch cfg.SnapshotBackend {
	case config.BackendMemory:
		return snapshot.NewMemoryStore(), noop, nil
	case config.BackendBadger:
		store, err := snapshot.OpenBadgerStore(snapshot.BadgerConfig{Path: cfg.BadgerDir, Logger: logger})
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing snapshot store failed", "error", err)
			}
		}, nil
	default:
		return snapshot.NewSQLiteStore(database), noop, nil
	}
}

