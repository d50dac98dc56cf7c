package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alexanderramin/daywise/internal/db"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/scheduler"
	"gopkg.in/yaml.v3"
)

type workdayService struct {
	workdays repository.WorkdayRepo
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewWorkdayService(
	workdays repository.WorkdayRepo,
	uow db.UnitOfWork,
	settings Settings,
	observers ...UseCaseObserver,
) WorkdayService {
	return &workdayService{
		workdays: workdays,
		uow:      uow,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *workdayService) Week(ctx context.Context) (domain.WorkWeek, error) {
	return s.workdays.GetWeek(ctx)
}

// Windows returns the capacity breakdown of every weekday, Sunday first.
func (s *workdayService) Windows(ctx context.Context) ([]scheduler.WorkWindow, error) {
	week, err := s.workdays.GetWeek(ctx)
	if err != nil {
		return nil, err
	}
	windows := make([]scheduler.WorkWindow, 0, len(week))
	for _, cfg := range week {
		windows = append(windows, scheduler.ComputeWorkWindow(cfg, s.settings.BufferMin))
	}
	return windows, nil
}

func (s *workdayService) Set(ctx context.Context, cfg domain.WorkdayConfig) (err error) {
	fields := map[string]any{"weekday": cfg.Weekday.String()}
	defer observe(ctx, s.observer, "set-workday", time.Now(), fields, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWorkdayRepo(tx).Upsert(ctx, cfg)
	})
}

// weekFile is the YAML layout accepted by Import:
//
//	days:
//	  mon: {enabled: true, start: "09:00", end: "17:00", breaks: ["12:00-12:30"]}
type weekFile struct {
	Days map[string]dayFile `yaml:"days"`
}

type dayFile struct {
	Enabled *bool    `yaml:"enabled"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Breaks  []string `yaml:"breaks"`
}

// Import reads a YAML week and stores every day it names, all or nothing.
// Days not named in the file keep their configuration.
func (s *workdayService) Import(ctx context.Context, r io.Reader) (count int, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import-workdays", time.Now(), fields, &err)

	var wf weekFile
	if err := yaml.NewDecoder(r).Decode(&wf); err != nil {
		return 0, fmt.Errorf("parsing workday file: %w", err)
	}
	if len(wf.Days) == 0 {
		return 0, fmt.Errorf("workday file has no days")
	}

	configs := make([]domain.WorkdayConfig, 0, len(wf.Days))
	seen := make(map[time.Weekday]string)
	for name, day := range wf.Days {
		cfg, err := day.toConfig(name)
		if err != nil {
			return 0, err
		}
		if prev, dup := seen[cfg.Weekday]; dup {
			return 0, fmt.Errorf("weekday %s listed twice (%s, %s)", cfg.Weekday, prev, name)
		}
		seen[cfg.Weekday] = name
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Weekday < configs[j].Weekday })

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteWorkdayRepo(tx)
		for _, cfg := range configs {
			if err := repo.Upsert(ctx, cfg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	fields["days"] = len(configs)
	return len(configs), nil
}

func (d dayFile) toConfig(name string) (domain.WorkdayConfig, error) {
	wd, err := domain.ParseWeekday(name)
	if err != nil {
		return domain.WorkdayConfig{}, err
	}
	cfg := domain.WorkdayConfig{Weekday: wd, Enabled: true}
	if d.Enabled != nil {
		cfg.Enabled = *d.Enabled
	}
	if cfg.Start, err = domain.ParseTimeOfDay(domain.CoalesceStr(d.Start, "09:00")); err != nil {
		return cfg, fmt.Errorf("%s start: %w", name, err)
	}
	if cfg.End, err = domain.ParseTimeOfDay(domain.CoalesceStr(d.End, "18:00")); err != nil {
		return cfg, fmt.Errorf("%s end: %w", name, err)
	}
	for _, b := range d.Breaks {
		iv, err := domain.ParseInterval(b)
		if err != nil {
			return cfg, fmt.Errorf("%s break: %w", name, err)
		}
		cfg.Breaks = append(cfg.Breaks, iv)
	}
	return cfg, nil
}
