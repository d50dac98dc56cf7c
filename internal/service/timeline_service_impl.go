package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/timeline"
)

type timelineService struct {
	tasks    repository.TaskRepo
	projects repository.ProjectRepo
	schedule repository.ScheduleRepo
	settings Settings
	observer UseCaseObserver
}

func NewTimelineService(
	tasks repository.TaskRepo,
	projects repository.ProjectRepo,
	schedule repository.ScheduleRepo,
	settings Settings,
	observers ...UseCaseObserver,
) TimelineService {
	return &timelineService{
		tasks:    tasks,
		projects: projects,
		schedule: schedule,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Build loads every task planned inside the window or with allocation records
// in it, and builds the aggregation tree. A non-positive day count yields an
// empty tree.
func (s *timelineService) Build(ctx context.Context, from time.Time, days int) (tree timeline.Tree, err error) {
	fields := map[string]any{"days": days}
	defer observe(ctx, s.observer, "timeline", time.Now(), fields, &err)

	loc := s.settings.location()
	dayList := domain.DayRange(from, days, loc)
	if len(dayList) == 0 {
		return timeline.Tree{}, nil
	}
	windowStart := dayList[0]
	windowEnd := dayList[len(dayList)-1].AddDate(0, 0, 1)
	firstKey := domain.DayKey(windowStart, loc)
	lastKey := domain.DayKey(dayList[len(dayList)-1], loc)
	fields["from"] = firstKey

	planned, err := s.tasks.List(ctx, repository.TaskFilter{PlannedFrom: &windowStart, PlannedTo: &windowEnd})
	if err != nil {
		return tree, fmt.Errorf("listing planned tasks: %w", err)
	}
	entries, err := s.schedule.ListRange(ctx, firstKey, lastKey)
	if err != nil {
		return tree, err
	}

	loaded := make(map[string]bool, len(planned))
	tasks := make([]domain.Task, 0, len(planned))
	for _, t := range planned {
		loaded[t.ID] = true
		tasks = append(tasks, *t)
	}

	var allocatedOnly []string
	for _, e := range entries {
		if !loaded[e.TaskID] {
			loaded[e.TaskID] = true
			allocatedOnly = append(allocatedOnly, e.TaskID)
		}
	}
	if len(allocatedOnly) > 0 {
		extra, err := s.tasks.List(ctx, repository.TaskFilter{IDs: allocatedOnly})
		if err != nil {
			return tree, fmt.Errorf("listing allocated tasks: %w", err)
		}
		for _, t := range extra {
			tasks = append(tasks, *t)
		}
	}

	extraTitles, err := s.outsideParentTitles(ctx, tasks, loaded)
	if err != nil {
		return tree, err
	}
	names, err := s.projectNames(ctx)
	if err != nil {
		return tree, err
	}

	in := timeline.Input{
		Days:         dayList,
		Location:     loc,
		Tasks:        tasks,
		Entries:      make([]timeline.ScheduleEntry, 0, len(entries)),
		ProjectNames: names,
		ExtraTitles:  extraTitles,
	}
	for _, e := range entries {
		in.Entries = append(in.Entries, timeline.ScheduleEntry{TaskID: e.TaskID, Day: e.Day, Minutes: e.Minutes})
	}
	fields["tasks"] = len(tasks)

	tree = timeline.Build(in)
	fields["projects"] = len(tree.Projects)
	return tree, nil
}

// outsideParentTitles looks up titles of parents that are referenced by
// visible tasks but are not themselves in the window.
func (s *timelineService) outsideParentTitles(ctx context.Context, tasks []domain.Task, loaded map[string]bool) (map[string]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, t := range tasks {
		pid := t.ParentKey()
		if pid == "" || loaded[pid] || seen[pid] {
			continue
		}
		seen[pid] = true
		ids = append(ids, pid)
	}
	titles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	parents, err := s.tasks.List(ctx, repository.TaskFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("listing parent tasks: %w", err)
	}
	for _, p := range parents {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

func (s *timelineService) projectNames(ctx context.Context) (map[string]string, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}
