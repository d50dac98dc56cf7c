package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/daywise/internal/daylock"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/gate"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/scheduler"
)

type todayService struct {
	tasks    repository.TaskRepo
	workdays repository.WorkdayRepo
	locks    *daylock.Manager
	gate     *gate.Gate
	settings Settings
	observer UseCaseObserver
}

func NewTodayService(
	tasks repository.TaskRepo,
	workdays repository.WorkdayRepo,
	locks *daylock.Manager,
	depGate *gate.Gate,
	settings Settings,
	observers ...UseCaseObserver,
) TodayService {
	return &todayService{
		tasks:    tasks,
		workdays: workdays,
		locks:    locks,
		gate:     depGate,
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Today renders the current day from its lock when one exists, otherwise from
// the live task list. Other days are always live and never touch the stored lock.
func (s *todayService) Today(ctx context.Context, req TodayRequest) (view *TodayView, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "today", time.Now(), fields, &err)

	view, err = s.baseView(ctx, req.Day)
	if err != nil {
		return nil, err
	}
	fields["day"] = view.Day

	var lock *daylock.DailyLock
	if current := domain.DayKey(s.settings.now(), s.settings.location()); view.Day == current {
		lock, _ = s.locks.Read(current)
	}
	if lock != nil {
		err = s.fillFromLock(ctx, view, lock)
	} else {
		err = s.fillLive(ctx, view, req.Day, req.IncludeDone)
	}
	if err != nil {
		return nil, err
	}
	fields["locked"] = view.Locked
	fields["rows"] = len(view.Rows)
	fields["overflow"] = view.Allocation.Overflow
	return view, nil
}

// Lock freezes the current live view of day. Any previous lock is replaced.
func (s *todayService) Lock(ctx context.Context, day time.Time) (lock *daylock.DailyLock, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "lock", time.Now(), fields, &err)

	view, err := s.baseView(ctx, day)
	if err != nil {
		return nil, err
	}
	if err = s.fillLive(ctx, view, day, false); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(view.Rows))
	snaps := make(map[string]daylock.TaskSnapshot, len(view.Rows))
	for _, row := range view.Rows {
		ids = append(ids, row.TaskID)
		snaps[row.TaskID] = daylock.TaskSnapshot{
			Title:       row.Title,
			ParentID:    row.ParentID,
			ParentTitle: row.ParentTitle,
		}
	}

	fields["day"] = view.Day
	fields["tasks"] = len(ids)
	lock, err = s.locks.Lock(view.Day, ids, view.Allocation.ByTask(), snaps)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

func (s *todayService) Unlock(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "unlock", time.Now(), nil, &err)
	return s.locks.Unlock()
}

func (s *todayService) baseView(ctx context.Context, day time.Time) (*TodayView, error) {
	loc := s.settings.location()
	week, err := s.workdays.GetWeek(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading work week: %w", err)
	}
	local := day.In(loc)
	return &TodayView{
		Day:    domain.DayKey(local, loc),
		Window: scheduler.ComputeWorkWindow(week.Day(local), s.settings.BufferMin),
	}, nil
}

func (s *todayService) fillLive(ctx context.Context, view *TodayView, day time.Time, includeDone bool) error {
	filter := repository.TaskFilter{}
	if !includeDone {
		filter.Statuses = []domain.TaskStatus{domain.TaskTodo, domain.TaskInProgress, domain.TaskWaiting}
	}
	all, err := s.tasks.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	known := make(map[string]domain.Task, len(all))
	candidates := make([]domain.Task, 0, len(all))
	for _, t := range all {
		known[t.ID] = *t
		candidates = append(candidates, *t)
	}

	selected := scheduler.SelectToday(candidates, day, s.settings.location(), includeDone)
	view.Allocation = scheduler.Allocate(selected, view.Window.CapacityMin, s.settings.DefaultEstimateMin)
	allocs := view.Allocation.ByTask()

	titles, err := s.parentTitles(ctx, selected, known)
	if err != nil {
		return err
	}
	results := s.gate.CheckAll(ctx, selected, known)

	view.Rows = make([]TodayRow, 0, len(selected))
	for _, t := range selected {
		view.Rows = append(view.Rows, liveRow(t, titles[t.ParentKey()], allocs[t.ID], results[t.ID]))
	}
	return nil
}

func (s *todayService) fillFromLock(ctx context.Context, view *TodayView, lock *daylock.DailyLock) error {
	view.Locked = true
	view.LockedAt = lock.LockedAt

	live, err := s.listByIDs(ctx, lock.TaskIDs)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.Task, len(live))
	var present []domain.Task
	for _, t := range live {
		byID[t.ID] = *t
		present = append(present, *t)
	}
	titles, err := s.parentTitles(ctx, present, byID)
	if err != nil {
		return err
	}
	results := s.gate.CheckAll(ctx, present, byID)

	records := make([]scheduler.AllocationRecord, 0, len(lock.TaskIDs))
	for _, id := range lock.TaskIDs {
		if rec, ok := lock.Allocations[id]; ok {
			records = append(records, rec)
		}
	}
	view.Allocation = scheduler.Summarize(records, view.Window.CapacityMin)
	allocs := view.Allocation.ByTask()

	view.Rows = make([]TodayRow, 0, len(lock.TaskIDs))
	for _, id := range lock.TaskIDs {
		snap := lock.TaskSnapshots[id]
		t, ok := byID[id]
		if !ok {
			view.Rows = append(view.Rows, TodayRow{
				TaskID:      id,
				Title:       domain.CoalesceStr(snap.Title, id),
				ParentID:    snap.ParentID,
				ParentTitle: snap.ParentTitle,
				Allocation:  allocs[id],
				Missing:     true,
			})
			continue
		}
		parentTitle := domain.CoalesceStr(titles[t.ParentKey()], snap.ParentTitle)
		view.Rows = append(view.Rows, liveRow(t, parentTitle, allocs[id], results[id]))
	}
	return nil
}

func liveRow(t domain.Task, parentTitle string, alloc scheduler.AllocationRecord, res gate.Result) TodayRow {
	row := TodayRow{
		TaskID:      t.ID,
		Title:       t.Title,
		ParentID:    t.ParentKey(),
		ParentTitle: parentTitle,
		Status:      t.Status,
		Progress:    t.EffectiveProgress(),
		Allocation:  alloc,
	}
	if !t.IsDone() && res.Blocked {
		row.Blocked = true
		row.BlockMessage = res.Message
	}
	return row
}

// parentTitles maps parent ids of tasks to titles, loading parents that are
// not in known. Parents that cannot be found are left out.
func (s *todayService) parentTitles(ctx context.Context, tasks []domain.Task, known map[string]domain.Task) (map[string]string, error) {
	titles := make(map[string]string)
	var missing []string
	for _, t := range tasks {
		pid := t.ParentKey()
		if pid == "" {
			continue
		}
		if p, ok := known[pid]; ok {
			titles[pid] = p.Title
			continue
		}
		if _, queued := titles[pid]; !queued {
			titles[pid] = ""
			missing = append(missing, pid)
		}
	}
	parents, err := s.listByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range parents {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

func (s *todayService) listByIDs(ctx context.Context, ids []string) ([]*domain.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("loading tasks by id: %w", err)
	}
	return tasks, nil
}
