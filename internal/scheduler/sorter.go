package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
)

// SelectToday picks the schedulable tasks for the calendar day containing day
// (interpreted in loc). A task qualifies when it is not fixed-time, its
// start-not-before has passed, and it is either in progress or planned to
// overlap the day. DONE tasks are only kept when includeDone is set.
// The result is ordered by CanonicalSort.
func SelectToday(tasks []domain.Task, day time.Time, loc *time.Location, includeDone bool) []domain.Task {
	dayStart := domain.StartOfDay(day, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var selected []domain.Task
	for _, t := range tasks {
		if t.IsFixedTime {
			continue
		}
		if t.IsDone() && !includeDone {
			continue
		}
		if t.StartNotBefore != nil && !t.StartNotBefore.Before(dayEnd) {
			continue
		}
		if t.Status == domain.TaskInProgress || plannedOverlaps(t, dayStart, dayEnd) {
			selected = append(selected, t)
		}
	}
	CanonicalSort(selected)
	return selected
}

func plannedOverlaps(t domain.Task, dayStart, dayEnd time.Time) bool {
	if t.PlannedStart == nil && t.PlannedEnd == nil {
		return false
	}
	if t.PlannedStart != nil && !t.PlannedStart.Before(dayEnd) {
		return false
	}
	if t.PlannedEnd != nil && t.PlannedEnd.Before(dayStart) {
		return false
	}
	return true
}

// CanonicalSort orders today's candidates deterministically:
// 1. Planned start: earliest first (nil last)
// 2. Due date: earliest first (nil last)
// 3. Title: lexical ascending
// 4. Task ID: lexical ascending
func CanonicalSort(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if c := compareTimePtr(a.PlannedStart, b.PlannedStart); c != 0 {
			return c < 0
		}
		if c := compareTimePtr(a.DueDate, b.DueDate); c != 0 {
			return c < 0
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// compareTimePtr orders non-nil before nil, then chronologically.
func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	default:
		return 0
	}
}
