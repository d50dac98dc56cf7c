package timeline

import (
	"math"

	"github.com/alexanderramin/daywise/internal/domain"
)

// RollUpStatus applies the fixed precedence: DONE only when every item is
// DONE, else IN_PROGRESS if any item is, else WAITING if any item is, else TODO.
func RollUpStatus(statuses []domain.TaskStatus) domain.TaskStatus {
	if len(statuses) == 0 {
		return domain.TaskTodo
	}
	allDone, anyProgress, anyWaiting := true, false, false
	for _, s := range statuses {
		switch s {
		case domain.TaskDone:
			continue
		case domain.TaskInProgress:
			anyProgress = true
		case domain.TaskWaiting:
			anyWaiting = true
		}
		allDone = false
	}
	switch {
	case allDone:
		return domain.TaskDone
	case anyProgress:
		return domain.TaskInProgress
	case anyWaiting:
		return domain.TaskWaiting
	default:
		return domain.TaskTodo
	}
}

// Aggregate rolls the contributing leaves up into one bar. It expects at
// least one leaf; an empty input yields a zero TODO bar.
func Aggregate(items []Leaf) Bar {
	if len(items) == 0 {
		return Bar{Status: domain.TaskTodo}
	}

	statuses := make([]domain.TaskStatus, len(items))
	start, end := items[0].Bar.StartIndex, items[0].Bar.EndIndex
	allFixed := true
	var weighted, weights float64
	union := make(map[int]bool)

	for i, it := range items {
		statuses[i] = it.Bar.Status
		start = min(start, it.Bar.StartIndex)
		end = max(end, it.Bar.EndIndex)
		allFixed = allFixed && it.Bar.IsFixedTime

		w := float64(it.TotalMin)
		if w <= 0 {
			w = 1
		}
		weighted += float64(it.Bar.Progress) * w
		weights += w

		for _, d := range it.AllocatedDays {
			union[d] = true
		}
	}

	bar := Bar{
		StartIndex:  start,
		EndIndex:    end,
		Status:      RollUpStatus(statuses),
		IsFixedTime: allFixed,
		IsSplit:     isSplit(start, end, sortedDays(union)),
	}
	if bar.Status == domain.TaskDone {
		bar.Progress = 100
	} else {
		bar.Progress = domain.ClampInt(int(math.Round(weighted/weights)), 0, 100)
	}
	return bar
}
