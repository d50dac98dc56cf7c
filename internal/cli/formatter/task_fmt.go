package formatter

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
)

const taskProgressBarWidth = 8

// FormatTaskList renders tasks as a table.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	headers := []string{"ID", "TITLE", "STATUS", "PROGRESS", "EST", "PLANNED", "DUE", "DEPS"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		if t.IsFixedTime {
			title += " " + StylePurple.Render("◆")
		}
		due := Dim("--")
		if t.DueDate != nil {
			due = DueStyled(*t.DueDate, now)
		}
		deps := Dim("--")
		if len(t.DependencyIDs) > 0 {
			deps = fmt.Sprintf("%d", len(t.DependencyIDs))
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			title,
			StatusPill(t.Status),
			RenderCompactBar(float64(t.EffectiveProgress())/100, taskProgressBarWidth, t.IsDone()),
			FormatOptionalMinutes(t.EstimatedMin),
			plannedSpan(t.PlannedStart, t.PlannedEnd),
			due,
			deps,
		})
	}
	return RenderTableAligned(headers, rows, map[int]bool{4: true})
}

func plannedSpan(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return Dim("--")
	case end == nil:
		return start.Format("Jan 2") + " →"
	case start == nil:
		return "→ " + end.Format("Jan 2")
	case sameDay(*start, *end):
		return start.Format("Jan 2 15:04") + "-" + end.Format("15:04")
	default:
		return start.Format("Jan 2") + " → " + end.Format("Jan 2")
	}
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// FormatTaskTree renders tasks grouped under their parents. Tasks whose
// parent is not in the list are shown at the top level.
func FormatTaskTree(tasks []*domain.Task) string {
	byID := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = true
	}
	children := make(map[string][]*domain.Task)
	var roots []*domain.Task
	for _, t := range tasks {
		if pid := t.ParentKey(); pid != "" && byID[pid] && pid != t.ID {
			children[pid] = append(children[pid], t)
			continue
		}
		roots = append(roots, t)
	}

	var items []TreeItem
	visited := make(map[string]bool, len(tasks))
	var walk func(t *domain.Task, level int)
	walk = func(t *domain.Task, level int) {
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		item := TreeItem{Title: t.Title, Step: t.OrderInParent, Level: level, Status: t.Status}
		if t.EstimatedMin != nil {
			item.Detail = FormatMinutes(*t.EstimatedMin)
		}
		items = append(items, item)
		kids := children[t.ID]
		sort.SliceStable(kids, func(i, j int) bool {
			a, b := kids[i].OrderInParent, kids[j].OrderInParent
			if a == nil || b == nil {
				return a != nil
			}
			return *a < *b
		})
		for _, c := range kids {
			walk(c, level+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	// Tasks only reachable through a parent cycle.
	for _, t := range tasks {
		walk(t, 0)
	}
	return RenderTree(items)
}
