package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/daywise/internal/service"
)

const todayBarWidth = 10

// FormatToday renders the day view: capacity breakdown, allocation usage and
// one row per task with its share of the day.
func FormatToday(view *service.TodayView, loc *time.Location) string {
	var b strings.Builder

	heading := view.Day
	if day, err := time.ParseInLocation("2006-01-02", view.Day, loc); err == nil {
		heading = DayHeading(day)
	}
	b.WriteString(Bold(heading))
	if view.Locked {
		b.WriteString("  " + StylePurple.Render("■ locked "+view.LockedAt.In(loc).Format("15:04")))
	}
	b.WriteString("\n")

	w := view.Window
	if !w.Enabled {
		b.WriteString(Dim("Not a work day") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("Capacity %s  %s\n",
			Bold(FormatMinutes(w.CapacityMin)),
			Dim(fmt.Sprintf("(%s window, %s breaks, %s buffer)",
				FormatMinutes(w.GrossMin), FormatMinutes(w.BreakMin), FormatMinutes(w.BufferMin)))))
	}
	alloc := view.Allocation
	b.WriteString(fmt.Sprintf("Planned  %s  %s\n",
		Bold(FormatMinutes(alloc.TotalAllocatedMin)),
		RenderUsage(alloc.TotalAllocatedMin, alloc.CapacityMin, todayBarWidth)))

	if len(view.Rows) == 0 {
		b.WriteString("\n" + Dim("Nothing planned for this day.") + "\n")
		return RenderBox("Today", b.String())
	}

	headers := []string{"TASK", "STATUS", "PROGRESS", "TIME", "SHARE"}
	rows := make([][]string, 0, len(view.Rows))
	var notes []string
	for _, r := range view.Rows {
		title := r.Title
		if r.ParentTitle != "" {
			title = Dim(r.ParentTitle+" › ") + title
		}
		status := StatusPill(r.Status)
		progress := RenderProgress(float64(r.Progress)/100, todayBarWidth)
		switch {
		case r.Missing:
			title = Dim(title)
			status = StyleRed.Render("✖ Deleted")
			progress = Dim("--")
		case r.Blocked:
			title = StyleYellow.Render("⊘ ") + title
			notes = append(notes, fmt.Sprintf("%s %s", Bold(r.Title+":"), StyleYellow.Render(r.BlockMessage)))
		}
		rows = append(rows, []string{
			title,
			status,
			progress,
			FormatMinutes(r.Allocation.AllocatedMin),
			Percent(r.Allocation.CapacityShare),
		})
	}
	b.WriteString("\n")
	b.WriteString(RenderTableAligned(headers, rows, map[int]bool{3: true, 4: true}))

	if len(notes) > 0 {
		b.WriteString("\n")
		for _, n := range notes {
			b.WriteString("  " + n + "\n")
		}
	}
	if alloc.Overflow && alloc.CapacityMin > 0 {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("Planned work exceeds capacity by %s.",
			FormatMinutes(alloc.TotalAllocatedMin-alloc.CapacityMin))) + "\n")
	}
	return RenderBox("Today", b.String())
}

// FormatLocked confirms a lock.
func FormatLocked(day string, tasks int, lockedAt time.Time) string {
	return fmt.Sprintf("%s Locked %s with %d task(s) at %s\n",
		StylePurple.Render("■"), Bold(day), tasks, lockedAt.Format("15:04"))
}
