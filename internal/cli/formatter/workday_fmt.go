package formatter

import (
	"strings"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/scheduler"
)

// FormatWorkWeek renders each weekday's window and capacity, Monday first.
func FormatWorkWeek(week domain.WorkWeek, windows []scheduler.WorkWindow) string {
	headers := []string{"DAY", "HOURS", "BREAKS", "BUFFER", "CAPACITY"}
	rows := make([][]string, 0, len(week))
	total := 0
	for i := range week {
		wd := (i + 1) % len(week)
		cfg := week[wd]
		w := windows[wd]
		if !cfg.Enabled {
			rows = append(rows, []string{Dim(cfg.Weekday.String()), Dim("off"), "", "", Dim("0m")})
			continue
		}
		breaks := make([]string, 0, len(cfg.Breaks))
		for _, br := range cfg.Breaks {
			breaks = append(breaks, br.String())
		}
		rows = append(rows, []string{
			Bold(cfg.Weekday.String()),
			cfg.Start.String() + "-" + cfg.End.String(),
			Dim(strings.Join(breaks, ", ")),
			FormatMinutes(w.BufferMin),
			StyleGreen.Render(FormatMinutes(w.CapacityMin)),
		})
		total += w.CapacityMin
	}

	var b strings.Builder
	b.WriteString(RenderTableAligned(headers, rows, map[int]bool{3: true, 4: true}))
	b.WriteString("\n" + Dim("Weekly capacity: ") + Bold(FormatMinutes(total)) + "\n")
	return RenderBox("Work week", b.String())
}
