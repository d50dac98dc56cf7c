package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
)

// WorkWindow is the breakdown behind a day's capacity figure.
type WorkWindow struct {
	Weekday     time.Weekday
	Enabled     bool
	GrossMin    int // end - start
	BreakMin    int // merged breaks clamped to the window
	BufferMin   int
	CapacityMin int
}

// ComputeWorkWindow turns one weekday's configuration into usable minutes:
// max(0, (end - start) - merged breaks - buffer). Disabled days and inverted
// windows yield zero; a negative buffer is treated as zero.
func ComputeWorkWindow(cfg domain.WorkdayConfig, bufferMin int) WorkWindow {
	w := WorkWindow{
		Weekday:   cfg.Weekday,
		Enabled:   cfg.Enabled,
		BufferMin: max(0, bufferMin),
	}
	if !cfg.Enabled || cfg.End <= cfg.Start {
		return w
	}

	w.GrossMin = int(cfg.End - cfg.Start)
	for _, b := range MergeBreaks(cfg.Breaks, cfg.Start, cfg.End) {
		w.BreakMin += b.Duration()
	}
	w.CapacityMin = max(0, w.GrossMin-w.BreakMin-w.BufferMin)
	return w
}

// DailyCapacity returns the capacity in minutes for one weekday configuration.
func DailyCapacity(cfg domain.WorkdayConfig, bufferMin int) int {
	return ComputeWorkWindow(cfg, bufferMin).CapacityMin
}

// CapacityForDate picks the weekday configuration for date and returns its capacity.
func CapacityForDate(week domain.WorkWeek, date time.Time, bufferMin int) int {
	return DailyCapacity(week.Day(date), bufferMin)
}

// MergeBreaks clamps breaks to [start, end], drops empty ones, and merges
// overlapping or touching intervals. The result is sorted and disjoint.
func MergeBreaks(breaks []domain.Interval, start, end domain.TimeOfDay) []domain.Interval {
	clamped := make([]domain.Interval, 0, len(breaks))
	for _, b := range breaks {
		s := max(b.Start, start)
		e := min(b.End, end)
		if e <= s {
			continue
		}
		clamped = append(clamped, domain.Interval{Start: s, End: e})
	}
	if len(clamped) == 0 {
		return nil
	}

	sort.Slice(clamped, func(i, j int) bool {
		if clamped[i].Start != clamped[j].Start {
			return clamped[i].Start < clamped[j].Start
		}
		return clamped[i].End < clamped[j].End
	})

	merged := []domain.Interval{clamped[0]}
	for _, b := range clamped[1:] {
		last := &merged[len(merged)-1]
		if b.Start <= last.End {
			if b.End > last.End {
				last.End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}
