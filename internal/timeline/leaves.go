package timeline

import (
	"sort"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
)

// dayIndexer maps timestamps onto positions in the visible range.
type dayIndexer struct {
	loc   *time.Location
	index map[string]int
	first time.Time
	last  int
}

func newDayIndexer(days []time.Time, loc *time.Location) dayIndexer {
	idx := dayIndexer{loc: loc, index: make(map[string]int, len(days)), last: len(days) - 1}
	for i, d := range days {
		key := domain.DayKey(d, loc)
		if _, dup := idx.index[key]; !dup {
			idx.index[key] = i
		}
	}
	if len(days) > 0 {
		idx.first = domain.StartOfDay(days[0], loc)
	}
	return idx
}

// clamp returns the index of t's day, clamped into [0, last].
func (d dayIndexer) clamp(t time.Time) int {
	if i, ok := d.index[domain.DayKey(t, d.loc)]; ok {
		return i
	}
	if t.Before(d.first) {
		return 0
	}
	return d.last
}

// lookup returns the index of an ISO day, if visible.
func (d dayIndexer) lookup(day string) (int, bool) {
	i, ok := d.index[day]
	return i, ok
}

// BuildLeaves creates one Leaf per task. Missing start defaults to day 0,
// missing end to the last day; both are clamped into the range.
func BuildLeaves(in Input) []Leaf {
	if len(in.Days) == 0 {
		return nil
	}
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	idx := newDayIndexer(in.Days, loc)

	daysByTask := make(map[string]map[int]bool)
	for _, e := range in.Entries {
		if e.Minutes <= 0 {
			continue
		}
		i, ok := idx.lookup(e.Day)
		if !ok {
			continue
		}
		if daysByTask[e.TaskID] == nil {
			daysByTask[e.TaskID] = make(map[int]bool)
		}
		daysByTask[e.TaskID][i] = true
	}

	leaves := make([]Leaf, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		start, end := 0, idx.last
		if t.PlannedStart != nil {
			start = idx.clamp(*t.PlannedStart)
		}
		if t.PlannedEnd != nil {
			end = idx.clamp(*t.PlannedEnd)
		}
		if end < start {
			end = start
		}

		days := sortedDays(daysByTask[t.ID])
		leaf := Leaf{
			TaskID:        t.ID,
			Title:         t.Title,
			ParentID:      t.ParentKey(),
			ProjectID:     t.ProjectKey(),
			OrderInParent: t.OrderInParent,
			TotalMin:      domain.IntFromPtrWithDefault(0, t.EstimatedMin),
			AllocatedDays: days,
			Scheduled:     t.PlannedStart != nil || t.PlannedEnd != nil || len(days) > 0,
			Bar: Bar{
				StartIndex:  start,
				EndIndex:    end,
				Progress:    t.EffectiveProgress(),
				Status:      domain.ParseTaskStatus(string(t.Status)),
				IsFixedTime: t.IsFixedTime,
			},
		}
		leaf.Bar.IsSplit = isSplit(start, end, days)
		leaves = append(leaves, leaf)
	}
	return leaves
}

func sortedDays(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	days := make([]int, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// isSplit reports whether the span [start, end] is longer than the number of
// visible days carrying allocation. A span with no allocation at all is split.
func isSplit(start, end int, days []int) bool {
	return end-start+1 > len(days)
}
