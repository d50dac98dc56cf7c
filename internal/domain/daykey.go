package domain

import (
	"fmt"
	"time"
)

// DayLayout is the ISO calendar-day layout used for lock keys and schedule entries.
const DayLayout = "2006-01-02"

// DayKey formats t as an ISO day string in loc. A nil loc uses t's own location.
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DayLayout)
}

// ParseDayKey parses an ISO day string as midnight in loc (UTC when nil).
func ParseDayKey(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates t to local midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns count consecutive local midnights starting at from.
func DayRange(from time.Time, count int, loc *time.Location) []time.Time {
	if count <= 0 {
		return nil
	}
	start := StartOfDay(from, loc)
	days := make([]time.Time, count)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
