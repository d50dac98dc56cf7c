package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h). "24:00" is accepted as end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("time of day %q must be HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: invalid minute", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustTimeOfDay is ParseTimeOfDay for constants; it panics on bad input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the raw minute count since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Interval is a [Start, End) span within a day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Duration returns the interval length in minutes; inverted intervals count as zero.
func (i Interval) Duration() int {
	if i.End <= i.Start {
		return 0
	}
	return int(i.End - i.Start)
}

// ParseInterval parses "HH:MM-HH:MM".
func ParseInterval(s string) (Interval, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Interval{}, fmt.Errorf("interval %q must be HH:MM-HH:MM", s)
	}
	start, err := ParseTimeOfDay(from)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseTimeOfDay(to)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// WorkdayConfig is the configured work window for one weekday.
type WorkdayConfig struct {
	Weekday time.Weekday
	Enabled bool
	Start   TimeOfDay
	End     TimeOfDay
	Breaks  []Interval
}

// WorkWeek holds one WorkdayConfig per weekday, indexed by time.Weekday (Sunday = 0).
type WorkWeek [7]WorkdayConfig

// Day returns the configuration for the weekday of date.
func (w WorkWeek) Day(date time.Time) WorkdayConfig {
	return w[date.Weekday()]
}

// DefaultWorkWeek returns Mon-Fri 09:00-18:00 with a 12:00-13:00 break.
// Saturday and Sunday are disabled.
func DefaultWorkWeek() WorkWeek {
	var week WorkWeek
	for d := time.Sunday; d <= time.Saturday; d++ {
		cfg := WorkdayConfig{
			Weekday: d,
			Start:   MustTimeOfDay("09:00"),
			End:     MustTimeOfDay("18:00"),
			Breaks:  []Interval{{Start: MustTimeOfDay("12:00"), End: MustTimeOfDay("13:00")}},
		}
		cfg.Enabled = d != time.Saturday && d != time.Sunday
		week[d] = cfg
	}
	return week
}

// ParseWeekday accepts "mon".."sun", full English names, or 0-6.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range 0-6", n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
