package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(s string) domain.TimeOfDay { return domain.MustTimeOfDay(s) }

func workday(start, end string, breaks ...[2]string) domain.WorkdayConfig {
	cfg := domain.WorkdayConfig{Weekday: time.Monday, Enabled: true, Start: tod(start), End: tod(end)}
	for _, b := range breaks {
		cfg.Breaks = append(cfg.Breaks, domain.Interval{Start: tod(b[0]), End: tod(b[1])})
	}
	return cfg
}

func TestDailyCapacity_StandardDayWithLunchAndBuffer(t *testing.T) {
	cfg := workday("09:00", "18:00", [2]string{"12:00", "13:00"})
	assert.Equal(t, 420, DailyCapacity(cfg, 60))
}

func TestCapacityForDate_PicksWeekday(t *testing.T) {
	week := domain.DefaultWorkWeek()
	monday := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 1, 6, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 420, CapacityForDate(week, monday, 60))
	assert.Equal(t, 0, CapacityForDate(week, saturday, 60))
}

func TestDailyCapacity_DisabledIsAlwaysZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		start := rng.Intn(720)
		end := start + rng.Intn(720)
		cfg := domain.WorkdayConfig{
			Enabled: false,
			Start:   domain.TimeOfDay(start),
			End:     domain.TimeOfDay(end),
			Breaks:  []domain.Interval{{Start: domain.TimeOfDay(start), End: domain.TimeOfDay(start + 10)}},
		}
		assert.Equal(t, 0, DailyCapacity(cfg, rng.Intn(60)), "trial %d", trial)
	}
}

func TestDailyCapacity_NonOverlappingBreaksInsideWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		start := rng.Intn(600)
		end := start + 60 + rng.Intn(600)
		buffer := rng.Intn(120)

		// Build disjoint breaks walking forward through the window.
		var breaks []domain.Interval
		sum := 0
		cursor := start
		for cursor < end && len(breaks) < 4 {
			bs := cursor + rng.Intn(60)
			be := bs + rng.Intn(45) + 1
			if be > end {
				break
			}
			breaks = append(breaks, domain.Interval{Start: domain.TimeOfDay(bs), End: domain.TimeOfDay(be)})
			sum += be - bs
			cursor = be + 1
		}

		cfg := domain.WorkdayConfig{
			Enabled: true,
			Start:   domain.TimeOfDay(start),
			End:     domain.TimeOfDay(end),
			Breaks:  breaks,
		}
		want := max(0, (end-start)-sum-buffer)
		assert.Equal(t, want, DailyCapacity(cfg, buffer), "trial %d", trial)
	}
}

func TestDailyCapacity_OverlappingBreaksMergedNotDoubleCounted(t *testing.T) {
	cfg := workday("09:00", "17:00",
		[2]string{"12:00", "13:00"},
		[2]string{"12:30", "13:30"},
		[2]string{"13:30", "14:00"},
	)
	// merged break 12:00-14:00 = 120 min
	w := ComputeWorkWindow(cfg, 0)
	assert.Equal(t, 480, w.GrossMin)
	assert.Equal(t, 120, w.BreakMin)
	assert.Equal(t, 360, w.CapacityMin)
}

func TestDailyCapacity_BreaksClampedToWindow(t *testing.T) {
	cfg := workday("09:00", "17:00",
		[2]string{"08:00", "09:30"},
		[2]string{"16:30", "18:00"},
		[2]string{"19:00", "20:00"},
	)
	// only 09:00-09:30 and 16:30-17:00 count
	assert.Equal(t, 420, DailyCapacity(cfg, 0))
}

func TestDailyCapacity_InvalidInputNeverNegative(t *testing.T) {
	inverted := workday("18:00", "09:00")
	assert.Equal(t, 0, DailyCapacity(inverted, 0))

	short := workday("09:00", "09:30")
	assert.Equal(t, 0, DailyCapacity(short, 60), "buffer larger than window clamps to zero")

	negBuffer := workday("09:00", "10:00")
	assert.Equal(t, 60, DailyCapacity(negBuffer, -30), "negative buffer is treated as zero")

	invertedBreak := workday("09:00", "10:00", [2]string{"09:45", "09:15"})
	assert.Equal(t, 60, DailyCapacity(invertedBreak, 0))
}

func TestMergeBreaks_SortedDisjoint(t *testing.T) {
	merged := MergeBreaks([]domain.Interval{
		{Start: tod("15:00"), End: tod("15:15")},
		{Start: tod("10:00"), End: tod("10:30")},
		{Start: tod("10:15"), End: tod("10:45")},
	}, tod("09:00"), tod("17:00"))

	require.Len(t, merged, 2)
	assert.Equal(t, "10:00-10:45", merged[0].String())
	assert.Equal(t, "15:00-15:15", merged[1].String())
	assert.Nil(t, MergeBreaks(nil, tod("09:00"), tod("17:00")))
}
