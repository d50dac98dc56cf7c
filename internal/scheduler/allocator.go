package scheduler

import (
	"math"

	"github.com/alexanderramin/daywise/internal/domain"
)

// DefaultEstimateMin is the weight given to tasks without an estimate so every
// task contributes to the plan.
const DefaultEstimateMin = 30

// AllocationRecord is one task's share of today's plan.
type AllocationRecord struct {
	TaskID       string
	AllocatedMin int
	TotalMin     int
	// Ratio is AllocatedMin / max(1, TotalMin). Values above 1 signal overflow
	// for this task.
	Ratio float64
	// CapacityShare is AllocatedMin / capacity, the task's proportional time
	// target for the day. Zero when capacity is zero.
	CapacityShare float64
}

// AllocationSummary is the Allocation Engine output for one day.
type AllocationSummary struct {
	Records           []AllocationRecord
	CapacityMin       int
	TotalAllocatedMin int
	Overflow          bool
	UsagePct          int
}

// ByTask indexes records by task id.
func (s AllocationSummary) ByTask() map[string]AllocationRecord {
	m := make(map[string]AllocationRecord, len(s.Records))
	for _, r := range s.Records {
		m[r.TaskID] = r
	}
	return m
}

// Allocate reports how today's candidates use the day's capacity. It never
// compresses tasks to fit: each task is allocated its full estimate (or
// fallbackMin when the estimate is absent), and overflow is reported rather
// than enforced. A non-positive fallbackMin uses DefaultEstimateMin.
func Allocate(tasks []domain.Task, capacityMin int, fallbackMin int) AllocationSummary {
	if fallbackMin <= 0 {
		fallbackMin = DefaultEstimateMin
	}
	records := make([]AllocationRecord, 0, len(tasks))
	for i := range tasks {
		total := tasks[i].EstimateOr(fallbackMin)
		records = append(records, AllocationRecord{
			TaskID:       tasks[i].ID,
			AllocatedMin: total,
			TotalMin:     total,
		})
	}
	return Summarize(records, capacityMin)
}

// Summarize recomputes the derived fields (Ratio, CapacityShare) of records
// against capacityMin and totals them. It is used both for fresh allocations
// and for records restored from a daily lock.
func Summarize(records []AllocationRecord, capacityMin int) AllocationSummary {
	capacityMin = max(0, capacityMin)
	summary := AllocationSummary{
		Records:     make([]AllocationRecord, 0, len(records)),
		CapacityMin: capacityMin,
	}
	for _, rec := range records {
		rec.AllocatedMin = max(0, rec.AllocatedMin)
		rec.Ratio = math.Max(0, float64(rec.AllocatedMin)/float64(max(1, rec.TotalMin)))
		rec.CapacityShare = 0
		if capacityMin > 0 {
			rec.CapacityShare = float64(rec.AllocatedMin) / float64(capacityMin)
		}
		summary.Records = append(summary.Records, rec)
		summary.TotalAllocatedMin += rec.AllocatedMin
	}

	summary.Overflow = summary.TotalAllocatedMin > capacityMin
	summary.UsagePct = UsagePercent(summary.TotalAllocatedMin, capacityMin)
	return summary
}

// UsagePercent returns min(100, round(allocated / capacity * 100)), or 0 when
// capacity is zero.
func UsagePercent(allocatedMin, capacityMin int) int {
	if capacityMin <= 0 {
		return 0
	}
	pct := int(math.Round(float64(allocatedMin) / float64(capacityMin) * 100))
	return domain.ClampInt(pct, 0, 100)
}
