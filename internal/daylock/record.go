package daylock

import (
	"time"

	"github.com/alexanderramin/daywise/internal/scheduler"
)

// lockRecord is the persisted JSON shape of a DailyLock.
type lockRecord struct {
	Date          string                      `json:"date"`
	TaskIDs       []string                    `json:"task_ids"`
	Allocations   map[string]allocationRecord `json:"allocations"`
	TaskSnapshots map[string]snapshotRecord   `json:"task_snapshots"`
	LockedAt      time.Time                   `json:"locked_at"`
}

type allocationRecord struct {
	AllocatedMin  int     `json:"allocated_minutes"`
	TotalMin      int     `json:"total_minutes"`
	Ratio         float64 `json:"ratio"`
	CapacityShare float64 `json:"capacity_share"`
}

type snapshotRecord struct {
	Title       string `json:"title"`
	ParentID    string `json:"parent_id,omitempty"`
	ParentTitle string `json:"parent_title,omitempty"`
}

func toRecord(l *DailyLock) lockRecord {
	rec := lockRecord{
		Date:          l.Date,
		TaskIDs:       l.TaskIDs,
		Allocations:   make(map[string]allocationRecord, len(l.Allocations)),
		TaskSnapshots: make(map[string]snapshotRecord, len(l.TaskSnapshots)),
		LockedAt:      l.LockedAt,
	}
	for id, a := range l.Allocations {
		rec.Allocations[id] = allocationRecord{
			AllocatedMin:  a.AllocatedMin,
			TotalMin:      a.TotalMin,
			Ratio:         a.Ratio,
			CapacityShare: a.CapacityShare,
		}
	}
	for id, s := range l.TaskSnapshots {
		rec.TaskSnapshots[id] = snapshotRecord(s)
	}
	return rec
}

func (r lockRecord) toLock() *DailyLock {
	l := &DailyLock{
		Date:          r.Date,
		TaskIDs:       r.TaskIDs,
		Allocations:   make(map[string]scheduler.AllocationRecord, len(r.Allocations)),
		TaskSnapshots: make(map[string]TaskSnapshot, len(r.TaskSnapshots)),
		LockedAt:      r.LockedAt,
	}
	for id, a := range r.Allocations {
		l.Allocations[id] = scheduler.AllocationRecord{
			TaskID:        id,
			AllocatedMin:  a.AllocatedMin,
			TotalMin:      a.TotalMin,
			Ratio:         a.Ratio,
			CapacityShare: a.CapacityShare,
		}
	}
	for id, s := range r.TaskSnapshots {
		l.TaskSnapshots[id] = TaskSnapshot(s)
	}
	return l
}
