// Package daylock freezes the day's chosen task set and allocation into a
// date-keyed snapshot so later edits do not rewrite what was committed to.
package daylock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/scheduler"
	"github.com/alexanderramin/daywise/internal/snapshot"
)

// StorageKey is the single key under which the active lock is stored.
const StorageKey = "daywise.daily_lock"

// ErrInvalidDate is returned by Lock when date is not an ISO day string.
var ErrInvalidDate = errors.New("lock date must be YYYY-MM-DD")

// TaskSnapshot is the display data captured for a task at lock time.
type TaskSnapshot struct {
	Title       string
	ParentID    string
	ParentTitle string
}

// DailyLock is a frozen copy of one day's task set and allocations.
type DailyLock struct {
	Date          string
	TaskIDs       []string
	Allocations   map[string]scheduler.AllocationRecord
	TaskSnapshots map[string]TaskSnapshot
	LockedAt      time.Time
}

// Contains reports whether taskID is part of the locked set.
func (l *DailyLock) Contains(taskID string) bool {
	for _, id := range l.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// Manager reads and writes the DailyLock through a snapshot.Store.
// It holds no state of its own besides its collaborators.
type Manager struct {
	store  snapshot.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager. A nil logger discards log output.
func NewManager(store snapshot.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Lock replaces any stored lock with a new one for date. Inputs are copied so
// later mutation by the caller does not leak into the stored value.
func (m *Manager) Lock(
	date string,
	taskIDs []string,
	allocations map[string]scheduler.AllocationRecord,
	snapshots map[string]TaskSnapshot,
) (*DailyLock, error) {
	if _, err := time.Parse(domain.DayLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	lock := &DailyLock{
		Date:          date,
		TaskIDs:       append(make([]string, 0, len(taskIDs)), taskIDs...),
		Allocations:   make(map[string]scheduler.AllocationRecord, len(allocations)),
		TaskSnapshots: make(map[string]TaskSnapshot, len(snapshots)),
		LockedAt:      m.now().UTC(),
	}
	for k, v := range allocations {
		lock.Allocations[k] = v
	}
	for k, v := range snapshots {
		lock.TaskSnapshots[k] = v
	}

	payload, err := json.Marshal(toRecord(lock))
	if err != nil {
		return nil, fmt.Errorf("encoding daily lock: %w", err)
	}
	if err := m.store.Set(StorageKey, string(payload)); err != nil {
		return nil, fmt.Errorf("storing daily lock: %w", err)
	}
	m.logger.Debug("daily lock stored", "date", date, "tasks", len(lock.TaskIDs))
	return lock, nil
}

// Read returns the stored lock when it belongs to today. Stale, malformed or
// unreadable snapshots are reported as absent and cleared from the store.
// Read never fails.
func (m *Manager) Read(today string) (*DailyLock, bool) {
	raw, ok, err := m.store.Get(StorageKey)
	if err != nil {
		m.logger.Warn("daily lock unreadable, treating as unlocked", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var rec lockRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		m.discard("malformed", "error", err)
		return nil, false
	}
	if rec.TaskIDs == nil {
		m.discard("missing task ids")
		return nil, false
	}
	if rec.Date != today {
		m.discard("stale", "locked_date", rec.Date, "today", today)
		return nil, false
	}
	return rec.toLock(), true
}

// Unlock deletes the stored lock.
func (m *Manager) Unlock() error {
	if err := m.store.Remove(StorageKey); err != nil {
		return fmt.Errorf("removing daily lock: %w", err)
	}
	return nil
}

func (m *Manager) discard(reason string, attrs ...any) {
	m.logger.Info("discarding daily lock", append([]any{"reason", reason}, attrs...)...)
	if err := m.store.Remove(StorageKey); err != nil {
		m.logger.Warn("clearing daily lock failed", "error", err)
	}
}
