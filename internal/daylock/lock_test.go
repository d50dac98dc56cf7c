package daylock

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/daywise/internal/scheduler"
	"github.com/alexanderramin/daywise/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lockedAt = time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)

func newTestManager(store snapshot.Store) *Manager {
	m := NewManager(store, nil)
	m.now = func() time.Time { return lockedAt }
	return m
}

func sampleInputs() ([]string, map[string]scheduler.AllocationRecord, map[string]TaskSnapshot) {
	ids := []string{"t2", "t1"}
	allocs := map[string]scheduler.AllocationRecord{
		"t1": {TaskID: "t1", AllocatedMin: 60, TotalMin: 60, Ratio: 1, CapacityShare: 0.25},
		"t2": {TaskID: "t2", AllocatedMin: 30, TotalMin: 30, Ratio: 1, CapacityShare: 0.125},
	}
	snaps := map[string]TaskSnapshot{
		"t1": {Title: "Write report", ParentID: "p1", ParentTitle: "Q1 review"},
		"t2": {Title: "Email"},
	}
	return ids, allocs, snaps
}

func TestLockRead_RoundTripSameDay(t *testing.T) {
	store := snapshot.NewMemoryStore()
	m := newTestManager(store)
	ids, allocs, snaps := sampleInputs()

	_, err := m.Lock("2024-01-01", ids, allocs, snaps)
	require.NoError(t, err)

	got, ok := m.Read("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, ids, got.TaskIDs, "order is preserved")
	assert.Equal(t, allocs, got.Allocations)
	assert.Equal(t, snaps, got.TaskSnapshots)
	assert.True(t, lockedAt.Equal(got.LockedAt))

	// Reading again is idempotent.
	again, ok := m.Read("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, got.TaskIDs, again.TaskIDs)
}

func TestRead_StaleLockIsClearedFromStorage(t *testing.T) {
	store := snapshot.NewMemoryStore()
	m := newTestManager(store)
	ids, allocs, snaps := sampleInputs()
	_, err := m.Lock("2024-01-01", ids, allocs, snaps)
	require.NoError(t, err)

	got, ok := m.Read("2024-01-02")
	assert.False(t, ok)
	assert.Nil(t, got)

	_, present, err := store.Get(StorageKey)
	require.NoError(t, err)
	assert.False(t, present, "stale lock must be removed, not left for the next read")

	_, ok = m.Read("2024-01-01")
	assert.False(t, ok, "once cleared, the old date does not come back")
}

func TestRead_NoLock(t *testing.T) {
	m := newTestManager(snapshot.NewMemoryStore())
	_, ok := m.Read("2024-01-01")
	assert.False(t, ok)
}

func TestRead_MalformedPayloadsAreDiscarded(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{{`,
		"missing task ids": `{"date":"2024-01-01"}`,
		"null task ids":    `{"date":"2024-01-01","task_ids":null}`,
		"task ids object":  `{"date":"2024-01-01","task_ids":{"a":1}}`,
		"task ids numbers": `{"date":"2024-01-01","task_ids":[1,2]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			store := snapshot.NewMemoryStore()
			require.NoError(t, store.Set(StorageKey, payload))
			m := newTestManager(store)

			_, ok := m.Read("2024-01-01")
			assert.False(t, ok)
			_, present, _ := store.Get(StorageKey)
			assert.False(t, present)
		})
	}
}

func TestRead_EmptyTaskListIsWellFormed(t *testing.T) {
	store := snapshot.NewMemoryStore()
	m := newTestManager(store)
	_, err := m.Lock("2024-01-01", nil, nil, nil)
	require.NoError(t, err)

	got, ok := m.Read("2024-01-01")
	require.True(t, ok)
	assert.Empty(t, got.TaskIDs)
}

func TestLock_ReplacesPreviousLock(t *testing.T) {
	m := newTestManager(snapshot.NewMemoryStore())
	ids, allocs, snaps := sampleInputs()
	_, err := m.Lock("2024-01-01", ids, allocs, snaps)
	require.NoError(t, err)

	_, err = m.Lock("2024-01-01", []string{"t9"}, nil, nil)
	require.NoError(t, err)

	got, ok := m.Read("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, []string{"t9"}, got.TaskIDs, "no merge with the earlier lock")
	assert.Empty(t, got.Allocations)
}

func TestLock_CopiesInputs(t *testing.T) {
	m := newTestManager(snapshot.NewMemoryStore())
	ids, allocs, snaps := sampleInputs()
	lock, err := m.Lock("2024-01-01", ids, allocs, snaps)
	require.NoError(t, err)

	ids[0] = "mutated"
	allocs["t1"] = scheduler.AllocationRecord{AllocatedMin: 999}
	assert.Equal(t, "t2", lock.TaskIDs[0])
	assert.Equal(t, 60, lock.Allocations["t1"].AllocatedMin)
}

func TestLock_RejectsBadDate(t *testing.T) {
	m := newTestManager(snapshot.NewMemoryStore())
	_, err := m.Lock("01/02/2024", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUnlock(t *testing.T) {
	m := newTestManager(snapshot.NewMemoryStore())
	_, err := m.Lock("2024-01-01", []string{"a"}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, m.Unlock())
	_, ok := m.Read("2024-01-01")
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	l := &DailyLock{TaskIDs: []string{"a", "b"}}
	assert.True(t, l.Contains("b"))
	assert.False(t, l.Contains("c"))
}

// failingStore fails every operation.
type failingStore struct{ err error }

func (f failingStore) Get(string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(string, string) error         { return f.err }
func (f failingStore) Remove(string) error              { return f.err }

func TestRead_StorageFailureIsTreatedAsNoLock(t *testing.T) {
	m := newTestManager(failingStore{err: errors.New("disk gone")})
	assert.NotPanics(t, func() {
		_, ok := m.Read("2024-01-01")
		assert.False(t, ok)
	})
}

func TestLock_StorageFailureSurfaces(t *testing.T) {
	m := newTestManager(failingStore{err: errors.New("disk full")})
	_, err := m.Lock("2024-01-01", []string{"a"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
