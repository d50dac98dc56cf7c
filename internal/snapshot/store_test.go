package snapshot

import (
	"testing"

	"github.com/alexanderramin/daywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	got, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", got)

	require.NoError(t, s.Set("k", "v2"))
	got, _, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got, "set overwrites")

	require.NoError(t, s.Remove("k"))
	_, ok, err = s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove("k"), "removing an absent key is not an error")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, NewSQLiteStore(testutil.NewTestDB(t)))
}

func TestBadgerStore_InMemory(t *testing.T) {
	s, err := OpenBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestBadgerStore_Persistent(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadgerStore(BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Set("lock", "payload"))
	require.NoError(t, s.Close())

	reopened, err := OpenBadgerStore(BadgerConfig{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, ok, err := reopened.Get("lock")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestOpenBadgerStore_RequiresPath(t *testing.T) {
	_, err := OpenBadgerStore(BadgerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}
