package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/daywise/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLiteUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func putSnapshot(ctx context.Context, tx db.DBTX, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv_snapshots (key, value, updated_at) VALUES (?, ?, '2024-01-02T08:00:00Z')`, key, value)
	return err
}

func snapshotValue(t *testing.T, database *sql.DB, key string) (string, bool) {
	t.Helper()
	var v string
	err := database.QueryRow(`SELECT value FROM kv_snapshots WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := newUoW(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := putSnapshot(ctx, tx, "a", "1"); err != nil {
			return err
		}
		return putSnapshot(ctx, tx, "b", "2")
	})
	require.NoError(t, err)

	v, ok := snapshotValue(t, database, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = snapshotValue(t, database, "b")
	assert.True(t, ok)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := newUoW(t)
	failure := errors.New("second write failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putSnapshot(ctx, tx, "a", "1"); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	_, ok := snapshotValue(t, database, "a")
	assert.False(t, ok, "first write must not survive the rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := newUoW(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putSnapshot(ctx, tx, "a", "1")
			panic("boom")
		})
	})

	_, ok := snapshotValue(t, database, "a")
	assert.False(t, ok)
}

func TestWithinTx_ConstraintViolationRollsBackEarlierWrites(t *testing.T) {
	uow, database := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putSnapshot(ctx, tx, "dup", "first"); err != nil {
			return err
		}
		return putSnapshot(ctx, tx, "dup", "second")
	})
	require.Error(t, err)

	_, ok := snapshotValue(t, database, "dup")
	assert.False(t, ok)
}
