package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories and the SQLite snapshot store run statements on.
// It is either the shared *sql.DB or the *sql.Tx handed out by WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
