package store

import (
	"context"
	"database/sql"
)

// DBTX is an interface that abstracts the SQL access layer.
// It is implemented by both *sql.DB and *sql.Tx, allowing SQL-backed
// stores to work with either a database connection or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
