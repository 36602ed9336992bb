package database

import (
	"context"
	"database/sql"
)

// DBTX defines the database operations needed by repositories
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	GetDialect() Dialect
}

var _ DBTX = (*DB)(nil)
