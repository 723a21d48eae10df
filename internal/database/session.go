package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Session is one dedicated connection checked out of a backend's pool for
// a single tool invocation. Callers must hand it back through
// Manager.Release on every exit path.
type Session struct {
	ID       uuid.UUID
	Backend  string
	conn     *sql.Conn
	acquired time.Time
}

// QueryContext runs a rows-returning statement on the session's connection.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a statement expected to return at most one row.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.conn.QueryRowContext(ctx, query, args...)
}

// ExecContext runs a statement that returns no rows.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.conn.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction on the session's connection.
func (s *Session) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return s.conn.BeginTx(ctx, opts)
}
