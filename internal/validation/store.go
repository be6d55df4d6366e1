package validation

import (
	"context"
	"database/sql"
	"time"

	"db-diff/internal/dialect"
	"db-diff/internal/schema"
)

// DefaultQueryTimeout bounds a single validation query.
const DefaultQueryTimeout = 5 * time.Minute

// Store is one side of a comparison: an open connection pool, its dialect
// and the introspected snapshot of the compared schema.
type Store struct {
	Name     string // "source" or "target"
	DB       *sql.DB
	Dialect  dialect.Dialect
	Schema   string // resolved schema name used to qualify tables
	Snapshot *schema.Schema
	Timeout  time.Duration
}

// Qualify returns the table name prefixed with the store's schema.
func (s *Store) Qualify(table string) string {
	if s.Schema == "" {
		return table
	}
	return s.Schema + "." + table
}

// WithQueryTimeout bounds a single statement run against the store by its
// Timeout, or DefaultQueryTimeout when unset.
func (s *Store) WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// query runs statement and renders its result-set. Errors never escape:
// they are returned as a failed side.
func (s *Store) query(ctx context.Context, statement string) SideResult {
	ctx, cancel := s.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, statement)
	if err != nil {
		return ExecutionFailed(err.Error())
	}
	defer rows.Close()

	values, err := scanRows(rows)
	if err != nil {
		return ExecutionFailed(err.Error())
	}
	return Ok(ValidationQuery{Statement: statement, ResultSet: renderRows(values)})
}
