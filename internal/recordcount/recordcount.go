// Package recordcount compares the number of rows of every table in two
// stores.
package recordcount

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"db-diff/internal/schema"
	"db-diff/internal/validation"
)

type Status string

const (
	StatusOK      Status = "OK"
	StatusError   Status = "ERROR"
	StatusWarning Status = "WARNING"
)

// Result compares one table. A nil count means the table is missing on that
// side.
type Result struct {
	Table  string
	Source *int64
	Target *int64
}

func (r Result) Status() Status {
	switch {
	case r.Source == nil || r.Target == nil:
		return StatusWarning
	case *r.Source == *r.Target:
		return StatusOK
	default:
		return StatusError
	}
}

func (r Result) SourceCount() string { return formatCount(r.Source) }
func (r Result) TargetCount() string { return formatCount(r.Target) }

func formatCount(n *int64) string {
	if n == nil {
		return validation.NotAvailable
	}
	return strconv.FormatInt(*n, 10)
}

// Count returns the row count of every table of the store's schema. Each
// statement is bounded by the store's query timeout.
func Count(ctx context.Context, store *validation.Store) (map[string]int64, error) {
	target := store.Dialect.GetSchemaName(store.Schema)

	tables, err := listTables(ctx, store, target)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		n, err := countRows(ctx, store, fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", target, table))
		if err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func listTables(ctx context.Context, store *validation.Store, target string) ([]string, error) {
	ctx, cancel := store.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := store.DB.QueryContext(ctx, store.Dialect.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, schema.UnqualifiedName(target, name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return tables, nil
}

func countRows(ctx context.Context, store *validation.Store, query string) (int64, error) {
	ctx, cancel := store.WithQueryTimeout(ctx)
	defer cancel()

	var n int64
	err := store.DB.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

// Compare builds one Result per table of either side, sorted by table name.
func Compare(source, target map[string]int64) []Result {
	names := make(map[string]struct{}, len(source)+len(target))
	for name := range source {
		names[name] = struct{}{}
	}
	for name := range target {
		names[name] = struct{}{}
	}

	results := make([]Result, 0, len(names))
	for name := range names {
		r := Result{Table: name}
		if n, ok := source[name]; ok {
			r.Source = &n
		}
		if n, ok := target[name]; ok {
			r.Target = &n
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Table < results[j].Table })
	return results
}

// Run counts both stores concurrently through exec and compares them.
func Run(ctx context.Context, exec validation.Executor, source, target *validation.Store) ([]Result, error) {
	var sourceCounts, targetCounts map[string]int64
	err := exec.Run(ctx,
		func(ctx context.Context) (err error) {
			sourceCounts, err = Count(ctx, source)
			if err != nil {
				err = fmt.Errorf("%s: %w", source.Name, err)
			}
			return err
		},
		func(ctx context.Context) (err error) {
			targetCounts, err = Count(ctx, target)
			if err != nil {
				err = fmt.Errorf("%s: %w", target.Name, err)
			}
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return Compare(sourceCounts, targetCounts), nil
}
