package schema

import (
	"context"
	"database/sql"
	"db-diff/internal/dialect"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------
// Schema Introspection
// ---------------------------------------------------------------------

// Introspect reads the structure of one schema of a live store. The
// returned Schema is a snapshot and is never modified afterwards.
func Introspect(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName string) (*Schema, error) {
	// [Interface-First]: Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)

	// Normalized keys keep lookups working when the catalog reports names
	// in a different case than the table listing (Oracle).
	tableMap := make(map[string]*Table)
	result := &Schema{}

	// --- Step 1: Fetch Tables ---
	err := queryRows(ctx, db, d.GetTablesQuery(target), target, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		name = UnqualifiedName(target, name)
		t := &Table{Schema: target, Name: name}
		tableMap[strings.ToUpper(name)] = t
		result.Tables = append(result.Tables, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}

	lookup := func(tableName sql.NullString) (*Table, bool) {
		if !tableName.Valid {
			return nil, false
		}
		t, ok := tableMap[strings.ToUpper(UnqualifiedName(target, tableName.String))]
		return t, ok
	}

	// --- Step 2: Fetch Columns ---
	err = queryRows(ctx, db, d.GetColumnsQuery(target), target, func(rows *sql.Rows) error {
		var tName, cName, dType, isNull sql.NullString
		if err := rows.Scan(&tName, &cName, &dType, &isNull); err != nil {
			return fmt.Errorf("table %s: %w", tName.String, err)
		}
		if !cName.Valid {
			return nil
		}
		if t, ok := lookup(tName); ok {
			t.Columns = append(t.Columns, NewColumn(cName.String, dType.String, strings.EqualFold(isNull.String, "YES")))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}

	// --- Step 3: Fetch Primary Keys ---
	err = queryRows(ctx, db, d.GetPrimaryKeysQuery(target), target, func(rows *sql.Rows) error {
		var tName, cName sql.NullString
		if err := rows.Scan(&tName, &cName); err != nil {
			return err
		}
		if t, ok := lookup(tName); ok && cName.Valid {
			t.PrimaryKey = append(t.PrimaryKey, cName.String)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query primary keys: %w", err)
	}

	// --- Step 4: Fetch Constraints ---
	err = queryRows(ctx, db, d.GetConstraintsQuery(target), target, func(rows *sql.Rows) error {
		var tName, cName, cType sql.NullString
		if err := rows.Scan(&tName, &cName, &cType); err != nil {
			return err
		}
		t, ok := lookup(tName)
		if !ok || !cName.Valid {
			return nil
		}
		switch strings.ToUpper(cType.String) {
		case dialect.CheckConstraint:
			t.CheckConstraints = append(t.CheckConstraints, cName.String)
		case dialect.UniqueConstraint:
			t.UniqueConstraints = append(t.UniqueConstraints, cName.String)
		case dialect.PrimaryKeyConstraint:
			t.PrimaryKeyConstraints = append(t.PrimaryKeyConstraints, cName.String)
		case dialect.ForeignKeyConstraint:
			t.ForeignKeyConstraints = append(t.ForeignKeyConstraints, cName.String)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query constraints: %w", err)
	}

	// --- Step 5: Fetch Indexes ---
	err = queryRows(ctx, db, d.GetIndexesQuery(target), target, func(rows *sql.Rows) error {
		var tName, iName sql.NullString
		if err := rows.Scan(&tName, &iName); err != nil {
			return err
		}
		if t, ok := lookup(tName); ok && iName.Valid {
			t.Indexes = append(t.Indexes, iName.String)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}

	// --- Step 6: Fetch Sequences and Views ---
	if result.Sequences, err = queryNames(ctx, db, d.GetSequencesQuery(target), target); err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	if result.Views, err = queryNames(ctx, db, d.GetViewsQuery(target), target); err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	if result.MaterializedViews, err = queryNames(ctx, db, d.GetMaterializedViewsQuery(target), target); err != nil {
		return nil, fmt.Errorf("failed to query materialized views: %w", err)
	}

	return result, nil
}

func queryRows(ctx context.Context, db *sql.DB, query, schemaName string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// queryNames returns the single-column result of query. An empty query
// means the store has no such object kind.
func queryNames(ctx context.Context, db *sql.DB, query, schemaName string) ([]string, error) {
	if query == "" {
		return nil, nil
	}
	var names []string
	err := queryRows(ctx, db, query, schemaName, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	return names, err
}
