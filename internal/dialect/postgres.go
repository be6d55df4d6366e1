package dialect

import (
	"fmt"

	_ "github.com/lib/pq" // Postgres Driver
)

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// udt_name keeps the declared type (int4, varchar, ...) instead of the
	// verbose SQL standard name.
	return `SELECT c.table_name, c.column_name, UPPER(c.udt_name), c.is_nullable
FROM information_schema.columns c
JOIN information_schema.tables t ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.column_name
FROM information_schema.key_column_usage kcu
JOIN information_schema.table_constraints tc
  ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
WHERE kcu.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.table_name, kcu.ordinal_position`
}

func (d *PostgresDialect) GetConstraintsQuery(schema string) string {
	// NOT NULL constraints show up as CHECK constraints named <oid>_not_null
	// and differ between otherwise identical databases.
	return `SELECT table_name, constraint_name, constraint_type
FROM information_schema.table_constraints
WHERE table_schema = $1 AND constraint_name NOT LIKE '%\_not\_null'
ORDER BY table_name, constraint_name`
}

func (d *PostgresDialect) GetIndexesQuery(schema string) string {
	return `SELECT tablename, indexname FROM pg_indexes WHERE schemaname = $1 ORDER BY tablename, indexname`
}

func (d *PostgresDialect) GetSequencesQuery(schema string) string {
	return `SELECT sequence_name FROM information_schema.sequences WHERE sequence_schema = $1 ORDER BY sequence_name`
}

func (d *PostgresDialect) GetViewsQuery(schema string) string {
	return `SELECT table_name FROM information_schema.views WHERE table_schema = $1 ORDER BY table_name`
}

func (d *PostgresDialect) GetMaterializedViewsQuery(schema string) string {
	return `SELECT matviewname FROM pg_matviews WHERE schemaname = $1 ORDER BY matviewname`
}

func (d *PostgresDialect) LengthExpr(column string) string {
	return fmt.Sprintf("LENGTH(%s)", column)
}

func (d *PostgresDialect) HashExpr(column string) string {
	return DefaultHashExpr(column)
}

func (d *PostgresDialect) LargeObjectHashExpr(column string) string {
	return DefaultHashExpr(column)
}

func (d *PostgresDialect) FormatExpr(column string, p Pattern) string {
	return fmt.Sprintf("TO_CHAR(%s, '%s')", column, toCharPattern(p))
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return DefaultLimitRowQuery(query, limit)
}
