package dialect

import (
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	// Use @p1 for schema binding
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	return `
		SELECT c.TABLE_NAME, c.COLUMN_NAME, UPPER(c.DATA_TYPE), c.IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS c
		JOIN INFORMATION_SCHEMA.TABLES t
			ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
		WHERE c.TABLE_SCHEMA = @p1 AND t.TABLE_TYPE = 'BASE TABLE'
		ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) GetPrimaryKeysQuery(schema string) string {
	return `
		SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
		ORDER BY kcu.TABLE_NAME, kcu.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) GetConstraintsQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, CONSTRAINT_TYPE FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS WHERE TABLE_SCHEMA = @p1 ORDER BY TABLE_NAME, CONSTRAINT_NAME`
}

func (d *MSSQLDialect) GetIndexesQuery(schema string) string {
	return `
		SELECT t.name, idx.name
		FROM sys.indexes idx
		JOIN sys.tables t ON idx.object_id = t.object_id
		JOIN sys.schemas s ON t.schema_id = s.schema_id
		WHERE s.name = @p1 AND idx.name IS NOT NULL
		ORDER BY t.name, idx.name
	`
}

func (d *MSSQLDialect) GetSequencesQuery(schema string) string {
	return `SELECT seq.name FROM sys.sequences seq JOIN sys.schemas s ON seq.schema_id = s.schema_id WHERE s.name = @p1 ORDER BY seq.name`
}

func (d *MSSQLDialect) GetViewsQuery(schema string) string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = @p1 ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetMaterializedViewsQuery(schema string) string {
	// Indexed views are the closest thing, but they are listed as views already.
	return ""
}

func (d *MSSQLDialect) LengthExpr(column string) string {
	return fmt.Sprintf("LEN(%s)", column)
}

func (d *MSSQLDialect) HashExpr(column string) string {
	// style 2 renders the varbinary as upper-case hex without 0x
	return fmt.Sprintf("CONVERT(VARCHAR(32), HASHBYTES('MD5', %s), 2)", column)
}

// HASHBYTES rejects the legacy image and ntext types.
func (d *MSSQLDialect) LargeObjectHashExpr(column string) string {
	return d.HashExpr(fmt.Sprintf("CAST(%s AS VARBINARY(MAX))", column))
}

func (d *MSSQLDialect) FormatExpr(column string, p Pattern) string {
	switch p {
	case DatePattern:
		return fmt.Sprintf("CONVERT(VARCHAR(10), %s, 23)", column)
	case TimePattern:
		return fmt.Sprintf("CONVERT(VARCHAR(8), %s, 108)", column)
	case TimestampPattern:
		return fmt.Sprintf("CONVERT(VARCHAR(19), %s, 120)", column)
	}
	panic(fmt.Sprintf("dialect: unknown temporal pattern %d", p))
}

func (d *MSSQLDialect) DriverName() string {
	return "sqlserver"
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	// Simple T-SQL TOP injection
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		// Replaces the first occurrence only, which is the outer SELECT of
		// the statements the validators render.
		return strings.Replace(trimmed, "SELECT", fmt.Sprintf("SELECT TOP %d", limit), 1)
	}
	return query
}
