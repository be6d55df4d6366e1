package dialect

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL Driver
)

type MysqlDialect struct{}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT c.TABLE_NAME, c.COLUMN_NAME, UPPER(c.DATA_TYPE), c.IS_NULLABLE
FROM information_schema.COLUMNS c
JOIN information_schema.TABLES t ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
WHERE c.TABLE_SCHEMA = ? AND t.TABLE_TYPE = 'BASE TABLE'
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *MysqlDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetConstraintsQuery(schema string) string {
	// Every MySQL primary key is called PRIMARY; qualify it with the table
	// so the name set stays meaningful.
	return `SELECT TABLE_NAME,
       CASE WHEN CONSTRAINT_TYPE = 'PRIMARY KEY' THEN CONCAT(TABLE_NAME, '_pkey') ELSE CONSTRAINT_NAME END,
       CONSTRAINT_TYPE
FROM information_schema.TABLE_CONSTRAINTS
WHERE TABLE_SCHEMA = ?
ORDER BY TABLE_NAME, CONSTRAINT_NAME`
}

func (d *MysqlDialect) GetIndexesQuery(schema string) string {
	return `SELECT DISTINCT TABLE_NAME, INDEX_NAME FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, INDEX_NAME`
}

func (d *MysqlDialect) GetSequencesQuery(schema string) string {
	return ""
}

func (d *MysqlDialect) GetViewsQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.VIEWS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetMaterializedViewsQuery(schema string) string {
	return ""
}

func (d *MysqlDialect) LengthExpr(column string) string {
	// LENGTH counts bytes in MySQL
	return fmt.Sprintf("CHAR_LENGTH(%s)", column)
}

func (d *MysqlDialect) HashExpr(column string) string {
	return DefaultHashExpr(column)
}

func (d *MysqlDialect) LargeObjectHashExpr(column string) string {
	return DefaultHashExpr(column)
}

func (d *MysqlDialect) FormatExpr(column string, p Pattern) string {
	var format string
	switch p {
	case DatePattern:
		format = "%Y-%m-%d"
	case TimePattern:
		format = "%H:%i:%s"
	case TimestampPattern:
		format = "%Y-%m-%d %H:%i:%s"
	default:
		panic(fmt.Sprintf("dialect: unknown temporal pattern %d", p))
	}
	return fmt.Sprintf("DATE_FORMAT(%s, '%s')", column, format)
}

func (d *MysqlDialect) DriverName() string {
	return "mysql"
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return DefaultLimitRowQuery(query, limit)
}
