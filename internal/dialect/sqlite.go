package dialect

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDriverName is the go-sqlite3 driver registered with an md5()
// SQL function, which plain SQLite lacks.
const SQLiteDriverName = "sqlite3_dbdiff"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("md5", md5Hex, true)
		},
	})
}

// md5Hex hashes the textual form of v. NULL hashes to the empty string.
func md5Hex(v any) string {
	var data []byte
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		data = []byte(fmt.Sprint(t))
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SQLiteDialect has no schemas to filter on. Its queries still bind the
// schema parameter through a dummy "? IS NOT NULL" clause so callers can
// treat every dialect alike.
type SQLiteDialect struct{}

func (d *SQLiteDialect) GetTablesQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ? IS NOT NULL ORDER BY name`
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	return `SELECT m.name, p.name, UPPER(p.type),
       CASE WHEN p."notnull" = 0 AND p.pk = 0 THEN 'YES' ELSE 'NO' END
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT m.name, p.name
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND p.pk > 0 AND ? IS NOT NULL
ORDER BY m.name, p.pk`
}

func (d *SQLiteDialect) GetConstraintsQuery(schema string) string {
	// SQLite keeps no names for primary and foreign keys; synthesize them.
	// CHECK constraints are not exposed through pragmas.
	return `SELECT m.name, m.name || '_pkey', 'PRIMARY KEY'
FROM sqlite_master m
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
AND EXISTS (SELECT 1 FROM pragma_table_info(m.name) p WHERE p.pk > 0)
UNION ALL
SELECT m.name, m.name || '_' || f."table" || '_fkey' || f.id, 'FOREIGN KEY'
FROM sqlite_master m
JOIN pragma_foreign_key_list(m.name) f
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND f.seq = 0
UNION ALL
SELECT m.name, i.name, 'UNIQUE'
FROM sqlite_master m
JOIN pragma_index_list(m.name) i
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND i.origin = 'u'
ORDER BY 1, 2`
}

func (d *SQLiteDialect) GetIndexesQuery(schema string) string {
	// automatic indexes have no sql
	return `SELECT tbl_name, name FROM sqlite_master WHERE type = 'index' AND sql IS NOT NULL AND ? IS NOT NULL ORDER BY tbl_name, name`
}

func (d *SQLiteDialect) GetSequencesQuery(schema string) string {
	return ""
}

func (d *SQLiteDialect) GetViewsQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'view' AND ? IS NOT NULL ORDER BY name`
}

func (d *SQLiteDialect) GetMaterializedViewsQuery(schema string) string {
	return ""
}

func (d *SQLiteDialect) LengthExpr(column string) string {
	return fmt.Sprintf("LENGTH(%s)", column)
}

func (d *SQLiteDialect) HashExpr(column string) string {
	return DefaultHashExpr(column)
}

func (d *SQLiteDialect) LargeObjectHashExpr(column string) string {
	return DefaultHashExpr(column)
}

func (d *SQLiteDialect) FormatExpr(column string, p Pattern) string {
	var format string
	switch p {
	case DatePattern:
		format = "%Y-%m-%d"
	case TimePattern:
		format = "%H:%M:%S"
	case TimestampPattern:
		format = "%Y-%m-%d %H:%M:%S"
	default:
		panic(fmt.Sprintf("dialect: unknown temporal pattern %d", p))
	}
	return fmt.Sprintf("STRFTIME('%s', %s)", format, column)
}

func (d *SQLiteDialect) DriverName() string {
	return SQLiteDriverName
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func (d *SQLiteDialect) GetLimitRowQuery(query string, limit int) string {
	return DefaultLimitRowQuery(query, limit)
}
