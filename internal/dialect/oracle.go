package dialect

import (
	"fmt"
	"strings"

	_ "github.com/sijms/go-ora/v2" // Oracle Driver
)

type OracleDialect struct{}

// Oracle dictionary views filter by OWNER, which is the upper-cased schema.

func (d *OracleDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `
SELECT
    c.TABLE_NAME,
    c.COLUMN_NAME,
    CASE
        WHEN c.DATA_TYPE = 'NUMBER' AND COALESCE(c.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        WHEN c.DATA_TYPE = 'NUMBER' THEN 'INTEGER'
        WHEN c.DATA_TYPE LIKE 'TIMESTAMP(%)' THEN 'TIMESTAMP'
        ELSE c.DATA_TYPE
    END,
    CASE WHEN c.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END
FROM ALL_TAB_COLUMNS c
JOIN ALL_TABLES t ON t.OWNER = c.OWNER AND t.TABLE_NAME = c.TABLE_NAME
WHERE c.OWNER = :1
ORDER BY c.TABLE_NAME, c.COLUMN_ID`
}

func (d *OracleDialect) GetPrimaryKeysQuery(schema string) string {
	return `
SELECT cc.TABLE_NAME, cc.COLUMN_NAME
FROM ALL_CONS_COLUMNS cc
JOIN ALL_CONSTRAINTS uc ON cc.OWNER = uc.OWNER AND cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
WHERE uc.CONSTRAINT_TYPE = 'P' AND uc.OWNER = :1
ORDER BY cc.TABLE_NAME, cc.POSITION`
}

func (d *OracleDialect) GetConstraintsQuery(schema string) string {
	// System generated NOT NULL checks (SYS_C...) are skipped, their names
	// are never stable between two databases.
	return `
SELECT
    TABLE_NAME,
    CONSTRAINT_NAME,
    CASE CONSTRAINT_TYPE
        WHEN 'C' THEN 'CHECK'
        WHEN 'U' THEN 'UNIQUE'
        WHEN 'P' THEN 'PRIMARY KEY'
        WHEN 'R' THEN 'FOREIGN KEY'
    END
FROM ALL_CONSTRAINTS
WHERE OWNER = :1
AND CONSTRAINT_TYPE IN ('C', 'U', 'P', 'R')
AND GENERATED = 'USER NAME'
ORDER BY TABLE_NAME, CONSTRAINT_NAME`
}

func (d *OracleDialect) GetIndexesQuery(schema string) string {
	return `SELECT TABLE_NAME, INDEX_NAME FROM ALL_INDEXES WHERE OWNER = :1 ORDER BY TABLE_NAME, INDEX_NAME`
}

func (d *OracleDialect) GetSequencesQuery(schema string) string {
	return `SELECT SEQUENCE_NAME FROM ALL_SEQUENCES WHERE SEQUENCE_OWNER = :1 ORDER BY SEQUENCE_NAME`
}

func (d *OracleDialect) GetViewsQuery(schema string) string {
	return `SELECT VIEW_NAME FROM ALL_VIEWS WHERE OWNER = :1 ORDER BY VIEW_NAME`
}

func (d *OracleDialect) GetMaterializedViewsQuery(schema string) string {
	return `SELECT MVIEW_NAME FROM ALL_MVIEWS WHERE OWNER = :1 ORDER BY MVIEW_NAME`
}

func (d *OracleDialect) LengthExpr(column string) string {
	return fmt.Sprintf("LENGTH(%s)", column)
}

func (d *OracleDialect) HashExpr(column string) string {
	// RAWTOHEX output is already upper case
	return fmt.Sprintf("RAWTOHEX(STANDARD_HASH(%s, 'MD5'))", column)
}

// STANDARD_HASH rejects LOB arguments; DBMS_CRYPTO.HASH takes BLOB, CLOB and
// RAW. Typ 2 is HASH_MD5.
func (d *OracleDialect) LargeObjectHashExpr(column string) string {
	return fmt.Sprintf("RAWTOHEX(DBMS_CRYPTO.HASH(%s, 2))", column)
}

func (d *OracleDialect) FormatExpr(column string, p Pattern) string {
	return fmt.Sprintf("TO_CHAR(%s, '%s')", column, toCharPattern(p))
}

func (d *OracleDialect) DriverName() string {
	return "oracle"
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}
