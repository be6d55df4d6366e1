package dialect

import (
	"fmt"
	"strings"
)

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// DefaultLimitRowQuery appends a LIMIT clause, shared by the dialects that support it.
func DefaultLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", strings.TrimSpace(query), limit)
}

// DefaultHashExpr renders the MD5 hash of a column as upper-case hex.
func DefaultHashExpr(column string) string {
	return fmt.Sprintf("UPPER(MD5(%s))", column)
}

// toCharPattern returns the TO_CHAR format for p, shared by Postgres and Oracle.
func toCharPattern(p Pattern) string {
	switch p {
	case DatePattern:
		return "YYYY-MM-DD"
	case TimePattern:
		return "HH24:MI:SS"
	case TimestampPattern:
		return "YYYY-MM-DD HH24:MI:SS"
	}
	panic(fmt.Sprintf("dialect: unknown temporal pattern %d", p))
}
