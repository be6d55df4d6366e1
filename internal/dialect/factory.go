package dialect

import "strings"

// GetDialect returns the appropriate Dialect implementation based on driver name.
func GetDialect(driver string) Dialect {
	switch driver {
	case "postgres":
		return &PostgresDialect{}
	case "sqlserver", "mssql":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	case "sqlite", "sqlite3", SQLiteDriverName:
		return &SQLiteDialect{}
	default: // mysql
		return &MysqlDialect{}
	}
}

// DetectDriver guesses the driver from a connection URL. An explicit
// driver in the configuration takes precedence over this.
func DetectDriver(url string) string {
	u := strings.ToLower(url)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"), strings.Contains(u, "sslmode="):
		return "postgres"
	case strings.HasPrefix(u, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(u, "oracle://"):
		return "oracle"
	case strings.HasPrefix(u, "file:"), strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"), strings.HasSuffix(u, ".sqlite3"):
		return "sqlite"
	default:
		return "mysql"
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
