package dialect

// Pattern names one of the canonical textual formats temporal values are
// rendered in before they are compared.
type Pattern int

const (
	DatePattern      Pattern = iota + 1 // YYYY-MM-DD
	TimePattern                         // HH24:MI:SS
	TimestampPattern                    // YYYY-MM-DD HH24:MI:SS
)

// Dialect abstracts database-specific operations.
type Dialect interface {
	// Metadata Queries (Schema Introspection).
	// Every query binds the schema name as its single parameter.
	GetTablesQuery(schema string) string            // table
	GetColumnsQuery(schema string) string           // table, column, data type, YES/NO nullable
	GetPrimaryKeysQuery(schema string) string       // table, column in key order
	GetConstraintsQuery(schema string) string       // table, constraint name, constraint type
	GetIndexesQuery(schema string) string           // table, index name
	GetSequencesQuery(schema string) string         // name; empty when the store has none
	GetViewsQuery(schema string) string             // name
	GetMaterializedViewsQuery(schema string) string // name; empty when the store has none

	// Validator expressions
	LengthExpr(column string) string
	HashExpr(column string) string            // upper-case hex MD5
	LargeObjectHashExpr(column string) string // same, for BLOB/CLOB style columns
	FormatExpr(column string, p Pattern) string

	// Helpers
	DriverName() string
	GetSchemaName(input string) string
	GetLimitRowQuery(query string, limit int) string
}

// Constraint types as returned in the third column of GetConstraintsQuery.
const (
	CheckConstraint      = "CHECK"
	UniqueConstraint     = "UNIQUE"
	PrimaryKeyConstraint = "PRIMARY KEY"
	ForeignKeyConstraint = "FOREIGN KEY"
)
