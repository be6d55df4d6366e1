package schema

import "strings"

// Category is the coarse classification of a column type that drives
// validator selection.
type Category int

const (
	Other Category = iota
	Numeric
	String
	Boolean
	Date
	Time
	Timestamp
)

func (c Category) String() string {
	switch c {
	case Numeric:
		return "Numeric"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Date:
		return "Date"
	case Time:
		return "Time"
	case Timestamp:
		return "Timestamp"
	default:
		return "Other"
	}
}

// IsTemporal reports whether the category is Date, Time or Timestamp.
func (c Category) IsTemporal() bool {
	return c == Date || c == Time || c == Timestamp
}

type Column struct {
	Name        string
	DataType    string // as reported by the store, compared verbatim by the schema diff
	Category    Category
	Nullable    bool
	LargeObject bool
}

type Table struct {
	Schema     string
	Name       string
	Columns    []*Column
	PrimaryKey []string // column names in key order

	CheckConstraints      []string
	UniqueConstraints     []string
	PrimaryKeyConstraints []string
	ForeignKeyConstraints []string
	Indexes               []string
}

// FullName returns the schema-qualified table name.
func (t *Table) FullName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

func (t *Table) HasPrimaryKey() bool {
	return len(t.PrimaryKey) > 0
}

func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

func (t *Table) ConstraintCount() int {
	return len(t.CheckConstraints) + len(t.UniqueConstraints) + len(t.PrimaryKeyConstraints) + len(t.ForeignKeyConstraints)
}

func (t *Table) IndexCount() int {
	return len(t.Indexes)
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnNames returns the set of column names.
func (t *Table) ColumnNames() map[string]struct{} {
	return nameSet(columnNames(t.Columns))
}

// ConstraintNames returns the union of all constraint names.
func (t *Table) ConstraintNames() map[string]struct{} {
	var all []string
	all = append(all, t.CheckConstraints...)
	all = append(all, t.UniqueConstraints...)
	all = append(all, t.PrimaryKeyConstraints...)
	all = append(all, t.ForeignKeyConstraints...)
	return nameSet(all)
}

func (t *Table) IndexNames() map[string]struct{} {
	return nameSet(t.Indexes)
}

// Schema is a snapshot of one store. It is not modified after introspection.
type Schema struct {
	Tables            []*Table
	Sequences         []string
	Views             []string
	MaterializedViews []string
}

// Table looks a table up by its unqualified name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

func (s *Schema) HasTable(name string) bool {
	_, ok := s.Table(name)
	return ok
}

func (s *Schema) TableNames() map[string]struct{} {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return nameSet(names)
}

// UnqualifiedName strips a leading "schema." from name. Only a full
// schema name followed by a dot is removed, so a table called
// "sales_history" in schema "sales" keeps its name.
func UnqualifiedName(schemaName, name string) string {
	if schemaName == "" {
		return name
	}
	prefix := schemaName + "."
	if strings.HasPrefix(name, prefix) {
		return name[len(prefix):]
	}
	return name
}

func columnNames(cols []*Column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
