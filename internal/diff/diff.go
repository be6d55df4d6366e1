// Package diff computes the structural differences between two schema
// snapshots. All results are computed once, in New, and every collection
// is sorted by name so repeated runs produce identical output.
package diff

import (
	"sort"

	"db-diff/internal/schema"
)

type ColumnTypeMismatch struct {
	Name       string
	SourceType string
	TargetType string
}

type ColumnsDiff struct {
	MissingInSource []string
	MissingInTarget []string
	TypeMismatches  []ColumnTypeMismatch
}

func (d *ColumnsDiff) Empty() bool {
	return d == nil || (len(d.MissingInSource) == 0 && len(d.MissingInTarget) == 0 && len(d.TypeMismatches) == 0)
}

// EnhancementsDiff is the name-only diff used for constraints and indexes.
type EnhancementsDiff struct {
	MissingInSource []string
	MissingInTarget []string
}

func (d *EnhancementsDiff) Empty() bool {
	return d == nil || (len(d.MissingInSource) == 0 && len(d.MissingInTarget) == 0)
}

// TableDiff describes one table present on both sides. A nil part means
// no discrepancy of that kind.
type TableDiff struct {
	Name        string
	Columns     *ColumnsDiff
	Constraints *EnhancementsDiff
	Indexes     *EnhancementsDiff
}

func (d *TableDiff) HasColumnDiscrepancies() bool     { return !d.Columns.Empty() }
func (d *TableDiff) HasConstraintDiscrepancies() bool { return !d.Constraints.Empty() }
func (d *TableDiff) HasIndexDiscrepancies() bool      { return !d.Indexes.Empty() }

// NamesDiff is a plain name-set difference (sequences, views, ...).
type NamesDiff struct {
	MissingInSource []string
	MissingInTarget []string
}

// SchemaDiff holds every discrepancy between a source and a target schema.
type SchemaDiff struct {
	tablesMissingInSource []string
	tablesMissingInTarget []string
	tableDiffs            []*TableDiff // common tables with at least one discrepancy

	sequences         NamesDiff
	views             NamesDiff
	materializedViews NamesDiff
}

// New compares source and target.
func New(source, target *schema.Schema) *SchemaDiff {
	sourceNames := source.TableNames()
	targetNames := target.TableNames()

	d := &SchemaDiff{
		tablesMissingInSource: minus(targetNames, sourceNames),
		tablesMissingInTarget: minus(sourceNames, targetNames),
		sequences:             compareNames(source.Sequences, target.Sequences),
		views:                 compareNames(source.Views, target.Views),
		materializedViews:     compareNames(source.MaterializedViews, target.MaterializedViews),
	}

	for _, name := range intersect(sourceNames, targetNames) {
		s, _ := source.Table(name)
		t, _ := target.Table(name)
		if td := compareTables(s, t); td != nil {
			d.tableDiffs = append(d.tableDiffs, td)
		}
	}
	return d
}

func (d *SchemaDiff) TablesMissingInSource() []string { return d.tablesMissingInSource }
func (d *SchemaDiff) TablesMissingInTarget() []string { return d.tablesMissingInTarget }

// TablesWithDistinctColumns returns the table diffs with column discrepancies.
func (d *SchemaDiff) TablesWithDistinctColumns() []*TableDiff {
	return d.filter((*TableDiff).HasColumnDiscrepancies)
}

func (d *SchemaDiff) TablesWithDistinctConstraints() []*TableDiff {
	return d.filter((*TableDiff).HasConstraintDiscrepancies)
}

func (d *SchemaDiff) TablesWithDistinctIndexes() []*TableDiff {
	return d.filter((*TableDiff).HasIndexDiscrepancies)
}

func (d *SchemaDiff) Sequences() NamesDiff         { return d.sequences }
func (d *SchemaDiff) Views() NamesDiff             { return d.views }
func (d *SchemaDiff) MaterializedViews() NamesDiff { return d.materializedViews }

// Empty reports whether the two schemas are structurally identical.
func (d *SchemaDiff) Empty() bool {
	for _, c := range d.Counts() {
		if c.Count > 0 {
			return false
		}
	}
	return true
}

// Count is one line of the discrepancy summary.
type Count struct {
	Label string
	Count int
}

// Counts summarizes the number of discrepancies per category, in a fixed order.
func (d *SchemaDiff) Counts() []Count {
	return []Count{
		{"Number of tables missing in source DB", len(d.tablesMissingInSource)},
		{"Number of tables missing in target DB", len(d.tablesMissingInTarget)},
		{"Number of tables with distinct columns", len(d.TablesWithDistinctColumns())},
		{"Number of tables with distinct constraints", len(d.TablesWithDistinctConstraints())},
		{"Number of tables with distinct indexes", len(d.TablesWithDistinctIndexes())},
		{"Number of sequences missing in source DB", len(d.sequences.MissingInSource)},
		{"Number of sequences missing in target DB", len(d.sequences.MissingInTarget)},
		{"Number of views missing in source DB", len(d.views.MissingInSource)},
		{"Number of views missing in target DB", len(d.views.MissingInTarget)},
		{"Number of materialized views missing in source DB", len(d.materializedViews.MissingInSource)},
		{"Number of materialized views missing in target DB", len(d.materializedViews.MissingInTarget)},
	}
}

func (d *SchemaDiff) filter(keep func(*TableDiff) bool) []*TableDiff {
	var result []*TableDiff
	for _, td := range d.tableDiffs {
		if keep(td) {
			result = append(result, td)
		}
	}
	return result
}

func compareTables(source, target *schema.Table) *TableDiff {
	columns := compareColumns(source, target)
	constraints := compareEnhancements(source.ConstraintNames(), target.ConstraintNames())
	indexes := compareEnhancements(source.IndexNames(), target.IndexNames())
	if columns == nil && constraints == nil && indexes == nil {
		return nil
	}
	return &TableDiff{
		Name:        source.Name,
		Columns:     columns,
		Constraints: constraints,
		Indexes:     indexes,
	}
}

func compareColumns(source, target *schema.Table) *ColumnsDiff {
	sourceNames := source.ColumnNames()
	targetNames := target.ColumnNames()

	d := &ColumnsDiff{
		MissingInSource: minus(targetNames, sourceNames),
		MissingInTarget: minus(sourceNames, targetNames),
	}
	for _, name := range intersect(sourceNames, targetNames) {
		s, _ := source.Column(name)
		t, _ := target.Column(name)
		if s.DataType != t.DataType {
			d.TypeMismatches = append(d.TypeMismatches, ColumnTypeMismatch{
				Name:       name,
				SourceType: s.DataType,
				TargetType: t.DataType,
			})
		}
	}
	if d.Empty() {
		return nil
	}
	return d
}

func compareEnhancements(source, target map[string]struct{}) *EnhancementsDiff {
	d := &EnhancementsDiff{
		MissingInSource: minus(target, source),
		MissingInTarget: minus(source, target),
	}
	if d.Empty() {
		return nil
	}
	return d
}

func compareNames(source, target []string) NamesDiff {
	s := toSet(source)
	t := toSet(target)
	return NamesDiff{
		MissingInSource: minus(t, s),
		MissingInTarget: minus(s, t),
	}
}

// minus returns the sorted names in a but not in b.
func minus(a, b map[string]struct{}) []string {
	var result []string
	for name := range a {
		if _, ok := b[name]; !ok {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func intersect(a, b map[string]struct{}) []string {
	var result []string
	for name := range a {
		if _, ok := b[name]; ok {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
