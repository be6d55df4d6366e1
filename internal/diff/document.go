package diff

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by WriteDocument.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type TypeMismatchEntry struct {
	Name           string `json:"name" yaml:"name"`
	SourceDataType string `json:"source_data_type" yaml:"source_data_type"`
	TargetDataType string `json:"target_data_type" yaml:"target_data_type"`
}

type ColumnsEntry struct {
	MissingInSource   []string            `json:"columns_missing_in_source_database" yaml:"columns_missing_in_source_database"`
	MissingInTarget   []string            `json:"columns_missing_in_target_database" yaml:"columns_missing_in_target_database"`
	DistinctDataTypes []TypeMismatchEntry `json:"columns_with_distinct_data_type" yaml:"columns_with_distinct_data_type"`
}

type ConstraintsEntry struct {
	MissingInSource []string `json:"constraints_missing_in_source_db" yaml:"constraints_missing_in_source_db"`
	MissingInTarget []string `json:"constraints_missing_in_target_db" yaml:"constraints_missing_in_target_db"`
}

type IndexesEntry struct {
	MissingInSource []string `json:"indexes_missing_in_source_database" yaml:"indexes_missing_in_source_database"`
	MissingInTarget []string `json:"indexes_missing_in_target_database" yaml:"indexes_missing_in_target_database"`
}

// Document is the serializable form of a SchemaDiff. Collections are never
// nil so empty categories render as [] or {}.
type Document struct {
	TablesMissingInSource []string `json:"tables_missing_in_source_database" yaml:"tables_missing_in_source_database"`
	TablesMissingInTarget []string `json:"tables_missing_in_target_database" yaml:"tables_missing_in_target_database"`

	TablesWithDistinctColumns     map[string]ColumnsEntry     `json:"tables_with_distinct_columns" yaml:"tables_with_distinct_columns"`
	TablesWithDistinctConstraints map[string]ConstraintsEntry `json:"tables_with_distinct_constraints" yaml:"tables_with_distinct_constraints"`
	TablesWithDistinctIndexes     map[string]IndexesEntry     `json:"tables_with_distinct_indexes" yaml:"tables_with_distinct_indexes"`

	SequencesMissingInSource         []string `json:"sequences_missing_in_source_database" yaml:"sequences_missing_in_source_database"`
	SequencesMissingInTarget         []string `json:"sequences_missing_in_target_database" yaml:"sequences_missing_in_target_database"`
	ViewsMissingInSource             []string `json:"views_missing_in_source_database" yaml:"views_missing_in_source_database"`
	ViewsMissingInTarget             []string `json:"views_missing_in_target_database" yaml:"views_missing_in_target_database"`
	MaterializedViewsMissingInSource []string `json:"materialized_views_missing_in_source_database" yaml:"materialized_views_missing_in_source_database"`
	MaterializedViewsMissingInTarget []string `json:"materialized_views_missing_in_target_database" yaml:"materialized_views_missing_in_target_database"`
}

// Document builds the structured diff document.
func (d *SchemaDiff) Document() Document {
	doc := Document{
		TablesMissingInSource:            orEmpty(d.tablesMissingInSource),
		TablesMissingInTarget:            orEmpty(d.tablesMissingInTarget),
		TablesWithDistinctColumns:        make(map[string]ColumnsEntry),
		TablesWithDistinctConstraints:    make(map[string]ConstraintsEntry),
		TablesWithDistinctIndexes:        make(map[string]IndexesEntry),
		SequencesMissingInSource:         orEmpty(d.sequences.MissingInSource),
		SequencesMissingInTarget:         orEmpty(d.sequences.MissingInTarget),
		ViewsMissingInSource:             orEmpty(d.views.MissingInSource),
		ViewsMissingInTarget:             orEmpty(d.views.MissingInTarget),
		MaterializedViewsMissingInSource: orEmpty(d.materializedViews.MissingInSource),
		MaterializedViewsMissingInTarget: orEmpty(d.materializedViews.MissingInTarget),
	}

	for _, td := range d.TablesWithDistinctColumns() {
		mismatches := make([]TypeMismatchEntry, 0, len(td.Columns.TypeMismatches))
		for _, m := range td.Columns.TypeMismatches {
			mismatches = append(mismatches, TypeMismatchEntry{
				Name:           m.Name,
				SourceDataType: m.SourceType,
				TargetDataType: m.TargetType,
			})
		}
		doc.TablesWithDistinctColumns[td.Name] = ColumnsEntry{
			MissingInSource:   orEmpty(td.Columns.MissingInSource),
			MissingInTarget:   orEmpty(td.Columns.MissingInTarget),
			DistinctDataTypes: mismatches,
		}
	}
	for _, td := range d.TablesWithDistinctConstraints() {
		doc.TablesWithDistinctConstraints[td.Name] = ConstraintsEntry{
			MissingInSource: orEmpty(td.Constraints.MissingInSource),
			MissingInTarget: orEmpty(td.Constraints.MissingInTarget),
		}
	}
	for _, td := range d.TablesWithDistinctIndexes() {
		doc.TablesWithDistinctIndexes[td.Name] = IndexesEntry{
			MissingInSource: orEmpty(td.Indexes.MissingInSource),
			MissingInTarget: orEmpty(td.Indexes.MissingInTarget),
		}
	}
	return doc
}

// WriteDocument serializes the diff document to w as JSON or YAML.
func (d *SchemaDiff) WriteDocument(w io.Writer, format string) error {
	doc := d.Document()

	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode diff as json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(4)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode diff as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode diff as yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported diff format %q", format)
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
