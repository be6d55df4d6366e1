package validation

import "fmt"

type Outcome string

const (
	Passed Outcome = "PASSED"
	Failed Outcome = "FAILED"
)

// NotAvailable is rendered for empty result-sets and skipped validations.
const NotAvailable = "N/A"

const (
	noStatement = "No SQL statement executed - see the error details"
	noResultSet = "No result-set - exception has been caught"
)

// ValidationQuery is what was run against one store and what came back.
type ValidationQuery struct {
	Statement string
	ResultSet string
}

// SideResult is the outcome of one side of a validation: either a rendered
// query or the message of the error that prevented it.
type SideResult struct {
	Query  ValidationQuery
	Err    string
	failed bool
}

func Ok(q ValidationQuery) SideResult {
	return SideResult{Query: q}
}

// ExecutionFailed marks the side as failed even when msg is empty.
func ExecutionFailed(msg string) SideResult {
	return SideResult{Err: msg, failed: true}
}

func (r SideResult) Failed() bool {
	return r.failed
}

// Rendered returns the query to show in the trace. A failed side renders a
// placeholder statement and the error message as its result-set.
func (r SideResult) Rendered() ValidationQuery {
	if r.Failed() {
		return ValidationQuery{
			Statement: noStatement,
			ResultSet: noResultSet + "\n" + r.Err,
		}
	}
	return r.Query
}

// ColumnResult is the outcome of a single validator.
type ColumnResult struct {
	Outcome     Outcome
	Description string
	Source      ValidationQuery
	Target      ValidationQuery
}

// compare builds a ColumnResult from both sides. Any failed side fails the
// validation, even when both sides failed with the same message.
func compare(description string, source, target SideResult) ColumnResult {
	outcome := Passed
	if source.Failed() || target.Failed() || source.Query.ResultSet != target.Query.ResultSet {
		outcome = Failed
	}
	return ColumnResult{
		Outcome:     outcome,
		Description: description,
		Source:      source.Rendered(),
		Target:      target.Rendered(),
	}
}

// TableResult groups the validator results of one table in execution order.
type TableResult struct {
	Table   string
	Results []ColumnResult
}

func (t *TableResult) Outcome() Outcome {
	if t.FailedCount() > 0 {
		return Failed
	}
	return Passed
}

func (t *TableResult) Count() int {
	return len(t.Results)
}

func (t *TableResult) FailedCount() int {
	n := 0
	for _, r := range t.Results {
		if r.Outcome == Failed {
			n++
		}
	}
	return n
}

// Statistics aggregates a whole validation run.
type Statistics struct {
	Tables            int
	FailedTables      int
	Validations       int
	FailedValidations int
}

func (s Statistics) SuccessfulTables() int {
	return s.Tables - s.FailedTables
}

func (s Statistics) SuccessfulValidations() int {
	return s.Validations - s.FailedValidations
}

// AddMissingTable counts a table absent from the target as a failed table.
func (s *Statistics) AddMissingTable() {
	s.Tables++
	s.FailedTables++
}

func (s *Statistics) AddTableResult(r *TableResult) {
	s.Tables++
	if r.Outcome() == Failed {
		s.FailedTables++
	}
	s.Validations += r.Count()
	s.FailedValidations += r.FailedCount()
}

func (s Statistics) String() string {
	return fmt.Sprintf("tables: %d (%d failed), validations: %d (%d failed)",
		s.Tables, s.FailedTables, s.Validations, s.FailedValidations)
}
