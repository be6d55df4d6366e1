package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"db-diff/internal/report"
	"db-diff/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableResult() *validation.TableResult {
	return &validation.TableResult{
		Table: "users",
		Results: []validation.ColumnResult{
			{
				Outcome:     validation.Passed,
				Description: "users.id - NumericValidator",
				Source:      validation.ValidationQuery{Statement: "SELECT MIN(id) FROM s.users", ResultSet: "1"},
				Target:      validation.ValidationQuery{Statement: "SELECT MIN(id) FROM t.users", ResultSet: "1"},
			},
			{
				Outcome:     validation.Failed,
				Description: "users - RecordValidator",
				Source:      validation.ValidationQuery{Statement: "SELECT id FROM s.users", ResultSet: "(1)\n\n"},
				Target:      validation.ExecutionFailed("boom").Rendered(),
			},
		},
	}
}

func TestReport_ValidationDetails(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	require.NoError(t, r.AddValidationDetails(tableResult()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, strings.Repeat("=", 90)+"\n= Table:  users\n= Status: FAILED (1 of 2 validations failed)\n"))
	assert.Contains(t, out, strings.Repeat("-", 80)+"\n- users.id - NumericValidator\n"+strings.Repeat("-", 80)+"\nStatus: PASSED\n\n")
	assert.Contains(t, out, "Source DB\nSQL: SELECT MIN(id) FROM s.users\nResult-set:\n1\n\n")
	assert.Contains(t, out, "Target DB\nSQL: No SQL statement executed - see the error details\nResult-set:\nNo result-set - exception has been caught\nboom\n\n")

	assert.Equal(t, validation.Statistics{Tables: 1, FailedTables: 1, Validations: 2, FailedValidations: 1}, r.Statistics())
}

func TestReport_MissingTable(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	require.NoError(t, r.AddMissingTable("orders"))

	banner := strings.Repeat("=", 90)
	assert.Equal(t, banner+"\n= Table:  orders\n= Status: ERROR (table missing in the target database)\n"+banner+"\n\n", buf.String())

	stats := r.Statistics()
	assert.Equal(t, 1, stats.Tables)
	assert.Equal(t, 1, stats.FailedTables)
	assert.Zero(t, stats.Validations)
}

func TestReport_CreateFlushesPerTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	r, err := report.Create(path)
	require.NoError(t, err)

	require.NoError(t, r.AddMissingTable("orders"))

	// Readable before Close.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "= Table:  orders")

	require.NoError(t, r.AddValidationDetails(tableResult()))
	require.NoError(t, r.Close())

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "= Table:  users")
	assert.Equal(t, validation.Statistics{Tables: 2, FailedTables: 2, Validations: 2, FailedValidations: 1}, r.Statistics())
}

func TestReport_CreateInvalidPath(t *testing.T) {
	_, err := report.Create(filepath.Join(t.TempDir(), "missing", "trace.txt"))
	assert.Error(t, err)
}
