// Package report writes the data-validation trace file and keeps the run
// statistics.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"db-diff/internal/validation"
)

var (
	tableBanner     = strings.Repeat("=", 90)
	validatorBanner = strings.Repeat("-", 80)
)

// Report is a validation.Sink that writes a human readable trace. The
// trace is flushed after every table so it stays readable if the run
// aborts.
type Report struct {
	w      *bufio.Writer
	closer io.Closer
	stats  validation.Statistics
}

var _ validation.Sink = (*Report)(nil)

// Create opens (truncating) the trace file at path.
func Create(path string) (*Report, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report %s: %w", path, err)
	}
	r := New(f)
	r.closer = f
	return r, nil
}

// New writes the trace to w. Close does not close w.
func New(w io.Writer) *Report {
	return &Report{w: bufio.NewWriter(w)}
}

func (r *Report) AddMissingTable(table string) error {
	r.stats.AddMissingTable()

	fmt.Fprintln(r.w, tableBanner)
	fmt.Fprintf(r.w, "= Table:  %s\n", table)
	fmt.Fprintln(r.w, "= Status: ERROR (table missing in the target database)")
	fmt.Fprintln(r.w, tableBanner)
	fmt.Fprintln(r.w)
	return r.w.Flush()
}

func (r *Report) AddValidationDetails(result *validation.TableResult) error {
	r.stats.AddTableResult(result)

	fmt.Fprintln(r.w, tableBanner)
	fmt.Fprintf(r.w, "= Table:  %s\n", result.Table)
	fmt.Fprintf(r.w, "= Status: %s (%d of %d validations failed)\n", result.Outcome(), result.FailedCount(), result.Count())
	fmt.Fprintln(r.w, tableBanner)
	fmt.Fprintln(r.w)

	for _, c := range result.Results {
		fmt.Fprintln(r.w, validatorBanner)
		fmt.Fprintf(r.w, "- %s\n", c.Description)
		fmt.Fprintln(r.w, validatorBanner)
		fmt.Fprintf(r.w, "Status: %s\n\n", c.Outcome)
		writeQuery(r.w, "Source DB", c.Source)
		writeQuery(r.w, "Target DB", c.Target)
	}
	return r.w.Flush()
}

func writeQuery(w io.Writer, title string, q validation.ValidationQuery) {
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "SQL: %s\n", q.Statement)
	fmt.Fprintln(w, "Result-set:")
	fmt.Fprint(w, q.ResultSet)
	fmt.Fprint(w, "\n\n")
}

// Statistics returns a snapshot of the counts gathered so far.
func (r *Report) Statistics() validation.Statistics {
	return r.stats
}

func (r *Report) Close() error {
	if err := r.w.Flush(); err != nil {
		return err
	}
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
