package validation

import (
	"context"
	"fmt"
	"time"

	"db-diff/internal/schema"
	"db-diff/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Sink receives the outcome of every source table, in order, and owns the
// run statistics.
type Sink interface {
	AddMissingTable(table string) error
	AddValidationDetails(result *TableResult) error
	Statistics() Statistics
}

// Engine validates every table of the source snapshot against the target.
type Engine struct {
	source *Store
	target *Store
	exec   Executor
	sink   Sink
	log    *logger.Logger

	// OnTable, when set, is called after each table has been processed.
	OnTable func(table string)
}

func NewEngine(source, target *Store, exec Executor, sink Sink, log *logger.Logger) *Engine {
	return &Engine{
		source: source,
		target: target,
		exec:   exec,
		sink:   sink,
		log:    log,
	}
}

func (e *Engine) Validators(table *schema.Table) []Validator {
	return Validators(table)
}

// Validators lists the checks for table: per column a type-directed
// validator (if any) followed by the null counts of nullable columns, and a
// single Record validator last.
func Validators(table *schema.Table) []Validator {
	var result []Validator
	for _, c := range table.Columns {
		switch {
		case c.Category == schema.Numeric:
			result = append(result, Validator{Kind: Numeric, Table: table, Column: c})
		case c.Category == schema.String:
			result = append(result,
				Validator{Kind: VarcharLength, Table: table, Column: c},
				Validator{Kind: VarcharValue, Table: table, Column: c},
			)
		case c.Category == schema.Boolean:
			result = append(result, Validator{Kind: Boolean, Table: table, Column: c})
		case c.Category.IsTemporal():
			result = append(result, Validator{Kind: DateTime, Table: table, Column: c})
		}
		if c.Nullable {
			result = append(result,
				Validator{Kind: NullCount, Table: table, Column: c, NullCheck: IsNull},
				Validator{Kind: NullCount, Table: table, Column: c, NullCheck: IsNotNull},
			)
		}
	}
	return append(result, Validator{Kind: Record, Table: table})
}

// Validate processes the source tables one at a time in introspection
// order. Sink errors and context cancellation abort the run; a table
// interrupted by cancellation is not reported. The returned statistics are
// the sink's.
func (e *Engine) Validate(ctx context.Context) (Statistics, error) {
	tables := e.source.Snapshot.Tables
	started := time.Now()

	for i, table := range tables {
		if err := ctx.Err(); err != nil {
			return e.sink.Statistics(), err
		}

		fields := logrus.Fields{
			"table":    table.Name,
			"position": fmt.Sprintf("%d/%d", i+1, len(tables)),
		}

		if !e.target.Snapshot.HasTable(table.Name) {
			if err := e.sink.AddMissingTable(table.Name); err != nil {
				return e.sink.Statistics(), fmt.Errorf("failed to report missing table %s: %w", table.Name, err)
			}
			e.log.WithFields(fields).Warn("Table missing in target database")
			e.tableDone(table.Name)
			continue
		}

		tableStarted := time.Now()
		result := e.validateTable(ctx, table)
		if err := ctx.Err(); err != nil {
			return e.sink.Statistics(), err
		}
		if err := e.sink.AddValidationDetails(result); err != nil {
			return e.sink.Statistics(), fmt.Errorf("failed to report table %s: %w", table.Name, err)
		}

		fields["validations"] = result.Count()
		fields["failed"] = result.FailedCount()
		fields["duration"] = time.Since(tableStarted).Round(time.Millisecond)
		e.log.WithFields(fields).Info("Table compared")
		e.tableDone(table.Name)
	}

	stats := e.sink.Statistics()
	e.log.WithFields(logrus.Fields{
		"tables":             stats.Tables,
		"failed_tables":      stats.FailedTables,
		"validations":        stats.Validations,
		"failed_validations": stats.FailedValidations,
		"duration":           time.Since(started).Round(time.Millisecond),
	}).Info("Data validation completed")
	return stats, nil
}

func (e *Engine) validateTable(ctx context.Context, table *schema.Table) *TableResult {
	validators := Validators(table)
	result := &TableResult{Table: table.Name, Results: make([]ColumnResult, 0, len(validators))}
	for _, v := range validators {
		r := v.Validate(ctx, e.source, e.target, e.exec)
		if r.Outcome == Failed {
			e.log.WithField("validator", r.Description).Debug("Validation failed")
		}
		result.Results = append(result.Results, r)
	}
	return result
}

func (e *Engine) tableDone(table string) {
	if e.OnTable != nil {
		e.OnTable(table)
	}
}
