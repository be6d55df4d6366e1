// Package validation compares the data of two stores table by table. Each
// Validator renders one query per store, runs both through an Executor and
// compares the rendered result-sets verbatim.
package validation

import (
	"context"
	"fmt"
	"strings"

	"db-diff/internal/dialect"
	"db-diff/internal/schema"
)

// SamplingLimit caps the rows fetched by the sampling validators.
const SamplingLimit = 50

type Kind int

const (
	Numeric Kind = iota + 1
	VarcharLength
	VarcharValue
	Boolean
	DateTime
	NullCount
	Record
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "NumericValidator"
	case VarcharLength:
		return "VarcharLengthValidator"
	case VarcharValue:
		return "VarcharValueValidator"
	case Boolean:
		return "BooleanValidator"
	case DateTime:
		return "DateTimeValidator"
	case NullCount:
		return "NullValueCountValidator"
	case Record:
		return "RecordValidator"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NullCheck selects the predicate of a NullCount validator.
type NullCheck int

const (
	IsNull NullCheck = iota + 1
	IsNotNull
)

func (c NullCheck) String() string {
	if c == IsNull {
		return "IS_NULL"
	}
	return "IS_NOT_NULL"
}

func (c NullCheck) predicate() string {
	if c == IsNull {
		return "IS NULL"
	}
	return "IS NOT NULL"
}

// Validator is one check of a table or of one of its columns. Column is nil
// for Record validators; NullCheck is only set for NullCount validators.
type Validator struct {
	Kind      Kind
	Table     *schema.Table
	Column    *schema.Column
	NullCheck NullCheck
}

func (v Validator) Description() string {
	if v.Column == nil {
		return fmt.Sprintf("%s - %s", v.Table.Name, v.Kind)
	}
	desc := fmt.Sprintf("%s.%s - %s", v.Table.Name, v.Column.Name, v.Kind)
	if v.Kind == NullCount {
		desc += " (" + v.NullCheck.String() + ")"
	}
	return desc
}

// Statement renders the query for a store using dialect d, with the table
// qualified as table. It panics when a DateTime validator is attached to a
// non-temporal column or a Record validator to a table without primary key.
func (v Validator) Statement(d dialect.Dialect, table string) string {
	switch v.Kind {
	case Numeric:
		c := v.Column.Name
		return fmt.Sprintf("SELECT MIN(%s), MAX(%s), AVG(%s), SUM(%s) FROM %s", c, c, c, c, table)

	case VarcharLength:
		length := d.LengthExpr(v.Column.Name)
		return fmt.Sprintf("SELECT %s, COUNT(%s) FROM %s GROUP BY %s ORDER BY %s ASC", length, length, table, length, length)

	case VarcharValue:
		hash := d.HashExpr(v.Column.Name)
		return d.GetLimitRowQuery(fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s ASC",
			hash, table, v.Column.Name, hash), SamplingLimit)

	case DateTime:
		formatted := d.FormatExpr(v.Column.Name, patternOf(v.Column))
		return d.GetLimitRowQuery(fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s ASC",
			formatted, table, v.Column.Name, formatted), SamplingLimit)

	case Boolean:
		c := v.Column.Name
		return fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s ORDER BY %s ASC", c, table, c, c)

	case NullCount:
		return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s %s", table, v.Column.Name, v.NullCheck.predicate())

	case Record:
		if !v.Table.HasPrimaryKey() {
			panic(fmt.Sprintf("validation: table %s has no primary key", v.Table.Name))
		}
		columns := make([]string, 0, len(v.Table.Columns))
		for _, c := range v.Table.Columns {
			if c.LargeObject {
				columns = append(columns, d.LargeObjectHashExpr(c.Name))
			} else {
				columns = append(columns, c.Name)
			}
		}
		order := make([]string, 0, len(v.Table.PrimaryKey))
		for _, pk := range v.Table.PrimaryKey {
			order = append(order, pk+" ASC")
		}
		return d.GetLimitRowQuery(fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
			strings.Join(columns, ", "), table, strings.Join(order, ", ")), SamplingLimit)
	}
	panic(fmt.Sprintf("validation: unknown validator kind %d", int(v.Kind)))
}

func patternOf(c *schema.Column) dialect.Pattern {
	switch c.Category {
	case schema.Date:
		return dialect.DatePattern
	case schema.Time:
		return dialect.TimePattern
	case schema.Timestamp:
		return dialect.TimestampPattern
	}
	panic(fmt.Sprintf("validation: column %s has non-temporal category %s", c.Name, c.Category))
}

// Validate runs the validator against both stores and compares the results.
// Statements are rendered in the calling goroutine before anything is
// submitted to exec. Query errors are reported in the result, never returned.
func (v Validator) Validate(ctx context.Context, source, target *Store, exec Executor) ColumnResult {
	if v.Kind == Record && !v.Table.HasPrimaryKey() {
		skipped := Ok(ValidationQuery{Statement: NotAvailable, ResultSet: NotAvailable})
		return compare(v.Description(), skipped, skipped)
	}

	sourceStatement := v.Statement(source.Dialect, source.Qualify(v.Table.Name))
	targetStatement := v.Statement(target.Dialect, target.Qualify(v.Table.Name))

	var sourceResult, targetResult SideResult
	err := exec.Run(ctx,
		func(ctx context.Context) error {
			sourceResult = source.query(ctx, sourceStatement)
			return nil
		},
		func(ctx context.Context) error {
			targetResult = target.query(ctx, targetStatement)
			return nil
		},
	)
	if err != nil {
		// The executor gave up before running every task.
		if sourceResult == (SideResult{}) {
			sourceResult = ExecutionFailed(err.Error())
		}
		if targetResult == (SideResult{}) {
			targetResult = ExecutionFailed(err.Error())
		}
	}
	return compare(v.Description(), sourceResult, targetResult)
}
