package validation

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05.999999999"

// scanRows reads every row of rows as a slice of raw driver values.
func scanRows(rows *sql.Rows) ([][]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch column metadata: %w", err)
	}

	var result [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// renderRows turns a result-set into the text compared between stores.
//
// No rows render as N/A and a single value renders bare. Anything else
// renders one "(a, b)" line per row followed by an empty line.
func renderRows(rows [][]any) string {
	if len(rows) == 0 {
		return NotAvailable
	}
	if len(rows) == 1 && len(rows[0]) == 1 {
		return renderValue(rows[0][0])
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteByte('(')
		for i, v := range row {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(renderValue(v))
		}
		sb.WriteString(")\n")
	}
	sb.WriteByte('\n')
	return sb.String()
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format(timeLayout)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
