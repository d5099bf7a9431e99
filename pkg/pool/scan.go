package pool

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// scanRows reads all rows into domain rows plus the column name list.
func scanRows(rows *sql.Rows) ([]domain.Row, []string, error) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("get columns: %w", err)
	}

	var result []domain.Row
	for rows.Next() {
		row, err := scanRow(rows, colNames)
		if err != nil {
			return nil, nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, colNames, nil
}

func scanRow(rows *sql.Rows, colNames []string) (domain.Row, error) {
	values := make([]interface{}, len(colNames))
	scanTargets := make([]interface{}, len(colNames))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	if err := rows.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(domain.Row, len(colNames))
	for i, name := range colNames {
		row[name] = normalizeValue(values[i])
	}

	return row, nil
}

// normalizeValue converts database/sql scanned values to standard Go types.
func normalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val
	case int64, float64, bool, string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
