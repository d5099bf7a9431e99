package normalize

import (
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// expandDotted turns dotted key paths in a row into nested maps, so
// {"user.name": "a", "id": 1} becomes {"user": {"name": "a"}, "id": 1}.
func expandDotted(row domain.Row) domain.Row {
	out := make(domain.Row, len(row))
	for key, val := range row {
		if !strings.Contains(key, ".") {
			out[key] = val
			continue
		}

		parts := strings.Split(key, ".")
		cur := out
		for i, part := range parts {
			if i == len(parts)-1 {
				cur[part] = val
				break
			}
			next, ok := cur[part].(domain.Row)
			if !ok {
				next = domain.Row{}
				cur[part] = next
			}
			cur = next
		}
	}
	return out
}

func expandRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		out[i] = expandDotted(row)
	}
	return out
}

// renameColumns applies a field map to every row, leaving unmapped columns
// untouched.
func renameColumns(rows []domain.Row, fieldMap map[string]string) []domain.Row {
	if len(fieldMap) == 0 {
		return rows
	}
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		renamed := make(domain.Row, len(row))
		for col, val := range row {
			if mapped, ok := fieldMap[col]; ok {
				renamed[mapped] = val
			} else {
				renamed[col] = val
			}
		}
		out[i] = renamed
	}
	return out
}
