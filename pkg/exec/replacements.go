package exec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// applyReplacements substitutes replacement values into the SQL text before
// it reaches the driver: positional values for "?" placeholders, named values
// for ":name" placeholders. String literals in the statement are left alone.
func applyReplacements(sqlText string, opts *domain.ExecOptions) (string, error) {
	if len(opts.Replacements) == 0 && len(opts.NamedReplacements) == 0 {
		return sqlText, nil
	}
	if len(opts.Replacements) > 0 && len(opts.NamedReplacements) > 0 {
		return "", domain.NewErrInvalidOptions("replacements", "positional and named replacements are mutually exclusive")
	}

	var sb strings.Builder
	sb.Grow(len(sqlText))

	pos := 0
	for i := 0; i < len(sqlText); {
		c := sqlText[i]

		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipLiteral(sqlText, i, c)
			sb.WriteString(sqlText[i:end])
			i = end

		case c == '?' && len(opts.Replacements) > 0:
			if pos >= len(opts.Replacements) {
				return "", domain.NewErrInvalidOptions("replacements", "not enough positional replacement values")
			}
			sb.WriteString(escapeValue(opts.Replacements[pos]))
			pos++
			i++

		case c == ':' && len(opts.NamedReplacements) > 0 && i+1 < len(sqlText) && isIdentByte(sqlText[i+1]):
			j := i + 1
			for j < len(sqlText) && isIdentByte(sqlText[j]) {
				j++
			}
			name := sqlText[i+1 : j]
			val, ok := opts.NamedReplacements[name]
			if !ok {
				return "", domain.NewErrInvalidOptions("replacements", "no value for named replacement :"+name)
			}
			sb.WriteString(escapeValue(val))
			i = j

		default:
			sb.WriteByte(c)
			i++
		}
	}

	if len(opts.Replacements) > 0 && pos < len(opts.Replacements) {
		return "", domain.NewErrInvalidOptions("replacements", "unused positional replacement values")
	}

	return sb.String(), nil
}

// skipLiteral returns the index just past a quoted literal starting at i,
// honoring doubled-quote escapes.
func skipLiteral(s string, i int, quote byte) int {
	j := i + 1
	for j < len(s) {
		if s[j] == quote {
			if j+1 < len(s) && s[j+1] == quote {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return j
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// escapeValue renders a replacement value as a SQL literal.
func escapeValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return "'" + val.UTC().Format("2006-01-02 15:04:05") + "'"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", val), "'", "''") + "'"
	}
}
