package dialect

import (
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/model"
)

// ExtractTableDetails resolves a table name string, an explicit reference or
// a model struct into a table reference. schema and delimiter act as defaults
// when the value does not carry its own. Dialects without special naming
// rules delegate here.
func ExtractTableDetails(nameOrModel interface{}, schema, delimiter string) (domain.TableReference, error) {
	switch v := nameOrModel.(type) {
	case nil:
		return domain.TableReference{}, domain.NewErrInvalidOptions("table", "nil table reference")

	case domain.TableReference:
		return withDefaults(v, schema, delimiter), nil

	case *domain.TableReference:
		if v == nil {
			return domain.TableReference{}, domain.NewErrInvalidOptions("table", "nil table reference")
		}
		return withDefaults(*v, schema, delimiter), nil

	case string:
		if v == "" {
			return domain.TableReference{}, domain.NewErrInvalidOptions("table", "empty table name")
		}
		ref := domain.TableReference{Table: v, Schema: schema, Delimiter: delimiter}
		// "schema.table" strings carry their own schema.
		if i := strings.Index(v, "."); i > 0 && i < len(v)-1 {
			ref.Schema = v[:i]
			ref.Table = v[i+1:]
		}
		return ref, nil

	default:
		table, err := model.TableName(nameOrModel)
		if err != nil {
			return domain.TableReference{}, err
		}
		return domain.TableReference{Table: table, Schema: schema, Delimiter: delimiter}, nil
	}
}

func withDefaults(ref domain.TableReference, schema, delimiter string) domain.TableReference {
	if ref.Schema == "" {
		ref.Schema = schema
	}
	if ref.Delimiter == "" {
		ref.Delimiter = delimiter
	}
	return ref
}
