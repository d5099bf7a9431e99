// Package sqlite implements the dialect generator for SQLite. Schemas map to
// attached databases; plain CREATE/DROP SCHEMA has no backend statement, so
// those intents generate empty SQL and execute as no-ops.
package sqlite

import (
	"errors"
	"strconv"
	"strings"

	sqlitedriver "modernc.org/sqlite"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Generator implements dialect.Generator for SQLite.
type Generator struct{}

// New returns a SQLite generator.
func New() *Generator { return &Generator{} }

func (g *Generator) Name() string       { return "sqlite" }
func (g *Generator) DriverName() string { return "sqlite" }

func (g *Generator) BuildDSN(cfg *dialect.ConnConfig) (string, error) {
	if cfg.Database == "" {
		return ":memory:", nil
	}

	dsn := cfg.Database
	var opts []string
	for k, v := range cfg.Params {
		opts = append(opts, k+"="+v)
	}
	if len(opts) > 0 {
		dsn += "?" + strings.Join(opts, "&")
	}
	return dsn, nil
}

func (g *Generator) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (g *Generator) Placeholder(n int) string { return "?" }

func (g *Generator) CreateSchemaQuery(schema string) domain.Query {
	return domain.Query{}
}

func (g *Generator) DropSchemaQuery(schema string) domain.Query {
	return domain.Query{}
}

func (g *Generator) ListSchemasQuery(skip []string) domain.Query {
	sql := "SELECT name FROM pragma_database_list WHERE name != 'temp'"
	var bind []interface{}
	for range skip {
		sql += " AND name != ?"
	}
	for _, name := range skip {
		bind = append(bind, name)
	}
	return domain.Query{SQL: sql, Bind: bind}
}

func (g *Generator) ShowTablesQuery(schema string) domain.Query {
	master := "sqlite_master"
	if schema != "" {
		master = g.QuoteIdentifier(schema) + ".sqlite_master"
	}
	return domain.Query{
		SQL: "SELECT name FROM " + master + " WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	}
}

func (g *Generator) DescribeTableQuery(ref domain.TableReference) domain.Query {
	if ref.Schema == "" {
		return domain.Query{SQL: "PRAGMA table_info(" + g.QuoteIdentifier(ref.Table) + ")"}
	}
	// A custom delimiter means the schema is emulated by prefixing the table
	// name; the prefixed name is one identifier.
	if d := ref.Delimiter; d != "" && d != "." {
		return domain.Query{SQL: "PRAGMA table_info(" + g.QuoteIdentifier(ref.Schema+d+ref.Table) + ")"}
	}
	// Real schema qualification goes on the pragma, not the argument:
	// quoting "schema.table" as one identifier would name a different table.
	return domain.Query{SQL: "PRAGMA " + g.QuoteIdentifier(ref.Schema) + ".table_info(" + g.QuoteIdentifier(ref.Table) + ")"}
}

func (g *Generator) ToggleForeignKeyChecksQuery(enable bool) domain.Query {
	if enable {
		return domain.Query{SQL: "PRAGMA foreign_keys = ON"}
	}
	return domain.Query{SQL: "PRAGMA foreign_keys = OFF"}
}

func (g *Generator) ExtractTableDetails(nameOrModel interface{}, schema, delimiter string) (domain.TableReference, error) {
	return dialect.ExtractTableDetails(nameOrModel, schema, delimiter)
}

func (g *Generator) IsNoSuchTableError(err error) bool {
	var se *sqlitedriver.Error
	if errors.As(err, &se) {
		return strings.Contains(se.Error(), "no such table")
	}
	// PRAGMA table_info surfaces a plain error on some paths.
	return err != nil && strings.Contains(err.Error(), "no such table")
}

func (g *Generator) ErrorCode(err error) string {
	var se *sqlitedriver.Error
	if errors.As(err, &se) {
		return strconv.Itoa(se.Code())
	}
	return ""
}
