// Package postgres implements the dialect generator for PostgreSQL.
package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// undefined_table per the PostgreSQL error-code catalog.
const codeUndefinedTable = "42P01"

// Generator implements dialect.Generator for PostgreSQL.
type Generator struct{}

// New returns a PostgreSQL generator.
func New() *Generator { return &Generator{} }

func (g *Generator) Name() string       { return "postgres" }
func (g *Generator) DriverName() string { return "postgres" }

func (g *Generator) BuildDSN(cfg *dialect.ConnConfig) (string, error) {
	port := cfg.Port
	if port <= 0 {
		port = 5432
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("user=%s", cfg.Username),
		fmt.Sprintf("password=%s", cfg.Password),
		fmt.Sprintf("dbname=%s", cfg.Database),
		fmt.Sprintf("sslmode=%s", sslMode),
	}

	if cfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", int(cfg.ConnectTimeout.Seconds())))
	}
	for k, v := range cfg.Params {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}

	return strings.Join(parts, " "), nil
}

func (g *Generator) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (g *Generator) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (g *Generator) CreateSchemaQuery(schema string) domain.Query {
	return domain.Query{SQL: "CREATE SCHEMA IF NOT EXISTS " + g.QuoteIdentifier(schema)}
}

func (g *Generator) DropSchemaQuery(schema string) domain.Query {
	return domain.Query{SQL: "DROP SCHEMA IF EXISTS " + g.QuoteIdentifier(schema) + " CASCADE"}
}

func (g *Generator) ListSchemasQuery(skip []string) domain.Query {
	sql := `SELECT schema_name FROM information_schema.schemata WHERE schema_name !~ E'^pg_' AND schema_name NOT IN ('information_schema')`
	var bind []interface{}
	for i, name := range skip {
		sql += " AND schema_name != " + g.Placeholder(i+1)
		bind = append(bind, name)
	}
	return domain.Query{SQL: sql, Bind: bind}
}

func (g *Generator) ShowTablesQuery(schema string) domain.Query {
	if schema == "" {
		schema = "public"
	}
	return domain.Query{
		SQL:  "SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE'",
		Bind: []interface{}{schema},
	}
}

func (g *Generator) DescribeTableQuery(ref domain.TableReference) domain.Query {
	schema := ref.Schema
	if schema == "" {
		schema = "public"
	}
	return domain.Query{
		SQL: `SELECT column_name AS "Field", data_type AS "Type", is_nullable AS "Null", column_default AS "Default"
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`,
		Bind: []interface{}{schema, ref.Table},
	}
}

// ToggleForeignKeyChecksQuery switches the session replication role, the
// closest session-scoped equivalent PostgreSQL offers to disabling
// foreign-key enforcement.
func (g *Generator) ToggleForeignKeyChecksQuery(enable bool) domain.Query {
	if enable {
		return domain.Query{SQL: "SET session_replication_role = 'origin'"}
	}
	return domain.Query{SQL: "SET session_replication_role = 'replica'"}
}

func (g *Generator) ExtractTableDetails(nameOrModel interface{}, schema, delimiter string) (domain.TableReference, error) {
	return dialect.ExtractTableDetails(nameOrModel, schema, delimiter)
}

func (g *Generator) IsNoSuchTableError(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code) == codeUndefinedTable
	}
	return false
}

func (g *Generator) ErrorCode(err error) string {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	return ""
}
