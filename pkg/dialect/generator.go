// Package dialect defines the SQL-generation contract each backend dialect
// implements, plus helpers shared between dialects.
package dialect

import (
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// ConnConfig carries everything a dialect needs to build a DSN.
type ConnConfig struct {
	Host           string            `json:"host"`
	Port           int               `json:"port"`
	Username       string            `json:"username"`
	Password       string            `json:"password"`
	Database       string            `json:"database"`
	SSLMode        string            `json:"ssl_mode"`
	Charset        string            `json:"charset"`
	Collation      string            `json:"collation"`
	ConnectTimeout time.Duration     `json:"connect_timeout"`
	Params         map[string]string `json:"params"`
}

// Generator translates structured intents into dialect-specific SQL plus bind
// parameters. Implementations are pure; they never touch a connection.
type Generator interface {
	// Name returns the dialect name ("mysql", "postgres", "sqlite").
	Name() string

	// DriverName returns the database/sql driver name to open pools with.
	DriverName() string

	// BuildDSN constructs the driver-specific connection string.
	BuildDSN(cfg *ConnConfig) (string, error)

	// QuoteIdentifier wraps a table/column name in dialect-specific quoting.
	QuoteIdentifier(name string) string

	// Placeholder returns the bind placeholder for the n-th parameter (1-based).
	Placeholder(n int) string

	// CreateSchemaQuery returns SQL creating the named schema. An empty SQL
	// means the dialect emulates schemas and creation is a no-op.
	CreateSchemaQuery(schema string) domain.Query

	// DropSchemaQuery returns SQL dropping the named schema, optionally with
	// bind parameters.
	DropSchemaQuery(schema string) domain.Query

	// ListSchemasQuery returns SQL listing user schemas, excluding skip.
	ListSchemasQuery(skip []string) domain.Query

	// ShowTablesQuery returns SQL listing user tables in the given schema
	// (current schema when empty).
	ShowTablesQuery(schema string) domain.Query

	// DescribeTableQuery returns SQL describing the referenced table's columns.
	DescribeTableQuery(ref domain.TableReference) domain.Query

	// ToggleForeignKeyChecksQuery returns SQL enabling or disabling
	// foreign-key checks on the executing connection.
	ToggleForeignKeyChecksQuery(enable bool) domain.Query

	// ExtractTableDetails resolves a caller-supplied table name, reference or
	// model value into a table reference.
	ExtractTableDetails(nameOrModel interface{}, schema, delimiter string) (domain.TableReference, error)

	// IsNoSuchTableError reports whether the backend error means the table
	// does not exist.
	IsNoSuchTableError(err error) bool

	// ErrorCode extracts the backend error code, or "" when none applies.
	ErrorCode(err error) string
}
