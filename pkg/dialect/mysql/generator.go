// Package mysql implements the dialect generator for MySQL and MariaDB.
package mysql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// MySQL "no such table" error numbers.
const (
	errNoSuchTable = 1146
	errBadTable    = 1051
)

// Generator implements dialect.Generator for MySQL.
type Generator struct{}

// New returns a MySQL generator.
func New() *Generator { return &Generator{} }

func (g *Generator) Name() string       { return "mysql" }
func (g *Generator) DriverName() string { return "mysql" }

func (g *Generator) BuildDSN(cfg *dialect.ConnConfig) (string, error) {
	port := cfg.Port
	if port <= 0 {
		port = 3306
	}

	dc := mysqldriver.NewConfig()
	dc.User = cfg.Username
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	dc.DBName = cfg.Database
	dc.AllowNativePasswords = true
	dc.ParseTime = true
	if cfg.Collation != "" {
		dc.Collation = cfg.Collation
	}
	if cfg.Charset != "" {
		dc.Params = map[string]string{"charset": cfg.Charset}
	}
	if cfg.ConnectTimeout > 0 {
		dc.Timeout = cfg.ConnectTimeout
	}

	switch strings.ToLower(cfg.SSLMode) {
	case "true", "required", "require":
		dc.TLSConfig = "true"
	case "skip-verify", "preferred":
		dc.TLSConfig = "skip-verify"
	case "false", "disable", "":
		dc.TLSConfig = "false"
	default:
		dc.TLSConfig = cfg.SSLMode
	}

	return dc.FormatDSN(), nil
}

func (g *Generator) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (g *Generator) Placeholder(n int) string { return "?" }

func (g *Generator) CreateSchemaQuery(schema string) domain.Query {
	return domain.Query{SQL: "CREATE SCHEMA IF NOT EXISTS " + g.QuoteIdentifier(schema)}
}

func (g *Generator) DropSchemaQuery(schema string) domain.Query {
	return domain.Query{SQL: "DROP SCHEMA IF EXISTS " + g.QuoteIdentifier(schema)}
}

func (g *Generator) ListSchemasQuery(skip []string) domain.Query {
	system := []string{"mysql", "information_schema", "performance_schema", "sys"}
	names := append(system, skip...)

	placeholders := make([]string, len(names))
	bind := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		bind[i] = name
	}

	return domain.Query{
		SQL: "SELECT SCHEMA_NAME AS schema_name FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME NOT IN (" +
			strings.Join(placeholders, ", ") + ")",
		Bind: bind,
	}
}

func (g *Generator) ShowTablesQuery(schema string) domain.Query {
	if schema == "" {
		return domain.Query{
			SQL: "SELECT TABLE_NAME AS table_name FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'",
		}
	}
	return domain.Query{
		SQL:  "SELECT TABLE_NAME AS table_name FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'",
		Bind: []interface{}{schema},
	}
}

func (g *Generator) DescribeTableQuery(ref domain.TableReference) domain.Query {
	if ref.Schema == "" {
		return domain.Query{
			SQL: "SHOW FULL COLUMNS FROM " + g.QuoteIdentifier(ref.Table),
		}
	}
	return domain.Query{
		SQL: "SHOW FULL COLUMNS FROM " + g.QuoteIdentifier(ref.Schema) + "." + g.QuoteIdentifier(ref.Table),
	}
}

func (g *Generator) ToggleForeignKeyChecksQuery(enable bool) domain.Query {
	if enable {
		return domain.Query{SQL: "SET FOREIGN_KEY_CHECKS=1"}
	}
	return domain.Query{SQL: "SET FOREIGN_KEY_CHECKS=0"}
}

func (g *Generator) ExtractTableDetails(nameOrModel interface{}, schema, delimiter string) (domain.TableReference, error) {
	return dialect.ExtractTableDetails(nameOrModel, schema, delimiter)
}

func (g *Generator) IsNoSuchTableError(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return me.Number == errNoSuchTable || me.Number == errBadTable
	}
	return false
}

func (g *Generator) ErrorCode(err error) string {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return strconv.Itoa(int(me.Number))
	}
	return ""
}
