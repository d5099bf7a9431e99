package mysql

import (
	"errors"
	"strings"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

func TestBuildDSN(t *testing.T) {
	g := New()
	dsn, err := g.BuildDSN(&dialect.ConnConfig{
		Host:     "db.internal",
		Port:     3307,
		Username: "app",
		Password: "secret",
		Database: "main",
	})
	if err != nil {
		t.Fatalf("BuildDSN: %v", err)
	}

	for _, want := range []string{"app:secret@", "tcp(db.internal:3307)", "/main", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestBuildDSNDefaultPort(t *testing.T) {
	g := New()
	dsn, err := g.BuildDSN(&dialect.ConnConfig{Host: "localhost", Database: "d"})
	if err != nil {
		t.Fatalf("BuildDSN: %v", err)
	}
	if !strings.Contains(dsn, "localhost:3306") {
		t.Errorf("dsn %q missing default port", dsn)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	g := New()
	tests := []struct{ in, want string }{
		{"users", "`users`"},
		{"weird`name", "`weird``name`"},
	}
	for _, tt := range tests {
		if got := g.QuoteIdentifier(tt.in); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSchemaQueries(t *testing.T) {
	g := New()

	if got := g.CreateSchemaQuery("app").SQL; got != "CREATE SCHEMA IF NOT EXISTS `app`" {
		t.Errorf("CreateSchemaQuery = %q", got)
	}
	if got := g.DropSchemaQuery("app").SQL; got != "DROP SCHEMA IF EXISTS `app`" {
		t.Errorf("DropSchemaQuery = %q", got)
	}
}

func TestListSchemasQuerySkipsSystemAndExtra(t *testing.T) {
	g := New()
	q := g.ListSchemasQuery([]string{"tmp"})

	if !strings.Contains(q.SQL, "INFORMATION_SCHEMA.SCHEMATA") {
		t.Errorf("unexpected SQL: %q", q.SQL)
	}
	// Four system schemas plus the caller's skip list, all bound.
	if len(q.Bind) != 5 {
		t.Fatalf("bind len = %d, want 5", len(q.Bind))
	}
	if q.Bind[4] != "tmp" {
		t.Errorf("last bind = %v, want tmp", q.Bind[4])
	}
	if got := strings.Count(q.SQL, "?"); got != 5 {
		t.Errorf("placeholder count = %d, want 5", got)
	}
}

func TestDescribeTableQuery(t *testing.T) {
	g := New()
	tests := []struct {
		ref  domain.TableReference
		want string
	}{
		{domain.TableReference{Table: "users"}, "SHOW FULL COLUMNS FROM `users`"},
		{domain.TableReference{Table: "users", Schema: "app"}, "SHOW FULL COLUMNS FROM `app`.`users`"},
	}
	for _, tt := range tests {
		if got := g.DescribeTableQuery(tt.ref).SQL; got != tt.want {
			t.Errorf("DescribeTableQuery(%+v) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestToggleForeignKeyChecksQuery(t *testing.T) {
	g := New()
	if got := g.ToggleForeignKeyChecksQuery(false).SQL; got != "SET FOREIGN_KEY_CHECKS=0" {
		t.Errorf("disable = %q", got)
	}
	if got := g.ToggleForeignKeyChecksQuery(true).SQL; got != "SET FOREIGN_KEY_CHECKS=1" {
		t.Errorf("enable = %q", got)
	}
}

func TestIsNoSuchTableError(t *testing.T) {
	g := New()
	tests := []struct {
		err  error
		want bool
	}{
		{&mysqldriver.MySQLError{Number: 1146, Message: "Table 'app.users' doesn't exist"}, true},
		{&mysqldriver.MySQLError{Number: 1051, Message: "Unknown table 'users'"}, true},
		{&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{errors.New("no such table"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := g.IsNoSuchTableError(tt.err); got != tt.want {
			t.Errorf("IsNoSuchTableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCode(t *testing.T) {
	g := New()
	if got := g.ErrorCode(&mysqldriver.MySQLError{Number: 1213}); got != "1213" {
		t.Errorf("ErrorCode = %q, want 1213", got)
	}
	if got := g.ErrorCode(errors.New("plain")); got != "" {
		t.Errorf("ErrorCode(plain) = %q, want empty", got)
	}
}
