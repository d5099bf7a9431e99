package domain

import "context"

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// QueryIntent declares the category of a statement. It selects the shape the
// normalizer produces and is never inferred from the raw driver result.
type QueryIntent int

const (
	IntentRaw QueryIntent = iota
	IntentSelect
	IntentInsert
	IntentUpdate
	IntentBulkUpdate
	IntentUpsert
	IntentDelete
	IntentBulkDelete
	IntentDescribe
	IntentShowTables
)

// String returns the uppercase name used in logs and errors.
func (i QueryIntent) String() string {
	switch i {
	case IntentRaw:
		return "RAW"
	case IntentSelect:
		return "SELECT"
	case IntentInsert:
		return "INSERT"
	case IntentUpdate:
		return "UPDATE"
	case IntentBulkUpdate:
		return "BULKUPDATE"
	case IntentUpsert:
		return "UPSERT"
	case IntentDelete:
		return "DELETE"
	case IntentBulkDelete:
		return "BULKDELETE"
	case IntentDescribe:
		return "DESCRIBE"
	case IntentShowTables:
		return "SHOWTABLES"
	default:
		return "RAW"
	}
}

// Query is a generated statement plus its bind parameters. Generators that
// need no binds leave Bind nil; callers treat both forms uniformly.
type Query struct {
	SQL  string
	Bind []interface{}
}

// TableReference identifies a table by name plus optional schema. Once
// resolved the fields are immutable for the duration of one operation.
type TableReference struct {
	Table     string
	Schema    string
	Delimiter string
}

// QualifiedName renders schema-qualified table name using the reference's
// delimiter (defaults to ".").
func (t TableReference) QualifiedName() string {
	if t.Schema == "" {
		return t.Table
	}
	d := t.Delimiter
	if d == "" {
		d = "."
	}
	return t.Schema + d + t.Table
}

// ColumnDescription describes one column of a described table.
type ColumnDescription struct {
	Type          string      `json:"type"`
	AllowNull     bool        `json:"allowNull"`
	DefaultValue  interface{} `json:"defaultValue"`
	PrimaryKey    bool        `json:"primaryKey"`
	AutoIncrement bool        `json:"autoIncrement"`
	Comment       string      `json:"comment,omitempty"`
}

// RawResult is the driver-shape result before normalization. Query-style
// statements fill Rows/Columns; exec-style statements fill InsertID and
// RowsAffected.
type RawResult struct {
	Rows         []Row
	Columns      []string
	InsertID     int64
	RowsAffected int64
}

// Result is the normalized result. Which fields are populated depends on the
// declared intent; Kind records the intent that shaped it.
type Result struct {
	Kind QueryIntent

	// SELECT / RAW
	Rows     []Row
	Metadata *RawResult

	// SELECT with a bound model
	Instances []interface{}

	// Plain mode: the single row, instance, or nil
	Value interface{}

	// INSERT / UPDATE family
	InsertID     int64
	RowsAffected int64

	// SHOWTABLES
	Tables []string

	// DESCRIBE
	Description map[string]ColumnDescription
}

// Session is one usable backend session: a pooled connection or a
// transaction bound to one. Implementations are not reentrant; callers
// serialize use of a single session.
type Session interface {
	// Query runs a statement expected to produce rows.
	Query(ctx context.Context, sql string, args ...interface{}) (*RawResult, error)

	// Exec runs a statement expected to produce a row count / insert id.
	Exec(ctx context.Context, sql string, args ...interface{}) (*RawResult, error)
}

// Conn is a live handle to one backend session. A Conn obtained from a
// Provider must be returned to it exactly once and never used afterwards.
type Conn interface {
	ID() string
	Session() Session
}

// Tx is an open transaction pinned to one Conn for its entire lifetime.
type Tx interface {
	Conn() Conn
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Provider supplies and reclaims connection handles. Implementations own all
// pool-internal bookkeeping; callers only lease and release.
type Provider interface {
	Lease(ctx context.Context) (Conn, error)
	Release(conn Conn) error
}
