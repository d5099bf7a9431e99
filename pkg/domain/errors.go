package domain

import "fmt"

// ErrConnection reports that no connection handle could be leased.
type ErrConnection struct {
	Dialect string
	Reason  string
}

func (e *ErrConnection) Error() string {
	if e.Dialect == "" {
		return fmt.Sprintf("connection failed: %s", e.Reason)
	}
	return fmt.Sprintf("failed to acquire %s connection: %s", e.Dialect, e.Reason)
}

// NewErrConnection creates a connection acquisition error.
func NewErrConnection(dialect, reason string) *ErrConnection {
	return &ErrConnection{Dialect: dialect, Reason: reason}
}

// ErrDriver wraps an error the backend reported for a statement.
type ErrDriver struct {
	SQL  string
	Code string
	Err  error
}

func (e *ErrDriver) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("driver error %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("driver error: %v", e.Err)
}

func (e *ErrDriver) Unwrap() error { return e.Err }

// NewErrDriver creates a driver error for the given statement.
func NewErrDriver(sql, code string, err error) *ErrDriver {
	return &ErrDriver{SQL: sql, Code: code, Err: err}
}

// ErrTableNotFound reports a missing table, regardless of whether the
// backend signalled it with an empty result set or an error code.
type ErrTableNotFound struct {
	Table  string
	Schema string
}

func (e *ErrTableNotFound) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("table %s.%s not found", e.Schema, e.Table)
	}
	return fmt.Sprintf("table %s not found", e.Table)
}

// NewErrTableNotFound creates a table-not-found error.
func NewErrTableNotFound(schema, table string) *ErrTableNotFound {
	return &ErrTableNotFound{Schema: schema, Table: table}
}

// ErrMalformedResult reports a driver result structurally incompatible with
// the declared intent.
type ErrMalformedResult struct {
	Intent QueryIntent
	Reason string
}

func (e *ErrMalformedResult) Error() string {
	return fmt.Sprintf("malformed %s result: %s", e.Intent, e.Reason)
}

// NewErrMalformedResult creates a malformed-result error.
func NewErrMalformedResult(intent QueryIntent, reason string) *ErrMalformedResult {
	return &ErrMalformedResult{Intent: intent, Reason: reason}
}

// ErrTimeout reports that a configured deadline elapsed before completion.
type ErrTimeout struct {
	Op  string
	Err error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *ErrTimeout) Unwrap() error { return e.Err }

// NewErrTimeout creates a timeout error for the given operation.
func NewErrTimeout(op string, err error) *ErrTimeout {
	return &ErrTimeout{Op: op, Err: err}
}

// ErrInvalidOptions reports conflicting or malformed execution options.
type ErrInvalidOptions struct {
	Field   string
	Message string
}

func (e *ErrInvalidOptions) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Field, e.Message)
}

// NewErrInvalidOptions creates an invalid-options error.
func NewErrInvalidOptions(field, message string) *ErrInvalidOptions {
	return &ErrInvalidOptions{Field: field, Message: message}
}

// ErrRestoreFailed reports that restoring state after a scoped operation
// failed. When the scoped callback also failed, the callback error takes
// precedence and the restore failure travels as supplementary context.
type ErrRestoreFailed struct {
	Op      string
	Err     error
	Primary error
}

func (e *ErrRestoreFailed) Error() string {
	if e.Primary != nil {
		return fmt.Sprintf("%v (additionally, %s restore failed: %v)", e.Primary, e.Op, e.Err)
	}
	return fmt.Sprintf("%s restore failed: %v", e.Op, e.Err)
}

func (e *ErrRestoreFailed) Unwrap() error {
	if e.Primary != nil {
		return e.Primary
	}
	return e.Err
}

// NewErrRestoreFailed creates a restore-failure error.
func NewErrRestoreFailed(op string, err, primary error) *ErrRestoreFailed {
	return &ErrRestoreFailed{Op: op, Err: err, Primary: primary}
}
