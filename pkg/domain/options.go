package domain

// ExecOptions configures one execution. The zero value runs a RAW statement
// on a freshly leased pooled connection.
type ExecOptions struct {
	// Type declares what shape the caller expects back. Defaults to RAW.
	Type QueryIntent

	// Connection, when set, is used directly. The caller owns its lifecycle;
	// the execution core never releases it.
	Connection Conn

	// Transaction, when set (explicitly or injected from the context), owns
	// the connection used for the call.
	Transaction Tx

	// Bind holds driver-side placeholder values. Mutually exclusive with
	// Replacements.
	Bind []interface{}

	// Replacements are substituted into the SQL text before it reaches the
	// driver: either NamedReplacements (":name" placeholders) or positional
	// Replacements ("?" placeholders). Mutually exclusive with Bind.
	Replacements      []interface{}
	NamedReplacements map[string]interface{}

	// Result-shape hints.
	Raw   bool
	Plain bool
	Nest  bool

	// FieldMap renames columns in result rows. With a model present,
	// MapToModel selects whether renaming happens before hydration (true)
	// or on the hydrated output maps (false).
	FieldMap   map[string]string
	MapToModel bool

	// Model, when set, hydrates SELECT rows into instances of its type.
	Model interface{}

	// Retry, when set, re-runs failed executions per its policy.
	Retry *RetryOptions

	// Legacy schema overrides. Deprecated: pass a TableReference instead.
	Schema          string
	SchemaDelimiter string
}

// Clone returns a shallow copy so per-call mutation (transaction injection,
// bind merging) never leaks into the caller's options.
func (o *ExecOptions) Clone() *ExecOptions {
	if o == nil {
		return &ExecOptions{}
	}
	c := *o
	return &c
}
