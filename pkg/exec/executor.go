// Package exec is the execution core: it resolves which connection a
// statement runs on, applies replacements and retry policy, executes over the
// driver and hands the raw result to the normalizer.
package exec

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Executor runs statements over sessions resolved from execution options.
type Executor struct {
	provider  domain.Provider
	errorCode func(error) string
	logger    *log.Logger
}

// New creates an executor over the given provider. errorCode, when non-nil,
// extracts backend error codes for driver-error wrapping.
func New(provider domain.Provider, errorCode func(error) string, logger *log.Logger) *Executor {
	return &Executor{provider: provider, errorCode: errorCode, logger: logger}
}

// Provider returns the executor's connection provider.
func (e *Executor) Provider() domain.Provider { return e.provider }

// mode selects the driver path a statement runs through.
type mode int

const (
	// modeAuto derives the path from the declared intent.
	modeAuto mode = iota
	modeQuery
	modeExec
)

// Execute runs one statement, picking the driver path from the declared
// intent. bind, when non-nil, overrides opts.Bind.
//
// Connection resolution order, first match wins:
//  1. opts.Connection — used directly, never released here.
//  2. opts.Transaction — the transaction's pinned connection, never released here.
//  3. a handle leased from the provider for this call (or per retry attempt),
//     released unconditionally on every exit path.
func (e *Executor) Execute(ctx context.Context, sqlText string, bind []interface{}, opts *domain.ExecOptions) (*domain.RawResult, error) {
	return e.run(ctx, sqlText, bind, opts, modeAuto)
}

// Query runs one statement through the row-returning path regardless of the
// declared intent.
func (e *Executor) Query(ctx context.Context, sqlText string, bind []interface{}, opts *domain.ExecOptions) (*domain.RawResult, error) {
	return e.run(ctx, sqlText, bind, opts, modeQuery)
}

// Exec runs one statement through the non-row path regardless of the declared
// intent. Schema and maintenance statements go through here.
func (e *Executor) Exec(ctx context.Context, sqlText string, bind []interface{}, opts *domain.ExecOptions) (*domain.RawResult, error) {
	return e.run(ctx, sqlText, bind, opts, modeExec)
}

func (e *Executor) run(ctx context.Context, sqlText string, bind []interface{}, opts *domain.ExecOptions, m mode) (*domain.RawResult, error) {
	opts = opts.Clone()
	if bind != nil {
		opts.Bind = bind
	}

	if len(opts.Bind) > 0 && (len(opts.Replacements) > 0 || len(opts.NamedReplacements) > 0) {
		return nil, domain.NewErrInvalidOptions("bind", "bind and replacements are mutually exclusive")
	}

	sqlText, err := applyReplacements(sqlText, opts)
	if err != nil {
		return nil, err
	}

	session := resolveSession(opts)

	attempts := opts.Retry.Attempts()
	for attempt := 1; ; attempt++ {
		res, err := e.runOnce(ctx, sqlText, opts, session, m)
		if err == nil {
			return res, nil
		}
		if attempt >= attempts || !opts.Retry.Retryable(err) {
			return nil, err
		}

		if e.logger != nil {
			e.logger.Printf("retrying statement (attempt %d/%d): %v", attempt+1, attempts, err)
		}
		if delay := opts.Retry.Delay(attempt); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, e.rekind(ctx, "retry backoff", ctx.Err())
			}
		}
	}
}

// resolveSession returns the caller-pinned session, or nil when the pooled
// path applies.
func resolveSession(opts *domain.ExecOptions) domain.Session {
	if opts.Connection != nil {
		return opts.Connection.Session()
	}
	if opts.Transaction != nil {
		return opts.Transaction.Conn().Session()
	}
	return nil
}

// runOnce executes one attempt. On the pooled path it leases a fresh handle
// and releases it before returning, whatever the outcome.
func (e *Executor) runOnce(ctx context.Context, sqlText string, opts *domain.ExecOptions, session domain.Session, m mode) (*domain.RawResult, error) {
	if session == nil {
		conn, err := e.provider.Lease(ctx)
		if err != nil {
			return nil, e.rekind(ctx, "connection lease", err)
		}
		defer e.provider.Release(conn)
		session = conn.Session()
	}

	if e.logger != nil {
		e.logger.Printf("executing (%s): %s", opts.Type, sqlText)
	}

	rows := m == modeQuery
	if m == modeAuto {
		rows = producesRows(opts)
	}

	var res *domain.RawResult
	var err error
	if rows {
		res, err = session.Query(ctx, sqlText, opts.Bind...)
	} else {
		res, err = session.Exec(ctx, sqlText, opts.Bind...)
	}
	if err != nil {
		return nil, e.wrapDriverError(ctx, sqlText, err)
	}
	return res, nil
}

// producesRows decides whether the statement goes through the row-returning
// driver path. Nest forces row shaping regardless of intent.
func producesRows(opts *domain.ExecOptions) bool {
	if opts.Nest {
		return true
	}
	switch opts.Type {
	case domain.IntentSelect, domain.IntentDescribe, domain.IntentShowTables, domain.IntentRaw:
		return true
	default:
		return false
	}
}

func (e *Executor) wrapDriverError(ctx context.Context, sqlText string, err error) error {
	if rk := e.rekind(ctx, "statement execution", err); rk != err {
		return rk
	}

	code := ""
	if e.errorCode != nil {
		code = e.errorCode(err)
	}
	return domain.NewErrDriver(sqlText, code, err)
}

// rekind maps deadline expiry to the timeout error kind; everything else
// passes through unchanged.
func (e *Executor) rekind(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewErrTimeout(op, err)
	}
	return err
}
