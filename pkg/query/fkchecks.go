package query

import (
	"context"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// UnsafeToggleForeignKeyChecks enables or disables foreign-key checks on the
// connection the options resolve to. No symmetry is guaranteed; callers pair
// the calls themselves or use WithoutForeignKeyChecks. Toggling to the same
// state twice is harmless.
func (qi *Interface) UnsafeToggleForeignKeyChecks(ctx context.Context, enable bool, opts *domain.ExecOptions) error {
	q := qi.gen.ToggleForeignKeyChecksQuery(enable)
	_, err := qi.executor.Exec(ctx, q.SQL, q.Bind, qi.prepare(ctx, opts))
	return err
}

// WithoutForeignKeyChecks runs fn with foreign-key checks disabled on one
// connection. When opts carries a connection it is used directly and stays
// owned by the caller; otherwise one handle is leased for the whole scope and
// passed to fn. Checks are re-enabled after fn settles, on every path — even
// when fn panics or cancels the context. When both fn and the re-enable fail,
// fn's error takes precedence and the restore failure travels as
// supplementary context.
func (qi *Interface) WithoutForeignKeyChecks(ctx context.Context, opts *domain.ExecOptions, fn func(ctx context.Context, conn domain.Conn) error) (err error) {
	prepared := qi.prepare(ctx, opts)

	conn := prepared.Connection
	if conn == nil {
		leased, lerr := qi.provider.Lease(ctx)
		if lerr != nil {
			return lerr
		}
		defer qi.provider.Release(leased)
		conn = leased
	}

	// All three steps share the pinned connection: the checks are a
	// session-scoped setting on most backends.
	scoped := prepared.Clone()
	scoped.Connection = conn
	scoped.Transaction = nil

	if derr := qi.UnsafeToggleForeignKeyChecks(ctx, false, scoped); derr != nil {
		return derr
	}

	// The connection must never return to the pool with checks still off, so
	// the restore runs from a defer on a context detached from cancellation.
	defer func() {
		restoreCtx := context.WithoutCancel(ctx)
		if rerr := qi.UnsafeToggleForeignKeyChecks(restoreCtx, true, scoped); rerr != nil {
			err = domain.NewErrRestoreFailed("foreign key checks", rerr, err)
		}
	}()

	return fn(ctx, conn)
}
