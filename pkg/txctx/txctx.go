// Package txctx carries an ambient transaction on the context so nested
// operations inside a transaction scope join it without explicit plumbing.
// Callers that need fully explicit transaction passing disable injection in
// the facade configuration and this package is bypassed entirely.
package txctx

import (
	"context"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

type ctxKey struct{}

// NewContext returns a context carrying tx as the ambient transaction.
func NewContext(ctx context.Context, tx domain.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// FromContext returns the ambient transaction, or nil when none is set.
func FromContext(ctx context.Context) domain.Tx {
	tx, _ := ctx.Value(ctxKey{}).(domain.Tx)
	return tx
}

// Inject fills opts.Transaction from the context when no explicit transaction
// is present. It runs exactly once per call, before connection resolution,
// and never overrides an explicit transaction.
func Inject(ctx context.Context, opts *domain.ExecOptions) {
	if opts.Transaction != nil {
		return
	}
	if tx := FromContext(ctx); tx != nil {
		opts.Transaction = tx
	}
}
