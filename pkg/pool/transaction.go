package pool

import (
	"context"
	"database/sql"
	"sync"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// RawTx is the driver-side transaction surface. *sql.Tx satisfies it.
type RawTx interface {
	Commit() error
	Rollback() error
}

// TxStarter is implemented by sessions that can open driver transactions.
type TxStarter interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Transaction pins one connection handle for its entire lifetime. Commit and
// Rollback settle the driver transaction and, when the transaction leased its
// own handle, return it to the provider exactly once.
type Transaction struct {
	conn  *txConn
	base  domain.Conn
	owner domain.Provider
	raw   RawTx

	mu   sync.Mutex
	done bool
}

// Begin leases a handle from the provider and opens a transaction on it. The
// handle stays pinned to the transaction until Commit or Rollback.
func Begin(ctx context.Context, provider domain.Provider, opts *sql.TxOptions) (*Transaction, error) {
	handle, err := provider.Lease(ctx)
	if err != nil {
		return nil, err
	}

	starter, ok := handle.Session().(TxStarter)
	if !ok {
		provider.Release(handle)
		return nil, domain.NewErrInvalidOptions("transaction", "session does not support transactions")
	}

	tx, err := starter.BeginTx(ctx, opts)
	if err != nil {
		provider.Release(handle)
		return nil, err
	}

	return NewTransaction(handle, &txSession{tx: tx}, tx, provider), nil
}

// BeginOnConn opens a transaction on a caller-supplied connection. The caller
// keeps ownership of the handle; settling the transaction does not release it.
func BeginOnConn(ctx context.Context, conn domain.Conn, opts *sql.TxOptions) (*Transaction, error) {
	starter, ok := conn.Session().(TxStarter)
	if !ok {
		return nil, domain.NewErrInvalidOptions("transaction", "session does not support transactions")
	}

	tx, err := starter.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return NewTransaction(conn, &txSession{tx: tx}, tx, nil), nil
}

// NewTransaction assembles a transaction over an existing handle, a
// transaction-bound session and the driver transaction. owner, when non-nil,
// receives the handle back after settle.
func NewTransaction(handle domain.Conn, session domain.Session, raw RawTx, owner domain.Provider) *Transaction {
	return &Transaction{
		conn:  &txConn{id: handle.ID(), session: session},
		base:  handle,
		owner: owner,
		raw:   raw,
	}
}

// Conn returns the transaction-bound connection view. All statements issued
// through it run inside the transaction.
func (t *Transaction) Conn() domain.Conn { return t.conn }

// Commit settles the transaction and releases its handle.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.settle(func() error { return t.raw.Commit() })
}

// Rollback aborts the transaction and releases its handle. Rolling back an
// already-settled transaction is a no-op so it can run from defer.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	return t.settle(func() error { return t.raw.Rollback() })
}

func (t *Transaction) settle(fn func() error) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return domain.NewErrInvalidOptions("transaction", "already settled")
	}
	t.done = true
	t.mu.Unlock()

	err := fn()
	if t.owner != nil {
		if relErr := t.owner.Release(t.base); relErr != nil && err == nil {
			err = relErr
		}
	}
	return err
}

// txConn presents the pinned handle with its session swapped for the
// transaction-bound one.
type txConn struct {
	id      string
	session domain.Session
}

func (c *txConn) ID() string              { return c.id }
func (c *txConn) Session() domain.Session { return c.session }

// txSession adapts one *sql.Tx to the domain session contract.
type txSession struct {
	tx *sql.Tx
}

func (s *txSession) Query(ctx context.Context, query string, args ...interface{}) (*domain.RawResult, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data, columns, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return &domain.RawResult{Rows: data, Columns: columns}, nil
}

func (s *txSession) Exec(ctx context.Context, query string, args ...interface{}) (*domain.RawResult, error) {
	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	insertID, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return &domain.RawResult{InsertID: insertID, RowsAffected: affected}, nil
}
