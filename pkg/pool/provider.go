package pool

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Config tunes the database/sql pools owned by an SQLProvider.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LeaseTimeout    time.Duration
}

// DefaultConfig returns the pool defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		LeaseTimeout:    10 * time.Second,
	}
}

// SQLProvider supplies connection handles from database/sql pools. Writes go
// to the primary; reads round-robin across replicas when any are configured.
// All pool-internal bookkeeping stays inside database/sql.
type SQLProvider struct {
	dialect string
	write   *sql.DB
	reads   []*sql.DB
	next    uint64
	cfg     *Config
	metrics Metrics
}

// NewSQLProvider wraps an already-opened primary plus optional read replicas.
func NewSQLProvider(dialect string, write *sql.DB, reads []*sql.DB, cfg *Config) *SQLProvider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &SQLProvider{
		dialect: dialect,
		write:   write,
		reads:   reads,
		cfg:     cfg,
	}
	for _, db := range append([]*sql.DB{write}, reads...) {
		if db == nil {
			continue
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return p
}

// Open opens the primary (and replicas) by DSN and wraps them in a provider.
func Open(dialect, driverName, writeDSN string, readDSNs []string, cfg *Config) (*SQLProvider, error) {
	write, err := sql.Open(driverName, writeDSN)
	if err != nil {
		return nil, domain.NewErrConnection(dialect, err.Error())
	}
	var reads []*sql.DB
	for _, dsn := range readDSNs {
		db, err := sql.Open(driverName, dsn)
		if err != nil {
			write.Close()
			for _, r := range reads {
				r.Close()
			}
			return nil, domain.NewErrConnection(dialect, err.Error())
		}
		reads = append(reads, db)
	}
	return NewSQLProvider(dialect, write, reads, cfg), nil
}

// Dialect returns the dialect name the provider was opened for.
func (p *SQLProvider) Dialect() string { return p.dialect }

// Metrics returns the provider's lease/release counters.
func (p *SQLProvider) Metrics() *Metrics { return &p.metrics }

// Lease checks out one session from the primary pool.
func (p *SQLProvider) Lease(ctx context.Context) (domain.Conn, error) {
	return p.lease(ctx, p.write)
}

// LeaseRead checks out one session from a read replica, falling back to the
// primary when no replicas are configured.
func (p *SQLProvider) LeaseRead(ctx context.Context) (domain.Conn, error) {
	if len(p.reads) == 0 {
		return p.lease(ctx, p.write)
	}
	n := atomic.AddUint64(&p.next, 1)
	return p.lease(ctx, p.reads[n%uint64(len(p.reads))])
}

func (p *SQLProvider) lease(ctx context.Context, db *sql.DB) (domain.Conn, error) {
	if db == nil {
		p.metrics.incErrors()
		return nil, domain.NewErrConnection(p.dialect, "provider has no backing pool")
	}

	if p.cfg.LeaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.LeaseTimeout)
		defer cancel()
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		p.metrics.incErrors()
		return nil, domain.NewErrConnection(p.dialect, err.Error())
	}

	p.metrics.incAcquired()
	session := &sqlSession{conn: conn}
	return NewHandle(session, p, conn.Close), nil
}

// Release returns a handle to the pool. Releasing an already-released handle
// is a no-op.
func (p *SQLProvider) Release(conn domain.Conn) error {
	h, ok := conn.(*Handle)
	if !ok {
		return domain.NewErrInvalidOptions("connection", "not a handle owned by this provider")
	}
	if h.Released() {
		return nil
	}
	p.metrics.incReleased()
	return h.close()
}

// Close shuts down the primary and all replica pools.
func (p *SQLProvider) Close() error {
	var firstErr error
	for _, db := range append([]*sql.DB{p.write}, p.reads...) {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sqlSession adapts one *sql.Conn to the domain session contract.
type sqlSession struct {
	conn *sql.Conn
}

func (s *sqlSession) Query(ctx context.Context, query string, args ...interface{}) (*domain.RawResult, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
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

func (s *sqlSession) Exec(ctx context.Context, query string, args ...interface{}) (*domain.RawResult, error) {
	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	// Not every driver supports LastInsertId (lib/pq returns an error);
	// treat it as zero rather than failing the call.
	insertID, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return &domain.RawResult{InsertID: insertID, RowsAffected: affected}, nil
}

// BeginTx starts a transaction on this session's connection.
func (s *sqlSession) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return s.conn.BeginTx(ctx, opts)
}
