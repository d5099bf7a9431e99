// Package query is the high-level interface over the execution core: schema
// and maintenance operations, normalized query execution, and transaction
// scoping.
package query

import (
	"context"
	"database/sql"
	"log"

	"github.com/kasuganosora/sqlbridge/pkg/config"
	"github.com/kasuganosora/sqlbridge/pkg/dialect"
	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/exec"
	"github.com/kasuganosora/sqlbridge/pkg/normalize"
	"github.com/kasuganosora/sqlbridge/pkg/pool"
	"github.com/kasuganosora/sqlbridge/pkg/schemacache"
	"github.com/kasuganosora/sqlbridge/pkg/txctx"
)

// Interface composes the execution core with a dialect generator.
type Interface struct {
	gen      dialect.Generator
	executor *exec.Executor
	provider domain.Provider
	cfg      *config.Config
	cache    *schemacache.Cache
	logger   *log.Logger
}

// New assembles a query interface over the given generator and provider. cfg
// and logger may be nil for defaults.
func New(gen dialect.Generator, provider domain.Provider, cfg *config.Config, logger *log.Logger) *Interface {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	qi := &Interface{
		gen:      gen,
		executor: exec.New(provider, gen.ErrorCode, logger),
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}

	if cfg.SchemaCache.Enabled {
		cache, err := schemacache.New(cfg.SchemaCache.TTL)
		if err != nil {
			logger.Printf("schema cache disabled: %v", err)
		} else {
			qi.cache = cache
		}
	}

	return qi
}

// Executor exposes the underlying execution core.
func (qi *Interface) Executor() *exec.Executor { return qi.executor }

// Generator exposes the dialect generator.
func (qi *Interface) Generator() dialect.Generator { return qi.gen }

// Close releases resources owned by the interface (the schema cache; the
// provider stays with its creator).
func (qi *Interface) Close() error {
	if qi.cache != nil {
		return qi.cache.Close()
	}
	return nil
}

// prepare clones the options and injects the ambient transaction unless
// context propagation is disabled. Injection happens exactly once per call,
// before connection resolution.
func (qi *Interface) prepare(ctx context.Context, opts *domain.ExecOptions) *domain.ExecOptions {
	opts = opts.Clone()
	if !qi.cfg.DisableContextTransactions {
		txctx.Inject(ctx, opts)
	}
	return opts
}

// Query executes a statement and normalizes the result per its intent. When
// the intent was left RAW and inference is enabled, the statement is
// classified first.
func (qi *Interface) Query(ctx context.Context, sqlText string, opts *domain.ExecOptions) (*domain.Result, error) {
	opts = qi.prepare(ctx, opts)

	if opts.Type == domain.IntentRaw && !opts.Raw && qi.cfg.InferIntent {
		opts.Type = exec.Classify(sqlText)
	}

	raw, err := qi.executor.Execute(ctx, sqlText, nil, opts)
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(raw, opts.Type, opts)
}

// Execute runs a statement and returns the raw driver result, skipping
// normalization.
func (qi *Interface) Execute(ctx context.Context, sqlText string, bind []interface{}, opts *domain.ExecOptions) (*domain.RawResult, error) {
	return qi.executor.Execute(ctx, sqlText, bind, qi.prepare(ctx, opts))
}

// CreateSchema creates the named schema. Dialects that emulate schemas
// generate no SQL and the call is a no-op.
func (qi *Interface) CreateSchema(ctx context.Context, schema string, opts *domain.ExecOptions) error {
	q := qi.gen.CreateSchemaQuery(schema)
	if q.SQL == "" {
		return nil
	}
	_, err := qi.executor.Exec(ctx, q.SQL, q.Bind, qi.prepare(ctx, opts))
	return err
}

// DropSchema drops the named schema. The generator may return plain SQL or
// SQL plus bind parameters; both forms execute uniformly.
func (qi *Interface) DropSchema(ctx context.Context, schema string, opts *domain.ExecOptions) error {
	q := qi.gen.DropSchemaQuery(schema)
	if q.SQL == "" {
		return nil
	}
	_, err := qi.executor.Exec(ctx, q.SQL, q.Bind, qi.prepare(ctx, opts))
	return err
}

// ShowAllSchemas lists user schemas as a flat sequence of names, regardless
// of how the backend labels the column.
func (qi *Interface) ShowAllSchemas(ctx context.Context, opts *domain.ExecOptions) ([]string, error) {
	q := qi.gen.ListSchemasQuery(nil)

	prepared := qi.prepare(ctx, opts)
	prepared.Type = domain.IntentSelect

	raw, err := qi.executor.Query(ctx, q.SQL, q.Bind, prepared)
	if err != nil {
		return nil, err
	}

	schemas := make([]string, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		name, ok := schemaName(row)
		if !ok {
			return nil, domain.NewErrMalformedResult(domain.IntentSelect, "schema row carries no name column")
		}
		schemas = append(schemas, name)
	}
	return schemas, nil
}

// schemaName flattens heterogeneous schema-listing rows: some backends label
// the column, others return a bare value.
func schemaName(row domain.Row) (string, bool) {
	for _, key := range []string{"schema_name", "name", "Database"} {
		if v, ok := row[key]; ok {
			s, ok := v.(string)
			return s, ok
		}
	}
	if len(row) == 1 {
		for _, v := range row {
			s, ok := v.(string)
			return s, ok
		}
	}
	return "", false
}

// ShowAllTables lists user tables in the given schema (current schema when
// empty).
func (qi *Interface) ShowAllTables(ctx context.Context, schema string, opts *domain.ExecOptions) ([]string, error) {
	q := qi.gen.ShowTablesQuery(schema)

	prepared := qi.prepare(ctx, opts)
	prepared.Type = domain.IntentShowTables

	raw, err := qi.executor.Query(ctx, q.SQL, q.Bind, prepared)
	if err != nil {
		return nil, err
	}

	res, err := normalize.Normalize(raw, domain.IntentShowTables, prepared)
	if err != nil {
		return nil, err
	}
	return res.Tables, nil
}

// DescribeTable returns column metadata for a table or model. A missing
// table surfaces as ErrTableNotFound whether the backend reports it with an
// empty result set or an error code.
func (qi *Interface) DescribeTable(ctx context.Context, tableOrModel interface{}, opts *domain.ExecOptions) (map[string]domain.ColumnDescription, error) {
	prepared := qi.prepare(ctx, opts)
	prepared.Type = domain.IntentDescribe

	if prepared.Schema != "" || prepared.SchemaDelimiter != "" {
		qi.logger.Printf("deprecated: passing schema/schemaDelimiter options to DescribeTable; pass a TableReference instead")
	}

	ref, err := qi.gen.ExtractTableDetails(tableOrModel, prepared.Schema, prepared.SchemaDelimiter)
	if err != nil {
		return nil, err
	}

	cacheKey := schemacache.Key(qi.gen.Name(), ref)
	if qi.cache != nil {
		if desc, ok := qi.cache.Get(cacheKey); ok {
			return desc, nil
		}
	}

	q := qi.gen.DescribeTableQuery(ref)
	raw, err := qi.executor.Query(ctx, q.SQL, q.Bind, prepared)
	if err != nil {
		if qi.gen.IsNoSuchTableError(err) {
			return nil, domain.NewErrTableNotFound(ref.Schema, ref.Table)
		}
		return nil, err
	}

	res, err := normalize.Normalize(raw, domain.IntentDescribe, prepared)
	if err != nil {
		return nil, err
	}
	if len(res.Description) == 0 {
		return nil, domain.NewErrTableNotFound(ref.Schema, ref.Table)
	}

	if qi.cache != nil {
		if err := qi.cache.Set(cacheKey, res.Description); err != nil {
			qi.logger.Printf("schema cache set failed for %s: %v", cacheKey, err)
		}
	}

	return res.Description, nil
}

// Transaction runs fn inside a managed transaction: committed when fn
// returns nil, rolled back otherwise. Unless context propagation is
// disabled, fn's context carries the transaction so nested operations join
// it automatically.
func (qi *Interface) Transaction(ctx context.Context, txOpts *sql.TxOptions, fn func(ctx context.Context, tx domain.Tx) error) error {
	tx, err := pool.Begin(ctx, qi.provider, txOpts)
	if err != nil {
		return err
	}

	fnCtx := ctx
	if !qi.cfg.DisableContextTransactions {
		fnCtx = txctx.NewContext(ctx, tx)
	}

	if err := fn(fnCtx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return domain.NewErrRestoreFailed("transaction rollback", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}
