// Package pgbridge bridges a structured query builder with an asynchronous
// PostgreSQL connection pool. It owns three concerns: lazily-created,
// shared pooling via pgxpool; a synchronous database/sql handle used only
// for schema DDL; and a query-execution surface that accepts either raw
// SQL text or structured sqlgen statements.
//
// # Lifecycle
//
// An instance moves through four states: Uninitialized, Initialized,
// PoolConnected, Closed. Init binds a DSN and schema metadata and
// immediately materializes the tables. The first query (or an explicit
// Connect) builds the pool. Close releases it; after Close every query
// fails with ErrClosed until a fresh Init.
//
//	db := pgbridge.New()
//	if err := db.Init(dsn, meta); err != nil { ... }
//	v, err := db.FetchVal(ctx, pgbridge.SQL("SELECT 1"))
//	defer db.Close()
//
// # Structured queries
//
// Statements built with the sqlgen package are rendered to inline literal
// SQL before execution. That path exists for convenience and inherits the
// injection caveat of literal interpolation; production callers should
// prefer raw text with separate bind args:
//
//	rows, err := db.Fetch(ctx, pgbridge.SQL("SELECT * FROM t WHERE id = $1"), 42)
package pgbridge

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/pgbridge/pgbridge/schema"
	"github.com/pgbridge/pgbridge/sqlgen"
)

// State is the lifecycle state of a DB instance.
type State int

const (
	// StateUninitialized is the zero state; no DSN or metadata is bound.
	StateUninitialized State = iota
	// StateInitialized means Init has run: DSN and metadata are bound and
	// the schema tables have been created.
	StateInitialized
	// StatePoolConnected means the connection pool exists.
	StatePoolConnected
	// StateClosed means Close has released the pool.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StatePoolConnected:
		return "pool-connected"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DB is the data-access facade. Construct with New, bind with Init, query
// through the Fetch*/Exec surface, release with Close.
//
// A DB is safe for concurrent use once Initialized: the pool serializes
// its own bookkeeping and each operation holds its connection exclusively.
type DB struct {
	logger       *slog.Logger
	queryTimeout time.Duration
	poolConfig   PoolConfig
	literalizer  *sqlgen.Literalizer

	mu     sync.Mutex
	state  State
	dsn    string
	meta   *schema.Metadata
	engine *sql.DB
	pool   *pgxpool.Pool
}

// Option configures a DB at construction time.
type Option func(*DB)

// WithLogger sets the instance logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// WithQueryTimeout sets a default per-operation timeout, applied when the
// caller's context carries no deadline. Zero means no default bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(db *DB) {
		db.queryTimeout = d
	}
}

// WithPoolConfig overrides pool tuning applied when the pool is built.
func WithPoolConfig(cfg PoolConfig) Option {
	return func(db *DB) {
		db.poolConfig = cfg
	}
}

// New constructs an Uninitialized DB.
func New(opts ...Option) *DB {
	db := &DB{
		logger:     slog.Default(),
		poolConfig: DefaultPoolConfig(),
	}
	for _, opt := range opts {
		opt(db)
	}
	db.literalizer = sqlgen.NewLiteralizer(sqlgen.Postgres(), db.logger)
	return db
}

// String returns the bound DSN, or the state name before Init.
func (db *DB) String() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.dsn == "" {
		return db.state.String()
	}
	return db.dsn
}

// State returns the current lifecycle state.
func (db *DB) State() State {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state
}

// Init binds the connection string and schema metadata, then immediately
// materializes the tables. It must be called before any query or DDL
// operation. Init is not idempotent in side effects: every call performs
// the DDL again (harmless, since creation is IF NOT EXISTS).
//
// Re-Init of a Closed instance is allowed and yields a fresh lifecycle.
// Re-Init with a different DSN discards the cached engine and pool still
// bound to the old one.
func (db *DB) Init(dsn string, meta *schema.Metadata) error {
	if dsn == "" {
		return fmt.Errorf("%w: empty connection string", ErrNotInitialized)
	}
	if meta == nil {
		return fmt.Errorf("%w: nil schema metadata", ErrNotInitialized)
	}
	db.mu.Lock()
	var stalePool *pgxpool.Pool
	if db.dsn != "" && db.dsn != dsn {
		// DSN changed; the cached engine and pool are bound to the old one.
		if db.engine != nil {
			_ = db.engine.Close()
			db.engine = nil
		}
		stalePool = db.pool
		db.pool = nil
	}
	db.dsn = dsn
	db.meta = meta
	db.state = StateInitialized
	db.mu.Unlock()

	if stalePool != nil {
		stalePool.Close()
	}
	return db.CreateTables()
}

// syncEngine returns the lazily-created synchronous handle used for DDL.
// Created at most once per bound DSN and cached for the instance lifetime.
func (db *DB) syncEngine() (*sql.DB, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	switch db.state {
	case StateUninitialized:
		return nil, ErrNotInitialized
	case StateClosed:
		return nil, ErrClosed
	}
	if db.engine == nil {
		engine, err := sql.Open("postgres", db.dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchema, err)
		}
		db.engine = engine
	}
	return db.engine, nil
}

// CreateTables issues DDL to materialize every table in the bound
// metadata. Idempotent: creation is IF NOT EXISTS, so matching existing
// objects are left alone.
func (db *DB) CreateTables() error {
	engine, err := db.syncEngine()
	if err != nil {
		return err
	}
	db.mu.Lock()
	meta := db.meta
	db.mu.Unlock()
	for _, stmt := range meta.CreateSQL() {
		if _, err := engine.Exec(stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrSchema, err)
		}
	}
	db.logger.Debug("schema tables created", "tables", len(meta.Tables))
	return nil
}

// DropTables issues the inverse DDL, dropping every table in the bound
// metadata in reverse declaration order.
func (db *DB) DropTables() error {
	engine, err := db.syncEngine()
	if err != nil {
		return err
	}
	db.mu.Lock()
	meta := db.meta
	db.mu.Unlock()
	for _, stmt := range meta.DropSQL() {
		if _, err := engine.Exec(stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrSchema, err)
		}
	}
	db.logger.Debug("schema tables dropped", "tables", len(meta.Tables))
	return nil
}
