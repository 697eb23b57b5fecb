package pgbridge

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig tunes the pgx connection pool built on first use.
type PoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
	ApplicationName   string
}

// DefaultPoolConfig returns pool defaults sized from the CPU count,
// clamped to [4, 32].
func DefaultPoolConfig() PoolConfig {
	maxConns := int32(runtime.NumCPU()) * 2
	if maxConns < 4 {
		maxConns = 4
	}
	if maxConns > 32 {
		maxConns = 32
	}
	return PoolConfig{
		MaxConns:          maxConns,
		MinConns:          0,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    5 * time.Second,
		ApplicationName:   "pgbridge",
	}
}

// Connect builds the connection pool now instead of on first query.
// Calling it on an already-connected instance is a no-op.
func (db *DB) Connect(ctx context.Context) error {
	_, err := db.connectedPool(ctx)
	return err
}

// connectedPool returns the pool, constructing it at most once per
// Initialized instance. Construction suspends until the pool is
// established or ctx is done.
func (db *DB) connectedPool(ctx context.Context) (*pgxpool.Pool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	switch db.state {
	case StateUninitialized:
		return nil, ErrNotInitialized
	case StateClosed:
		return nil, ErrClosed
	}
	if db.pool != nil {
		return db.pool, nil
	}

	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
	}
	pc := db.poolConfig
	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	cfg.MaxConnLifetime = pc.MaxConnLifetime
	cfg.MaxConnIdleTime = pc.MaxConnIdleTime
	cfg.HealthCheckPeriod = pc.HealthCheckPeriod
	cfg.ConnConfig.ConnectTimeout = pc.ConnectTimeout
	if pc.ApplicationName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = pc.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
	}
	db.pool = pool
	db.state = StatePoolConnected
	db.logger.Debug("connection pool connected", "max_conns", cfg.MaxConns)
	return pool, nil
}

// withConn acquires one pooled connection for the duration of fn and
// guarantees its release on every exit path, including error, panic, and
// context cancellation.
func (db *DB) withConn(ctx context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	if db.queryTimeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, db.queryTimeout)
			defer cancel()
		}
	}
	pool, err := db.connectedPool(ctx)
	if err != nil {
		return err
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return fn(ctx, conn)
}

// Pool returns the underlying pgx pool, or nil before the first query and
// after Close. An escape hatch for pool stats and driver-level features.
func (db *DB) Pool() *pgxpool.Pool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.pool
}

// Close gracefully releases all pooled connections and moves the instance
// to Closed. With no pool present it logs a warning and returns nil;
// double close is not an error. Queries after Close fail with ErrClosed
// until a fresh Init.
func (db *DB) Close() error {
	db.mu.Lock()
	pool := db.pool
	db.pool = nil
	if pool != nil {
		db.state = StateClosed
	}
	engine := db.engine
	db.engine = nil
	db.mu.Unlock()

	if engine != nil {
		_ = engine.Close()
	}
	if pool == nil {
		db.logger.Warn("connection pool already closed")
		return nil
	}
	pool.Close()
	db.logger.Debug("connection pool closed")
	return nil
}
