package pgbridge_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgbridge/pgbridge"
	"github.com/pgbridge/pgbridge/internal/testutil"
	"github.com/pgbridge/pgbridge/schema"
	"github.com/pgbridge/pgbridge/sqlgen"
)

// uniqueName returns a table name that cannot collide across tests sharing
// the singleton container.
func uniqueName(t *testing.T, prefix string) string {
	t.Helper()
	b := make([]byte, 4)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return prefix + "_" + hex.EncodeToString(b)
}

func eventsMetadata(table string) *schema.Metadata {
	return schema.New(schema.Table{
		Name: table,
		Columns: []schema.Column{
			{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
			{Name: "kind", Type: "VARCHAR", NotNull: true},
			{Name: "at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"},
		},
	})
}

// newTestDB initializes a DB against the shared container with a fresh
// table and registers teardown.
func newTestDB(t *testing.T, opts ...pgbridge.Option) (*pgbridge.DB, string) {
	t.Helper()
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")

	db := pgbridge.New(opts...)
	require.NoError(t, db.Init(dsn, eventsMetadata(table)))
	t.Cleanup(func() {
		_ = db.DropTables()
		_ = db.Close()
	})
	return db, table
}

func TestInitCreatesTables(t *testing.T) {
	db, table := newTestDB(t)
	ctx := context.Background()

	exists, err := db.FetchVal(ctx,
		pgbridge.SQL("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)"),
		table)
	require.NoError(t, err)
	assert.Equal(t, true, exists)
}

func TestInitTwicePerformsDDLTwice(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db := pgbridge.New(pgbridge.WithLogger(logger))
	meta := eventsMetadata(table)
	require.NoError(t, db.Init(dsn, meta))
	require.NoError(t, db.Init(dsn, meta))
	t.Cleanup(func() {
		_ = db.DropTables()
		_ = db.Close()
	})

	assert.Equal(t, 2, strings.Count(buf.String(), "schema tables created"))
}

func TestFetchValScalar(t *testing.T) {
	db, _ := newTestDB(t)

	v, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestFetchValAtColumn(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	v, err := db.FetchValAt(ctx, pgbridge.SQL("SELECT 'a', 'b', 'c'"), 2)
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	_, err = db.FetchValAt(ctx, pgbridge.SQL("SELECT 1"), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestFetchValNoRows(t *testing.T) {
	db, table := newTestDB(t)

	_, err := db.FetchVal(context.Background(),
		pgbridge.SQL("SELECT id FROM "+table+" WHERE id = $1"), int64(-1))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestFetchAllRowsAndEmpty(t *testing.T) {
	db, table := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(ctx,
		pgbridge.Stmt(sqlgen.Insert(table, "kind").Values("create").Values("delete")))
	require.NoError(t, err)

	rows, err := db.Fetch(ctx, pgbridge.SQL("SELECT kind FROM "+table+" ORDER BY id"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "create", rows[0]["kind"])
	assert.Equal(t, "delete", rows[1]["kind"])

	empty, err := db.Fetch(ctx, pgbridge.SQL("SELECT kind FROM "+table+" WHERE id = $1"), int64(-1))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFetchRowWithReturning(t *testing.T) {
	db, table := newTestDB(t)

	row, err := db.FetchRow(context.Background(),
		pgbridge.Stmt(sqlgen.Insert(table, "kind").Values("create").Return("id", "kind")))
	require.NoError(t, err)
	assert.Equal(t, "create", row["kind"])
	assert.NotNil(t, row["id"])
}

func TestExecReportsRowsAffected(t *testing.T) {
	db, table := newTestDB(t)
	ctx := context.Background()

	row, err := db.FetchRow(ctx,
		pgbridge.Stmt(sqlgen.Insert(table, "kind").Values("create").Return("id")))
	require.NoError(t, err)

	tag, err := db.Exec(ctx, pgbridge.SQL("DELETE FROM "+table+" WHERE id = $1"), row["id"])
	require.NoError(t, err)
	assert.EqualValues(t, 1, tag.RowsAffected())

	tag, err = db.Exec(ctx, pgbridge.SQL("DELETE FROM "+table+" WHERE id = $1"), row["id"])
	require.NoError(t, err)
	assert.EqualValues(t, 0, tag.RowsAffected())
}

func TestPoolIsReusedAcrossQueries(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.FetchVal(ctx, pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	first := db.Pool()
	require.NotNil(t, first)

	_, err = db.FetchVal(ctx, pgbridge.SQL("SELECT 2"))
	require.NoError(t, err)
	assert.Same(t, first, db.Pool(), "second query must reuse the pool")
	assert.Equal(t, pgbridge.StatePoolConnected, db.State())
}

func TestConnectionReleasedOnQueryError(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.FetchVal(ctx, pgbridge.SQL("SELECT broken syntax FROM"))
	require.Error(t, err)

	pool := db.Pool()
	require.NotNil(t, pool)
	assert.EqualValues(t, 0, pool.Stat().AcquiredConns(), "failed query must release its connection")

	// Pool health is unaffected for subsequent queries.
	v, err := db.FetchVal(ctx, pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestQueryTimeout(t *testing.T) {
	db, _ := newTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := db.FetchVal(ctx, pgbridge.SQL("SELECT pg_sleep(5)"))
	require.Error(t, err)
	assert.True(t, pgbridge.IsTimeoutErr(err), "expected timeout, got %v", err)

	pool := db.Pool()
	require.NotNil(t, pool)
	assert.EqualValues(t, 0, pool.Stat().AcquiredConns(), "timed-out query must release its connection")

	v, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestDefaultQueryTimeoutOption(t *testing.T) {
	db, _ := newTestDB(t, pgbridge.WithQueryTimeout(100*time.Millisecond))

	_, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT pg_sleep(5)"))
	require.Error(t, err)
	assert.True(t, pgbridge.IsTimeoutErr(err))
}

func TestDoubleClose(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db := pgbridge.New(pgbridge.WithLogger(logger))
	require.NoError(t, db.Init(dsn, eventsMetadata(table)))
	require.NoError(t, db.Connect(context.Background()))

	require.NoError(t, db.Close())
	assert.Contains(t, buf.String(), "connection pool closed")

	require.NoError(t, db.Close())
	assert.Contains(t, buf.String(), "connection pool already closed")
}

func TestQueriesAfterCloseFailFast(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")

	db := pgbridge.New()
	require.NoError(t, db.Init(dsn, eventsMetadata(table)))
	require.NoError(t, db.Connect(context.Background()))
	require.NoError(t, db.Close())

	_, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT 1"))
	assert.True(t, pgbridge.IsClosedErr(err), "no auto-reconnect after close")
	assert.Equal(t, pgbridge.StateClosed, db.State())
}

func TestReInitAfterClose(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")
	meta := eventsMetadata(table)

	db := pgbridge.New()
	require.NoError(t, db.Init(dsn, meta))
	require.NoError(t, db.Connect(context.Background()))
	require.NoError(t, db.Close())

	require.NoError(t, db.Init(dsn, meta))
	t.Cleanup(func() {
		_ = db.DropTables()
		_ = db.Close()
	})

	v, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestReInitNewDSNResetsPool(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")
	meta := eventsMetadata(table)

	db := pgbridge.New()
	require.NoError(t, db.Init(dsn, meta))
	t.Cleanup(func() {
		_ = db.DropTables()
		_ = db.Close()
	})

	_, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	first := db.Pool()
	require.NotNil(t, first)

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	require.NoError(t, db.Init(dsn+sep+"application_name=rebind", meta))
	assert.Nil(t, db.Pool(), "pool bound to the old DSN must be discarded")

	v, err := db.FetchVal(context.Background(), pgbridge.SQL("SELECT 1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	assert.NotSame(t, first, db.Pool())
}

func TestDDLAfterCloseFailsFast(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	table := uniqueName(t, "events")

	db := pgbridge.New()
	require.NoError(t, db.Init(dsn, eventsMetadata(table)))
	require.NoError(t, db.Connect(context.Background()))
	require.NoError(t, db.Close())

	assert.True(t, pgbridge.IsClosedErr(db.CreateTables()))
	assert.True(t, pgbridge.IsClosedErr(db.DropTables()))
}

func TestDropTables(t *testing.T) {
	db, table := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.DropTables())

	exists, err := db.FetchVal(ctx,
		pgbridge.SQL("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)"),
		table)
	require.NoError(t, err)
	assert.Equal(t, false, exists)
}

func TestPoolUnavailable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	meta := eventsMetadata("never_created")

	db := pgbridge.New()
	// Init performs DDL, which already fails against an unreachable host.
	err := db.Init("postgres://nobody@127.0.0.1:1/nope?sslmode=disable&connect_timeout=1", meta)
	require.Error(t, err)
	assert.True(t, pgbridge.IsSchemaErr(err))
}

func TestConnectPoolUnavailable(t *testing.T) {
	// MaxConns of zero is rejected when the pool is built, after the DDL
	// has already succeeded against the live container.
	db, _ := newTestDB(t, pgbridge.WithPoolConfig(pgbridge.PoolConfig{MaxConns: 0}))

	err := db.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, pgbridge.IsPoolUnavailableErr(err), "expected pool construction failure, got %v", err)
	assert.Nil(t, db.Pool())
	assert.Equal(t, pgbridge.StateInitialized, db.State())
}
