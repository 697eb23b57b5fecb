package pgbridge

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgbridge/pgbridge/schema"
	"github.com/pgbridge/pgbridge/sqlgen"
)

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "initialized", StateInitialized.String())
	assert.Equal(t, "pool-connected", StatePoolConnected.String())
	assert.Equal(t, "closed", StateClosed.String())
}

func TestNewIsUninitialized(t *testing.T) {
	db := New()
	assert.Equal(t, StateUninitialized, db.State())
	assert.Equal(t, "uninitialized", db.String())
}

func TestQueriesBeforeInitFailFast(t *testing.T) {
	db := New()
	ctx := context.Background()

	_, err := db.FetchVal(ctx, SQL("SELECT 1"))
	assert.True(t, IsNotInitializedErr(err))

	_, err = db.Fetch(ctx, SQL("SELECT 1"))
	assert.True(t, IsNotInitializedErr(err))

	_, err = db.FetchRow(ctx, SQL("SELECT 1"))
	assert.True(t, IsNotInitializedErr(err))

	_, err = db.Exec(ctx, SQL("SELECT 1"))
	assert.True(t, IsNotInitializedErr(err))

	assert.True(t, IsNotInitializedErr(db.Connect(ctx)))
	assert.True(t, IsNotInitializedErr(db.CreateTables()))
	assert.True(t, IsNotInitializedErr(db.DropTables()))
}

func TestInitValidatesInput(t *testing.T) {
	db := New()
	meta := schema.New(schema.Table{
		Name:    "t",
		Columns: []schema.Column{{Name: "id", Type: "INT"}},
	})

	err := db.Init("", meta)
	require.Error(t, err)
	assert.True(t, IsNotInitializedErr(err))

	err = db.Init("postgres://localhost/db", nil)
	require.Error(t, err)
	assert.True(t, IsNotInitializedErr(err))

	assert.Equal(t, StateUninitialized, db.State())
}

func TestCloseWithoutPoolWarns(t *testing.T) {
	logger, buf := testLogger()
	db := New(WithLogger(logger))

	require.NoError(t, db.Close())
	assert.Contains(t, buf.String(), "connection pool already closed")
}

func TestRawQueryPassesThrough(t *testing.T) {
	q := SQL("SELECT * FROM t WHERE id = $1")
	text, err := q.queryText(sqlgen.NewLiteralizer(sqlgen.Postgres(), nil))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE id = $1", text)
}

func TestStructuredQueryLiteralizes(t *testing.T) {
	q := Stmt(sqlgen.Delete("t").Where(sqlgen.Eq{Left: sqlgen.C("id"), Right: sqlgen.V(42)}))
	text, err := q.queryText(sqlgen.NewLiteralizer(sqlgen.Postgres(), nil))
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "t" WHERE "id" = 42`, text)
}

func TestStructuredQueryRenderFailure(t *testing.T) {
	db := New()
	// Render errors surface before any state check touches the pool.
	_, err := db.Literalize(sqlgen.Select("id").From("t").Where(sqlgen.Eq{Left: sqlgen.C("v"), Right: sqlgen.V(struct{}{})}))
	require.Error(t, err)
	assert.True(t, IsQueryRenderErr(err))
}

func TestLiteralizeLogsAtDebug(t *testing.T) {
	logger, buf := testLogger()
	db := New(WithLogger(logger))

	_, err := db.Literalize(sqlgen.Select().From("t"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "literalized query")
}

func TestIsTimeoutErr(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	assert.True(t, IsTimeoutErr(ctx.Err()))
	assert.False(t, IsTimeoutErr(context.Canceled))
	assert.False(t, IsTimeoutErr(nil))
	assert.False(t, IsTimeoutErr(ErrClosed))
}

func TestDefaultPoolConfigBounds(t *testing.T) {
	cfg := DefaultPoolConfig()
	assert.GreaterOrEqual(t, cfg.MaxConns, int32(4))
	assert.LessOrEqual(t, cfg.MaxConns, int32(32))
	assert.Equal(t, "pgbridge", cfg.ApplicationName)
}
