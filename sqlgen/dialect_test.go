package sqlgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	d := Postgres()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"int", 42, "42"},
		{"negative int", -7, "-7"},
		{"int64", int64(9000000000), "9000000000"},
		{"uint", uint(3), "3"},
		{"bool true", true, "TRUE"},
		{"bool false", false, "FALSE"},
		{"string", "hello", "'hello'"},
		{"string with quote", "o'brien", "'o''brien'"},
		{"bytes", []byte("raw"), "'raw'"},
		{"float", 2.5, "'2.5'"},
		{"time", time.Date(2020, 3, 14, 15, 9, 26, 0, time.UTC), "'2020-03-14 15:09:26'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Literal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiteralEscapesInjection(t *testing.T) {
	d := Postgres()

	got, err := d.Literal("'; DROP TABLE users; --")
	require.NoError(t, err)
	// The single quote must be doubled so the payload stays inside the literal.
	assert.Equal(t, "'''; DROP TABLE users; --'", got)
}

func TestLiteralBackslashUsesEscapeSyntax(t *testing.T) {
	d := Postgres()

	got, err := d.Literal(`a\b`)
	require.NoError(t, err)
	// lib/pq switches to E'' syntax when a backslash is present.
	assert.Equal(t, ` E'a\\b'`, got)
}

func TestLiteralUnsupportedKind(t *testing.T) {
	d := Postgres()

	_, err := d.Literal(struct{ X int }{1})
	require.Error(t, err)
	assert.True(t, IsRenderErr(err))

	_, err = d.Literal(make(chan int))
	require.Error(t, err)
	assert.True(t, IsRenderErr(err))
}

func TestPlaceholder(t *testing.T) {
	d := Postgres()
	assert.Equal(t, "$1", d.Placeholder(1))
	assert.Equal(t, "$12", d.Placeholder(12))
}

func TestQuoteIdentifier(t *testing.T) {
	d := Postgres()
	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, `"weird""name"`, d.QuoteIdentifier(`weird"name`))
}

func TestPostgresProfile(t *testing.T) {
	d := Postgres()
	assert.Equal(t, ParamHybrid, d.ParamStyle)
	assert.True(t, d.ImplicitReturning)
	assert.Equal(t, "UTF-8", d.Encoding)
	assert.False(t, d.LiteralBinds)

	lit := d.WithLiteralBinds()
	assert.True(t, lit.LiteralBinds)
	assert.False(t, d.LiteralBinds, "WithLiteralBinds must copy, not mutate")
}
