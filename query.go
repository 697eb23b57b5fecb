package pgbridge

import (
	"github.com/pgbridge/pgbridge/sqlgen"
)

// Query is the input to the query surface: either raw SQL text or a
// structured sqlgen statement. The variant is decided at the call boundary
// with SQL or Stmt, so the execution path is statically known.
type Query interface {
	// queryText resolves the query to executable SQL text.
	queryText(l *sqlgen.Literalizer) (string, error)
}

// rawQuery is SQL text passed through unchanged. Bind placeholders in the
// text pair with the args given to the operation.
type rawQuery string

func (q rawQuery) queryText(*sqlgen.Literalizer) (string, error) {
	return string(q), nil
}

// SQL wraps raw SQL text as a Query. This is the production path:
// placeholders in the text stay parameterized end to end.
func SQL(text string) Query {
	return rawQuery(text)
}

// structuredQuery routes a sqlgen statement through the literalizer.
type structuredQuery struct {
	stmt sqlgen.Statement
}

func (q structuredQuery) queryText(l *sqlgen.Literalizer) (string, error) {
	return l.Render(q.stmt)
}

// Literalize renders a structured statement to inline literal SQL text for
// logging. The result must never be executed; see sqlgen.Literalizer.
func (db *DB) Literalize(s sqlgen.Statement) (string, error) {
	return db.literalizer.Render(s)
}

// Stmt wraps a structured statement as a Query. The statement is rendered
// to inline literal SQL before execution, so it inherits the injection
// caveat of literal interpolation. Prefer SQL with separate bind args
// where the values cross a trust boundary.
func Stmt(s sqlgen.Statement) Query {
	return structuredQuery{stmt: s}
}
