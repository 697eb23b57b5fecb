package sqlgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement is a complete structured query. Compile renders it to SQL text
// under a dialect, returning collected bind args (empty under literal
// rendering).
type Statement interface {
	Compile(d *Dialect) (sql string, args []any, err error)
}

// SelectStmt represents a SELECT query.
type SelectStmt struct {
	Distinct bool
	Columns  []string
	Table    string
	Filter   Expr
	Ordering []string
	RowLimit int
	RowSkip  int
}

// Select starts a SELECT statement over the given columns.
// No columns means SELECT *.
func Select(columns ...string) *SelectStmt {
	return &SelectStmt{Columns: columns}
}

// From sets the source table.
func (s *SelectStmt) From(table string) *SelectStmt {
	s.Table = table
	return s
}

// Where sets the filter predicate. Multiple expressions are ANDed.
func (s *SelectStmt) Where(exprs ...Expr) *SelectStmt {
	s.Filter = And(exprs...)
	return s
}

// OrderBy sets the ordering columns.
func (s *SelectStmt) OrderBy(columns ...string) *SelectStmt {
	s.Ordering = columns
	return s
}

// Limit caps the number of returned rows.
func (s *SelectStmt) Limit(n int) *SelectStmt {
	s.RowLimit = n
	return s
}

// Offset skips the first n rows.
func (s *SelectStmt) Offset(n int) *SelectStmt {
	s.RowSkip = n
	return s
}

// Compile renders the SELECT statement.
func (s *SelectStmt) Compile(d *Dialect) (string, []any, error) {
	if s.Table == "" {
		return "", nil, fmt.Errorf("%w: SELECT without a table", ErrRender)
	}
	r := NewRenderer(d)
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(columnList(d, s.Columns))
	b.WriteString(" FROM ")
	b.WriteString(d.QuoteIdentifier(s.Table))
	if s.Filter != nil {
		w, err := s.Filter.Render(r)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}
	if len(s.Ordering) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(columnList(d, s.Ordering))
	}
	if s.RowLimit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(s.RowLimit))
	}
	if s.RowSkip > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(s.RowSkip))
	}
	return b.String(), r.Args(), nil
}

// InsertStmt represents an INSERT with in-place multirow VALUES.
type InsertStmt struct {
	Table     string
	Columns   []string
	Rows      [][]any
	Returning []string
}

// Insert starts an INSERT statement into the given table.
func Insert(table string, columns ...string) *InsertStmt {
	return &InsertStmt{Table: table, Columns: columns}
}

// Values appends one row of values. Call repeatedly for multirow inserts.
func (s *InsertStmt) Values(row ...any) *InsertStmt {
	s.Rows = append(s.Rows, row)
	return s
}

// Return requests a RETURNING clause over the given columns. Emitted only
// when the dialect supports implicit returning.
func (s *InsertStmt) Return(columns ...string) *InsertStmt {
	s.Returning = columns
	return s
}

// Compile renders the INSERT statement.
func (s *InsertStmt) Compile(d *Dialect) (string, []any, error) {
	if s.Table == "" || len(s.Columns) == 0 {
		return "", nil, fmt.Errorf("%w: INSERT needs a table and columns", ErrRender)
	}
	if len(s.Rows) == 0 {
		return "", nil, fmt.Errorf("%w: INSERT without values", ErrRender)
	}
	r := NewRenderer(d)
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteIdentifier(s.Table))
	b.WriteString(" (")
	b.WriteString(columnList(d, s.Columns))
	b.WriteString(") VALUES ")
	for i, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return "", nil, fmt.Errorf("%w: row %d has %d values for %d columns",
				ErrRender, i, len(row), len(s.Columns))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			rendered, err := r.Bind(v)
			if err != nil {
				return "", nil, err
			}
			b.WriteString(rendered)
		}
		b.WriteString(")")
	}
	if len(s.Returning) > 0 && d.ImplicitReturning {
		b.WriteString(" RETURNING ")
		b.WriteString(columnList(d, s.Returning))
	}
	return b.String(), r.Args(), nil
}

// UpdateStmt represents an UPDATE statement.
type UpdateStmt struct {
	Table      string
	Assignment []Assign
	Filter     Expr
	Returning  []string
}

// Assign is one SET column = value pair.
type Assign struct {
	Column string
	Value  any
}

// Update starts an UPDATE statement on the given table.
func Update(table string) *UpdateStmt {
	return &UpdateStmt{Table: table}
}

// Set appends a column assignment.
func (s *UpdateStmt) Set(column string, value any) *UpdateStmt {
	s.Assignment = append(s.Assignment, Assign{Column: column, Value: value})
	return s
}

// Where sets the filter predicate. Multiple expressions are ANDed.
func (s *UpdateStmt) Where(exprs ...Expr) *UpdateStmt {
	s.Filter = And(exprs...)
	return s
}

// Return requests a RETURNING clause over the given columns.
func (s *UpdateStmt) Return(columns ...string) *UpdateStmt {
	s.Returning = columns
	return s
}

// Compile renders the UPDATE statement.
func (s *UpdateStmt) Compile(d *Dialect) (string, []any, error) {
	if s.Table == "" || len(s.Assignment) == 0 {
		return "", nil, fmt.Errorf("%w: UPDATE needs a table and assignments", ErrRender)
	}
	r := NewRenderer(d)
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(d.QuoteIdentifier(s.Table))
	b.WriteString(" SET ")
	for i, a := range s.Assignment {
		if i > 0 {
			b.WriteString(", ")
		}
		rendered, err := r.Bind(a.Value)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(d.QuoteIdentifier(a.Column))
		b.WriteString(" = ")
		b.WriteString(rendered)
	}
	if s.Filter != nil {
		w, err := s.Filter.Render(r)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}
	if len(s.Returning) > 0 && d.ImplicitReturning {
		b.WriteString(" RETURNING ")
		b.WriteString(columnList(d, s.Returning))
	}
	return b.String(), r.Args(), nil
}

// DeleteStmt represents a DELETE statement.
type DeleteStmt struct {
	Table     string
	Filter    Expr
	Returning []string
}

// Delete starts a DELETE statement on the given table.
func Delete(table string) *DeleteStmt {
	return &DeleteStmt{Table: table}
}

// Where sets the filter predicate. Multiple expressions are ANDed.
func (s *DeleteStmt) Where(exprs ...Expr) *DeleteStmt {
	s.Filter = And(exprs...)
	return s
}

// Return requests a RETURNING clause over the given columns.
func (s *DeleteStmt) Return(columns ...string) *DeleteStmt {
	s.Returning = columns
	return s
}

// Compile renders the DELETE statement.
func (s *DeleteStmt) Compile(d *Dialect) (string, []any, error) {
	if s.Table == "" {
		return "", nil, fmt.Errorf("%w: DELETE without a table", ErrRender)
	}
	r := NewRenderer(d)
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(d.QuoteIdentifier(s.Table))
	if s.Filter != nil {
		w, err := s.Filter.Render(r)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}
	if len(s.Returning) > 0 && d.ImplicitReturning {
		b.WriteString(" RETURNING ")
		b.WriteString(columnList(d, s.Returning))
	}
	return b.String(), r.Args(), nil
}

// columnList renders a quoted, comma-separated column list. A lone "*"
// passes through unquoted, as does an empty list.
func columnList(d *Dialect, columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		if c == "*" {
			parts[i] = c
			continue
		}
		parts[i] = d.QuoteIdentifier(c)
	}
	return strings.Join(parts, ", ")
}
