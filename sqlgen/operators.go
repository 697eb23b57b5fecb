package sqlgen

// Comparison operators

// Eq represents an equality comparison (=).
type Eq struct {
	Left  Expr
	Right Expr
}

// Render renders the equality comparison.
func (e Eq) Render(r *Renderer) (string, error) {
	return renderBinary(r, e.Left, " = ", e.Right)
}

// Ne represents a not-equal comparison (<>).
type Ne struct {
	Left  Expr
	Right Expr
}

// Render renders the not-equal comparison.
func (n Ne) Render(r *Renderer) (string, error) {
	return renderBinary(r, n.Left, " <> ", n.Right)
}

// Lt represents a less-than comparison (<).
type Lt struct {
	Left  Expr
	Right Expr
}

// Render renders the less-than comparison.
func (l Lt) Render(r *Renderer) (string, error) {
	return renderBinary(r, l.Left, " < ", l.Right)
}

// Gt represents a greater-than comparison (>).
type Gt struct {
	Left  Expr
	Right Expr
}

// Render renders the greater-than comparison.
func (g Gt) Render(r *Renderer) (string, error) {
	return renderBinary(r, g.Left, " > ", g.Right)
}

// Lte represents a less-than-or-equal comparison (<=).
type Lte struct {
	Left  Expr
	Right Expr
}

// Render renders the less-than-or-equal comparison.
func (l Lte) Render(r *Renderer) (string, error) {
	return renderBinary(r, l.Left, " <= ", l.Right)
}

// Gte represents a greater-than-or-equal comparison (>=).
type Gte struct {
	Left  Expr
	Right Expr
}

// Render renders the greater-than-or-equal comparison.
func (g Gte) Render(r *Renderer) (string, error) {
	return renderBinary(r, g.Left, " >= ", g.Right)
}

func renderBinary(r *Renderer, left Expr, op string, right Expr) (string, error) {
	l, err := left.Render(r)
	if err != nil {
		return "", err
	}
	rt, err := right.Render(r)
	if err != nil {
		return "", err
	}
	return l + op + rt, nil
}

// In represents an IN clause.
type In struct {
	Expr   Expr
	Values []Expr
}

// Render renders the IN clause. An empty value list renders as FALSE.
func (i In) Render(r *Renderer) (string, error) {
	if len(i.Values) == 0 {
		return "FALSE", nil
	}
	lhs, err := i.Expr.Render(r)
	if err != nil {
		return "", err
	}
	vals, err := renderAll(r, i.Values, ", ")
	if err != nil {
		return "", err
	}
	return lhs + " IN (" + vals + ")", nil
}

// Between represents a BETWEEN range predicate.
type Between struct {
	Expr Expr
	Low  Expr
	High Expr
}

// Render renders the BETWEEN predicate.
func (b Between) Render(r *Renderer) (string, error) {
	e, err := b.Expr.Render(r)
	if err != nil {
		return "", err
	}
	lo, err := b.Low.Render(r)
	if err != nil {
		return "", err
	}
	hi, err := b.High.Render(r)
	if err != nil {
		return "", err
	}
	return e + " BETWEEN " + lo + " AND " + hi, nil
}

// IsNull represents an IS NULL test.
type IsNull struct {
	Expr Expr
}

// Render renders the IS NULL test.
func (n IsNull) Render(r *Renderer) (string, error) {
	e, err := n.Expr.Render(r)
	if err != nil {
		return "", err
	}
	return e + " IS NULL", nil
}

// Logical operators

// AndExpr represents a logical AND of multiple expressions.
type AndExpr struct {
	Exprs []Expr
}

// Render renders the AND expression.
func (a AndExpr) Render(r *Renderer) (string, error) {
	if len(a.Exprs) == 0 {
		return "TRUE", nil
	}
	if len(a.Exprs) == 1 {
		return a.Exprs[0].Render(r)
	}
	s, err := renderAll(r, a.Exprs, " AND ")
	if err != nil {
		return "", err
	}
	return "(" + s + ")", nil
}

// And creates an AND expression from multiple expressions.
func And(exprs ...Expr) AndExpr {
	// Filter out nil expressions
	filtered := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	return AndExpr{Exprs: filtered}
}

// OrExpr represents a logical OR of multiple expressions.
type OrExpr struct {
	Exprs []Expr
}

// Render renders the OR expression.
func (o OrExpr) Render(r *Renderer) (string, error) {
	if len(o.Exprs) == 0 {
		return "FALSE", nil
	}
	if len(o.Exprs) == 1 {
		return o.Exprs[0].Render(r)
	}
	s, err := renderAll(r, o.Exprs, " OR ")
	if err != nil {
		return "", err
	}
	return "(" + s + ")", nil
}

// Or creates an OR expression from multiple expressions.
func Or(exprs ...Expr) OrExpr {
	// Filter out nil expressions
	filtered := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	return OrExpr{Exprs: filtered}
}

// NotExpr represents a logical NOT of an expression.
type NotExpr struct {
	Expr Expr
}

// Render renders the NOT expression.
func (n NotExpr) Render(r *Renderer) (string, error) {
	e, err := n.Expr.Render(r)
	if err != nil {
		return "", err
	}
	return "NOT (" + e + ")", nil
}

// Not creates a NOT expression.
func Not(expr Expr) NotExpr {
	return NotExpr{Expr: expr}
}
