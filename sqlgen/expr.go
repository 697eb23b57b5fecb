package sqlgen

import (
	"errors"
	"strings"
)

// ErrRender is returned when a structured query cannot be rendered to SQL
// text, typically because a value has no literal form or a named parameter
// is unbound.
var ErrRender = errors.New("sqlgen: cannot render query")

// IsRenderErr returns true if err is or wraps ErrRender.
func IsRenderErr(err error) bool {
	return errors.Is(err, ErrRender)
}

// Expr is a node of a structured query. Expressions render themselves
// through a Renderer, which carries the dialect and collects bind args.
type Expr interface {
	Render(r *Renderer) (string, error)
}

// Renderer carries rendering state for one compilation pass: the dialect
// profile and, in bind mode, the accumulated argument list.
type Renderer struct {
	Dialect *Dialect

	args  []any
	named map[string]int
}

// NewRenderer returns a renderer for the given dialect.
func NewRenderer(d *Dialect) *Renderer {
	return &Renderer{Dialect: d}
}

// Bind renders one value: as an escaped literal under LiteralBinds,
// otherwise as the next ordinal placeholder with the value collected
// into the argument list.
func (r *Renderer) Bind(v any) (string, error) {
	if r.Dialect.LiteralBinds {
		return r.Dialect.Literal(v)
	}
	r.args = append(r.args, v)
	return r.Dialect.Placeholder(len(r.args)), nil
}

// BindNamed renders a named parameter. Repeated names share one ordinal
// placeholder (renumeration), which is what the hybrid param style means.
func (r *Renderer) BindNamed(name string, v any) (string, error) {
	if r.Dialect.LiteralBinds {
		return r.Dialect.Literal(v)
	}
	if r.Dialect.ParamStyle == ParamHybrid {
		if n, ok := r.named[name]; ok {
			return r.Dialect.Placeholder(n), nil
		}
	}
	r.args = append(r.args, v)
	if r.named == nil {
		r.named = map[string]int{}
	}
	r.named[name] = len(r.args)
	return r.Dialect.Placeholder(len(r.args)), nil
}

// Args returns the collected bind arguments, in placeholder order.
func (r *Renderer) Args() []any {
	return r.args
}

// Col references a column, optionally table-qualified.
type Col struct {
	Table  string
	Column string
}

// Render renders the quoted column reference.
func (c Col) Render(r *Renderer) (string, error) {
	if c.Table != "" {
		return r.Dialect.QuoteIdentifier(c.Table) + "." + r.Dialect.QuoteIdentifier(c.Column), nil
	}
	return r.Dialect.QuoteIdentifier(c.Column), nil
}

// C is shorthand for an unqualified column reference.
func C(name string) Col {
	return Col{Column: name}
}

// Value is a typed value bound into the query. Under literal rendering it
// inlines as escaped text; otherwise it becomes a placeholder.
type Value struct {
	V any
}

// Render renders the value per the dialect's binding mode.
func (v Value) Render(r *Renderer) (string, error) {
	return r.Bind(v.V)
}

// V is shorthand for a bound value.
func V(v any) Value {
	return Value{V: v}
}

// Param is a named parameter. It inlines its value under literal
// rendering; in bind mode it renumerates into an ordinal placeholder.
type Param struct {
	Name string
	V    any
}

// Render renders the named parameter.
func (p Param) Render(r *Renderer) (string, error) {
	return r.BindNamed(p.Name, p.V)
}

// Frag is a raw SQL fragment spliced verbatim into the output. The caller
// owns its safety.
type Frag string

// Render returns the fragment unchanged.
func (f Frag) Render(r *Renderer) (string, error) {
	return string(f), nil
}

// renderAll renders a slice of expressions and joins them with sep.
func renderAll(r *Renderer, exprs []Expr, sep string) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := e.Render(r)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}
