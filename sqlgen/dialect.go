// Package sqlgen provides structured SQL query nodes, PostgreSQL dialect
// rules, and a literalization renderer that turns a structured query into
// inline SQL text for logging.
//
// Literalized text is display-only. Executing it bypasses parameter-binding
// protections and reopens injection risk; callers that need execution must
// compile with bind placeholders or pass raw SQL with separate args.
package sqlgen

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// ParamStyle selects how bind parameters render in compiled SQL.
type ParamStyle int

const (
	// ParamOrdinal renders parameters as $1, $2, ... in bind order.
	ParamOrdinal ParamStyle = iota
	// ParamHybrid accepts named parameters in the builder and renumerates
	// them into ordinal placeholders, deduplicating repeated names.
	ParamHybrid
)

// Dialect is a profile of SQL rendering rules for one database engine:
// placeholder style, identifier quoting, and literal value escaping.
type Dialect struct {
	Name              string
	ParamStyle        ParamStyle
	ImplicitReturning bool
	Encoding          string

	// LiteralBinds inlines values as escaped literal text instead of
	// emitting bind placeholders. Set only by the Literalizer.
	LiteralBinds bool
}

// Postgres returns the fixed PostgreSQL dialect profile: hybrid
// positional/named placeholders, implicit RETURNING enabled, UTF-8 text.
func Postgres() *Dialect {
	return &Dialect{
		Name:              "postgresql",
		ParamStyle:        ParamHybrid,
		ImplicitReturning: true,
		Encoding:          "UTF-8",
	}
}

// WithLiteralBinds returns a copy of the dialect that renders values as
// inline literals. The copy is what the Literalizer compiles under.
func (d *Dialect) WithLiteralBinds() *Dialect {
	c := *d
	c.LiteralBinds = true
	return &c
}

// Placeholder returns the bind placeholder for the n-th parameter (1-based).
func (d *Dialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// QuoteIdentifier quotes a table or column name for safe embedding.
func (d *Dialect) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// Literal renders a single value as escaped literal SQL text.
//
// Rules, applied in order: integers render as bare decimal text; byte
// slices are decoded using the dialect encoding before escaping; all other
// non-string values are converted to their text form first; the base
// literal escaper is then applied. Values with no sensible text form
// return ErrRender.
func (d *Dialect) Literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case string:
		return pq.QuoteLiteral(x), nil
	case []byte:
		// Escaper input must be text; decode per the declared encoding.
		// Go strings are UTF-8, which is the only encoding we declare.
		return pq.QuoteLiteral(string(x)), nil
	case float32:
		return pq.QuoteLiteral(strconv.FormatFloat(float64(x), 'g', -1, 32)), nil
	case float64:
		return pq.QuoteLiteral(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case time.Time:
		return pq.QuoteLiteral(x.UTC().Format("2006-01-02 15:04:05.999999")), nil
	case time.Duration:
		return pq.QuoteLiteral(x.String()), nil
	case fmt.Stringer:
		return pq.QuoteLiteral(x.String()), nil
	default:
		return "", fmt.Errorf("%w: cannot render %T as a SQL literal", ErrRender, v)
	}
}
