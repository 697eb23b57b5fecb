package sqlgen

import (
	"fmt"
	"log/slog"
)

// Literalizer compiles structured queries into inline literal SQL text for
// human-readable logging.
//
// NOTE: this is entirely insecure. DO NOT execute the resulting strings.
// Literal interpolation does not protect against injection the way
// parameterized execution does.
type Literalizer struct {
	dialect *Dialect
	logger  *slog.Logger
}

// NewLiteralizer returns a literalizer over the given dialect. A nil
// logger falls back to slog.Default().
func NewLiteralizer(d *Dialect, logger *slog.Logger) *Literalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Literalizer{dialect: d.WithLiteralBinds(), logger: logger}
}

// Render compiles the statement with all values inlined as escaped
// literals. The output contains no bind placeholders.
func (l *Literalizer) Render(stmt Statement) (string, error) {
	sql, args, err := stmt.Compile(l.dialect)
	if err != nil {
		return "", err
	}
	if len(args) != 0 {
		return "", fmt.Errorf("%w: %d unresolved placeholders in literal rendering", ErrRender, len(args))
	}
	l.logger.Debug("literalized query", "sql", sql)
	return sql, nil
}
