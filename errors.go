package pgbridge

import (
	"context"
	"errors"

	"github.com/pgbridge/pgbridge/sqlgen"
)

// Sentinel errors for lifecycle and rendering failures. Driver-level
// errors (network, constraint violations, missing relations) surface to
// the caller unchanged; these sentinels cover the conditions this layer
// owns. The one locally handled condition is double close, which degrades
// to a logged warning and returns nil.
var (
	// ErrNotInitialized is returned when a query or DDL operation runs
	// before Init has bound a DSN and schema metadata.
	ErrNotInitialized = errors.New("pgbridge: not initialized, call Init first")

	// ErrClosed is returned when a query operation runs after Close.
	// There is no automatic reconnect; re-Init the instance.
	ErrClosed = errors.New("pgbridge: closed")

	// ErrPoolUnavailable is returned when connection pool construction
	// fails. The driver's underlying cause is wrapped.
	ErrPoolUnavailable = errors.New("pgbridge: connection pool unavailable")

	// ErrQueryRender is returned when a structured query cannot be
	// rendered to SQL text.
	ErrQueryRender = sqlgen.ErrRender

	// ErrSchema is returned when a DDL create or drop fails. The driver's
	// underlying cause is wrapped.
	ErrSchema = errors.New("pgbridge: schema operation failed")
)

// IsNotInitializedErr returns true if err is or wraps ErrNotInitialized.
func IsNotInitializedErr(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsClosedErr returns true if err is or wraps ErrClosed.
func IsClosedErr(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsPoolUnavailableErr returns true if err is or wraps ErrPoolUnavailable.
func IsPoolUnavailableErr(err error) bool {
	return errors.Is(err, ErrPoolUnavailable)
}

// IsQueryRenderErr returns true if err is or wraps ErrQueryRender.
func IsQueryRenderErr(err error) bool {
	return errors.Is(err, ErrQueryRender)
}

// IsSchemaErr returns true if err is or wraps ErrSchema.
func IsSchemaErr(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsTimeoutErr returns true if err represents an expired operation
// deadline, whether raised by the context or inside the driver.
func IsTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
