package cli

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes reported by the pgbridge CLI. Scripts key off these to tell
// configuration mistakes apart from database failures.
const (
	ExitOK       = 0
	ExitFailure  = 1 // query or DDL failed against a reachable database
	ExitConfig   = 2 // invalid or missing configuration
	ExitManifest = 3 // table manifest cannot be read or parsed
	ExitConnect  = 4 // database unreachable or credentials rejected
)

// ExitError carries the process exit code alongside the cause.
type ExitError struct {
	Code int
	Op   string
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitWithError prints err to stderr and terminates the process with the
// error's exit code, or ExitFailure when it carries none.
func ExitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(ExitFailure)
}

// ConfigError reports invalid or missing configuration.
func ConfigError(op string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Op: op, Err: err}
}

// SchemaParseError reports a table manifest that cannot be loaded.
func SchemaParseError(op string, err error) *ExitError {
	return &ExitError{Code: ExitManifest, Op: op, Err: err}
}

// DBConnectError reports an unreachable database.
func DBConnectError(op string, err error) *ExitError {
	return &ExitError{Code: ExitConnect, Op: op, Err: err}
}

// GeneralError reports a failed operation against a reachable database.
func GeneralError(op string, err error) *ExitError {
	return &ExitError{Code: ExitFailure, Op: op, Err: err}
}
