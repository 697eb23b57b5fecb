package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := SchemaParseError("loading table manifest", errors.New("yaml: bad indent"))
	assert.Equal(t, "loading table manifest: yaml: bad indent", err.Error())
	assert.Equal(t, ExitManifest, err.Code)

	// Nil cause keeps just the operation text.
	bare := GeneralError("3 table(s) missing, run pgbridge migrate", nil)
	assert.Equal(t, "3 table(s) missing, run pgbridge migrate", bare.Error())
	assert.Equal(t, ExitFailure, bare.Code)
}

func TestExitError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := DBConnectError("connecting to database", cause)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, ExitConnect, err.Code)
}

func TestExitError_Codes(t *testing.T) {
	assert.Equal(t, ExitConfig, ConfigError("x", nil).Code)
	assert.Equal(t, ExitManifest, SchemaParseError("x", nil).Code)
	assert.Equal(t, ExitConnect, DBConnectError("x", nil).Code)
	assert.Equal(t, ExitFailure, GeneralError("x", nil).Code)
}
