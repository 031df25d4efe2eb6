package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError(t *testing.T) {
	cause := errors.New("boom")
	err := NewSchemaError("users", "email", "bad column", cause)

	assert.Contains(t, err.Error(), "table users")
	assert.Contains(t, err.Error(), "column email")
	assert.Contains(t, err.Error(), "bad column")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, ErrInvalidSchema)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsSchemaError(err))
	assert.False(t, IsConfigError(err))
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("Workers", -1, "workers cannot be negative")

	assert.Contains(t, err.Error(), `"Workers"`)
	assert.Contains(t, err.Error(), "-1")
	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.True(t, IsConfigError(err))

	// Nil values are elided from the message.
	err = NewConfigError("Target", nil, "missing")
	assert.NotContains(t, err.Error(), "value:")
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewGenerationError("model", "user.go", "write file", cause)

	assert.Contains(t, err.Error(), "phase model")
	assert.Contains(t, err.Error(), "user.go")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsGenerationError(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("users", nil, "column with empty name")

	assert.Contains(t, err.Error(), "table users")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.True(t, IsValidationError(err))
}

func TestErrorsWrapThroughFmt(t *testing.T) {
	inner := NewConfigError("Target", nil, "missing")
	wrapped := fmt.Errorf("loading config: %w", inner)

	require.True(t, IsConfigError(wrapped))
	var cfgErr *ConfigError
	require.ErrorAs(t, wrapped, &cfgErr)
	assert.Equal(t, "Target", cfgErr.Option)
}
