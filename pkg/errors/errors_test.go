package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "INVALID_ARGUMENT(durationMinutes): must be positive",
		NewInvalidArgumentError("durationMinutes", "must be positive").Error())
	assert.Equal(t, "NOT_FOUND: center not found", NewNotFoundError("center not found").Error())
	assert.Equal(t, "EXTERNAL: request failed: boom",
		NewExternalError("request failed", errors.New("boom")).Error())
}

func TestTypeOf_WrappedChain(t *testing.T) {
	base := NewInvalidArgumentError("timezone", "unknown timezone")
	wrapped := fmt.Errorf("compute availability: %w", base)

	assert.Equal(t, ErrorTypeInvalidArgument, TypeOf(wrapped))
	assert.True(t, IsInvalidArgument(wrapped))
	assert.Equal(t, "timezone", FieldOf(wrapped))
}

func TestTypeOf_PlainError(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, ErrorType(""), TypeOf(err))
	assert.False(t, IsInvalidArgument(err))
	assert.Empty(t, FieldOf(err))
}

func TestNewExternalStatusError(t *testing.T) {
	err := NewExternalStatusError(404, "Guest not found")
	assert.Equal(t, ErrorTypeExternal, err.Type)
	assert.Equal(t, 404, err.StatusCode)
	assert.Nil(t, errors.Unwrap(err))
}
