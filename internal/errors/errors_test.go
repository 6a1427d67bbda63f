package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		typ    ErrorType
		status int
	}{
		{"validation", NewValidationError("bad", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"decode", NewDecodeError("bad image", io.ErrUnexpectedEOF), ErrorTypeDecode, http.StatusUnprocessableEntity},
		{"shape mismatch", NewShapeMismatchError(7, 5), ErrorTypeShapeMismatch, http.StatusInternalServerError},
		{"model load", NewModelLoadError("missing", nil), ErrorTypeModelLoad, http.StatusServiceUnavailable},
		{"not found", NewNotFoundError("nope", nil), ErrorTypeNotFound, http.StatusNotFound},
		{"internal", NewInternalError("boom", nil), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.status, GetStatusCode(tt.err))
		})
	}
}

func TestShapeMismatchDetails(t *testing.T) {
	err := NewShapeMismatchError(7, 3)
	assert.Equal(t, "expected 7 scores, got 3", err.Details)
	assert.False(t, err.UserFacing())
}

func TestUserFacing(t *testing.T) {
	assert.True(t, NewDecodeError("x", nil).UserFacing())
	assert.True(t, NewValidationError("x", nil).UserFacing())
	assert.False(t, NewInternalError("x", nil).UserFacing())
	assert.False(t, NewModelLoadError("x", nil).UserFacing())
}

func TestWrappedErrorsClassify(t *testing.T) {
	wrapped := fmt.Errorf("predict: %w", NewDecodeError("not an image", nil))

	assert.True(t, IsType(wrapped, ErrorTypeDecode))
	assert.False(t, IsType(wrapped, ErrorTypeInternal))
	assert.Equal(t, http.StatusUnprocessableEntity, GetStatusCode(wrapped))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "not an image", appErr.Message)
}

func TestPlainErrorDefaultsToInternal(t *testing.T) {
	err := fmt.Errorf("plain")
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(err))
	assert.False(t, IsType(err, ErrorTypeDecode))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := NewDecodeError("bad", io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "decode: bad")
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
