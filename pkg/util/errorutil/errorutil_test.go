package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("nope")

	mapped := ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestBackendUnavailableUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBackendUnavailable(cause)

	assert.True(t, IsCode(err, "BACKEND_UNAVAILABLE"))
	assert.ErrorIs(t, err, cause)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewUnauthorized("x"), "UNAUTHORIZED"))
	assert.False(t, IsCode(NewUnauthorized("x"), "FORBIDDEN"))
	assert.False(t, IsCode(errors.New("plain"), "FORBIDDEN"))
	assert.False(t, IsCode(nil, "FORBIDDEN"))
}
