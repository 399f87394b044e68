package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewConflict("username already exists", map[string]any{"field": "username"})

	mapped := ToDomainError(original)

	require.NotNil(t, mapped)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "username", mapped.Details["field"])
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)

	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("pool exhausted")

	mapped := ToDomainError(cause)

	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.ErrorIs(t, mapped, cause)
}

func TestDomainErrorMessageIncludesCause(t *testing.T) {
	err := NewInternalError(errors.New("boom"))

	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, ToDomainError(nil))
}
