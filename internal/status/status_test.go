package status

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("field", "bad").HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("nope").HTTPStatus())
	assert.Equal(t, http.StatusForbidden, Forbidden("nope").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NotFound("thing").HTTPStatus())
	assert.Equal(t, http.StatusConflict, Conflict("clash").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).HTTPStatus())
}

func TestFrom(t *testing.T) {
	original := Conflict("clash")
	assert.Same(t, original, From(original))

	// taxonomy errors survive wrapping
	wrapped := From(fmt.Errorf("confirm payment: %w", original))
	assert.Equal(t, KindConflict, wrapped.Kind)

	unknown := From(errors.New("boom"))
	require.Equal(t, KindInternal, unknown.Kind)
	assert.Equal(t, "internal server error", unknown.Message)
	assert.EqualError(t, unknown.Unwrap(), "boom")
}

func TestErrorMessage(t *testing.T) {
	assert.EqualError(t, Validation("email", "is required"), "email: is required")
	assert.EqualError(t, NotFound("order"), "order not found")
}
