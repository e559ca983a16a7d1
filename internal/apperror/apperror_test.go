package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("get person: %w", NotFound("Person with ID %d not found", 7))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "get person: Person with ID 7 not found", err.Error())
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("connection refused")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation(map[string][]string{"age": {"age must be at most 100"}})
	assert.True(t, IsValidation(err))
	assert.Equal(t, []string{"age must be at most 100"}, err.Fields["age"])
	assert.Equal(t, "Validation failed", err.Message)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := &Error{Kind: KindInternal, Message: "list persons", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list persons: driver: bad connection", err.Error())
}

func TestDefaultAccessMessages(t *testing.T) {
	assert.Equal(t, "Unauthorized", Unauthorized("").Message)
	assert.Equal(t, "Forbidden", Forbidden("").Message)
	assert.Equal(t, "token expired", Unauthorized("token expired").Message)
}
