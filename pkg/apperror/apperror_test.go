package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("portfolio", "abc"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load draft: %w", NewNotFound("session", "x")), http.StatusNotFound},
		{"invalid input", NewInvalidInput("bad field", nil), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("bad password", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("owner missing"), http.StatusForbidden},
		{"conflict", NewConflict("portfolio", "slug", "jane"), http.StatusConflict},
		{"internal", NewInternal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestAppError_ToJSON(t *testing.T) {
	body := NewConflict("portfolio", "slug", "jane").ToJSON()
	assert.Equal(t, "conflict", body["error"])
	assert.Equal(t, "portfolio conflict", body["message"])
	assert.Equal(t, "portfolio with slug 'jane' already exists", body["details"])

	internal := NewInternal("query failed", errors.New("secret dsn")).ToJSON()
	_, hasDetails := internal["details"]
	assert.False(t, hasDetails)
}

func TestAppError_Codes(t *testing.T) {
	assert.Equal(t, CodeNotFound, NewNotFound("section", "hobbies").Code())
	assert.Equal(t, CodeForbidden, NewPermissionDenied("owner missing").Code())
	assert.Equal(t, CodeInternal, NewInternal("boom", nil).Code())
	assert.True(t, IsCode(fmt.Errorf("save: %w", NewConflict("portfolio", "slug", "jane")), CodeConflict))
	assert.False(t, IsCode(errors.New("plain"), CodeConflict))
}

func TestNewInvalidField(t *testing.T) {
	err := NewInvalidField("gpa", "unknown field: education.gpa", errors.New("unknown field"))

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(err))

	body := err.ToJSON()
	assert.Equal(t, CodeInvalidInput, body["code"])
	assert.Equal(t, "gpa", body["field"])
	assert.Contains(t, err.Error(), "[field gpa]")
}

func TestFrom(t *testing.T) {
	notFound := NewNotFound("portfolio", "jane")
	assert.Same(t, notFound, From(fmt.Errorf("read: %w", notFound)))

	wrapped := From(errors.New("db down"))
	assert.ErrorIs(t, wrapped, ErrInternal)
	assert.Equal(t, CodeInternal, wrapped.ToJSON()["code"])
	_, hasDetails := wrapped.ToJSON()["details"]
	assert.False(t, hasDetails)
}
