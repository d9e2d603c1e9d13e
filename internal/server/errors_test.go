package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/rewriter/internal/history"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "index", Message: "must not be negative"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{Field: "text"}), http.StatusBadRequest},
		{"session mismatch", &ErrSessionMismatch{Requested: "a", Authenticated: "b"}, http.StatusForbidden},
		{"not found", fmt.Errorf("update: %w", history.ErrRecordNotFound), http.StatusNotFound},
		{"other", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error: text - is required", (&ErrValidation{Field: "text", Message: "is required"}).Error())
	assert.Contains(t, (&ErrSessionMismatch{Requested: "session_1_a"}).Error(), "session_1_a")
}
