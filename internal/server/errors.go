// Package server provides the HTTP API for generating rewrites and managing history.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrSessionMismatch indicates a request for another session's history.
type ErrSessionMismatch struct {
	Requested     types.SessionID
	Authenticated types.SessionID
}

func (e *ErrSessionMismatch) Error() string {
	return fmt.Sprintf("session %q does not match token session", e.Requested)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var mismatch *ErrSessionMismatch
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &mismatch):
		return http.StatusForbidden
	case errors.Is(err, history.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
