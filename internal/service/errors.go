package service

import (
	"errors"
	"fmt"
)

// Messages shown to the user.
const (
	MsgTextRequired     = "Please enter some text to rewrite"
	MsgTextTooShort     = "Please enter at least 5 characters"
	MsgGenerationFailed = "Failed to generate rewrites. Please try again."
	MsgInvalidSelection = "Please choose one of the listed options"
)

// ErrGenerationFailed is returned when even the local fallback produced an
// unusable result.
var ErrGenerationFailed = errors.New(MsgGenerationFailed)

// ValidationError is a user input problem detected before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
