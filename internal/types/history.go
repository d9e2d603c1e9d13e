package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionID is the opaque per-client identifier scoping history visibility.
type SessionID string

// String returns the raw token.
func (s SessionID) String() string {
	return string(s)
}

// RewriteRecord is one persisted rewrite request with its options and optional selection.
type RewriteRecord struct {
	ID             uuid.UUID       `json:"id"`
	OriginalText   string          `json:"original_text"`
	RewriteOptions []RewriteOption `json:"rewrite_options"`
	SelectedOption *int            `json:"selected_option"`
	CreatedAt      time.Time       `json:"created_at"`
	Session        SessionID       `json:"user_session"`
}

// Selected returns the chosen option, if any and in range.
func (r *RewriteRecord) Selected() (RewriteOption, bool) {
	if r.SelectedOption == nil {
		return RewriteOption{}, false
	}
	idx := *r.SelectedOption
	if idx < 0 || idx >= len(r.RewriteOptions) {
		return RewriteOption{}, false
	}
	return r.RewriteOptions[idx], true
}

// SaveHistoryRequest is the body for persisting a rewrite request over HTTP.
type SaveHistoryRequest struct {
	OriginalText   string          `json:"original_text" validate:"required"`
	RewriteOptions []RewriteOption `json:"rewrite_options" validate:"required,min=1,dive"`
	Session        SessionID       `json:"user_session" validate:"required"`
}

// SelectOptionRequest is the body for recording a selection.
type SelectOptionRequest struct {
	Index *int `json:"index" validate:"required"`
}
