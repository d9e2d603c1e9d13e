// Package history persists rewrite requests and the option a user picked.
//
// Store is the storage boundary; Adapter wraps it with soft-fail semantics so
// that no persistence failure ever reaches callers as an error to propagate.
package history

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/rewriter/internal/types"
)

// ErrRecordNotFound is returned by a Store when no record matched the id.
var ErrRecordNotFound = errors.New("rewrite record not found")

// DefaultListLimit is the number of records returned when no limit is given.
const DefaultListLimit = 10

// NewRecord is the input for creating a record.
type NewRecord struct {
	OriginalText string
	Options      []types.RewriteOption
	Session      types.SessionID
}

// Store is implemented by each storage backend.
type Store interface {
	Insert(ctx context.Context, rec NewRecord) (uuid.UUID, error)
	UpdateSelection(ctx context.Context, id uuid.UUID, index int) error
	// ListBySession returns records newest first, at most limit of them.
	ListBySession(ctx context.Context, session types.SessionID, limit int) ([]types.RewriteRecord, error)
	// Get returns the record with id when it belongs to session, otherwise
	// ErrRecordNotFound.
	Get(ctx context.Context, session types.SessionID, id uuid.UUID) (types.RewriteRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
