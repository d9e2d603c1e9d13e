package history

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jonathan/rewriter/internal/types"
)

// Adapter turns Store failures into soft Results and logs them.
type Adapter struct {
	store  Store
	logger *slog.Logger
}

// NewAdapter wraps store. A nil logger uses slog.Default().
func NewAdapter(store Store, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{store: store, logger: logger}
}

// Save creates a record with no selection. On failure the id is uuid.Nil.
func (a *Adapter) Save(ctx context.Context, originalText string, options []types.RewriteOption, session types.SessionID) Result[uuid.UUID] {
	id, err := a.store.Insert(ctx, NewRecord{
		OriginalText: originalText,
		Options:      options,
		Session:      session,
	})
	if err != nil {
		a.logger.Error("failed to save rewrite history", "session", session.String(), "error", err)
		return failed(uuid.Nil, err)
	}
	a.logger.Debug("saved rewrite history", "id", id.String(), "options", len(options))
	return ok(id)
}

// SetSelection records the chosen option index. The index is stored as given;
// callers check it against the options they hold.
func (a *Adapter) SetSelection(ctx context.Context, id uuid.UUID, index int) Result[bool] {
	if err := a.store.UpdateSelection(ctx, id, index); err != nil {
		a.logger.Error("failed to update selection", "id", id.String(), "index", index, "error", err)
		return failed(false, err)
	}
	return ok(true)
}

// List returns the session's records newest first. A limit <= 0 means
// DefaultListLimit. On failure Value is an empty, non-nil slice.
func (a *Adapter) List(ctx context.Context, session types.SessionID, limit int) Result[[]types.RewriteRecord] {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	records, err := a.store.ListBySession(ctx, session, limit)
	if err != nil {
		a.logger.Error("failed to fetch history", "session", session.String(), "error", err)
		return failed([]types.RewriteRecord{}, err)
	}
	if records == nil {
		records = []types.RewriteRecord{}
	}
	return ok(records)
}

// Get looks up one of the session's records. On failure Value is nil and Err
// wraps ErrRecordNotFound when the record is missing or owned by another session.
func (a *Adapter) Get(ctx context.Context, session types.SessionID, id uuid.UUID) Result[*types.RewriteRecord] {
	rec, err := a.store.Get(ctx, session, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			a.logger.Debug("history record not found", "id", id.String(), "session", session.String())
		} else {
			a.logger.Error("failed to fetch history record", "id", id.String(), "error", err)
		}
		return failed[*types.RewriteRecord](nil, err)
	}
	return ok(&rec)
}

// Delete removes a record. Deleting an unknown id reports false.
func (a *Adapter) Delete(ctx context.Context, id uuid.UUID) Result[bool] {
	if err := a.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			a.logger.Warn("history record already gone", "id", id.String())
		} else {
			a.logger.Error("failed to delete history record", "id", id.String(), "error", err)
		}
		return failed(false, err)
	}
	return ok(true)
}
