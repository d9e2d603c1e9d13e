package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/types"
)

var _ history.Store = (*DB)(nil)

// Insert creates a history record with no selection and returns its ID
func (db *DB) Insert(ctx context.Context, rec history.NewRecord) (uuid.UUID, error) {
	optionsJSON, err := json.Marshal(rec.Options)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal rewrite options: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO rewrite_history (original_text, rewrite_options, user_session)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		rec.OriginalText, optionsJSON, rec.Session.String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert history record: %w", err)
	}
	return id, nil
}

// UpdateSelection sets selected_option on a record
func (db *DB) UpdateSelection(ctx context.Context, id uuid.UUID, index int) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE rewrite_history SET selected_option = $1 WHERE id = $2`,
		index, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update selection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", history.ErrRecordNotFound, id)
	}
	return nil
}

// ListBySession returns a session's records, newest first
func (db *DB) ListBySession(ctx context.Context, session types.SessionID, limit int) ([]types.RewriteRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, original_text, rewrite_options, selected_option, created_at, user_session
		 FROM rewrite_history
		 WHERE user_session = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		session.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	records := []types.RewriteRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

// Get returns one of the session's records by ID
func (db *DB) Get(ctx context.Context, session types.SessionID, id uuid.UUID) (types.RewriteRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, original_text, rewrite_options, selected_option, created_at, user_session
		 FROM rewrite_history
		 WHERE id = $1 AND user_session = $2`,
		id, session.String(),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.RewriteRecord{}, fmt.Errorf("%w: %s", history.ErrRecordNotFound, id)
	}
	return rec, err
}

func scanRecord(row pgx.Row) (types.RewriteRecord, error) {
	var (
		rec         types.RewriteRecord
		optionsJSON []byte
		selected    *int32
		userSession string
	)
	if err := row.Scan(&rec.ID, &rec.OriginalText, &optionsJSON, &selected, &rec.CreatedAt, &userSession); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan history record: %w", err)
	}
	if err := json.Unmarshal(optionsJSON, &rec.RewriteOptions); err != nil {
		return rec, fmt.Errorf("failed to unmarshal rewrite options for %s: %w", rec.ID, err)
	}
	if selected != nil {
		idx := int(*selected)
		rec.SelectedOption = &idx
	}
	rec.Session = types.SessionID(userSession)
	return rec, nil
}

// Delete removes a record
func (db *DB) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM rewrite_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", history.ErrRecordNotFound, id)
	}
	return nil
}
