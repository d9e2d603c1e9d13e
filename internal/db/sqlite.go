package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rewrite_history (
    id              TEXT PRIMARY KEY,
    original_text   TEXT NOT NULL,
    rewrite_options TEXT NOT NULL,
    selected_option INTEGER,
    created_at      INTEGER NOT NULL,
    user_session    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rewrite_history_session_created
    ON rewrite_history (user_session, created_at DESC);
`

// SQLite stores history in a local database file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ history.Store = (*SQLite)(nil)

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Insert implements history.Store.
func (s *SQLite) Insert(ctx context.Context, rec history.NewRecord) (uuid.UUID, error) {
	optionsJSON, err := json.Marshal(rec.Options)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal rewrite options: %w", err)
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rewrite_history (id, original_text, rewrite_options, created_at, user_session)
		VALUES (?, ?, ?, ?, ?)`,
		id.String(), rec.OriginalText, string(optionsJSON), s.now().UnixNano(), rec.Session.String(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert history record: %w", err)
	}
	return id, nil
}

// UpdateSelection implements history.Store.
func (s *SQLite) UpdateSelection(ctx context.Context, id uuid.UUID, index int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE rewrite_history SET selected_option = ? WHERE id = ?`, index, id.String())
	if err != nil {
		return fmt.Errorf("update selection: %w", err)
	}
	return requireRow(result, id)
}

// ListBySession implements history.Store.
func (s *SQLite) ListBySession(ctx context.Context, session types.SessionID, limit int) ([]types.RewriteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, original_text, rewrite_options, selected_option, created_at, user_session
		FROM rewrite_history
		WHERE user_session = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		session.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	records := []types.RewriteRecord{}
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return records, nil
}

// Get implements history.Store.
func (s *SQLite) Get(ctx context.Context, session types.SessionID, id uuid.UUID) (types.RewriteRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, original_text, rewrite_options, selected_option, created_at, user_session
		FROM rewrite_history
		WHERE id = ? AND user_session = ?`,
		id.String(), session.String(),
	)
	rec, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RewriteRecord{}, fmt.Errorf("%w: %s", history.ErrRecordNotFound, id)
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (types.RewriteRecord, error) {
	var (
		rec         types.RewriteRecord
		id          string
		optionsJSON string
		selected    sql.NullInt64
		createdNs   int64
		userSession string
	)
	if err := row.Scan(&id, &rec.OriginalText, &optionsJSON, &selected, &createdNs, &userSession); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan history record: %w", err)
	}
	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return rec, fmt.Errorf("parse record id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(optionsJSON), &rec.RewriteOptions); err != nil {
		return rec, fmt.Errorf("unmarshal rewrite options for %s: %w", id, err)
	}
	if selected.Valid {
		idx := int(selected.Int64)
		rec.SelectedOption = &idx
	}
	rec.CreatedAt = time.Unix(0, createdNs)
	rec.Session = types.SessionID(userSession)
	return rec, nil
}

// Delete implements history.Store.
func (s *SQLite) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rewrite_history WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", history.ErrRecordNotFound, id)
	}
	return nil
}
