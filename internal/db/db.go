// Package db provides PostgreSQL and SQLite storage for rewrite history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresSchema creates the history table when missing.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS rewrite_history (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    original_text   TEXT NOT NULL,
    rewrite_options JSONB NOT NULL DEFAULT '[]'::jsonb,
    selected_option INTEGER,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    user_session    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rewrite_history_session_created
    ON rewrite_history (user_session, created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Migrate creates the history table and index if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
