// Package db provides PostgreSQL persistence for interview records.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

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

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the interviews table when it does not exist yet.
// Safe to call on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS interviews (
			id              UUID PRIMARY KEY,
			job_title       TEXT NOT NULL,
			candidate_name  TEXT NOT NULL,
			status          TEXT NOT NULL,
			total_questions INT  NOT NULL,
			state           JSONB NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS interviews_created_at_idx ON interviews (created_at DESC)`)
	if err != nil {
		return fmt.Errorf("failed to ensure index: %w", err)
	}
	return nil
}
