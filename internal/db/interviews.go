package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-pilot/internal/types"
)

// NotFoundError reports a lookup for an interview id that does not exist.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("interview not found: %s", e.ID)
}

// CreateInterview stores a new record keyed by id and returns nothing; the
// caller owns id generation so runs stay addressable even when persistence
// is disabled.
func (db *DB) CreateInterview(ctx context.Context, id uuid.UUID, state *types.InterviewState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviews (id, job_title, candidate_name, status, total_questions, state)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, state.JobTitle, state.CandidateName, string(state.Status), state.TotalQuestions, stateJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// UpdateInterview replaces the stored state for an existing record.
func (db *DB) UpdateInterview(ctx context.Context, id uuid.UUID, state *types.InterviewState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE interviews
		 SET status = $1, total_questions = $2, state = $3, updated_at = NOW()
		 WHERE id = $4`,
		string(state.Status), state.TotalQuestions, stateJSON, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// GetInterview retrieves one record with its full state.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*Interview, error) {
	var rec Interview
	var stateJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, job_title, candidate_name, status, total_questions, state, created_at, updated_at
		 FROM interviews WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.JobTitle, &rec.CandidateName, &rec.Status, &rec.TotalQuestions, &stateJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	var state types.InterviewState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interview state: %w", err)
	}
	rec.State = &state
	return &rec, nil
}

// ListInterviews retrieves record summaries with optional filters, newest
// first. Score and recommendation are extracted from the stored state so
// listings never deserialize whole documents.
func (db *DB) ListInterviews(ctx context.Context, filters InterviewFilters) ([]InterviewSummary, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, job_title, candidate_name, status, total_questions,
			(state->'evaluation'->>'score')::float8,
			state->'evaluation'->>'recommendation',
			created_at, updated_at
		FROM interviews WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.JobTitle != "" {
		query += fmt.Sprintf(" AND job_title ILIKE $%d", argNum)
		args = append(args, "%"+filters.JobTitle+"%")
		argNum++
	}
	if filters.Candidate != "" {
		query += fmt.Sprintf(" AND candidate_name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Candidate+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var summaries []InterviewSummary
	for rows.Next() {
		var s InterviewSummary
		if err := rows.Scan(&s.ID, &s.JobTitle, &s.CandidateName, &s.Status, &s.TotalQuestions,
			&s.Score, &s.Recommendation, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteInterview removes a record permanently.
func (db *DB) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
