package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/types"
)

// Interview is one persisted interview record. The full pipeline state is
// stored as a JSONB document; the scalar columns exist for listing and
// filtering without deserializing the state.
type Interview struct {
	ID             uuid.UUID             `json:"id"`
	JobTitle       string                `json:"job_title"`
	CandidateName  string                `json:"candidate_name"`
	Status         string                `json:"status"`
	TotalQuestions int                   `json:"total_questions"`
	State          *types.InterviewState `json:"state"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InterviewSummary is a lightweight view of a record for listing. Score and
// Recommendation are lifted out of the stored state when present.
type InterviewSummary struct {
	ID             uuid.UUID  `json:"id"`
	JobTitle       string     `json:"job_title"`
	CandidateName  string     `json:"candidate_name"`
	Status         string     `json:"status"`
	TotalQuestions int        `json:"total_questions"`
	Score          *float64   `json:"score,omitempty"`
	Recommendation *string    `json:"recommendation,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// InterviewFilters holds optional filters for listing interviews
type InterviewFilters struct {
	JobTitle  string
	Candidate string
	Status    string
	Limit     int
}
