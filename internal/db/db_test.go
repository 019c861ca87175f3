package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-pilot/internal/types"
)

func TestNotFoundError(t *testing.T) {
	id := uuid.New()
	err := &NotFoundError{ID: id}
	assert.Contains(t, err.Error(), id.String())
}

func TestInterviewType(t *testing.T) {
	state := types.NewInterviewState("Backend Engineer", "Kim", "jd", "resume", 3)
	rec := Interview{
		ID:             uuid.New(),
		JobTitle:       state.JobTitle,
		CandidateName:  state.CandidateName,
		Status:         string(state.Status),
		TotalQuestions: state.TotalQuestions,
		State:          state,
	}

	assert.Equal(t, "Backend Engineer", rec.JobTitle)
	assert.Equal(t, "PENDING", rec.Status)
	assert.Equal(t, 3, rec.TotalQuestions)
	assert.Nil(t, rec.State.Evaluation)
}

func TestInterviewFiltersZeroValue(t *testing.T) {
	var filters InterviewFilters
	assert.Empty(t, filters.JobTitle)
	assert.Empty(t, filters.Status)
	assert.Zero(t, filters.Limit)
}
