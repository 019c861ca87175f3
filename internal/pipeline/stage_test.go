package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/parsing"
	"github.com/jonathan/interview-pilot/internal/types"
)

func TestStateDeltaApply(t *testing.T) {
	state := types.NewInterviewState("Backend Engineer", "Kim", "jd", "resume", 3)

	delta := &StateDelta{
		JDSummary:      "summary",
		JDRequirements: []string{"Go"},
		RAGContext:     "Reference material:\n[1] passage",
		RAGPassages:    []string{"passage"},
	}
	delta.Apply(parsing.StageJDAnalysis, state)

	assert.Equal(t, "summary", state.JDSummary)
	assert.Equal(t, []string{"Go"}, state.JDRequirements)
	assert.Contains(t, state.RAGContexts[parsing.StageJDAnalysis], "passage")
	assert.Equal(t, []string{"passage"}, state.RAGPassages[parsing.StageJDAnalysis])

	// empty fields leave earlier writes alone
	(&StateDelta{CandidateSummary: "candidate"}).Apply(parsing.StageResumeAnalysis, state)
	assert.Equal(t, "summary", state.JDSummary)
	assert.Equal(t, "candidate", state.CandidateSummary)

	// a nil delta is a no-op
	var nilDelta *StateDelta
	nilDelta.Apply(parsing.StageJDAnalysis, state)
	assert.Equal(t, "summary", state.JDSummary)
}

func TestCheckPrecondition(t *testing.T) {
	base := func() *types.InterviewState {
		return types.NewInterviewState("Backend Engineer", "Kim", "jd text", "resume text", 2)
	}

	tests := []struct {
		name    string
		stage   string
		mutate  func(*types.InterviewState)
		wantErr string
	}{
		{"jd ready", parsing.StageJDAnalysis, nil, ""},
		{"jd missing text", parsing.StageJDAnalysis, func(s *types.InterviewState) { s.JDText = " " }, "jd_text"},
		{"resume needs jd summary", parsing.StageResumeAnalysis, nil, "jd_summary"},
		{"resume ready", parsing.StageResumeAnalysis, func(s *types.InterviewState) { s.JDSummary = "done" }, ""},
		{"questions need both analyses", parsing.StageQuestionGeneration, func(s *types.InterviewState) { s.JDSummary = "done" }, "candidate_summary"},
		{"evaluation needs history", parsing.StageEvaluation, nil, "qa_history"},
		{"evaluation needs answers", parsing.StageEvaluation, func(s *types.InterviewState) {
			s.QAHistory = []types.QATurn{{Question: "q", Answer: ""}}
		}, "qa_history"},
		{"evaluation ready", parsing.StageEvaluation, func(s *types.InterviewState) {
			s.QAHistory = []types.QATurn{{Question: "q", Answer: "a"}}
		}, ""},
		{"insights need evaluation", parsing.StageInsights, nil, "evaluation"},
		{"insights need completed run", parsing.StageInsights, func(s *types.InterviewState) {
			s.Evaluation = &types.EvaluationResult{Score: 70}
		}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := base()
			if tt.mutate != nil {
				tt.mutate(state)
			}
			err := CheckPrecondition(tt.stage, state)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var perr *PreconditionError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantErr, perr.Field)
			assert.Equal(t, tt.stage, perr.Op)
		})
	}

	assert.Error(t, CheckPrecondition("no_such_stage", base()))
}

func TestSessionTier(t *testing.T) {
	sess := NewSession(true, false)
	assert.Equal(t, llm.TierStandard, sess.Tier(llm.TierStandard))
	assert.Equal(t, llm.TierAdvanced, sess.Tier(llm.TierAdvanced))

	lite := NewSession(true, true)
	assert.Equal(t, llm.TierLite, lite.Tier(llm.TierAdvanced))
	assert.Equal(t, defaultTopK, lite.TopK)
	assert.NotEqual(t, sess.ID, lite.ID)
}
