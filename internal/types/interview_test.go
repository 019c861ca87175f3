package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQATurnAnswered(t *testing.T) {
	assert.False(t, QATurn{Question: "q"}.Answered())
	assert.False(t, QATurn{Question: "q", Answer: "   "}.Answered())
	assert.True(t, QATurn{Question: "q", Answer: "I led the migration."}.Answered())
}

func TestAllAnswered(t *testing.T) {
	state := NewInterviewState("Backend Engineer", "Alex", "jd", "resume", 3)
	assert.False(t, state.AllAnswered(), "empty transcript must not count as answered")

	state.QAHistory = []QATurn{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: ""},
	}
	assert.False(t, state.AllAnswered())

	state.QAHistory[1].Answer = "a2"
	assert.True(t, state.AllAnswered())
}

func TestRecommended(t *testing.T) {
	tests := []struct {
		recommendation string
		want           bool
	}{
		{RecommendStrongHire, true},
		{RecommendHire, true},
		{RecommendNoHire, false},
		{"", false},
	}
	for _, tt := range tests {
		ev := &EvaluationResult{Recommendation: tt.recommendation}
		assert.Equal(t, tt.want, ev.Recommended(), tt.recommendation)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewInterviewState("Backend Engineer", "Alex", "jd", "resume", 2)
	orig.JDRequirements = []string{"Go", "PostgreSQL"}
	orig.QAHistory = []QATurn{{Question: "q1", Answer: "a1"}}
	orig.RAGContexts["jd_analysis"] = "ctx"
	orig.Evaluation = &EvaluationResult{
		Summary:   "solid",
		Strengths: []string{"communication"},
		Scores:    map[string]float64{"problem_solving": 4},
	}

	clone := orig.Clone()
	require.NotSame(t, orig, clone)

	clone.JDRequirements[0] = "Rust"
	clone.QAHistory[0].Answer = "edited"
	clone.RAGContexts["jd_analysis"] = "other"
	clone.Evaluation.Strengths[0] = "edited"
	clone.Evaluation.Scores["problem_solving"] = 1

	assert.Equal(t, "Go", orig.JDRequirements[0])
	assert.Equal(t, "a1", orig.QAHistory[0].Answer)
	assert.Equal(t, "ctx", orig.RAGContexts["jd_analysis"])
	assert.Equal(t, "communication", orig.Evaluation.Strengths[0])
	assert.Equal(t, 4.0, orig.Evaluation.Scores["problem_solving"])
}
