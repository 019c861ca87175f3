package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-pilot/internal/types"
)

func sampleState() *types.InterviewState {
	s := types.NewInterviewState("Backend Engineer", "Kim", "jd", "resume", 2)
	s.JobRole = "backend"
	s.JDSummary = "Builds Go services."
	s.JDRequirements = []string{"Go", "PostgreSQL"}
	s.CandidateSummary = "Five years shipping APIs."
	s.CandidateSkills = []string{"Go", "gRPC"}
	s.QAHistory = []types.QATurn{
		{Question: "Tell me about a hard bug.", Category: "technical", Answer: "It was a race."},
		{Question: "How do you handle conflict?", Category: ""},
	}
	return s
}

func TestPrintJDAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJDAnalysis(sampleState())
	output := buf.String()

	assert.Contains(t, output, "JOB DESCRIPTION ANALYSIS")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "backend")
	assert.Contains(t, output, "Builds Go services.")
	assert.Contains(t, output, "PostgreSQL")
}

func TestPrintJDAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJDAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintResumeAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResumeAnalysis(sampleState())
	output := buf.String()

	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "Kim")
	assert.Contains(t, output, "Five years shipping APIs.")
	assert.Contains(t, output, "gRPC")
}

func TestPrintQuestions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestions(sampleState())
	output := buf.String()

	assert.Contains(t, output, "INTERVIEW QUESTIONS")
	assert.Contains(t, output, "Q1 [technical]")
	assert.Contains(t, output, "Q2 [general]")
	assert.Contains(t, output, "(awaiting answer)")
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(&types.EvaluationResult{
		Summary:        "Solid backend candidate.",
		Strengths:      []string{"debugging"},
		Weaknesses:     []string{"system design depth"},
		Scores:         map[string]float64{"problem_solving": 4},
		Score:          78,
		Recommendation: "hire",
	})
	output := buf.String()

	assert.Contains(t, output, "EVALUATION")
	assert.Contains(t, output, "78/100")
	assert.Contains(t, output, "hire")
	assert.Contains(t, output, "problem_solving")
	assert.Contains(t, output, "debugging")
	assert.Contains(t, output, "system design depth")
}

func TestPrintEvaluation_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(nil)

	assert.Empty(t, buf.String())
}

func TestPrintInsights(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInsights(&types.InsightsResult{
		SoftLandingPlan: types.SoftLandingPlan{
			Summary: "Pair with the platform team first.",
			Days30:  []string{"learn the deploy pipeline"},
		},
		ContributionSummary: "Can own a service within a quarter.",
		SubScores: types.InsightSubScores{
			ShortTermImpact: 4,
			LongTermGrowth:  3,
			TeamFit:         4,
			RiskLevel:       2,
		},
		RiskFactors: []types.RiskFactor{
			{Label: "no on-call experience", Severity: "medium"},
		},
		GrowthRecommendations: []string{"shadow incident reviews"},
	})
	output := buf.String()

	assert.Contains(t, output, "POST-HIRE INSIGHTS")
	assert.Contains(t, output, "own a service")
	assert.Contains(t, output, "Short-term impact  4/5")
	assert.Contains(t, output, "[medium] no on-call experience")
	assert.Contains(t, output, "shadow incident reviews")
}

func TestPrintRetrievalAudit(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	state := sampleState()
	state.RAGPassages = map[string][]string{
		"jd_analysis": {"passage one", "passage two"},
		"evaluation":  {"passage three"},
	}

	p.PrintRetrievalAudit(state)
	output := buf.String()

	assert.Contains(t, output, "RETRIEVAL AUDIT")
	assert.Contains(t, output, "2 passages")
	assert.Contains(t, output, "evaluation")
}

func TestPrintRetrievalAudit_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRetrievalAudit(sampleState())

	assert.Empty(t, buf.String())
}
