package pipeline

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/parsing"
	"github.com/jonathan/interview-pilot/internal/prompts"
	"github.com/jonathan/interview-pilot/internal/retrieval"
	"github.com/jonathan/interview-pilot/internal/types"
)

// resumeStage summarizes the candidate's resume against the analyzed role.
type resumeStage struct {
	client    llm.Client
	retriever retrieval.Gateway
}

func (s *resumeStage) Name() string { return parsing.StageResumeAnalysis }

func (s *resumeStage) Execute(ctx context.Context, state *types.InterviewState, sess Session) (*StateDelta, error) {
	query := fmt.Sprintf("%s resume evaluation criteria", state.JobTitle)
	block, passages, err := searchContext(ctx, s.retriever, sess, query, state.JobRole)
	if err != nil {
		return nil, err
	}

	template := prompts.MustGet("stages.json", "resume-analysis")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle":       state.JobTitle,
		"JDSummary":      state.JDSummary,
		"ResumeText":     state.ResumeText,
		"ContextSection": contextSection(block),
	})
	systemPrompt := prompts.MustGet("stages.json", "resume-analysis-system")

	raw, err := s.client.GenerateJSON(ctx, systemPrompt, prompt, sess.Tier(llm.TierStandard))
	if err != nil {
		return nil, &parsing.APICallError{Message: "resume analysis", Cause: err}
	}

	analysis, err := parsing.ParseResumeAnalysis(raw)
	if err != nil {
		return nil, err
	}

	return &StateDelta{
		CandidateSummary: analysis.Summary,
		CandidateSkills:  analysis.Skills,
		RAGContext:       block,
		RAGPassages:      passages,
	}, nil
}
