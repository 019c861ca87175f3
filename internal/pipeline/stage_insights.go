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

// insightsStage turns a completed evaluation into post-hire guidance: an
// onboarding plan, contribution outlook, sub-scores, and risk factors.
type insightsStage struct {
	client    llm.Client
	retriever retrieval.Gateway
}

func (s *insightsStage) Name() string { return parsing.StageInsights }

func (s *insightsStage) Execute(ctx context.Context, state *types.InterviewState, sess Session) (*StateDelta, error) {
	query := fmt.Sprintf("%s onboarding and growth practices", state.JobTitle)
	block, passages, err := searchContext(ctx, s.retriever, sess, query, state.JobRole)
	if err != nil {
		return nil, err
	}

	template := prompts.MustGet("stages.json", "insights")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle":         state.JobTitle,
		"CandidateName":    state.CandidateName,
		"JDSummary":        state.JDSummary,
		"CandidateSummary": state.CandidateSummary,
		"Transcript":       formatTranscript(state.QAHistory),
		"Evaluation":       formatEvaluation(state.Evaluation),
		"ContextSection":   contextSection(block),
	})
	systemPrompt := prompts.MustGet("stages.json", "insights-system")

	raw, err := s.client.GenerateJSON(ctx, systemPrompt, prompt, sess.Tier(llm.TierAdvanced))
	if err != nil {
		return nil, &parsing.APICallError{Message: "insights generation", Cause: err}
	}

	insights, err := parsing.ParseInsights(raw)
	if err != nil {
		return nil, err
	}

	return &StateDelta{
		Insights:    insights,
		RAGContext:  block,
		RAGPassages: passages,
	}, nil
}
