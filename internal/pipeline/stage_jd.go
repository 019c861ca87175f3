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

// jdStage extracts a role summary and the required competencies from the
// raw job description text.
type jdStage struct {
	client    llm.Client
	retriever retrieval.Gateway
}

func (s *jdStage) Name() string { return parsing.StageJDAnalysis }

func (s *jdStage) Execute(ctx context.Context, state *types.InterviewState, sess Session) (*StateDelta, error) {
	query := fmt.Sprintf("%s interview guide and requirements", state.JobTitle)
	block, passages, err := searchContext(ctx, s.retriever, sess, query, state.JobRole)
	if err != nil {
		return nil, err
	}

	template := prompts.MustGet("stages.json", "jd-analysis")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle":       state.JobTitle,
		"JDText":         state.JDText,
		"ContextSection": contextSection(block),
	})
	systemPrompt := prompts.MustGet("stages.json", "jd-analysis-system")

	raw, err := s.client.GenerateJSON(ctx, systemPrompt, prompt, sess.Tier(llm.TierStandard))
	if err != nil {
		return nil, &parsing.APICallError{Message: "job description analysis", Cause: err}
	}

	analysis, err := parsing.ParseJDAnalysis(raw)
	if err != nil {
		return nil, err
	}

	return &StateDelta{
		JDSummary:      analysis.Summary,
		JDRequirements: analysis.Requirements,
		RAGContext:     block,
		RAGPassages:    passages,
	}, nil
}
