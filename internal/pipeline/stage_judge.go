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

// judgeStage scores the completed transcript and produces the final
// hire/no-hire evaluation. It runs on the advanced tier unless the session
// forces the lightweight model.
type judgeStage struct {
	client    llm.Client
	retriever retrieval.Gateway
}

func (s *judgeStage) Name() string { return parsing.StageEvaluation }

func (s *judgeStage) Execute(ctx context.Context, state *types.InterviewState, sess Session) (*StateDelta, error) {
	query := fmt.Sprintf("%s evaluation rubric", state.JobTitle)
	block, passages, err := searchContext(ctx, s.retriever, sess, query, state.JobRole)
	if err != nil {
		return nil, err
	}

	template := prompts.MustGet("stages.json", "evaluation")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle":         state.JobTitle,
		"CandidateName":    state.CandidateName,
		"JDSummary":        state.JDSummary,
		"Requirements":     formatList(state.JDRequirements),
		"CandidateSummary": state.CandidateSummary,
		"Transcript":       formatTranscript(state.QAHistory),
		"ContextSection":   contextSection(block),
	})
	systemPrompt := prompts.MustGet("stages.json", "evaluation-system")

	raw, err := s.client.GenerateJSON(ctx, systemPrompt, prompt, sess.Tier(llm.TierAdvanced))
	if err != nil {
		return nil, &parsing.APICallError{Message: "interview evaluation", Cause: err}
	}

	evaluation, err := parsing.ParseEvaluation(raw)
	if err != nil {
		return nil, err
	}

	return &StateDelta{
		Evaluation:  evaluation,
		RAGContext:  block,
		RAGPassages: passages,
	}, nil
}
