package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/parsing"
	"github.com/jonathan/interview-pilot/internal/prompts"
	"github.com/jonathan/interview-pilot/internal/retrieval"
	"github.com/jonathan/interview-pilot/internal/types"
)

// questionStage generates the interview transcript skeleton: exactly
// TotalQuestions categorized questions with empty answers.
type questionStage struct {
	client    llm.Client
	retriever retrieval.Gateway
}

func (s *questionStage) Name() string { return parsing.StageQuestionGeneration }

func (s *questionStage) Execute(ctx context.Context, state *types.InterviewState, sess Session) (*StateDelta, error) {
	query := fmt.Sprintf("%s sample interview questions", state.JobTitle)
	block, passages, err := searchContext(ctx, s.retriever, sess, query, state.JobRole)
	if err != nil {
		return nil, err
	}

	template := prompts.MustGet("stages.json", "question-generation")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle":         state.JobTitle,
		"CandidateName":    state.CandidateName,
		"JDSummary":        state.JDSummary,
		"Requirements":     formatList(state.JDRequirements),
		"CandidateSummary": state.CandidateSummary,
		"Skills":           formatList(state.CandidateSkills),
		"TotalQuestions":   strconv.Itoa(state.TotalQuestions),
		"ContextSection":   contextSection(block),
	})
	systemPrompt := prompts.MustGet("stages.json", "question-generation-system")

	raw, err := s.client.GenerateJSON(ctx, systemPrompt, prompt, sess.Tier(llm.TierStandard))
	if err != nil {
		return nil, &parsing.APICallError{Message: "question generation", Cause: err}
	}

	turns, err := parsing.ParseQuestions(raw, state.TotalQuestions)
	if err != nil {
		return nil, err
	}

	return &StateDelta{
		QAHistory:   turns,
		RAGContext:  block,
		RAGPassages: passages,
	}, nil
}
