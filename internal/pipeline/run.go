package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/parsing"
	"github.com/jonathan/interview-pilot/internal/retrieval"
	"github.com/jonathan/interview-pilot/internal/roles"
	"github.com/jonathan/interview-pilot/internal/types"
)

// maxQuestions bounds a single interview transcript.
const maxQuestions = 20

// defaultQuestions is used when the caller leaves TotalQuestions at zero.
const defaultQuestions = 5

// ProgressEvent reports one completed stage during a run.
type ProgressEvent struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ProgressCallback is invoked after each stage completes.
type ProgressCallback func(event ProgressEvent)

// AnswerFunc collects candidate answers for the generated questions. It is
// called between question generation and evaluation with the fresh
// transcript and must return the same turns with answers filled in.
type AnswerFunc func(ctx context.Context, turns []types.QATurn) ([]types.QATurn, error)

// RunInput holds everything a full pipeline run needs.
type RunInput struct {
	JobTitle       string
	CandidateName  string
	JDText         string
	ResumeText     string
	TotalQuestions int

	// CollectAnswers is optional. When nil, the run fails the evaluation
	// gate with a PreconditionError and returns the partial state; the
	// caller can fill answers later and rejudge.
	CollectAnswers AnswerFunc

	OnProgress ProgressCallback
}

func (in *RunInput) validate() error {
	if strings.TrimSpace(in.JobTitle) == "" {
		return &PreconditionError{Op: "run", Field: "job_title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.CandidateName) == "" {
		return &PreconditionError{Op: "run", Field: "candidate_name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.JDText) == "" {
		return &PreconditionError{Op: "run", Field: "jd_text", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.ResumeText) == "" {
		return &PreconditionError{Op: "run", Field: "resume_text", Reason: "must not be empty"}
	}
	if in.TotalQuestions < 0 || in.TotalQuestions > maxQuestions {
		return &PreconditionError{Op: "run", Field: "total_questions", Reason: fmt.Sprintf("must be between 1 and %d; zero selects the default", maxQuestions)}
	}
	return nil
}

// Orchestrator drives interview runs. It owns the stage instances and the
// status transitions; stages themselves never touch Status or persistence.
type Orchestrator struct {
	stages map[string]Stage
}

// New builds an orchestrator over the given model client and retrieval
// gateway. A nil gateway disables retrieval regardless of session flags.
func New(client llm.Client, retriever retrieval.Gateway) *Orchestrator {
	return &Orchestrator{
		stages: map[string]Stage{
			parsing.StageJDAnalysis:         &jdStage{client: client, retriever: retriever},
			parsing.StageResumeAnalysis:     &resumeStage{client: client, retriever: retriever},
			parsing.StageQuestionGeneration: &questionStage{client: client, retriever: retriever},
			parsing.StageEvaluation:         &judgeStage{client: client, retriever: retriever},
			parsing.StageInsights:           &insightsStage{client: client, retriever: retriever},
		},
	}
}

// RunFull executes the complete pipeline: job description analysis, resume
// analysis, question generation, answer collection, and evaluation. It
// aborts at the first failing stage and returns the partial state with
// Status FAILED alongside the error. On success the state is DONE with all
// derived fields populated.
func (o *Orchestrator) RunFull(ctx context.Context, in RunInput, sess Session) (*types.InterviewState, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	total := in.TotalQuestions
	if total == 0 {
		total = defaultQuestions
	}

	state := types.NewInterviewState(in.JobTitle, in.CandidateName, in.JDText, in.ResumeText, total)
	state.JobRole = roles.Classify(in.JobTitle, in.JDText)
	state.Status = types.StatusInProgress

	for _, name := range fullRunOrder {
		if name == parsing.StageEvaluation && in.CollectAnswers != nil {
			answered, err := in.CollectAnswers(ctx, append([]types.QATurn(nil), state.QAHistory...))
			if err != nil {
				state.Status = types.StatusFailed
				return state, fmt.Errorf("collecting answers: %w", err)
			}
			if len(answered) != len(state.QAHistory) {
				state.Status = types.StatusFailed
				return state, &PreconditionError{Op: parsing.StageEvaluation, Field: "qa_history", Reason: "answer count must match question count"}
			}
			state.QAHistory = answered
		}

		if err := o.runStage(ctx, name, state, sess); err != nil {
			state.Status = types.StatusFailed
			return state, err
		}
		if in.OnProgress != nil {
			in.OnProgress(ProgressEvent{
				Stage:     name,
				Message:   fmt.Sprintf("completed %s", name),
				SessionID: sess.ID.String(),
			})
		}
	}

	state.Status = types.StatusDone
	return state, nil
}

// Rejudge re-runs only the evaluation stage against a prior state with a
// replacement transcript. The prior state is never mutated; callers decide
// what to do with the fresh evaluation.
func (o *Orchestrator) Rejudge(ctx context.Context, prior *types.InterviewState, newHistory []types.QATurn, sess Session) (*types.EvaluationResult, error) {
	if prior == nil {
		return nil, &PreconditionError{Op: "rejudge", Field: "state", Reason: "must not be nil"}
	}
	if prior.JDSummary == "" || prior.CandidateSummary == "" {
		return nil, &PreconditionError{Op: "rejudge", Field: "state", Reason: "requires completed job description and resume analyses"}
	}

	scratch := prior.Clone()
	if newHistory != nil {
		scratch.QAHistory = append([]types.QATurn(nil), newHistory...)
	}

	delta, err := o.executeGated(ctx, parsing.StageEvaluation, scratch, sess)
	if err != nil {
		return nil, err
	}
	return delta.Evaluation, nil
}

// GenerateInsights runs the post-hire insights stage against a state that
// already carries an evaluation. The prior state is never mutated.
func (o *Orchestrator) GenerateInsights(ctx context.Context, prior *types.InterviewState, sess Session) (*types.InsightsResult, error) {
	if prior == nil {
		return nil, &PreconditionError{Op: "insights", Field: "state", Reason: "must not be nil"}
	}

	delta, err := o.executeGated(ctx, parsing.StageInsights, prior.Clone(), sess)
	if err != nil {
		return nil, err
	}
	return delta.Insights, nil
}

// runStage gates, executes, and applies one stage in place.
func (o *Orchestrator) runStage(ctx context.Context, name string, state *types.InterviewState, sess Session) error {
	delta, err := o.executeGated(ctx, name, state, sess)
	if err != nil {
		return err
	}
	delta.Apply(name, state)
	return nil
}

// executeGated checks the stage precondition and executes it, classifying
// any failure. The delta is returned unapplied.
func (o *Orchestrator) executeGated(ctx context.Context, name string, state *types.InterviewState, sess Session) (*StateDelta, error) {
	if err := CheckPrecondition(name, state); err != nil {
		return nil, err
	}
	stage, ok := o.stages[name]
	if !ok {
		return nil, fmt.Errorf("unknown stage: %s", name)
	}
	delta, err := stage.Execute(ctx, state, sess)
	if err != nil {
		return nil, wrapStageError(name, err)
	}
	return delta, nil
}
