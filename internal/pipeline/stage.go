// Package pipeline provides the high-level orchestration for interview runs:
// stage definitions, precondition gates, and the entry points that drive a
// run from job description to evaluation and insights.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/interview-pilot/internal/parsing"
	"github.com/jonathan/interview-pilot/internal/retrieval"
	"github.com/jonathan/interview-pilot/internal/types"
)

// Stage is one unit of pipeline work. Execute never mutates state; it
// returns a delta the orchestrator applies after a successful run.
type Stage interface {
	Name() string
	Execute(ctx context.Context, state *types.InterviewState, sess Session) (*StateDelta, error)
}

// StateDelta carries the fields a stage produced. Zero-valued fields are
// left untouched on apply, so each stage writes only what it owns.
type StateDelta struct {
	JDSummary        string
	JDRequirements   []string
	CandidateSummary string
	CandidateSkills  []string
	QAHistory        []types.QATurn
	Evaluation       *types.EvaluationResult
	Insights         *types.InsightsResult

	// Retrieval audit trail, keyed by stage name on apply.
	RAGContext  string
	RAGPassages []string
}

// Apply merges the delta into state under the given stage name.
func (d *StateDelta) Apply(stage string, state *types.InterviewState) {
	if d == nil {
		return
	}
	if d.JDSummary != "" {
		state.JDSummary = d.JDSummary
	}
	if d.JDRequirements != nil {
		state.JDRequirements = d.JDRequirements
	}
	if d.CandidateSummary != "" {
		state.CandidateSummary = d.CandidateSummary
	}
	if d.CandidateSkills != nil {
		state.CandidateSkills = d.CandidateSkills
	}
	if d.QAHistory != nil {
		state.QAHistory = d.QAHistory
	}
	if d.Evaluation != nil {
		state.Evaluation = d.Evaluation
	}
	if d.Insights != nil {
		state.Insights = d.Insights
	}
	if d.RAGContext != "" {
		if state.RAGContexts == nil {
			state.RAGContexts = make(map[string]string)
		}
		state.RAGContexts[stage] = d.RAGContext
	}
	if len(d.RAGPassages) > 0 {
		if state.RAGPassages == nil {
			state.RAGPassages = make(map[string][]string)
		}
		state.RAGPassages[stage] = d.RAGPassages
	}
}

// StageDefinition declares what a stage reads from state, expressed as a
// precondition over the accumulated state rather than a step-completion
// lookup, since state is the single source of truth here.
type StageDefinition struct {
	Name         string
	Reads        []string
	Precondition func(*types.InterviewState) *PreconditionError
}

// StageRegistry holds the definitions for every known stage.
var StageRegistry = map[string]StageDefinition{
	parsing.StageJDAnalysis: {
		Name:  parsing.StageJDAnalysis,
		Reads: []string{"job_title", "jd_text"},
		Precondition: func(s *types.InterviewState) *PreconditionError {
			if strings.TrimSpace(s.JDText) == "" {
				return &PreconditionError{Op: parsing.StageJDAnalysis, Field: "jd_text", Reason: "must not be empty"}
			}
			return nil
		},
	},
	parsing.StageResumeAnalysis: {
		Name:  parsing.StageResumeAnalysis,
		Reads: []string{"resume_text", "jd_summary"},
		Precondition: func(s *types.InterviewState) *PreconditionError {
			if strings.TrimSpace(s.ResumeText) == "" {
				return &PreconditionError{Op: parsing.StageResumeAnalysis, Field: "resume_text", Reason: "must not be empty"}
			}
			if s.JDSummary == "" {
				return &PreconditionError{Op: parsing.StageResumeAnalysis, Field: "jd_summary", Reason: "requires a completed job description analysis"}
			}
			return nil
		},
	},
	parsing.StageQuestionGeneration: {
		Name:  parsing.StageQuestionGeneration,
		Reads: []string{"jd_summary", "candidate_summary"},
		Precondition: func(s *types.InterviewState) *PreconditionError {
			if s.JDSummary == "" {
				return &PreconditionError{Op: parsing.StageQuestionGeneration, Field: "jd_summary", Reason: "requires a completed job description analysis"}
			}
			if s.CandidateSummary == "" {
				return &PreconditionError{Op: parsing.StageQuestionGeneration, Field: "candidate_summary", Reason: "requires a completed resume analysis"}
			}
			return nil
		},
	},
	parsing.StageEvaluation: {
		Name:  parsing.StageEvaluation,
		Reads: []string{"qa_history"},
		Precondition: func(s *types.InterviewState) *PreconditionError {
			if len(s.QAHistory) == 0 {
				return &PreconditionError{Op: parsing.StageEvaluation, Field: "qa_history", Reason: "must not be empty"}
			}
			if !s.AllAnswered() {
				return &PreconditionError{Op: parsing.StageEvaluation, Field: "qa_history", Reason: "every question must have a non-empty answer"}
			}
			return nil
		},
	},
	parsing.StageInsights: {
		Name:  parsing.StageInsights,
		Reads: []string{"evaluation", "qa_history"},
		Precondition: func(s *types.InterviewState) *PreconditionError {
			if s.Evaluation == nil {
				return &PreconditionError{Op: parsing.StageInsights, Field: "evaluation", Reason: "requires a completed evaluation"}
			}
			if s.Status != types.StatusDone {
				return &PreconditionError{Op: parsing.StageInsights, Field: "status", Reason: "requires a completed run"}
			}
			return nil
		},
	},
}

// fullRunOrder is the fixed stage sequence for a complete run.
var fullRunOrder = []string{
	parsing.StageJDAnalysis,
	parsing.StageResumeAnalysis,
	parsing.StageQuestionGeneration,
	parsing.StageEvaluation,
}

// CheckPrecondition validates that state satisfies the named stage's gate.
func CheckPrecondition(name string, state *types.InterviewState) error {
	def, ok := StageRegistry[name]
	if !ok {
		return fmt.Errorf("unknown stage: %s", name)
	}
	if def.Precondition == nil {
		return nil
	}
	if perr := def.Precondition(state); perr != nil {
		return perr
	}
	return nil
}

// searchContext queries the gateway and assembles the reference block that
// gets spliced into a stage prompt. Disabled retrieval and empty result
// sets both yield an empty block; gateway errors are hard and propagate.
func searchContext(ctx context.Context, gw retrieval.Gateway, sess Session, query, category string) (string, []string, error) {
	if !sess.EnableRAG || gw == nil {
		return "", nil, nil
	}
	results, err := gw.Search(ctx, query, category, sess.TopK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", nil, err
		}
		return "", nil, &RetrievalError{Query: query, Err: err}
	}
	if len(results) == 0 {
		return "", nil, nil
	}
	passages := make([]string, 0, len(results))
	var b strings.Builder
	b.WriteString("Reference material:\n")
	for i, r := range results {
		passages = append(passages, r.Text)
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Text)
	}
	return b.String(), passages, nil
}
