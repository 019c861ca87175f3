// Package types defines the shared data structures for the interview pipeline.
package types

import "strings"

// RunStatus tracks the lifecycle of a single pipeline run.
// It is written only by the orchestrator, never by a stage.
type RunStatus string

// Run status values
const (
	StatusPending    RunStatus = "PENDING"
	StatusInProgress RunStatus = "IN_PROGRESS"
	StatusDone       RunStatus = "DONE"
	StatusFailed     RunStatus = "FAILED"
)

// QATurn is one question/answer record in the interview transcript.
// Question and Category are set by the question-generation stage;
// Answer starts empty and is filled in by the caller before evaluation.
type QATurn struct {
	Question string `json:"question"`
	Category string `json:"category,omitempty"`
	Answer   string `json:"answer"`
}

// Answered reports whether the turn carries a non-empty answer.
func (t QATurn) Answered() bool {
	return strings.TrimSpace(t.Answer) != ""
}

// EvaluationResult is the judge stage's output.
type EvaluationResult struct {
	Summary        string             `json:"summary"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	Scores         map[string]float64 `json:"scores,omitempty"` // per-competency, 1-5
	Score          float64            `json:"score"`            // overall, 0-100
	Recommendation string             `json:"recommendation"`   // strong_hire | hire | no_hire
	RawText        string             `json:"raw_text,omitempty"`
}

// Recommendation values accepted from the model.
const (
	RecommendStrongHire = "strong_hire"
	RecommendHire       = "hire"
	RecommendNoHire     = "no_hire"
)

// Recommended reports the boolean reading of the recommendation.
func (e *EvaluationResult) Recommended() bool {
	switch e.Recommendation {
	case RecommendStrongHire, RecommendHire:
		return true
	default:
		return false
	}
}

// SoftLandingPlan is the narrative onboarding plan inside an insights result.
type SoftLandingPlan struct {
	Summary string   `json:"summary"`
	Days30  []string `json:"days_30"`
	Days60  []string `json:"days_60"`
	Days90  []string `json:"days_90"`
}

// InsightSubScores holds the fixed set of 1-5 insight sub-scores.
type InsightSubScores struct {
	ShortTermImpact int `json:"short_term_impact"`
	LongTermGrowth  int `json:"long_term_growth"`
	TeamFit         int `json:"team_fit"`
	RiskLevel       int `json:"risk_level"`
}

// RiskFactor describes one risk identified for the candidate.
type RiskFactor struct {
	Label       string `json:"label"`
	Severity    string `json:"severity"` // low | medium | high
	Description string `json:"description"`
}

// InsightsResult is the post-hoc analysis generated from a completed record.
type InsightsResult struct {
	SoftLandingPlan       SoftLandingPlan  `json:"soft_landing_plan"`
	ContributionSummary   string           `json:"contribution_summary"`
	SubScores             InsightSubScores `json:"sub_scores"`
	RiskFactors           []RiskFactor     `json:"risk_factors"`
	GrowthRecommendations []string         `json:"growth_recommendations"`
	RawText               string           `json:"raw_text,omitempty"`
}

// InterviewState is the single aggregate threaded through one pipeline run.
// It is exclusively owned by that run; callers must guarantee single-writer
// access per interview id.
type InterviewState struct {
	// Identity fields, set once at creation.
	JobTitle       string `json:"job_title"`
	CandidateName  string `json:"candidate_name"`
	JDText         string `json:"jd_text"`
	ResumeText     string `json:"resume_text"`
	TotalQuestions int    `json:"total_questions"`
	JobRole        string `json:"job_role,omitempty"`

	// Derived analysis fields, each written exactly once by one stage.
	JDSummary        string   `json:"jd_summary,omitempty"`
	JDRequirements   []string `json:"jd_requirements,omitempty"`
	CandidateSummary string   `json:"candidate_summary,omitempty"`
	CandidateSkills  []string `json:"candidate_skills,omitempty"`

	// Interaction fields.
	QAHistory []QATurn `json:"qa_history,omitempty"`

	// Retrieval audit: stage name -> assembled context / raw passages.
	RAGContexts map[string]string   `json:"rag_contexts,omitempty"`
	RAGPassages map[string][]string `json:"rag_passages,omitempty"`

	Status     RunStatus         `json:"status"`
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`
	Insights   *InsightsResult   `json:"insights,omitempty"`
}

// NewInterviewState builds the initial state for a full pipeline run.
func NewInterviewState(jobTitle, candidateName, jdText, resumeText string, totalQuestions int) *InterviewState {
	return &InterviewState{
		JobTitle:       jobTitle,
		CandidateName:  candidateName,
		JDText:         jdText,
		ResumeText:     resumeText,
		TotalQuestions: totalQuestions,
		RAGContexts:    make(map[string]string),
		RAGPassages:    make(map[string][]string),
		Status:         StatusPending,
	}
}

// AllAnswered reports whether every QA turn carries a non-empty answer.
// A transcript with no turns at all does not count as answered.
func (s *InterviewState) AllAnswered() bool {
	if len(s.QAHistory) == 0 {
		return false
	}
	for _, turn := range s.QAHistory {
		if !turn.Answered() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the state. Rejudge operates on a clone so the
// caller's prior state is never mutated.
func (s *InterviewState) Clone() *InterviewState {
	c := *s

	c.JDRequirements = append([]string(nil), s.JDRequirements...)
	c.CandidateSkills = append([]string(nil), s.CandidateSkills...)
	c.QAHistory = append([]QATurn(nil), s.QAHistory...)

	c.RAGContexts = make(map[string]string, len(s.RAGContexts))
	for k, v := range s.RAGContexts {
		c.RAGContexts[k] = v
	}
	c.RAGPassages = make(map[string][]string, len(s.RAGPassages))
	for k, v := range s.RAGPassages {
		c.RAGPassages[k] = append([]string(nil), v...)
	}

	if s.Evaluation != nil {
		ev := *s.Evaluation
		ev.Strengths = append([]string(nil), s.Evaluation.Strengths...)
		ev.Weaknesses = append([]string(nil), s.Evaluation.Weaknesses...)
		if s.Evaluation.Scores != nil {
			ev.Scores = make(map[string]float64, len(s.Evaluation.Scores))
			for k, v := range s.Evaluation.Scores {
				ev.Scores[k] = v
			}
		}
		c.Evaluation = &ev
	}
	if s.Insights != nil {
		in := *s.Insights
		in.RiskFactors = append([]RiskFactor(nil), s.Insights.RiskFactors...)
		in.GrowthRecommendations = append([]string(nil), s.Insights.GrowthRecommendations...)
		in.SoftLandingPlan.Days30 = append([]string(nil), s.Insights.SoftLandingPlan.Days30...)
		in.SoftLandingPlan.Days60 = append([]string(nil), s.Insights.SoftLandingPlan.Days60...)
		in.SoftLandingPlan.Days90 = append([]string(nil), s.Insights.SoftLandingPlan.Days90...)
		c.Insights = &in
	}

	return &c
}
