// Package parsing converts raw model responses into typed stage results.
// One parse routine per stage: locate the JSON payload, validate it against
// the stage's embedded schema, unmarshal, and range-check numerics. Missing
// required fields always surface as a ParseError, never as a guessed default.
package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/schemas"
	"github.com/jonathan/interview-pilot/internal/types"
)

// Stage names used in ParseError reporting. Kept in sync with the pipeline
// registry.
const (
	StageJDAnalysis         = "jd_analysis"
	StageResumeAnalysis     = "resume_analysis"
	StageQuestionGeneration = "question_generation"
	StageEvaluation         = "evaluation"
	StageInsights           = "insights"
)

// JDAnalysis is the jd_analysis stage's parsed output.
type JDAnalysis struct {
	Summary      string   `json:"summary"`
	Requirements []string `json:"requirements"`
}

// ResumeAnalysis is the resume_analysis stage's parsed output.
type ResumeAnalysis struct {
	Summary string   `json:"summary"`
	Skills  []string `json:"skills"`
}

// extractValidated pulls the JSON payload out of a raw response and runs it
// through the named schema. Returns the payload bytes for unmarshalling.
func extractValidated(stage, schemaName, raw string) ([]byte, error) {
	payload, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return nil, newParseError(stage, "no JSON object found in response", raw, nil)
	}

	if err := schemas.ValidateBytes(schemaName, []byte(payload)); err != nil {
		return nil, newParseError(stage, "response failed schema validation", raw, err)
	}

	return []byte(payload), nil
}

// ParseJDAnalysis parses the jd_analysis stage response.
func ParseJDAnalysis(raw string) (*JDAnalysis, error) {
	payload, err := extractValidated(StageJDAnalysis, "jd_analysis", raw)
	if err != nil {
		return nil, err
	}

	var result JDAnalysis
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, newParseError(StageJDAnalysis, "failed to decode JSON", raw, err)
	}

	result.Summary = strings.TrimSpace(result.Summary)
	result.Requirements = cleanList(result.Requirements)
	return &result, nil
}

// ParseResumeAnalysis parses the resume_analysis stage response.
func ParseResumeAnalysis(raw string) (*ResumeAnalysis, error) {
	payload, err := extractValidated(StageResumeAnalysis, "resume_analysis", raw)
	if err != nil {
		return nil, err
	}

	var result ResumeAnalysis
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, newParseError(StageResumeAnalysis, "failed to decode JSON", raw, err)
	}

	result.Summary = strings.TrimSpace(result.Summary)
	result.Skills = cleanList(result.Skills)
	return &result, nil
}

// questionsResponse mirrors the question_generation JSON shape.
type questionsResponse struct {
	Questions []struct {
		Category string `json:"category"`
		Question string `json:"question"`
	} `json:"questions"`
}

// ParseQuestions parses the question_generation stage response and checks the
// model produced exactly want questions. Answers start empty by contract.
func ParseQuestions(raw string, want int) ([]types.QATurn, error) {
	payload, err := extractValidated(StageQuestionGeneration, "question_generation", raw)
	if err != nil {
		return nil, err
	}

	var result questionsResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, newParseError(StageQuestionGeneration, "failed to decode JSON", raw, err)
	}

	turns := make([]types.QATurn, 0, len(result.Questions))
	for _, q := range result.Questions {
		question := strings.TrimSpace(q.Question)
		if question == "" {
			continue
		}
		turns = append(turns, types.QATurn{
			Question: question,
			Category: strings.TrimSpace(q.Category),
			Answer:   "",
		})
	}

	// The schema cannot express the requested count, so it is checked here.
	if len(turns) != want {
		return nil, &ValidationError{
			Field:   "questions",
			Message: fmt.Sprintf("expected %d questions, got %d", want, len(turns)),
		}
	}

	return turns, nil
}

// ParseEvaluation parses the evaluation stage response. Range checks beyond
// the schema: per-competency scores must sit in 1-5 (the schema enforces
// this, but a nil map is normalized here so downstream code can range over it).
func ParseEvaluation(raw string) (*types.EvaluationResult, error) {
	payload, err := extractValidated(StageEvaluation, "evaluation", raw)
	if err != nil {
		return nil, err
	}

	var result types.EvaluationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, newParseError(StageEvaluation, "failed to decode JSON", raw, err)
	}

	result.Summary = strings.TrimSpace(result.Summary)
	result.Strengths = cleanList(result.Strengths)
	result.Weaknesses = cleanList(result.Weaknesses)
	if result.Scores == nil {
		result.Scores = map[string]float64{}
	}
	result.RawText = raw
	return &result, nil
}

// ParseInsights parses the insights stage response.
func ParseInsights(raw string) (*types.InsightsResult, error) {
	payload, err := extractValidated(StageInsights, "insights", raw)
	if err != nil {
		return nil, err
	}

	var result types.InsightsResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, newParseError(StageInsights, "failed to decode JSON", raw, err)
	}

	result.ContributionSummary = strings.TrimSpace(result.ContributionSummary)
	result.GrowthRecommendations = cleanList(result.GrowthRecommendations)
	result.SoftLandingPlan.Days30 = cleanList(result.SoftLandingPlan.Days30)
	result.SoftLandingPlan.Days60 = cleanList(result.SoftLandingPlan.Days60)
	result.SoftLandingPlan.Days90 = cleanList(result.SoftLandingPlan.Days90)
	result.RawText = raw
	return &result, nil
}

// cleanList trims entries and drops empties, preserving order.
func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
