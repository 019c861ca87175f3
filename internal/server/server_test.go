package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/pipeline"
	"github.com/jonathan/interview-pilot/internal/types"
)

// scriptedClient returns canned JSON per pipeline stage, recognized by
// distinctive prompt phrases.
type scriptedClient struct {
	jd        string
	resume    string
	questions string
	judge     string
	insights  string
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		jd:     `{"summary": "Go services role.", "requirements": ["Go"]}`,
		resume: `{"summary": "API builder.", "skills": ["Go"]}`,
		questions: `{"questions": [
			{"category": "technical", "question": "Q one?"},
			{"category": "technical", "question": "Q two?"}
		]}`,
		judge: `{"summary": "Fine.", "strengths": ["s"], "weaknesses": ["w"], "scores": {"go": 4}, "score": 75, "recommendation": "hire"}`,
		insights: `{
			"soft_landing_plan": {"summary": "Plan.", "days_30": ["a"], "days_60": ["b"], "days_90": ["c"]},
			"contribution_summary": "Good.",
			"sub_scores": {"short_term_impact": 4, "long_term_growth": 3, "team_fit": 4, "risk_level": 2}
		}`,
	}
}

func (c *scriptedClient) GenerateJSON(ctx context.Context, systemPrompt, prompt string, tier llm.ModelTier) (string, error) {
	switch {
	case strings.Contains(prompt, "Analyze the posting"):
		return c.jd, nil
	case strings.Contains(prompt, "reviewing a resume"):
		return c.resume, nil
	case strings.Contains(prompt, "Generate exactly"):
		return c.questions, nil
	case strings.Contains(prompt, "Write the interview evaluation"):
		return c.judge, nil
	default:
		return c.insights, nil
	}
}

func (c *scriptedClient) GenerateContent(ctx context.Context, systemPrompt, prompt string, tier llm.ModelTier) (string, error) {
	return c.GenerateJSON(ctx, systemPrompt, prompt, tier)
}

func (c *scriptedClient) GetModel(tier llm.ModelTier) string { return "scripted" }

func (c *scriptedClient) Close() error { return nil }

// newTestServer builds a server around the scripted client with
// persistence disabled.
func newTestServer(client llm.Client) *Server {
	return &Server{
		orch:      pipeline.New(client, nil),
		client:    client,
		validator: validator.New(),
	}
}

func runBody(t *testing.T, extra map[string]any) *bytes.Reader {
	t.Helper()
	body := map[string]any{
		"job_title":       "Backend Engineer",
		"candidate_name":  "Kim",
		"jd_text":         "Build backend services in Go.",
		"resume_text":     "Five years of Go.",
		"total_questions": 2,
	}
	for k, v := range extra {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(newScriptedClient())

	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRunEndpointFullLoop(t *testing.T) {
	s := newTestServer(newScriptedClient())

	req := httptest.NewRequest(http.MethodPost, "/interviews/run",
		runBody(t, map[string]any{"answers": []string{"first", "second"}, "enable_rag": false}))
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "DONE", resp.Status)
	assert.False(t, resp.AwaitingAnswers)
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.InterviewID) // no persistence configured
	require.NotNil(t, resp.State)
	require.NotNil(t, resp.State.Evaluation)
	assert.Equal(t, 75.0, resp.State.Evaluation.Score)
	assert.Equal(t, "second", resp.State.QAHistory[1].Answer)
}

func TestRunEndpointAwaitingAnswers(t *testing.T) {
	s := newTestServer(newScriptedClient())

	req := httptest.NewRequest(http.MethodPost, "/interviews/run", runBody(t, nil))
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.AwaitingAnswers)
	assert.Equal(t, string(types.StatusInProgress), resp.Status)
	require.NotNil(t, resp.State)
	assert.Len(t, resp.State.QAHistory, 2)
	assert.Nil(t, resp.State.Evaluation)
}

func TestRunEndpointValidation(t *testing.T) {
	s := newTestServer(newScriptedClient())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"job_title":`},
		{"missing job title", `{"candidate_name": "Kim", "jd_text": "x", "resume_text": "y"}`},
		{"too many questions", `{"job_title": "a", "candidate_name": "b", "jd_text": "c", "resume_text": "d", "total_questions": 99}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/interviews/run", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			s.handleRun(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRunEndpointAnswerCountMismatch(t *testing.T) {
	s := newTestServer(newScriptedClient())

	req := httptest.NewRequest(http.MethodPost, "/interviews/run",
		runBody(t, map[string]any{"answers": []string{"only one"}}))
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	// collection failure is an internal run failure, not a precondition
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FAILED", resp.Status)
	assert.Contains(t, resp.Error, "expected 2 answers")
}

func TestRunEndpointModelParseFailure(t *testing.T) {
	client := newScriptedClient()
	client.questions = "not json at all"
	s := newTestServer(client)

	req := httptest.NewRequest(http.MethodPost, "/interviews/run",
		runBody(t, map[string]any{"answers": []string{"a", "b"}}))
	w := httptest.NewRecorder()
	s.handleRun(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FAILED", resp.Status)
	assert.NotEmpty(t, resp.Error)
}

func TestRunStreamEmitsProgress(t *testing.T) {
	s := newTestServer(newScriptedClient())

	req := httptest.NewRequest(http.MethodPost, "/interviews/run/stream",
		runBody(t, map[string]any{"answers": []string{"a", "b"}}))
	w := httptest.NewRecorder()
	s.handleRunStream(w, req)

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, "jd_analysis")
	assert.Contains(t, body, "event: complete")
}

func TestHistoryEndpointsRequireDB(t *testing.T) {
	s := newTestServer(newScriptedClient())

	rejudge := httptest.NewRequest(http.MethodPost, "/interviews/rejudge",
		strings.NewReader(`{"interview_id": "7b0d2b39-3fc9-4a0e-9cc9-24f4ad4c9e0e", "qa_history": [{"question": "q", "answer": "a"}]}`))
	w := httptest.NewRecorder()
	s.handleRejudge(w, rejudge)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/interviews", nil)
	s.handleListInterviews(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRejudgeValidation(t *testing.T) {
	s := newTestServer(newScriptedClient())

	tests := []struct {
		name string
		body string
	}{
		{"bad uuid", `{"interview_id": "nope", "qa_history": [{"question": "q", "answer": "a"}]}`},
		{"empty history", `{"interview_id": "7b0d2b39-3fc9-4a0e-9cc9-24f4ad4c9e0e", "qa_history": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/interviews/rejudge", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			s.handleRejudge(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
