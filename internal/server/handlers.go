package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/parsing"
	"github.com/jonathan/interview-pilot/internal/pipeline"
	"github.com/jonathan/interview-pilot/internal/types"
)

// RunRequest is the body for POST /interviews/run. Answers is optional:
// when present it must hold one answer per generated question, letting a
// single request drive the entire pipeline through evaluation. Without it
// the run stops after question generation and the caller finishes the
// interview later via /interviews/rejudge.
type RunRequest struct {
	JobTitle       string   `json:"job_title" validate:"required"`
	CandidateName  string   `json:"candidate_name" validate:"required"`
	JDText         string   `json:"jd_text" validate:"required"`
	ResumeText     string   `json:"resume_text" validate:"required"`
	TotalQuestions int      `json:"total_questions" validate:"omitempty,min=1,max=20"`
	Answers        []string `json:"answers,omitempty"`
	EnableRAG      *bool    `json:"enable_rag,omitempty"`
	UseLite        bool     `json:"use_lightweight_model,omitempty"`
	SaveHistory    *bool    `json:"save_history,omitempty"`
}

// RunResponse is the reply for run requests.
type RunResponse struct {
	InterviewID     string                `json:"interview_id,omitempty"`
	Status          string                `json:"status"`
	AwaitingAnswers bool                  `json:"awaiting_answers,omitempty"`
	State           *types.InterviewState `json:"state,omitempty"`
	Error           string                `json:"error,omitempty"`
}

// RejudgeRequest is the body for POST /interviews/rejudge.
type RejudgeRequest struct {
	InterviewID string         `json:"interview_id" validate:"required,uuid"`
	QAHistory   []types.QATurn `json:"qa_history" validate:"required,min=1"`
	EnableRAG   *bool          `json:"enable_rag,omitempty"`
	UseLite     bool           `json:"use_lightweight_model,omitempty"`
}

// RejudgeResponse carries the fresh evaluation.
type RejudgeResponse struct {
	InterviewID string                  `json:"interview_id"`
	Status      string                  `json:"status"`
	Evaluation  *types.EvaluationResult `json:"evaluation"`
}

// InsightsRequest is the body for POST /interviews/insights.
type InsightsRequest struct {
	InterviewID string `json:"interview_id" validate:"required,uuid"`
	EnableRAG   *bool  `json:"enable_rag,omitempty"`
	UseLite     bool   `json:"use_lightweight_model,omitempty"`
}

// InsightsResponse carries the generated insights.
type InsightsResponse struct {
	InterviewID string                `json:"interview_id"`
	Insights    *types.InsightsResult `json:"insights"`
}

// ListResponse is the reply for GET /interviews.
type ListResponse struct {
	Interviews []db.InterviewSummary `json:"interviews"`
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation, writing the error response itself on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validator.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

// executeRun runs the pipeline for a validated request and persists the
// outcome. Shared by the plain and streaming run handlers.
func (s *Server) executeRun(r *http.Request, req RunRequest, onProgress pipeline.ProgressCallback) (RunResponse, int) {
	sess := pipeline.NewSession(boolOrDefault(req.EnableRAG, true), req.UseLite)

	in := pipeline.RunInput{
		JobTitle:       req.JobTitle,
		CandidateName:  req.CandidateName,
		JDText:         req.JDText,
		ResumeText:     req.ResumeText,
		TotalQuestions: req.TotalQuestions,
		OnProgress:     onProgress,
	}
	if len(req.Answers) > 0 {
		answers := req.Answers
		in.CollectAnswers = func(_ context.Context, turns []types.QATurn) ([]types.QATurn, error) {
			if len(answers) != len(turns) {
				return nil, fmt.Errorf("expected %d answers, got %d", len(turns), len(answers))
			}
			for i := range turns {
				turns[i].Answer = answers[i]
			}
			return turns, nil
		}
	}

	state, runErr := s.orch.RunFull(r.Context(), in, sess)
	if state == nil {
		return RunResponse{Error: runErr.Error()}, HTTPStatus(runErr)
	}

	resp := RunResponse{Status: string(state.Status), State: state}
	status := http.StatusOK

	if runErr != nil {
		var perr *pipeline.PreconditionError
		awaiting := len(req.Answers) == 0 &&
			errors.As(runErr, &perr) && perr.Op == parsing.StageEvaluation
		if awaiting {
			// not a failure: questions are ready and the caller finishes
			// via rejudge once answers exist
			state.Status = types.StatusInProgress
			resp.Status = string(state.Status)
			resp.AwaitingAnswers = true
		} else {
			resp.Error = runErr.Error()
			status = HTTPStatus(runErr)
		}
	}

	if s.db != nil && boolOrDefault(req.SaveHistory, true) {
		if err := s.db.CreateInterview(r.Context(), sess.ID, state); err != nil {
			log.Printf("Warning: failed to save interview: %v", err)
		} else {
			resp.InterviewID = sess.ID.String()
		}
	}

	return resp, status
}

// handleRun executes a full pipeline run synchronously.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	resp, status := s.executeRun(r, req, nil)
	s.jsonResponse(w, status, resp)
}

// handleRunStream executes a run while streaming per-stage progress as
// Server-Sent Events, ending with a complete or error event.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, _ := s.executeRun(r, req, func(ev pipeline.ProgressEvent) {
		sse.WriteEvent("progress", ev) //nolint:errcheck
	})
	if resp.Error != "" {
		sse.WriteError(resp.Error)
		return
	}
	sse.WriteEvent("complete", resp) //nolint:errcheck
}

// handleRejudge re-evaluates a stored interview with an edited transcript.
func (s *Server) handleRejudge(w http.ResponseWriter, r *http.Request) {
	var req RejudgeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if !s.requireDB(w) {
		return
	}

	id := uuid.MustParse(req.InterviewID)
	rec, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sess := pipeline.NewSession(boolOrDefault(req.EnableRAG, true), req.UseLite)
	evaluation, err := s.orch.Rejudge(r.Context(), rec.State, req.QAHistory, sess)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec.State.QAHistory = req.QAHistory
	rec.State.Evaluation = evaluation
	rec.State.Status = types.StatusDone
	if err := s.db.UpdateInterview(r.Context(), id, rec.State); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, RejudgeResponse{
		InterviewID: id.String(),
		Status:      string(rec.State.Status),
		Evaluation:  evaluation,
	})
}

// handleInsights generates post-hire insights for a completed interview.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if !s.requireDB(w) {
		return
	}

	id := uuid.MustParse(req.InterviewID)
	rec, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sess := pipeline.NewSession(boolOrDefault(req.EnableRAG, true), req.UseLite)
	insights, err := s.orch.GenerateInsights(r.Context(), rec.State, sess)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rec.State.Insights = insights
	if err := s.db.UpdateInterview(r.Context(), id, rec.State); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, InsightsResponse{
		InterviewID: id.String(),
		Insights:    insights,
	})
}

// handleListInterviews lists stored interviews, newest first.
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	filters := db.InterviewFilters{
		JobTitle:  r.URL.Query().Get("job_title"),
		Candidate: r.URL.Query().Get("candidate"),
		Status:    r.URL.Query().Get("status"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filters.Limit = n
	}

	summaries, err := s.db.ListInterviews(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, ListResponse{Interviews: summaries})
}

// handleGetInterview returns one stored interview with its full state.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	rec, err := s.db.GetInterview(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleDeleteInterview removes a stored interview.
func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	if err := s.db.DeleteInterview(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireDB rejects history endpoints when persistence is disabled.
func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence is disabled: set DATABASE_URL")
		return false
	}
	return true
}
