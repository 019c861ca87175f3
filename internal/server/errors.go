// Package server provides the HTTP REST API for the interview pipeline.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/pipeline"
)

// HTTPStatus maps pipeline and storage errors to response codes. Parse
// failures are the model's fault, not the client's, hence 422; model call
// failures surface as a bad upstream.
func HTTPStatus(err error) int {
	var perr *pipeline.PreconditionError
	if errors.As(err, &perr) {
		return http.StatusBadRequest
	}

	var nf *db.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound
	}

	var serr *pipeline.StageError
	if errors.As(err, &serr) {
		switch serr.Kind {
		case pipeline.KindParse:
			return http.StatusUnprocessableEntity
		case pipeline.KindTimeout:
			return http.StatusGatewayTimeout
		case pipeline.KindModelCall, pipeline.KindRetrieval:
			return http.StatusBadGateway
		}
	}

	return http.StatusInternalServerError
}
