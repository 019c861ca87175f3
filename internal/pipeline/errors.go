package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/interview-pilot/internal/parsing"
)

// PreconditionError reports a pipeline entry or stage gate rejected its
// input before any model call was made.
type PreconditionError struct {
	Op     string
	Field  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s: %s %s", e.Op, e.Field, e.Reason)
}

// StageErrorKind partitions stage failures for callers that map them to
// transport status codes or retry policies.
type StageErrorKind string

const (
	KindRetrieval StageErrorKind = "retrieval"
	KindModelCall StageErrorKind = "model_call"
	KindParse     StageErrorKind = "parse"
	KindTimeout   StageErrorKind = "timeout"
)

// StageError wraps any failure that escapes a stage, naming the stage and
// classifying the cause. The underlying error is reachable via Unwrap.
type StageError struct {
	Stage string
	Kind  StageErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RetrievalError marks a hard retrieval gateway failure. Soft gateway
// errors degrade to an empty context inside the stage and never surface.
type RetrievalError struct {
	Query string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for query %q: %v", e.Query, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// wrapStageError classifies err and tags it with the failing stage. An err
// that is already a StageError passes through unchanged.
func wrapStageError(stage string, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	kind := KindModelCall
	var pe *parsing.ParseError
	var ve *parsing.ValidationError
	var re *RetrievalError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &pe), errors.As(err, &ve):
		kind = KindParse
	case errors.As(err, &re):
		kind = KindRetrieval
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}
