package parsing

import "fmt"

// excerptLen bounds how much raw model output a ParseError carries.
const excerptLen = 240

// APICallError represents a failure calling the model provider
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a failure parsing a stage's structured model output.
// RawExcerpt carries the head of the offending response for diagnosis.
type ParseError struct {
	Stage      string
	Message    string
	RawExcerpt string
	Cause      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error in stage %s: %s", e.Stage, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	if e.RawExcerpt != "" {
		msg += fmt.Sprintf(" (response: %q)", e.RawExcerpt)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// newParseError builds a ParseError with a bounded excerpt of the raw response.
func newParseError(stage, message, raw string, cause error) *ParseError {
	return &ParseError{
		Stage:      stage,
		Message:    message,
		RawExcerpt: excerpt(raw),
		Cause:      cause,
	}
}

func excerpt(raw string) string {
	runes := []rune(raw)
	if len(runes) <= excerptLen {
		return raw
	}
	return string(runes[:excerptLen]) + "..."
}

// ValidationError represents an error during post-processing validation
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
