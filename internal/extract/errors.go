package extract

import (
	"errors"
	"fmt"
)

// LLM path failures. None of them reach the caller of the Orchestrator; each
// one triggers the pattern fallback.
var (
	// ErrLLMUnavailable is returned when no model client is configured.
	ErrLLMUnavailable = errors.New("LLM extractor unavailable")

	// ErrMalformedResponse is returned when the reply holds no parsable JSON array.
	ErrMalformedResponse = errors.New("LLM response is not a JSON array of biomarkers")

	// ErrLLMFailed is returned when the model call fails or panics.
	ErrLLMFailed = errors.New("LLM extraction failed")
)

// ExtractionError wraps an LLM path failure with the step that produced it.
type ExtractionError struct {
	// Op is the step that failed (e.g., "generate", "decode").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newExtractionError(op string, err error, details string) *ExtractionError {
	return &ExtractionError{Op: op, Err: err, Details: details}
}
