package service

import "fmt"

// ScoreServiceError is a custom error type for scoring pipeline errors.
type ScoreServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ScoreServiceError.
func (e *ScoreServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("score service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("score service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ScoreServiceError) Unwrap() error {
	return e.Err
}

// NewScoreServiceError creates a new ScoreServiceError.
func NewScoreServiceError(operation, message string, err error) *ScoreServiceError {
	return &ScoreServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
