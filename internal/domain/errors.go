package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrReviewNotFound  = fmt.Errorf("review session %w", ErrNotFound)
	ErrNoOptions       = errors.New("no design option available to apply")
)

// ConfigError reports a missing or malformed configuration or profile source.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ValidationInputError reports invalid request input.
type ValidationInputError struct {
	Field   string
	Message string
}

func (e *ValidationInputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ExternalServiceError wraps a failed call to the generative-model capability.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// WorkflowStateError reports an operation invoked in a state that cannot serve it.
type WorkflowStateError struct {
	Phase Phase
	Err   error
}

func (e *WorkflowStateError) Error() string {
	return fmt.Sprintf("workflow %s: %v", e.Phase, e.Err)
}

func (e *WorkflowStateError) Unwrap() error { return e.Err }

// InputError is shorthand for building a ValidationInputError.
func InputError(field, format string, args ...any) error {
	return &ValidationInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}
