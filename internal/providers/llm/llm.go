// Package llm exposes the structured-output generative model capability used
// by the classifier, the semantic validator and the creative planner.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"retailcreative/internal/domain"
)

// Mode selects the sampling temperature of a call.
type Mode int

const (
	// ModeDeterministic is used for classification and validation.
	ModeDeterministic Mode = iota
	// ModeCreative is used for design generation.
	ModeCreative
)

// Temperature returns the sampling temperature for m.
func (m Mode) Temperature() float32 {
	if m == ModeCreative {
		return 0.7
	}
	return 0
}

func (m Mode) String() string {
	if m == ModeCreative {
		return "creative"
	}
	return "deterministic"
}

// Prompt is one structured-output request.
type Prompt struct {
	Name   string
	System string
	User   string
	Shape  string
	Mode   Mode
}

// Instruction returns the system text with the output shape appended.
func (p Prompt) Instruction() string {
	if p.Shape == "" {
		return p.System
	}
	return p.System + "\n\nRespond only with JSON matching this shape:\n" + p.Shape
}

// Capability returns a JSON value conforming to the prompt's shape or fails.
type Capability interface {
	Invoke(ctx context.Context, p Prompt) (json.RawMessage, error)
}

// Func adapts a function to Capability.
type Func func(ctx context.Context, p Prompt) (json.RawMessage, error)

func (f Func) Invoke(ctx context.Context, p Prompt) (json.RawMessage, error) {
	return f(ctx, p)
}

// ErrUnavailable is returned when no model provider is configured.
var ErrUnavailable = errors.New("model provider not configured")

// Unavailable is the capability used when no provider is configured; every
// call fails so callers take their fallback path.
type Unavailable struct{}

func (Unavailable) Invoke(ctx context.Context, p Prompt) (json.RawMessage, error) {
	return nil, ErrUnavailable
}

// Invoke calls c and decodes the response into T. Every failure, including a
// response that does not match T, is reported as *domain.ExternalServiceError.
func Invoke[T any](ctx context.Context, c Capability, p Prompt) (T, error) {
	var zero T
	if c == nil {
		return zero, &domain.ExternalServiceError{Service: serviceName(p), Err: ErrUnavailable}
	}
	raw, err := c.Invoke(ctx, p)
	if err != nil {
		return zero, &domain.ExternalServiceError{Service: serviceName(p), Err: err}
	}
	out, err := Decode[T](string(raw))
	if err != nil {
		return zero, &domain.ExternalServiceError{Service: serviceName(p), Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

func serviceName(p Prompt) string {
	if p.Name == "" {
		return "model"
	}
	return "model/" + p.Name
}
