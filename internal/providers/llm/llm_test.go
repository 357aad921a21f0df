package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"retailcreative/internal/domain"
)

type verdict struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

func TestInvokeDecodesShape(t *testing.T) {
	c := Func(func(ctx context.Context, p Prompt) (json.RawMessage, error) {
		return json.RawMessage(`{"category":"validate","confidence":0.9}`), nil
	})
	got, err := Invoke[verdict](context.Background(), c, Prompt{Name: "intent"})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if got.Category != "validate" || got.Confidence != 0.9 {
		t.Fatalf("Invoke = %+v", got)
	}
}

func TestInvokeWrapsFailures(t *testing.T) {
	cases := []struct {
		name string
		cap  Capability
	}{
		{name: "nil capability", cap: nil},
		{name: "unavailable", cap: Unavailable{}},
		{name: "transport error", cap: Func(func(ctx context.Context, p Prompt) (json.RawMessage, error) {
			return nil, errors.New("timeout")
		})},
		{name: "shape mismatch", cap: Func(func(ctx context.Context, p Prompt) (json.RawMessage, error) {
			return json.RawMessage(`{"category":42}`), nil
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Invoke[verdict](context.Background(), tc.cap, Prompt{Name: "intent"})
			var extErr *domain.ExternalServiceError
			if !errors.As(err, &extErr) {
				t.Fatalf("error = %v, want ExternalServiceError", err)
			}
			if extErr.Service != "model/intent" {
				t.Fatalf("Service = %q", extErr.Service)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n[1,2]\n```", want: `[1,2]`},
		{name: "prose", in: "Sure! Here it is: {\"a\":1} Hope this helps.", want: `{"a":1}`},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestModeTemperature(t *testing.T) {
	if ModeDeterministic.Temperature() != 0 {
		t.Fatalf("deterministic temperature = %v", ModeDeterministic.Temperature())
	}
	if ModeCreative.Temperature() != 0.7 {
		t.Fatalf("creative temperature = %v", ModeCreative.Temperature())
	}
}

func TestPromptInstructionAppendsShape(t *testing.T) {
	p := Prompt{System: "classify", Shape: `{"category":string}`}
	want := "classify\n\nRespond only with JSON matching this shape:\n{\"category\":string}"
	if got := p.Instruction(); got != want {
		t.Fatalf("Instruction = %q, want %q", got, want)
	}
}
