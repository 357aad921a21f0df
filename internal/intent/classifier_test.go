package intent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"retailcreative/internal/domain"
	"retailcreative/internal/providers/llm"
)

type staticPlatforms []string

func (s staticPlatforms) Platforms(context.Context) ([]string, error) { return s, nil }

func modelReturning(body string) llm.Capability {
	return llm.Func(func(ctx context.Context, p llm.Prompt) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	})
}

func newTestClassifier(model llm.Capability) *Classifier {
	return New(Options{
		Model:     model,
		Platforms: staticPlatforms{"amazon", "flipkart", "walmart"},
		Logger:    zerolog.Nop(),
	})
}

func TestClassifyFallsBackWhenModelUnavailable(t *testing.T) {
	c := newTestClassifier(llm.Unavailable{})
	d := c.Classify(context.Background(), "Check if this meets Amazon guidelines", domain.Summary{})

	if d.Category != domain.CategoryValidate {
		t.Fatalf("category = %s, want validate", d.Category)
	}
	if d.Platform != domain.PlatformAmazon {
		t.Fatalf("platform = %s, want amazon", d.Platform)
	}
	if d.Confidence != 0.5 || d.ConfidenceLevel != "low" {
		t.Fatalf("confidence = %v (%s), want 0.5 (low)", d.Confidence, d.ConfidenceLevel)
	}
	if !d.NeedsClarification || d.ClarificationQuestion == "" {
		t.Fatalf("expected clarification, got %+v", d)
	}
}

func TestClassifyFallbackUsesDefaultPlatform(t *testing.T) {
	c := newTestClassifier(llm.Func(func(context.Context, llm.Prompt) (json.RawMessage, error) {
		return nil, errors.New("timeout")
	}))
	d := c.Classify(context.Background(), "Make this better", domain.Summary{})

	if d.Category != domain.CategoryOptimize {
		t.Fatalf("category = %s, want optimize", d.Category)
	}
	if d.Platform != domain.PlatformAmazon {
		t.Fatalf("platform = %s, want default amazon", d.Platform)
	}
	if !strings.Contains(d.ClarificationQuestion, "improve") {
		t.Fatalf("question = %q, want an improvement question", d.ClarificationQuestion)
	}
}

func TestClassifyTrustsConfidentModel(t *testing.T) {
	c := newTestClassifier(modelReturning(`{"category":"validate","subIntent":"compliance_check","platform":"Walmart","params":{"targetElement":"headline"},"confidence":0.95,"needsClarification":false}`))
	d := c.Classify(context.Background(), "Is the headline ok for walmart?", domain.Summary{})

	if d.Category != domain.CategoryValidate || d.Platform != domain.PlatformWalmart {
		t.Fatalf("decision = %+v", d)
	}
	if d.NeedsClarification || d.ClarificationQuestion != "" {
		t.Fatalf("unexpected clarification: %+v", d)
	}
	if d.ConfidenceLevel != "high" {
		t.Fatalf("confidence level = %q, want high", d.ConfidenceLevel)
	}
	if d.Params["targetElement"] != "headline" {
		t.Fatalf("params = %v", d.Params)
	}
}

func TestClassifyRequiresClarificationWhenBothSignalsWeak(t *testing.T) {
	c := newTestClassifier(modelReturning(`{"category":"optimize","platform":"amazon","confidence":0.5,"needsClarification":false}`))
	d := c.Classify(context.Background(), "Make this better", domain.Summary{})

	if !d.NeedsClarification {
		t.Fatalf("expected clarification, got %+v", d)
	}
	if d.ClarificationQuestion == "" {
		t.Fatal("expected a clarification question")
	}
}

func TestClassifyKeepsConfidentHeuristic(t *testing.T) {
	c := newTestClassifier(modelReturning(`{"category":"validate","platform":"amazon","confidence":0.5,"needsClarification":false}`))
	d := c.Classify(context.Background(), "Check if this meets Amazon guidelines", domain.Summary{})

	if d.NeedsClarification {
		t.Fatalf("heuristic confidence 0.85 should suppress clarification: %+v", d)
	}
}

func TestClassifySanitizesModelOutput(t *testing.T) {
	c := newTestClassifier(modelReturning(`{"category":"dance","platform":"target","confidence":1.7}`))
	d := c.Classify(context.Background(), "Generate a Flipkart banner", domain.Summary{})

	if d.Category != domain.CategoryCreative {
		t.Fatalf("category = %s, want heuristic creative", d.Category)
	}
	if d.Platform != domain.PlatformFlipkart {
		t.Fatalf("platform = %s, want heuristic flipkart", d.Platform)
	}
	if d.Confidence != 1 {
		t.Fatalf("confidence = %v, want clamped 1", d.Confidence)
	}
}

func TestClassifyPromptCarriesPreAnalysis(t *testing.T) {
	var seen llm.Prompt
	c := newTestClassifier(llm.Func(func(ctx context.Context, p llm.Prompt) (json.RawMessage, error) {
		seen = p
		return json.RawMessage(`{"category":"creative","platform":"amazon","confidence":0.9}`), nil
	}))
	c.Classify(context.Background(), "Add a product image for Amazon", domain.Summary{Width: 1200, Height: 628})

	if seen.Mode != llm.ModeDeterministic {
		t.Fatalf("mode = %v, want deterministic", seen.Mode)
	}
	for _, want := range []string{"Platform hint: amazon", "Suggested category: creative", "1200x628"} {
		if !strings.Contains(seen.System, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
}

func TestJoinPlatforms(t *testing.T) {
	got := joinPlatforms([]string{"amazon", "walmart", "flipkart"})
	if got != "Amazon, Walmart, or Flipkart" {
		t.Fatalf("joinPlatforms = %q", got)
	}
}
