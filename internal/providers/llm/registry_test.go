package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type staticClient struct {
	text string
	err  error
}

func (s staticClient) Generate(ctx context.Context, system, user string) (string, error) {
	return s.text, s.err
}

func TestRegistryCachesClientPerTemperature(t *testing.T) {
	var mu sync.Mutex
	built := map[float32]int{}
	reg, err := NewRegistry(RegistryOptions{
		Model: "test-model",
		Factory: func(model string, temperature float32) (Client, error) {
			mu.Lock()
			built[temperature]++
			mu.Unlock()
			return staticClient{text: "```json\n{\"ok\":true}\n```"}, nil
		},
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := reg.Invoke(ctx, Prompt{Mode: ModeDeterministic}); err != nil {
			t.Fatalf("Invoke returned error: %v", err)
		}
	}
	raw, err := reg.Invoke(ctx, Prompt{Mode: ModeCreative})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("raw = %s", raw)
	}
	if built[0] != 1 || built[0.7] != 1 {
		t.Fatalf("factory calls = %v, want one per temperature", built)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}

	reg.Reset()
	if reg.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", reg.Len())
	}
}

func TestRegistryRejectsNonJSON(t *testing.T) {
	var observed error
	reg, _ := NewRegistry(RegistryOptions{
		Model: "test-model",
		Factory: func(string, float32) (Client, error) {
			return staticClient{text: "I cannot help with that."}, nil
		},
		Logger: zerolog.Nop(),
		OnCall: func(prompt string, took time.Duration, err error) { observed = err },
	})
	if _, err := reg.Invoke(context.Background(), Prompt{Name: "plan"}); err == nil {
		t.Fatal("expected error for prose response")
	}
	if observed != nil {
		t.Fatalf("OnCall saw transport error %v, want nil", observed)
	}
}

func TestRegistryFactoryError(t *testing.T) {
	reg, _ := NewRegistry(RegistryOptions{
		Model:   "test-model",
		Factory: func(string, float32) (Client, error) { return nil, errors.New("no key") },
		Logger:  zerolog.Nop(),
	})
	if _, err := reg.Invoke(context.Background(), Prompt{}); err == nil {
		t.Fatal("expected factory error")
	}
	if reg.Len() != 0 {
		t.Fatal("failed clients must not be cached")
	}
}

func TestOpenAIClientRequest(t *testing.T) {
	var captured openAIChatRequest
	factory, err := NewOpenAIFactory(OpenAIOptions{
		APIKey:  "dummy",
		BaseURL: "https://llm.example.com/v1/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.String() != "https://llm.example.com/v1/chat/completions" {
				t.Errorf("url = %s", r.URL)
			}
			if r.Header.Get("Authorization") != "Bearer dummy" {
				t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
			}
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("decode body: %v", err)
			}
			body := `{"choices":[{"message":{"content":"{\"category\":\"creative\"}"}}]}`
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body)), Header: http.Header{}}, nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIFactory returned error: %v", err)
	}
	client, _ := factory("GPT4o Mini", 0.7)
	text, err := client.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != `{"category":"creative"}` {
		t.Fatalf("text = %q", text)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q, want gpt-4o-mini", captured.Model)
	}
	if captured.Temperature != 0.7 || captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("request = %+v", captured)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
}

func TestOpenAIClientStatusError(t *testing.T) {
	factory, _ := NewOpenAIFactory(OpenAIOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
		})},
	})
	client, _ := factory("gpt-4o-mini", 0)
	if _, err := client.Generate(context.Background(), "s", "u"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("error = %v, want status 429", err)
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input string
		want  string
	}{
		{input: "", want: "gpt-4o-mini"},
		{input: "gpt-4o-mini", want: "gpt-4o-mini"},
		{input: "GPT4o Mini", want: "gpt-4o-mini"},
		{input: "gpt4o", want: "gpt-4o"},
		{input: "local-llama", want: "local-llama"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeOpenAIModel(tc.input); got != tc.want {
				t.Fatalf("NormalizeOpenAIModel(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
