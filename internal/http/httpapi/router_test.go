package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"retailcreative/internal/http/handlers"
	"retailcreative/internal/intent"
	"retailcreative/internal/metrics"
	"retailcreative/internal/providers/llm"
	"retailcreative/internal/rules"
)

func newTestServer(t *testing.T, limit int) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	profiles := rules.NewProvider(rules.NewBuiltinSource(), zerolog.Nop())
	app := &handlers.App{
		Logger:   zerolog.Nop(),
		Profiles: profiles,
		Router:   intent.New(intent.Options{Model: llm.Unavailable{}, Platforms: profiles, Logger: zerolog.Nop(), Metrics: m}),
	}
	srv := httptest.NewServer(NewRouter(app, Options{
		Logger:          zerolog.Nop(),
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitPerMin: limit,
		Gatherer:        reg,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndDocs(t *testing.T) {
	srv := newTestServer(t, 10)
	for _, path := range []string{"/v1/healthz", "/v1/openapi.json", "/v1/docs"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s = %d", path, resp.StatusCode)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatalf("GET %s missing request id", path)
		}
	}
}

func TestOpenAPIRevalidates(t *testing.T) {
	srv := newTestServer(t, 10)
	resp, err := http.Get(srv.URL + "/v1/openapi.json")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", resp.StatusCode)
	}
}

func TestRouteIsServedAndCounted(t *testing.T) {
	srv := newTestServer(t, 10)
	resp := post(t, srv.URL+"/api/route", `{"canvasState":{"width":1200,"height":628,"elements":[]},"userRequest":"Check if this meets Amazon guidelines"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	m, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer m.Body.Close()
	body, err := io.ReadAll(m.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), `creative_model_fallbacks_total{component="intent"} 1`) {
		t.Fatalf("fallback counter missing from:\n%s", body)
	}
}

func TestAPIRateLimited(t *testing.T) {
	srv := newTestServer(t, 1)
	body := `{"canvasState":{"width":1,"height":1,"elements":[]},"userRequest":"hi"}`
	if resp := post(t, srv.URL+"/api/route", body); resp.StatusCode != http.StatusOK {
		t.Fatalf("first status = %d", resp.StatusCode)
	}
	if resp := post(t, srv.URL+"/api/route", body); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", resp.StatusCode)
	}
	resp, err := http.Get(srv.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health should not be rate limited, got %d", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, 10)
	resp, err := http.Get(srv.URL + "/api/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
