package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"retailcreative/internal/adapter/repo"
	"retailcreative/internal/autofix"
	"retailcreative/internal/creative"
	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/intent"
	"retailcreative/internal/orchestrator"
	"retailcreative/internal/providers/llm"
	"retailcreative/internal/rules"
	"retailcreative/internal/validation"
)

const (
	twoOptions = `{"options":[
		{"id":"o1","elements":[{"id":"cta","type":"text","x":40,"y":500,"width":300,"height":60,"content":"Shop now","style":{"fontSize":20,"fontFamily":"Arial","color":"#000000"}}],"complianceReasoning":"clear CTA","confidence":0.9,"modifications":["add CTA"]},
		{"id":"o2","elements":[{"id":"cta","type":"text","x":40,"y":520,"width":300,"height":60,"content":"Buy today","style":{"fontSize":22,"fontFamily":"Arial","color":"#000000"}}],"complianceReasoning":"urgent CTA","confidence":0.85,"modifications":["add CTA"]}]}`
	oneOption = `{"options":[
		{"id":"o1","elements":[{"id":"cta","type":"text","x":40,"y":500,"width":300,"height":60,"content":"Shop now","style":{"fontSize":20,"fontFamily":"Arial","color":"#000000"}}],"complianceReasoning":"clear CTA","confidence":0.95,"modifications":["add CTA"]}]}`
)

// scriptedModel answers each prompt kind with a canned payload.
func scriptedModel(decision, plan string) llm.Capability {
	return llm.Func(func(ctx context.Context, p llm.Prompt) (json.RawMessage, error) {
		switch p.Name {
		case "intent":
			return json.RawMessage(decision), nil
		case "plan":
			return json.RawMessage(plan), nil
		default:
			return json.RawMessage(`{"violations":[],"warnings":[],"suggestions":["Consider a stronger headline"]}`), nil
		}
	})
}

func newTestApp(model llm.Capability) *App {
	logger := zerolog.Nop()
	cfg := jsoncfg.Default()
	profiles := rules.NewProvider(rules.NewBuiltinSource(), logger)
	fixes := autofix.New(cfg)
	router := intent.New(intent.Options{Model: model, Platforms: profiles, Config: cfg, Logger: logger})
	pipeline := validation.New(validation.Options{Profiles: profiles, Model: model, Config: cfg, Fixes: fixes, Logger: logger})
	wf := creative.New(creative.Options{Profiles: profiles, Model: model, Config: cfg, Reviews: repo.NewReviewRepositoryMemory(), Logger: logger})
	return &App{
		Logger:          logger,
		Profiles:        profiles,
		Router:          router,
		Validator:       pipeline,
		Fixes:           fixes,
		Creative:        wf,
		Orchestrator:    orchestrator.New(router, wf, pipeline, logger),
		DefaultPlatform: "amazon",
	}
}

func testRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Post("/route", app.Route)
	r.Post("/creative", app.CreativeRun)
	r.Get("/creative/reviews/{id}", app.CreativeReview)
	r.Post("/creative/reviews/{id}/decision", app.CreativeDecision)
	r.Post("/validate", app.Validate)
	r.Post("/validate/auto-fix", app.AutoFix)
	r.Post("/workflow", app.Workflow)
	r.Get("/platforms", app.PlatformsList)
	r.Post("/platforms/reload", app.PlatformsReload)
	r.Get("/platforms/{platform}", app.PlatformShow)
	return r
}

func compliantCanvas() domain.Design {
	return domain.Design{
		Width:      1200,
		Height:     628,
		Background: &domain.Background{Color: "#FFFFFF"},
		Elements: []domain.Element{
			{ID: "product", Type: domain.ElementImage, Width: 600, Height: 400, Src: "p.png", Metadata: &domain.ElementFlags{IsProduct: true}},
			{ID: "headline", Type: domain.ElementText, Content: "Fresh deals", Style: &domain.Style{FontSize: 24, FontFamily: "Arial", Color: "#000000"}},
		},
		Metadata: &domain.DesignMetadata{Version: 1},
	}
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out response
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, path, rr.Body.String(), err)
	}
	return rr.Code, out
}

func decodeData[T any](t *testing.T, r response) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(r.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
	return v
}

func TestRouteRequiresFields(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))

	cases := []struct {
		name string
		body any
	}{
		{"missing canvas", map[string]any{"userRequest": "check it"}},
		{"missing request", map[string]any{"canvasState": compliantCanvas()}},
		{"malformed json", `{"canvasState":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := do(t, h, http.MethodPost, "/route", tc.body)
			if code != http.StatusBadRequest || resp.Success || resp.Error == nil || resp.Error.Code != "invalid_request" {
				t.Fatalf("got %d %+v", code, resp.Error)
			}
		})
	}
}

func TestRouteFallsBackWithoutModel(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))

	code, resp := do(t, h, http.MethodPost, "/route", map[string]any{
		"canvasState": compliantCanvas(),
		"userRequest": "Check if this meets Amazon guidelines",
	})
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d", code)
	}
	got := decodeData[domain.RouterDecision](t, resp)
	if got.Category != domain.CategoryValidate || got.Platform != "amazon" || got.Confidence != 0.5 || !got.NeedsClarification {
		t.Fatalf("decision = %+v", got)
	}
}

func TestValidateEndpoint(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))
	canvas := compliantCanvas()
	canvas.Elements[1].Style.FontSize = 10

	code, resp := do(t, h, http.MethodPost, "/validate", map[string]any{"canvasState": canvas, "platform": "Amazon", "tier": "rule_engine"})
	if code != http.StatusOK {
		t.Fatalf("status = %d, error %+v", code, resp.Error)
	}
	got := decodeData[domain.ValidationResult](t, resp)
	if got.Tier != domain.TierRuleEngine || !got.IsCompliant || len(got.Violations) != 1 || got.Violations[0].Rule != "font_size" {
		t.Fatalf("result = %+v", got)
	}
	if len(got.AutoFixes) != 1 || !got.AutoFixes[0].CanApplyAutomatically {
		t.Fatalf("autoFixes = %+v", got.AutoFixes)
	}

	code, resp = do(t, h, http.MethodPost, "/validate", map[string]any{"canvasState": canvas, "platform": "target"})
	if code != http.StatusBadRequest || resp.Error.Code != "invalid_request" {
		t.Fatalf("unknown platform: %d %+v", code, resp.Error)
	}
	code, _ = do(t, h, http.MethodPost, "/validate", map[string]any{"canvasState": canvas})
	if code != http.StatusBadRequest {
		t.Fatalf("missing platform: %d", code)
	}
	code, _ = do(t, h, http.MethodPost, "/validate", map[string]any{"canvasState": canvas, "platform": "amazon", "tier": "gold"})
	if code != http.StatusBadRequest {
		t.Fatalf("bad tier: %d", code)
	}
}

func TestAutoFixEndpoint(t *testing.T) {
	app := newTestApp(llm.Unavailable{})
	h := testRouter(app)
	canvas := compliantCanvas()
	canvas.Elements[1].Style.FontSize = 10
	violations := []domain.Issue{
		{Rule: "font_size", Severity: domain.SeverityHigh, Element: "headline", Message: "too small", AutoFixable: true},
		{Rule: "product_missing", Severity: domain.SeverityCritical, Message: "no product"},
	}

	code, resp := do(t, h, http.MethodPost, "/validate/auto-fix", map[string]any{"canvasState": canvas, "violations": violations})
	if code != http.StatusOK {
		t.Fatalf("status = %d, error %+v", code, resp.Error)
	}
	got := decodeData[autoFixResponse](t, resp)
	if fs := got.Canvas.Elements[1].Style.FontSize; fs != 14 {
		t.Fatalf("font size = %v, want 14", fs)
	}
	if len(got.AppliedFixes) != 1 || got.AppliedFixes[0].Rule != "font_size" {
		t.Fatalf("applied = %+v", got.AppliedFixes)
	}

	code, _ = do(t, h, http.MethodPost, "/validate/auto-fix", map[string]any{"canvasState": canvas})
	if code != http.StatusBadRequest {
		t.Fatalf("missing violations: %d", code)
	}

	app.DefaultPlatform = ""
	code, resp = do(t, h, http.MethodPost, "/validate/auto-fix", map[string]any{"canvasState": canvas, "violations": violations})
	if code != http.StatusBadRequest || resp.Error.Code != "invalid_request" {
		t.Fatalf("no platform: %d %+v", code, resp.Error)
	}
}

func TestCreativeReviewFlow(t *testing.T) {
	h := testRouter(newTestApp(scriptedModel(`{}`, twoOptions)))

	code, resp := do(t, h, http.MethodPost, "/creative", map[string]any{
		"canvasState": compliantCanvas(),
		"platform":    "amazon",
		"userRequest": "Add a call to action",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, error %+v", code, resp.Error)
	}
	paused := decodeData[domain.CreativeResult](t, resp)
	if !paused.RequiresHITL || paused.Phase != domain.PhaseReview || paused.ReviewID == "" || len(paused.Options) != 2 {
		t.Fatalf("paused = %+v", paused)
	}

	code, resp = do(t, h, http.MethodGet, "/creative/reviews/"+paused.ReviewID, nil)
	if code != http.StatusOK {
		t.Fatalf("get review status = %d", code)
	}
	if sess := decodeData[domain.ReviewSession](t, resp); sess.ID != paused.ReviewID || len(sess.Options) != 2 {
		t.Fatalf("session = %+v", sess)
	}

	code, _ = do(t, h, http.MethodPost, "/creative/reviews/"+paused.ReviewID+"/decision", map[string]any{"selectedOptionId": "o2"})
	if code != http.StatusBadRequest {
		t.Fatalf("missing approved: %d", code)
	}

	code, resp = do(t, h, http.MethodPost, "/creative/reviews/"+paused.ReviewID+"/decision", map[string]any{"approved": true, "selectedOptionId": "o2"})
	if code != http.StatusOK {
		t.Fatalf("decision status = %d, error %+v", code, resp.Error)
	}
	done := decodeData[domain.CreativeResult](t, resp)
	if done.Phase != domain.PhaseApply || done.SelectedOption == nil || done.SelectedOption.ID != "o2" {
		t.Fatalf("done = %+v", done)
	}
	if n := len(done.Design.Elements); n != 3 || done.Design.Elements[2].Content != "Buy today" {
		t.Fatalf("applied elements = %+v", done.Design.Elements)
	}

	code, resp = do(t, h, http.MethodGet, "/creative/reviews/"+paused.ReviewID, nil)
	if code != http.StatusNotFound || resp.Error.Code != "not_found" {
		t.Fatalf("resolved review: %d %+v", code, resp.Error)
	}
}

func TestCreativeReviewMalformedID(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))
	code, resp := do(t, h, http.MethodGet, "/creative/reviews/abc", nil)
	if code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != "not_found" {
		t.Fatalf("GET malformed id: %d %+v", code, resp.Error)
	}
	code, resp = do(t, h, http.MethodPost, "/creative/reviews/abc/decision", map[string]any{"approved": true})
	if code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != "not_found" {
		t.Fatalf("decision malformed id: %d %+v", code, resp.Error)
	}
}

func TestCreativeRejectsUnknownMode(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))
	code, _ := do(t, h, http.MethodPost, "/creative", map[string]any{
		"canvasState":    compliantCanvas(),
		"platform":       "amazon",
		"userRequest":    "Add a CTA",
		"generationMode": "turbo",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
}

func TestWorkflowCombined(t *testing.T) {
	decision := `{"category":"combined","subIntent":"generate_and_validate","platform":"amazon","params":{},"confidence":0.9}`
	h := testRouter(newTestApp(scriptedModel(decision, oneOption)))

	code, resp := do(t, h, http.MethodPost, "/workflow", map[string]any{
		"canvasState": compliantCanvas(),
		"userRequest": "Add a call to action and check it for Amazon",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, error %+v", code, resp.Error)
	}
	got := decodeData[orchestrator.Response](t, resp)
	if got.Routing.Category != domain.CategoryCombined {
		t.Fatalf("routing = %+v", got.Routing)
	}
	if got.Creative == nil || got.Creative.Phase != domain.PhaseApply {
		t.Fatalf("creative = %+v", got.Creative)
	}
	if got.Validation == nil || got.Validation.Tier != domain.TierModel || !got.Validation.IsCompliant {
		t.Fatalf("validation = %+v", got.Validation)
	}
	if len(got.Validation.Suggestions) != 1 {
		t.Fatalf("suggestions = %v", got.Validation.Suggestions)
	}

	code, _ = do(t, h, http.MethodPost, "/workflow", map[string]any{
		"canvasState": compliantCanvas(),
		"userRequest": "anything",
		"platform":    "target",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("unknown platform override: %d", code)
	}
}

func TestWorkflowClarificationOnly(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))
	code, resp := do(t, h, http.MethodPost, "/workflow", map[string]any{
		"canvasState": compliantCanvas(),
		"userRequest": "hello there",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["routing"]; !ok {
		t.Fatal("routing missing")
	}
	if _, ok := raw["creative"]; ok {
		t.Fatal("creative should be omitted while clarification is pending")
	}
}

func TestPlatformsEndpoints(t *testing.T) {
	h := testRouter(newTestApp(llm.Unavailable{}))

	code, resp := do(t, h, http.MethodGet, "/platforms", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	list := decodeData[[]platformSummary](t, resp)
	if len(list) != 3 {
		t.Fatalf("platforms = %+v", list)
	}

	code, resp = do(t, h, http.MethodGet, "/platforms/walmart", nil)
	if code != http.StatusOK {
		t.Fatalf("show status = %d", code)
	}
	if p := decodeData[domain.PlatformProfile](t, resp); p.Dimensions.Width != 1200 || p.Dimensions.Height != 627 {
		t.Fatalf("walmart dimensions = %+v", p.Dimensions)
	}

	code, _ = do(t, h, http.MethodGet, "/platforms/target", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("unknown show status = %d", code)
	}

	code, resp = do(t, h, http.MethodPost, "/platforms/reload", nil)
	if code != http.StatusOK || len(decodeData[[]platformSummary](t, resp)) != 3 {
		t.Fatalf("reload status = %d", code)
	}
}
