// Package intent turns a free-text request into a routing decision by fusing a
// keyword heuristic with a model classification.
package intent

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/metrics"
	"retailcreative/internal/providers/llm"
)

const fallbackConfidence = 0.5

// PlatformSet lists the supported platforms.
type PlatformSet interface {
	Platforms(ctx context.Context) ([]string, error)
}

type Options struct {
	Model     llm.Capability
	Platforms PlatformSet
	Config    *jsoncfg.WorkflowConfig
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
}

type Classifier struct {
	model     llm.Capability
	platforms PlatformSet
	cfg       *jsoncfg.WorkflowConfig
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

func New(opts Options) *Classifier {
	cfg := opts.Config
	if cfg == nil {
		cfg = jsoncfg.Default()
	}
	return &Classifier{
		model:     opts.Model,
		platforms: opts.Platforms,
		cfg:       cfg,
		logger:    opts.Logger.With().Str("component", "intent").Logger(),
		metrics:   opts.Metrics,
	}
}

// Classify never fails: a model error degrades to the heuristic verdict with
// confidence 0.5 and a clarification request.
func (c *Classifier) Classify(ctx context.Context, request string, summary domain.Summary) domain.RouterDecision {
	h := Analyze(request)
	supported := c.supportedPlatforms(ctx)

	out, err := llm.Invoke[modelDecision](ctx, c.model, buildPrompt(request, summary, h, supported))
	if err != nil {
		c.logger.Warn().Err(err).Str("reason", "model_failure").Msg("falling back to heuristic routing")
		c.metrics.Fallback("intent")
		d := domain.RouterDecision{
			Category:           h.Category,
			SubIntent:          h.SubIntent,
			Platform:           c.platformOr(h.Platform, supported),
			Params:             h.Params,
			Confidence:         fallbackConfidence,
			NeedsClarification: true,
		}
		d.ClarificationQuestion = c.question(h, d, supported)
		d.ConfidenceLevel = c.cfg.Router.ConfidenceThresholds.Level(d.Confidence)
		c.metrics.RouterDecision(string(d.Category), true)
		return d
	}

	d := c.fuse(h, out, supported)
	d.ConfidenceLevel = c.cfg.Router.ConfidenceThresholds.Level(d.Confidence)
	c.metrics.RouterDecision(string(d.Category), d.NeedsClarification)
	return d
}

func (c *Classifier) fuse(h Heuristic, m modelDecision, supported []string) domain.RouterDecision {
	category := domain.Category(strings.ToLower(strings.TrimSpace(m.Category)))
	if !category.Valid() {
		category = h.Category
	}
	sub := domain.SubIntent(strings.TrimSpace(m.SubIntent))
	if sub == "" && category == h.Category {
		sub = h.SubIntent
	}

	platform := strings.ToLower(strings.TrimSpace(m.Platform))
	if !contains(supported, platform) {
		platform = c.platformOr(h.Platform, supported)
	}

	params := make(map[string]any, len(h.Params)+len(m.Params))
	for k, v := range h.Params {
		params[k] = v
	}
	for k, v := range m.Params {
		params[k] = v
	}

	d := domain.RouterDecision{
		Category:              category,
		SubIntent:             sub,
		Platform:              platform,
		Params:                params,
		Confidence:            clamp01(m.Confidence),
		NeedsClarification:    m.NeedsClarification,
		ClarificationQuestion: strings.TrimSpace(m.ClarificationQuestion),
	}
	if d.Confidence < c.cfg.Router.RequireClarificationThreshold && h.Confidence < c.cfg.Router.HeuristicThreshold {
		d.NeedsClarification = true
	}
	if d.NeedsClarification && d.ClarificationQuestion == "" {
		d.ClarificationQuestion = c.question(h, d, supported)
	}
	if !d.NeedsClarification {
		d.ClarificationQuestion = ""
	}
	return d
}

// question asks about whichever signal is weaker: an undetected platform or
// an uncertain category.
func (c *Classifier) question(h Heuristic, d domain.RouterDecision, supported []string) string {
	if h.Platform == "" && d.Confidence >= c.cfg.Router.HeuristicThreshold {
		return "Which platform is this creative for: " + joinPlatforms(supported) + "?"
	}
	if h.Platform == "" && h.Confidence == 0 {
		return "Which platform is this creative for: " + joinPlatforms(supported) + "? And would you like to create new elements, check compliance, or both?"
	}
	switch d.Category {
	case domain.CategoryOptimize:
		return "What aspect would you like to improve? Visual design, compliance, or performance?"
	case domain.CategoryValidate:
		return "Should I run a full compliance check, or focus on brand, size, or content rules?"
	case domain.CategoryCombined:
		return "Should I generate a new design and then validate it, or only validate the current one?"
	default:
		return "Would you like me to create new design elements, check compliance, or both?"
	}
}

func (c *Classifier) supportedPlatforms(ctx context.Context) []string {
	if c.platforms != nil {
		if names, err := c.platforms.Platforms(ctx); err == nil && len(names) > 0 {
			return names
		}
	}
	return platformOrder
}

func (c *Classifier) platformOr(detected string, supported []string) string {
	if detected != "" && contains(supported, detected) {
		return detected
	}
	if contains(supported, c.cfg.Router.DefaultPlatform) {
		return c.cfg.Router.DefaultPlatform
	}
	return supported[0]
}

func joinPlatforms(names []string) string {
	caser := cases.Title(language.Und)
	display := make([]string, len(names))
	for i, n := range names {
		display[i] = caser.String(n)
	}
	switch len(display) {
	case 0:
		return ""
	case 1:
		return display[0]
	case 2:
		return display[0] + " or " + display[1]
	default:
		return strings.Join(display[:len(display)-1], ", ") + ", or " + display[len(display)-1]
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
