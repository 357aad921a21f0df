// Package validation checks a design against a platform profile in escalating
// tiers: an instant structural check, the deterministic rule engine and a
// model-backed semantic review.
package validation

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"retailcreative/internal/autofix"
	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/metrics"
	"retailcreative/internal/providers/llm"
)

// ProfileSource resolves platform profiles.
type ProfileSource interface {
	Profile(ctx context.Context, platform string) (*domain.PlatformProfile, error)
}

type Options struct {
	Profiles ProfileSource
	Model    llm.Capability
	Config   *jsoncfg.WorkflowConfig
	Fixes    *autofix.Engine
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type Pipeline struct {
	profiles ProfileSource
	model    llm.Capability
	cfg      *jsoncfg.WorkflowConfig
	fixes    *autofix.Engine
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(opts Options) *Pipeline {
	cfg := opts.Config
	if cfg == nil {
		cfg = jsoncfg.Default()
	}
	fixes := opts.Fixes
	if fixes == nil {
		fixes = autofix.New(cfg)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		profiles: opts.Profiles,
		model:    opts.Model,
		cfg:      cfg,
		fixes:    fixes,
		logger:   opts.Logger.With().Str("component", "validation").Logger(),
		metrics:  opts.Metrics,
		now:      now,
	}
}

// Validate runs the tiers up to the one requested. The model tier only runs
// when the rule engine found nothing critical, unless the comprehensive tier
// was requested. A failing model leaves the rule-engine result in place.
func (p *Pipeline) Validate(ctx context.Context, d domain.Design, platform string, tier domain.Tier) (domain.ValidationResult, error) {
	profile, err := p.profiles.Profile(ctx, platform)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return p.Run(ctx, d, profile, tier), nil
}

// Run validates d against an already resolved profile.
func (p *Pipeline) Run(ctx context.Context, d domain.Design, profile *domain.PlatformProfile, tier domain.Tier) domain.ValidationResult {
	issues := Instant(d, profile, p.cfg)
	if tier == domain.TierInstant {
		return p.finish(domain.TierInstant, issues, nil, profile)
	}

	issues = append(issues, RuleEngine(d, profile, p.cfg)...)
	if tier == domain.TierRuleEngine || (hasCritical(issues) && tier != domain.TierComprehensive) {
		return p.finish(domain.TierRuleEngine, issues, nil, profile)
	}

	report, err := llm.Invoke[semanticReport](ctx, p.model, semanticPrompt(d, profile, issues))
	if err != nil {
		p.logger.Warn().Err(err).Str("platform", profile.Platform).Str("reason", "model_failure").
			Msg("semantic tier unavailable, returning rule engine result")
		p.metrics.Fallback("validation")
		return p.finish(domain.TierRuleEngine, issues, nil, profile)
	}
	issues = append(issues, p.toIssues(report)...)
	return p.finish(domain.TierModel, issues, report.Suggestions, profile)
}

func (p *Pipeline) finish(tier domain.Tier, issues []domain.Issue, suggestions []string, profile *domain.PlatformProfile) domain.ValidationResult {
	violations, warnings := Split(issues)
	res := domain.ValidationResult{
		Violations:   violations,
		Warnings:     warnings,
		AutoFixes:    p.fixes.GenerateFixes(issues, profile),
		Suggestions:  suggestions,
		IsCompliant:  !hasCritical(violations),
		Tier:         tier,
		OverallScore: Score(violations, warnings),
		Timestamp:    p.now().UTC(),
	}
	for _, issue := range res.Issues() {
		if p.cfg.BlocksExport(issue.Severity) {
			res.ExportBlocked = true
			break
		}
	}
	p.metrics.ValidationRun(string(tier), res.OverallScore)
	p.logger.Debug().
		Str("platform", profile.Platform).
		Str("tier", string(tier)).
		Int("violations", len(violations)).
		Int("warnings", len(warnings)).
		Float64("score", res.OverallScore).
		Msg("validation finished")
	return res
}

// Split partitions issues into violations (critical, high) and warnings
// (medium, low), preserving order.
func Split(issues []domain.Issue) (violations, warnings []domain.Issue) {
	violations, warnings = []domain.Issue{}, []domain.Issue{}
	for _, is := range issues {
		if is.Severity.IsViolation() {
			violations = append(violations, is)
		} else {
			warnings = append(warnings, is)
		}
	}
	return violations, warnings
}

// Score is 100 minus the violation scores and half the warning scores,
// floored at zero.
func Score(violations, warnings []domain.Issue) float64 {
	deductions := 0.0
	for _, v := range violations {
		deductions += v.SeverityScore
	}
	for _, w := range warnings {
		deductions += 0.5 * w.SeverityScore
	}
	return math.Max(0, 100-deductions)
}

func hasCritical(issues []domain.Issue) bool {
	for _, is := range issues {
		if is.Severity == domain.SeverityCritical {
			return true
		}
	}
	return false
}
