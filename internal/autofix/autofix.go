// Package autofix offers and applies deterministic corrections for the subset
// of validation issues that have one.
package autofix

import (
	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
)

// Rule identities with a known transform.
const (
	RuleBgColor     = "bg_color"
	RuleFontSize    = "font_size"
	RuleFontSizeMax = "font_size_max"
	RuleFontFamily  = "font_family"
)

// fixConfidence is the confidence reported for every deterministic fix.
const fixConfidence = 0.85

type transform func(d *domain.Design, issue domain.Issue, profile *domain.PlatformProfile)

var transforms = map[string]transform{
	RuleBgColor:     fixBackground,
	RuleFontSize:    fixMinFontSize,
	RuleFontSizeMax: fixMaxFontSize,
	RuleFontFamily:  fixFontFamily,
}

// Engine builds fix offers according to the auto-fix section of the workflow
// configuration.
type Engine struct {
	cfg jsoncfg.AutoFixConfig
}

func New(cfg *jsoncfg.WorkflowConfig) *Engine {
	if cfg == nil {
		cfg = jsoncfg.Default()
	}
	return &Engine{cfg: cfg.Validation.AutoFix}
}

// GenerateFixes offers one fix per issue that is flagged auto-fixable, whose
// rule is in the configured allow-list and has a transform. Each fix's Apply corrects only its own
// issue.
func (e *Engine) GenerateFixes(issues []domain.Issue, profile *domain.PlatformProfile) []domain.AutoFix {
	if !e.cfg.On() {
		return []domain.AutoFix{}
	}
	fixes := make([]domain.AutoFix, 0, len(issues))
	for _, issue := range issues {
		if !issue.AutoFixable || !e.cfg.Fixable(issue.Rule) || !hasTransform(issue.Rule) {
			continue
		}
		issue := issue
		fixes = append(fixes, domain.AutoFix{
			Rule:                  issue.Rule,
			Element:               issue.Element,
			Description:           "Auto-fix: " + issue.Message,
			Confidence:            fixConfidence,
			CanApplyAutomatically: fixConfidence >= e.cfg.ConfidenceThreshold,
			Apply: func(d domain.Design) domain.Design {
				return ApplyFixes(d, []domain.Issue{issue}, profile)
			},
		})
	}
	return fixes
}

// ApplyFixes returns a corrected copy of d. Issues that are not auto-fixable or
// whose rule has no transform are ignored. Applying the same issues to the
// result again changes nothing.
func ApplyFixes(d domain.Design, issues []domain.Issue, profile *domain.PlatformProfile) domain.Design {
	out := d.Clone()
	if profile == nil {
		return out
	}
	for _, issue := range issues {
		if !issue.AutoFixable {
			continue
		}
		if fn, ok := transforms[issue.Rule]; ok {
			fn(&out, issue, profile)
		}
	}
	return out
}

func hasTransform(rule string) bool {
	_, ok := transforms[rule]
	return ok
}

func fixBackground(d *domain.Design, _ domain.Issue, p *domain.PlatformProfile) {
	if p.RequiredBgColor == "" {
		return
	}
	if d.Background == nil {
		d.Background = &domain.Background{}
	}
	d.Background.Color = p.RequiredBgColor
}

func fixMinFontSize(d *domain.Design, issue domain.Issue, p *domain.PlatformProfile) {
	if p.Text.MinFontSize <= 0 {
		return
	}
	withStyle(d, issue.Element, func(s *domain.Style) {
		if s.FontSize < p.Text.MinFontSize {
			s.FontSize = p.Text.MinFontSize
		}
	})
}

func fixMaxFontSize(d *domain.Design, issue domain.Issue, p *domain.PlatformProfile) {
	if p.Text.MaxFontSize <= 0 {
		return
	}
	withStyle(d, issue.Element, func(s *domain.Style) {
		if s.FontSize > p.Text.MaxFontSize {
			s.FontSize = p.Text.MaxFontSize
		}
	})
}

func fixFontFamily(d *domain.Design, issue domain.Issue, p *domain.PlatformProfile) {
	if len(p.Text.AllowedFonts) == 0 {
		return
	}
	withStyle(d, issue.Element, func(s *domain.Style) {
		if !p.FontAllowed(s.FontFamily) {
			s.FontFamily = p.Text.AllowedFonts[0]
		}
	})
}

// withStyle runs fn on the style of the element with the given id, creating the
// style when absent.
func withStyle(d *domain.Design, id string, fn func(*domain.Style)) {
	if id == "" {
		return
	}
	for i := range d.Elements {
		if d.Elements[i].ID != id {
			continue
		}
		if d.Elements[i].Style == nil {
			d.Elements[i].Style = &domain.Style{}
		}
		fn(d.Elements[i].Style)
		return
	}
}
