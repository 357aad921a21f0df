package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/textmatch"
)

// Rule identities emitted by the deterministic tiers.
const (
	RuleDimensions        = "dimensions"
	RuleBgColor           = "bg_color"
	RuleFontSize          = "font_size"
	RuleFontSizeMax       = "font_size_max"
	RuleFontFamily        = "font_family"
	RuleTextLength        = "text_length"
	RuleTextLines         = "text_lines"
	RuleProductMissing    = "product_missing"
	RuleContrast          = "contrast"
	RuleProhibitedContent = "prohibited_content"
)

// largeTextContrast is the WCAG floor for large text.
const largeTextContrast = 3.0

type checker struct {
	cfg    *jsoncfg.WorkflowConfig
	issues []domain.Issue
}

func (c *checker) add(rule string, sev domain.Severity, cat domain.IssueCategory, element string, fixable bool, format string, args ...any) {
	c.issues = append(c.issues, domain.Issue{
		Rule:          rule,
		Severity:      sev,
		Element:       element,
		Message:       fmt.Sprintf(format, args...),
		AutoFixable:   fixable,
		SeverityScore: c.cfg.SeverityScore(sev),
		Category:      cat,
	})
}

// Instant compares the canvas size with the profile's required dimensions.
func Instant(d domain.Design, p *domain.PlatformProfile, cfg *jsoncfg.WorkflowConfig) []domain.Issue {
	c := &checker{cfg: cfg}
	if d.Width != float64(p.Dimensions.Width) || d.Height != float64(p.Dimensions.Height) {
		c.add(RuleDimensions, domain.SeverityCritical, domain.CategoryVisual, "", false,
			"Dimensions must be %dx%d (current: %gx%g)", p.Dimensions.Width, p.Dimensions.Height, d.Width, d.Height)
	}
	return c.issues
}

// RuleEngine runs the deterministic background, text and product checks.
func RuleEngine(d domain.Design, p *domain.PlatformProfile, cfg *jsoncfg.WorkflowConfig) []domain.Issue {
	c := &checker{cfg: cfg}

	if bg := d.BackgroundColor(); !p.BackgroundAllowed(bg) {
		allowed := append([]string{p.RequiredBgColor}, p.AllowedBgColors...)
		c.add(RuleBgColor, domain.SeverityCritical, domain.CategoryVisual, "", true,
			"Background color must be one of: %s", strings.Join(dedupe(allowed), ", "))
	}

	texts := d.TextElements()
	for _, el := range texts {
		c.checkText(d, el, p)
	}

	if p.Text.MaxLines > 0 && len(texts) > p.Text.MaxLines {
		c.add(RuleTextLines, domain.SeverityHigh, domain.CategoryText, "", false,
			"Maximum %d text elements allowed (current: %d)", p.Text.MaxLines, len(texts))
	}

	hasProduct := false
	for _, el := range d.Elements {
		if el.Flags().IsProduct {
			hasProduct = true
			break
		}
	}
	if !hasProduct {
		c.add(RuleProductMissing, domain.SeverityCritical, domain.CategoryProduct, "", false,
			"No product image found in design")
	}
	return c.issues
}

func (c *checker) checkText(d domain.Design, el domain.Element, p *domain.PlatformProfile) {
	var style domain.Style
	if el.Style != nil {
		style = *el.Style
	}

	if p.Text.MinFontSize > 0 && style.FontSize < p.Text.MinFontSize {
		c.add(RuleFontSize, domain.SeverityHigh, domain.CategoryText, el.ID, true,
			"Font size must be at least %gpx (current: %gpx)", p.Text.MinFontSize, style.FontSize)
	}
	if p.Text.MaxFontSize > 0 && style.FontSize > p.Text.MaxFontSize {
		c.add(RuleFontSizeMax, domain.SeverityMedium, domain.CategoryText, el.ID, true,
			"Font size should not exceed %gpx (current: %gpx)", p.Text.MaxFontSize, style.FontSize)
	}
	if style.FontFamily != "" && !p.FontAllowed(style.FontFamily) {
		c.add(RuleFontFamily, domain.SeverityMedium, domain.CategoryText, el.ID, true,
			"Font %q not allowed. Use: %s", style.FontFamily, strings.Join(p.Text.AllowedFonts, ", "))
	}
	if n := utf8.RuneCountInString(el.Content); p.Text.MaxCharacters > 0 && n > p.Text.MaxCharacters {
		c.add(RuleTextLength, domain.SeverityMedium, domain.CategoryText, el.ID, false,
			"Text too long (%d/%d characters)", n, p.Text.MaxCharacters)
	}

	if required := p.Text.Readability.MinContrastRatio; required > 0 {
		bg := style.BackgroundColor
		if bg == "" {
			bg = d.BackgroundColor()
		}
		if ratio, ok := contrastRatio(style.Color, bg); ok {
			if largeText(style.FontSize, style.FontWeight) && required > largeTextContrast {
				required = largeTextContrast
			}
			if ratio < required {
				c.add(RuleContrast, domain.SeverityMedium, domain.CategoryText, el.ID, false,
					"Text contrast %.2f:1 is below the required %.1f:1", ratio, required)
			}
		}
	}

	if found := textmatch.Matches(el.Content, p.Compliance.ProhibitedContent); len(found) > 0 {
		c.add(RuleProhibitedContent, domain.SeverityHigh, domain.CategoryCompliance, el.ID, false,
			"Prohibited claims: %s", strings.Join(found, ", "))
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		k := strings.ToUpper(s)
		if _, ok := seen[k]; ok || s == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
