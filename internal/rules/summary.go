package rules

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"retailcreative/internal/domain"
)

const (
	defaultMinCoverage      = 60
	defaultMaxCoverage      = 80
	DefaultConsistencyScore = 0.7
)

// DisplayName returns the human name of a profile's platform.
func DisplayName(p *domain.PlatformProfile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return cases.Title(language.Und).String(p.Platform)
}

// ConsistencyMin returns the brand-consistency floor, defaulting to 0.7.
func ConsistencyMin(p *domain.PlatformProfile) float64 {
	if p.Brand.ConsistencyScoreMin > 0 {
		return p.Brand.ConsistencyScoreMin
	}
	return DefaultConsistencyScore
}

// SummaryLines renders the handful of rules that matter most to a model prompt.
func SummaryLines(p *domain.PlatformProfile) []string {
	bg := p.RequiredBgColor
	if bg == "" {
		bg = "flexible"
	}
	minCov, maxCov := p.Product.MinCoverage, p.Product.MaxCoverage
	if minCov == 0 {
		minCov = defaultMinCoverage
	}
	if maxCov == 0 {
		maxCov = defaultMaxCoverage
	}
	lines := []string{
		"Background: " + bg,
		fmt.Sprintf("Dimensions: %dx%d", p.Dimensions.Width, p.Dimensions.Height),
		fmt.Sprintf("File size: max %gMB", p.File.MaxMB),
		fmt.Sprintf("Product coverage: %g-%g%%", minCov, maxCov),
		fmt.Sprintf("Text: max %d lines, min %gpx font", p.Text.MaxLines, p.Text.MinFontSize),
		fmt.Sprintf("Brand consistency: min %g", ConsistencyMin(p)),
	}
	if len(p.Text.AllowedFonts) > 0 {
		lines = append(lines, "Fonts: "+strings.Join(p.Text.AllowedFonts, ", "))
	}
	if len(p.Brand.Colors) > 0 {
		lines = append(lines, "Brand colors: "+strings.Join(p.Brand.Colors, ", "))
	}
	if len(p.Compliance.ProhibitedContent) > 0 {
		lines = append(lines, "Prohibited claims: "+strings.Join(p.Compliance.ProhibitedContent, ", "))
	}
	return lines
}
