package domain

import (
	"strings"
	"time"
)

// Severity ranks how serious a validation issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// IsViolation reports whether the severity places an issue in the violations list.
func (s Severity) IsViolation() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// IssueCategory groups issues for display.
type IssueCategory string

const (
	CategoryVisual      IssueCategory = "visual"
	CategoryText        IssueCategory = "text"
	CategoryProduct     IssueCategory = "product"
	CategoryBrand       IssueCategory = "brand"
	CategoryCompliance  IssueCategory = "compliance"
	CategoryPerformance IssueCategory = "performance"
)

// Tier identifies a validation pipeline stage.
type Tier string

const (
	TierInstant       Tier = "instant"
	TierRuleEngine    Tier = "rule_engine"
	TierModel         Tier = "model"
	TierComprehensive Tier = "comprehensive"
)

// ParseTier normalizes a requested tier. "llm" is accepted as an alias of the
// model tier; empty input selects the model tier.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "model", "llm":
		return TierModel, true
	case string(TierInstant):
		return TierInstant, true
	case string(TierRuleEngine):
		return TierRuleEngine, true
	case string(TierComprehensive):
		return TierComprehensive, true
	default:
		return "", false
	}
}

// Issue is a single rule failure.
type Issue struct {
	Rule          string        `json:"rule"`
	Severity      Severity      `json:"severity"`
	Element       string        `json:"element,omitempty"`
	Message       string        `json:"message"`
	AutoFixable   bool          `json:"autoFixAvailable"`
	SeverityScore float64       `json:"severityScore"`
	Category      IssueCategory `json:"category"`
}

// AutoFix is a corrective transform offered for one issue.
type AutoFix struct {
	Rule                  string              `json:"rule"`
	Element               string              `json:"element,omitempty"`
	Description           string              `json:"description"`
	Confidence            float64             `json:"confidence"`
	CanApplyAutomatically bool                `json:"canApplyAutomatically"`
	Apply                 func(Design) Design `json:"-"`
}

// ValidationResult is the output of a pipeline run.
type ValidationResult struct {
	Violations  []Issue   `json:"violations"`
	Warnings    []Issue   `json:"warnings"`
	AutoFixes   []AutoFix `json:"autoFixes"`
	Suggestions []string  `json:"suggestions,omitempty"`
	IsCompliant bool      `json:"isCompliant"`
	// ExportBlocked is set when an issue's severity level is configured to
	// block export.
	ExportBlocked bool      `json:"exportBlocked"`
	Tier          Tier      `json:"tier"`
	OverallScore  float64   `json:"overallScore"`
	Timestamp     time.Time `json:"timestamp"`
}

// Issues returns violations followed by warnings.
func (r ValidationResult) Issues() []Issue {
	out := make([]Issue, 0, len(r.Violations)+len(r.Warnings))
	out = append(out, r.Violations...)
	return append(out, r.Warnings...)
}
