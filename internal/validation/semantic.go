package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"retailcreative/internal/domain"
	"retailcreative/internal/providers/llm"
	"retailcreative/internal/rules"
)

// Scores used for model-reported issues whose severity is not recognised.
const (
	unknownViolationScore = 50
	unknownWarningScore   = 25
)

const semanticShape = `{
  "violations": [{"rule": string, "severity": "critical" | "high" | "medium" | "low", "element"?: string, "message": string, "autoFixAvailable"?: boolean, "category"?: "visual" | "text" | "product" | "brand" | "compliance" | "performance"}],
  "warnings": [same shape as violations],
  "suggestions": [string]
}`

type semanticIssue struct {
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Element     string `json:"element"`
	Message     string `json:"message"`
	AutoFixable bool   `json:"autoFixAvailable"`
	Category    string `json:"category"`
}

type semanticReport struct {
	Violations  []semanticIssue `json:"violations"`
	Warnings    []semanticIssue `json:"warnings"`
	Suggestions []string        `json:"suggestions"`
}

func semanticPrompt(d domain.Design, p *domain.PlatformProfile, prior []domain.Issue) llm.Prompt {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a validation agent for %s retail media designs.\n\n", rules.DisplayName(p))
	sb.WriteString("Platform rules:\n")
	for _, line := range rules.SummaryLines(p) {
		sb.WriteString("- " + line + "\n")
	}
	sb.WriteString(`
Validate against these subjective rules:
1. The product occupies the required share of the frame
2. No text overlaps the product
3. Brand colors are prominent
4. Claims and wording are appropriate for the platform
Do not repeat issues already reported by earlier checks.`)

	summary, _ := json.Marshal(d.Summarize())
	priorText := "None"
	if len(prior) > 0 {
		raw, _ := json.Marshal(prior)
		priorText = string(raw)
	}
	return llm.Prompt{
		Name:   "validation",
		System: sb.String(),
		User:   fmt.Sprintf("Design: %s\nEarlier findings: %s\nValidate this design against subjective and semantic rules.", summary, priorText),
		Shape:  semanticShape,
		Mode:   llm.ModeDeterministic,
	}
}

// toIssues converts a model report into issues, scoring unknown severities with
// the fallback for the list they were reported in.
func (p *Pipeline) toIssues(report semanticReport) []domain.Issue {
	out := make([]domain.Issue, 0, len(report.Violations)+len(report.Warnings))
	conv := func(in semanticIssue, asViolation bool) domain.Issue {
		issue := domain.Issue{
			Rule:        strings.TrimSpace(in.Rule),
			Element:     in.Element,
			Message:     in.Message,
			AutoFixable: in.AutoFixable,
			Category:    parseCategory(in.Category),
		}
		if issue.Rule == "" {
			issue.Rule = "semantic"
		}
		switch sev := domain.Severity(strings.ToLower(strings.TrimSpace(in.Severity))); sev {
		case domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow:
			issue.Severity = sev
			issue.SeverityScore = p.cfg.SeverityScore(sev)
		default:
			if asViolation {
				issue.Severity, issue.SeverityScore = domain.SeverityHigh, unknownViolationScore
			} else {
				issue.Severity, issue.SeverityScore = domain.SeverityMedium, unknownWarningScore
			}
		}
		return issue
	}
	for _, v := range report.Violations {
		out = append(out, conv(v, true))
	}
	for _, w := range report.Warnings {
		out = append(out, conv(w, false))
	}
	return out
}

func parseCategory(s string) domain.IssueCategory {
	switch c := domain.IssueCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case domain.CategoryVisual, domain.CategoryText, domain.CategoryProduct,
		domain.CategoryBrand, domain.CategoryCompliance, domain.CategoryPerformance:
		return c
	default:
		return domain.CategoryCompliance
	}
}
