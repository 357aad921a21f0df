package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"retailcreative/internal/domain"
	"retailcreative/internal/providers/llm"
)

const decisionShape = `{
  "category": "creative" | "validate" | "combined" | "optimize",
  "subIntent": "image_generation" | "text_creation" | "layout_design" | "color_scheme" | "background_removal" | "compliance_check" | "brand_validation" | "size_validation" | "content_validation" | "generate_and_validate" | "performance_optimization" | "visual_enhancement" | "accessibility_improvement",
  "platform": string,
  "params": {"targetElement"?: string, "imagePrompt"?: string, "textContent"?: string, "colorScheme"?: string[], "layoutType"?: "grid" | "centered" | "asymmetric"},
  "confidence": number between 0 and 1,
  "needsClarification": boolean,
  "clarificationQuestion"?: string
}`

type modelDecision struct {
	Category              string         `json:"category"`
	SubIntent             string         `json:"subIntent"`
	Platform              string         `json:"platform"`
	Params                map[string]any `json:"params"`
	Confidence            float64        `json:"confidence"`
	NeedsClarification    bool           `json:"needsClarification"`
	ClarificationQuestion string         `json:"clarificationQuestion"`
}

func buildPrompt(request string, summary domain.Summary, h Heuristic, platforms []string) llm.Prompt {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You route requests for a retail media design tool serving %s.\n\n", strings.Join(platforms, ", "))
	fmt.Fprintf(sb, "Canvas: %gx%g with %d elements.\n", summary.Width, summary.Height, len(summary.Elements))
	sb.WriteString("Pre-analysis:\n")
	fmt.Fprintf(sb, "- Detected keywords: %s\n", orNone(strings.Join(h.Keywords, ", ")))
	fmt.Fprintf(sb, "- Platform hint: %s\n", orNone(h.Platform))
	fmt.Fprintf(sb, "- Suggested category: %s (heuristic confidence %.2f)\n", h.Category, h.Confidence)
	fmt.Fprintf(sb, "- Sub-intent: %s\n\n", orNone(string(h.SubIntent)))
	sb.WriteString(`Classify the request:
1. "creative" - generate or modify design elements
2. "validate" - check compliance with platform rules
3. "combined" - generate and then validate
4. "optimize" - improve an existing design (performance, accessibility, visuals)
Extract the platform, any parameters the user named, and your confidence. Set needsClarification when the request is ambiguous and propose one question.

Examples:
- "Add a product image" -> {"category":"creative","subIntent":"image_generation","platform":"amazon","params":{},"confidence":0.9,"needsClarification":false}
- "Check if this meets Amazon guidelines" -> {"category":"validate","subIntent":"compliance_check","platform":"amazon","params":{},"confidence":0.95,"needsClarification":false}
- "Generate a Walmart ad and validate it" -> {"category":"combined","subIntent":"generate_and_validate","platform":"walmart","params":{},"confidence":0.85,"needsClarification":false}
- "Make this better" -> {"category":"optimize","platform":"amazon","params":{},"confidence":0.4,"needsClarification":true,"clarificationQuestion":"What aspect would you like to improve? Visual design, compliance, or performance?"}`)

	elements, _ := json.Marshal(summary.Elements)
	user := fmt.Sprintf("Request: %q\nElements: %s", request, elements)
	return llm.Prompt{
		Name:   "intent",
		System: sb.String(),
		User:   user,
		Shape:  decisionShape,
		Mode:   llm.ModeDeterministic,
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
