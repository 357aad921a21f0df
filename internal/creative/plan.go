package creative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"retailcreative/internal/domain"
	"retailcreative/internal/providers/llm"
	"retailcreative/internal/rules"
)

const optionsShape = `{
  "options": [
    {
      "id": string,
      "elements": [{"id": string, "type": "text" | "image" | "shape" | "background", "x": number, "y": number, "width": number, "height": number, "style"?: {...}, "content"?: string, "src"?: string, "metadata"?: {"isProduct"?: boolean, "isCritical"?: boolean, "needsGeneration"?: boolean, "prompt"?: string}}],
      "complianceReasoning": string,
      "confidence": number between 0 and 1,
      "modifications": [string],
      "brandConsistencyScore"?: number between 0 and 1,
      "estimatedImpact"?: "minor" | "moderate" | "major",
      "preservedElements"?: [string]
    }
  ]
}`

type planResponse struct {
	Options []domain.DesignOption `json:"options"`
}

func planPrompt(st *run, count int) llm.Prompt {
	sb := &strings.Builder{}
	sb.WriteString("You are a creative design agent for retail media.\n\n")
	fmt.Fprintf(sb, "Platform: %s\n", rules.DisplayName(st.profile))
	fmt.Fprintf(sb, "Canvas: %d elements, %gx%g\n", len(st.design.Elements), st.design.Width, st.design.Height)
	sb.WriteString("\nPlatform rules summary:\n")
	for _, line := range rules.SummaryLines(st.profile) {
		sb.WriteString("- " + line + "\n")
	}
	if st.brand != nil {
		fmt.Fprintf(sb, "\nBrand context: colors %s, fonts %s, consistency %.2f\n",
			orNone(st.brand.Colors), orNone(st.brand.Fonts), st.brand.ConsistencyScore)
	}
	if st.preserve && len(st.design.Elements) > 0 {
		ids := make([]string, 0, len(st.design.Elements))
		for _, el := range st.design.Elements {
			ids = append(ids, el.ID)
		}
		fmt.Fprintf(sb, "Existing elements are kept unless you return an element with the same id: %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(sb, `
Generate %d design option(s). Each option must:
1. Specify exact positions (x, y) and styles for its elements
2. Explain its compliance reasoning
3. Be production-ready
4. Carry a confidence score between 0 and 1
Mark image elements that still need artwork with metadata.needsGeneration and a prompt.`, count)

	canvas, _ := json.Marshal(st.design.Summarize())
	return llm.Prompt{
		Name:   "plan",
		System: sb.String(),
		User:   fmt.Sprintf("Request: %s\nCanvas: %s", st.request, canvas),
		Shape:  optionsShape,
		Mode:   llm.ModeCreative,
	}
}

// normalizeOptions truncates to count, fills missing ids and clamps scores.
func normalizeOptions(opts []domain.DesignOption, count int, existing []domain.Element) []domain.DesignOption {
	if len(opts) > count {
		opts = opts[:count]
	}
	out := make([]domain.DesignOption, 0, len(opts))
	for _, opt := range opts {
		if strings.TrimSpace(opt.ID) == "" {
			opt.ID = "option-" + uuid.NewString()
		}
		opt.Confidence = clamp01(opt.Confidence)
		if opt.BrandConsistencyScore != nil {
			s := clamp01(*opt.BrandConsistencyScore)
			opt.BrandConsistencyScore = &s
		}
		touched := make(map[string]struct{}, len(opt.Elements))
		for i := range opt.Elements {
			if strings.TrimSpace(opt.Elements[i].ID) == "" {
				opt.Elements[i].ID = "el-" + uuid.NewString()
			}
			touched[opt.Elements[i].ID] = struct{}{}
		}
		if opt.PreservedElementIDs == nil {
			preserved := []string{}
			for _, el := range existing {
				if _, ok := touched[el.ID]; !ok {
					preserved = append(preserved, el.ID)
				}
			}
			opt.PreservedElementIDs = preserved
		}
		if opt.Modifications == nil {
			opt.Modifications = []string{}
		}
		out = append(out, opt)
	}
	return out
}

func orNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
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
