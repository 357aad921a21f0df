package image

import (
	"fmt"
	"strings"

	"retailcreative/internal/domain"
	"retailcreative/internal/rules"
)

// DefaultNegativePrompt captures undesirable artefacts we want the model to avoid.
const DefaultNegativePrompt = "low quality, blurry, distorted, washed out, text artefacts, watermark"

// BuildAssetPrompt turns the element's generation hint into an instruction
// that carries the platform's background and product requirements.
func BuildAssetPrompt(el domain.Element, p *domain.PlatformProfile) string {
	var lines []string

	hint := strings.TrimSpace(el.Flags().Prompt)
	if hint == "" {
		hint = strings.TrimSpace(el.Content)
	}
	if hint != "" {
		lines = append(lines, fmt.Sprintf("Create a retail advertisement image: %s.", hint))
	} else {
		lines = append(lines, "Create a retail advertisement image for the featured product.")
	}

	if p != nil {
		lines = append(lines, fmt.Sprintf("Target marketplace: %s.", rules.DisplayName(p)))
		if bg := strings.TrimSpace(p.RequiredBgColor); bg != "" {
			lines = append(lines, fmt.Sprintf("Use a plain %s background.", bg))
		}
	}
	if el.Flags().IsProduct {
		lines = append(lines, "The product must be the clear focal point, fully visible and unobstructed.")
	}
	if el.Width > 0 && el.Height > 0 {
		lines = append(lines, fmt.Sprintf("Frame for a %gx%g slot.", el.Width, el.Height))
	}
	return strings.Join(lines, "\n")
}
