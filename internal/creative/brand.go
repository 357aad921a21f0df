package creative

import (
	"strings"

	"retailcreative/internal/domain"
)

// neutralConsistency is reported when the profile defines no brand colors.
const neutralConsistency = 0.5

// AnalyzeBrand collects the distinct colors and fonts used by the design and
// scores them against the profile's brand colors.
func AnalyzeBrand(d domain.Design, p *domain.PlatformProfile) domain.BrandContext {
	ctx := domain.BrandContext{Colors: []string{}, Fonts: []string{}}
	seenColor := map[string]struct{}{}
	seenFont := map[string]struct{}{}
	addColor := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" {
			return
		}
		key := strings.ToUpper(c)
		if _, ok := seenColor[key]; ok {
			return
		}
		seenColor[key] = struct{}{}
		ctx.Colors = append(ctx.Colors, c)
	}

	for _, el := range d.Elements {
		if el.Style == nil {
			continue
		}
		addColor(el.Style.Color)
		addColor(el.Style.BackgroundColor)
		if f := strings.TrimSpace(el.Style.FontFamily); f != "" {
			if _, ok := seenFont[f]; !ok {
				seenFont[f] = struct{}{}
				ctx.Fonts = append(ctx.Fonts, f)
			}
		}
	}

	if len(p.Brand.Colors) == 0 {
		ctx.ConsistencyScore = neutralConsistency
		return ctx
	}
	matched := 0
	for _, bc := range p.Brand.Colors {
		if _, ok := seenColor[strings.ToUpper(strings.TrimSpace(bc))]; ok {
			matched++
		}
	}
	ctx.ConsistencyScore = float64(matched) / float64(len(p.Brand.Colors))
	return ctx
}
