package intent

import (
	"math"
	"regexp"

	"retailcreative/internal/domain"
	"retailcreative/internal/textmatch"
)

var hexColorPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

// Heuristic is the keyword pre-analysis of a request.
type Heuristic struct {
	Category   domain.Category
	SubIntent  domain.SubIntent
	Platform   string
	Confidence float64
	Keywords   []string
	Scores     map[domain.Category]int
	Params     map[string]any
}

// Analyze scores request against the category, sub-intent and platform
// keyword sets.
func Analyze(request string) Heuristic {
	folded := textmatch.Fold(request)
	h := Heuristic{Scores: make(map[domain.Category]int, len(domain.Categories)), Params: map[string]any{}}

	for _, cat := range domain.Categories {
		for _, kw := range categoryKeywords[cat] {
			if textmatch.Contains(folded, kw) {
				h.Scores[cat]++
				h.Keywords = append(h.Keywords, kw)
			}
		}
	}
	if h.Scores[domain.CategoryCreative] > 0 && h.Scores[domain.CategoryValidate] > 0 {
		h.Scores[domain.CategoryCombined] += h.Scores[domain.CategoryCreative] + h.Scores[domain.CategoryValidate]
	}

	best, total := 0, 0
	h.Category = domain.CategoryCreative
	for _, cat := range domain.Categories {
		s := h.Scores[cat]
		total += s
		if s > best {
			best = s
			h.Category = cat
		}
	}
	if total > 0 {
		share := float64(best) / float64(total)
		h.Confidence = round2(share * math.Min(1, 0.4+0.15*float64(best)))
	}

	h.SubIntent = subIntentFor(folded, h.Category)

	for _, p := range platformOrder {
		for _, kw := range platformKeywords[p] {
			if textmatch.Contains(folded, kw) {
				h.Platform = p
				break
			}
		}
		if h.Platform != "" {
			break
		}
	}

	if colors := hexColorPattern.FindAllString(request, -1); len(colors) > 0 {
		h.Params["colorScheme"] = colors
	}
	return h
}

func subIntentFor(folded string, cat domain.Category) domain.SubIntent {
	if cat == domain.CategoryCombined {
		return domain.SubIntentGenerateAndValidate
	}
	var (
		best     domain.SubIntent
		bestHits int
	)
	for _, group := range subIntentKeywords[cat] {
		hits := 0
		for _, kw := range group.keywords {
			if textmatch.Contains(folded, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = group.intent, hits
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
