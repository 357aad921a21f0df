package intent

import "retailcreative/internal/domain"

var categoryKeywords = map[domain.Category][]string{
	domain.CategoryCreative: {
		"create", "generate", "add", "design", "build", "insert", "place", "draw",
		"write", "new", "produce", "replace", "change", "put", "banner", "headline",
	},
	domain.CategoryValidate: {
		"check", "validate", "verify", "compliance", "compliant", "guideline", "guidelines",
		"rules", "meets", "meet", "audit", "policy", "allowed", "violations", "approve",
	},
	domain.CategoryCombined: {
		"and validate", "and check", "then validate", "then check", "and verify",
		"generate and validate", "create and check", "compliant design",
	},
	domain.CategoryOptimize: {
		"improve", "optimize", "optimise", "better", "enhance", "boost", "increase",
		"performance", "accessibility", "refine", "polish", "ctr", "conversion",
	},
}

var subIntentKeywords = map[domain.Category][]struct {
	intent   domain.SubIntent
	keywords []string
}{
	domain.CategoryCreative: {
		{domain.SubIntentBackgroundRemoval, []string{"remove background", "background removal", "cutout", "remove the background"}},
		{domain.SubIntentImageGeneration, []string{"image", "photo", "picture", "product shot", "illustration"}},
		{domain.SubIntentTextCreation, []string{"text", "headline", "copy", "tagline", "caption", "title"}},
		{domain.SubIntentLayoutDesign, []string{"layout", "arrange", "position", "align", "grid"}},
		{domain.SubIntentColorScheme, []string{"color", "colour", "palette", "colors"}},
	},
	domain.CategoryValidate: {
		{domain.SubIntentComplianceCheck, []string{"compliance", "compliant", "guidelines", "guideline", "policy", "rules"}},
		{domain.SubIntentBrandValidation, []string{"brand", "logo"}},
		{domain.SubIntentSizeValidation, []string{"size", "dimension", "dimensions", "resolution"}},
		{domain.SubIntentContentValidation, []string{"claim", "claims", "wording", "content"}},
	},
	domain.CategoryOptimize: {
		{domain.SubIntentPerformanceOptimization, []string{"performance", "ctr", "conversion", "click", "clicks"}},
		{domain.SubIntentAccessibilityImprovement, []string{"accessibility", "accessible", "contrast", "readability", "readable"}},
		{domain.SubIntentVisualEnhancement, []string{"visual", "look", "appearance", "better", "pop"}},
	},
}

var platformKeywords = map[string][]string{
	domain.PlatformAmazon:   {"amazon", "prime", "amazon.com"},
	domain.PlatformWalmart:  {"walmart", "walmart.com", "wmt"},
	domain.PlatformFlipkart: {"flipkart", "big billion days", "flipkart.com"},
}

// platformOrder keeps platform detection deterministic when several match.
var platformOrder = []string{domain.PlatformAmazon, domain.PlatformWalmart, domain.PlatformFlipkart}
