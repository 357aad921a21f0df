package domain

// Category is the top-level routing intent.
type Category string

const (
	CategoryCreative Category = "creative"
	CategoryValidate Category = "validate"
	CategoryCombined Category = "combined"
	CategoryOptimize Category = "optimize"
)

// Categories lists every routing category in tie-break order.
var Categories = []Category{CategoryCreative, CategoryValidate, CategoryCombined, CategoryOptimize}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// SubIntent refines a category.
type SubIntent string

const (
	SubIntentImageGeneration          SubIntent = "image_generation"
	SubIntentTextCreation             SubIntent = "text_creation"
	SubIntentLayoutDesign             SubIntent = "layout_design"
	SubIntentColorScheme              SubIntent = "color_scheme"
	SubIntentBackgroundRemoval        SubIntent = "background_removal"
	SubIntentComplianceCheck          SubIntent = "compliance_check"
	SubIntentBrandValidation          SubIntent = "brand_validation"
	SubIntentSizeValidation           SubIntent = "size_validation"
	SubIntentContentValidation        SubIntent = "content_validation"
	SubIntentGenerateAndValidate      SubIntent = "generate_and_validate"
	SubIntentPerformanceOptimization  SubIntent = "performance_optimization"
	SubIntentVisualEnhancement        SubIntent = "visual_enhancement"
	SubIntentAccessibilityImprovement SubIntent = "accessibility_improvement"
)

// RouterDecision is the classifier's verdict for a request.
type RouterDecision struct {
	Category              Category       `json:"category"`
	SubIntent             SubIntent      `json:"subIntent,omitempty"`
	Platform              string         `json:"platform"`
	Params                map[string]any `json:"params"`
	Confidence            float64        `json:"confidence"`
	ConfidenceLevel       string         `json:"confidenceLevel,omitempty"`
	NeedsClarification    bool           `json:"needsClarification,omitempty"`
	ClarificationQuestion string         `json:"clarificationQuestion,omitempty"`
}
