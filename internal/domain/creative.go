package domain

import "time"

// Impact estimates how disruptive a design option is.
type Impact string

const (
	ImpactMinor    Impact = "minor"
	ImpactModerate Impact = "moderate"
	ImpactMajor    Impact = "major"
)

// DesignOption is one candidate edit produced by the planner.
type DesignOption struct {
	ID                    string    `json:"id"`
	Elements              []Element `json:"elements"`
	Reasoning             string    `json:"complianceReasoning"`
	Confidence            float64   `json:"confidence"`
	Modifications         []string  `json:"modifications"`
	BrandConsistencyScore *float64  `json:"brandConsistencyScore,omitempty"`
	Impact                Impact    `json:"estimatedImpact,omitempty"`
	PreservedElementIDs   []string  `json:"preservedElements,omitempty"`
}

// BrandContext summarises how the current design uses brand colors and fonts.
type BrandContext struct {
	Colors           []string `json:"colors"`
	Fonts            []string `json:"fonts"`
	ConsistencyScore float64  `json:"consistencyScore"`
}

// Phase is a CreativeWorkflow state.
type Phase string

const (
	PhaseAnalyze  Phase = "analyze"
	PhasePlan     Phase = "plan"
	PhaseGenerate Phase = "generate"
	PhaseReview   Phase = "review"
	PhaseApply    Phase = "apply"
)

// GenerationMode selects how many options the planner produces.
type GenerationMode string

const (
	ModeQuick         GenerationMode = "quick"
	ModeStandard      GenerationMode = "standard"
	ModeComprehensive GenerationMode = "comprehensive"
)

// HITLDecision is the external reviewer's verdict on a pending review.
type HITLDecision struct {
	Approved         bool   `json:"approved"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
	Feedback         string `json:"feedback,omitempty"`
}

// CreativeResult is what a creative workflow run reports to callers.
type CreativeResult struct {
	Design         Design         `json:"canvasState"`
	Options        []DesignOption `json:"designOptions"`
	SelectedOption *DesignOption  `json:"selectedOption,omitempty"`
	RequiresHITL   bool           `json:"requiresHITL"`
	HITLReasons    []string       `json:"hitlReasons,omitempty"`
	Phase          Phase          `json:"phase"`
	ReviewID       string         `json:"reviewId,omitempty"`
	BrandContext   *BrandContext  `json:"brandContext,omitempty"`
	Iteration      int            `json:"iteration,omitempty"`
}

// ReviewSession is a creative run paused at the human-approval gate.
type ReviewSession struct {
	ID        string         `json:"id"`
	Platform  string         `json:"platform"`
	Request   string         `json:"userRequest"`
	Mode      GenerationMode `json:"generationMode"`
	Design    Design         `json:"canvasState"`
	Options   []DesignOption `json:"designOptions"`
	Reasons   []string       `json:"hitlReasons"`
	Iteration int            `json:"iteration"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
