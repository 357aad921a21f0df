package jsoncfg

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"retailcreative/internal/domain"
)

//go:embed workflow.json
var defaultWorkflowJSON []byte

type ConfidenceThresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

// Level buckets a routing confidence into "high", "medium", "low" or
// "very_low".
func (t ConfidenceThresholds) Level(confidence float64) string {
	switch {
	case confidence >= t.High:
		return "high"
	case confidence >= t.Medium:
		return "medium"
	case confidence >= t.Low:
		return "low"
	default:
		return "very_low"
	}
}

type RouterConfig struct {
	DefaultPlatform               string               `json:"default_platform"`
	ConfidenceThresholds          ConfidenceThresholds `json:"confidence_thresholds"`
	HeuristicThreshold            float64              `json:"heuristic_threshold"`
	RequireClarificationThreshold float64              `json:"require_clarification_threshold"`
}

type GenerationModeConfig struct {
	OptionsCount  int  `json:"options_count"`
	MaxIterations int  `json:"max_iterations"`
	SkipReview    bool `json:"skip_review"`
}

// HITLTriggers leaves the toggle and the change threshold as pointers so an
// override file can omit them (default) or set them to false/0 explicitly.
type HITLTriggers struct {
	MultipleOptions       *bool   `json:"multiple_options"`
	LowConfidence         float64 `json:"low_confidence"`
	MajorChangesThreshold *int    `json:"major_changes_threshold"`
}

// MultipleOptionsEnabled reports whether more than one option forces review.
func (t HITLTriggers) MultipleOptionsEnabled() bool {
	return t.MultipleOptions == nil || *t.MultipleOptions
}

// MajorChanges returns the modification count above which review is forced.
func (t HITLTriggers) MajorChanges() int {
	if t.MajorChangesThreshold == nil {
		return DefaultMajorChangesThreshold
	}
	return *t.MajorChangesThreshold
}

type ContextualAwareness struct {
	PreserveExistingElements *bool `json:"preserve_existing_elements"`
}

type CreativeConfig struct {
	GenerationModes     map[domain.GenerationMode]GenerationModeConfig `json:"generation_modes"`
	DefaultMode         domain.GenerationMode                          `json:"default_mode"`
	HITLTriggers        HITLTriggers                                   `json:"hitl_triggers"`
	ContextualAwareness ContextualAwareness                            `json:"contextual_awareness"`
}

type SeverityLevel struct {
	Score       float64 `json:"score"`
	BlockExport bool    `json:"block_export"`
}

type AutoFixConfig struct {
	Enabled             *bool    `json:"enabled"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
	FixableRules        []string `json:"fixable_rules"`
}

// On reports whether auto-fixes are offered at all. Omitted means on.
func (a AutoFixConfig) On() bool {
	return a.Enabled == nil || *a.Enabled
}

// Fixable reports whether rule is on the allow-list, ignoring case.
func (a AutoFixConfig) Fixable(rule string) bool {
	for _, r := range a.FixableRules {
		if strings.EqualFold(r, rule) {
			return true
		}
	}
	return false
}

type ValidationConfig struct {
	SeverityLevels map[domain.Severity]SeverityLevel `json:"severity_levels"`
	AutoFix        AutoFixConfig                     `json:"auto_fix"`
}

// WorkflowConfig carries the tunables shared by the router, the creative
// workflow and the validation pipeline.
type WorkflowConfig struct {
	Version    string           `json:"version"`
	Router     RouterConfig     `json:"router"`
	Creative   CreativeConfig   `json:"creative"`
	Validation ValidationConfig `json:"validation"`
}

const (
	DefaultHeuristicThreshold     = 0.6
	DefaultClarificationThreshold = 0.7
	DefaultLowConfidence          = 0.7
	DefaultMajorChangesThreshold  = 5
	DefaultAutoFixConfidence      = 0.8
)

var defaultSeverityScores = map[domain.Severity]float64{
	domain.SeverityCritical: 30,
	domain.SeverityHigh:     20,
	domain.SeverityMedium:   10,
	domain.SeverityLow:      5,
}

var defaultConfidenceThresholds = ConfidenceThresholds{High: 0.85, Medium: 0.6, Low: 0.4}

var defaultModes = map[domain.GenerationMode]GenerationModeConfig{
	domain.ModeQuick:         {OptionsCount: 1, MaxIterations: 1, SkipReview: true},
	domain.ModeStandard:      {OptionsCount: 2, MaxIterations: 2},
	domain.ModeComprehensive: {OptionsCount: 3, MaxIterations: 3},
}

// Default returns the embedded workflow configuration.
func Default() *WorkflowConfig {
	cfg, err := Parse(defaultWorkflowJSON)
	if err != nil {
		panic(fmt.Errorf("embedded workflow config: %w", err))
	}
	return cfg
}

// Load reads the workflow configuration from path, or returns the embedded
// default when path is empty.
func Load(path string) (*WorkflowConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Source: path, Err: err}
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, &domain.ConfigError{Source: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes, normalizes and validates a workflow configuration document.
func Parse(raw []byte) (*WorkflowConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var cfg WorkflowConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode workflow config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills any omitted section with its default.
func (c *WorkflowConfig) Normalize() {
	if c == nil {
		return
	}
	if c.Router.DefaultPlatform == "" {
		c.Router.DefaultPlatform = domain.PlatformAmazon
	}
	c.Router.DefaultPlatform = strings.ToLower(strings.TrimSpace(c.Router.DefaultPlatform))
	if c.Router.HeuristicThreshold == 0 {
		c.Router.HeuristicThreshold = DefaultHeuristicThreshold
	}
	if c.Router.RequireClarificationThreshold == 0 {
		c.Router.RequireClarificationThreshold = DefaultClarificationThreshold
	}
	if c.Router.ConfidenceThresholds == (ConfidenceThresholds{}) {
		c.Router.ConfidenceThresholds = defaultConfidenceThresholds
	}
	if c.Creative.GenerationModes == nil {
		c.Creative.GenerationModes = map[domain.GenerationMode]GenerationModeConfig{}
	}
	for mode, def := range defaultModes {
		if _, ok := c.Creative.GenerationModes[mode]; !ok {
			c.Creative.GenerationModes[mode] = def
		}
	}
	if c.Creative.DefaultMode == "" {
		c.Creative.DefaultMode = domain.ModeStandard
	}
	if c.Creative.HITLTriggers.LowConfidence == 0 {
		c.Creative.HITLTriggers.LowConfidence = DefaultLowConfidence
	}
	if c.Creative.HITLTriggers.MultipleOptions == nil {
		c.Creative.HITLTriggers.MultipleOptions = boolPtr(true)
	}
	if c.Creative.HITLTriggers.MajorChangesThreshold == nil {
		n := DefaultMajorChangesThreshold
		c.Creative.HITLTriggers.MajorChangesThreshold = &n
	}
	if c.Creative.ContextualAwareness.PreserveExistingElements == nil {
		c.Creative.ContextualAwareness.PreserveExistingElements = boolPtr(true)
	}
	if c.Validation.SeverityLevels == nil {
		c.Validation.SeverityLevels = map[domain.Severity]SeverityLevel{}
	}
	for sev, score := range defaultSeverityScores {
		if _, ok := c.Validation.SeverityLevels[sev]; !ok {
			c.Validation.SeverityLevels[sev] = SeverityLevel{Score: score, BlockExport: sev == domain.SeverityCritical}
		}
	}
	if c.Validation.AutoFix.Enabled == nil {
		c.Validation.AutoFix.Enabled = boolPtr(true)
	}
	if c.Validation.AutoFix.ConfidenceThreshold == 0 {
		c.Validation.AutoFix.ConfidenceThreshold = DefaultAutoFixConfidence
	}
}

func boolPtr(v bool) *bool { return &v }

// Validate rejects out-of-range thresholds and inconsistent mode tables.
func (c WorkflowConfig) Validate() error {
	if err := unitInterval("router.heuristic_threshold", c.Router.HeuristicThreshold); err != nil {
		return err
	}
	if err := unitInterval("router.require_clarification_threshold", c.Router.RequireClarificationThreshold); err != nil {
		return err
	}
	if err := unitInterval("creative.hitl_triggers.low_confidence", c.Creative.HITLTriggers.LowConfidence); err != nil {
		return err
	}
	if err := unitInterval("validation.auto_fix.confidence_threshold", c.Validation.AutoFix.ConfidenceThreshold); err != nil {
		return err
	}
	t := c.Router.ConfidenceThresholds
	for name, v := range map[string]float64{"high": t.High, "medium": t.Medium, "low": t.Low} {
		if err := unitInterval("router.confidence_thresholds."+name, v); err != nil {
			return err
		}
	}
	if t.Low > t.Medium || t.Medium > t.High {
		return fmt.Errorf("router.confidence_thresholds must satisfy low <= medium <= high")
	}
	if c.Creative.HITLTriggers.MajorChanges() < 0 {
		return fmt.Errorf("creative.hitl_triggers.major_changes_threshold must not be negative")
	}
	for mode, m := range c.Creative.GenerationModes {
		if m.OptionsCount < 1 {
			return fmt.Errorf("creative.generation_modes.%s.options_count must be at least 1", mode)
		}
		if m.MaxIterations < 1 {
			return fmt.Errorf("creative.generation_modes.%s.max_iterations must be at least 1", mode)
		}
	}
	if _, ok := c.Creative.GenerationModes[c.Creative.DefaultMode]; !ok {
		return fmt.Errorf("creative.default_mode %q is not a configured mode", c.Creative.DefaultMode)
	}
	for sev, lvl := range c.Validation.SeverityLevels {
		if lvl.Score < 0 || lvl.Score > 100 {
			return fmt.Errorf("validation.severity_levels.%s.score must be within [0,100]", sev)
		}
	}
	return nil
}

// Mode resolves a generation mode, falling back to the configured default for
// unknown or empty names.
func (c *WorkflowConfig) Mode(name domain.GenerationMode) (domain.GenerationMode, GenerationModeConfig) {
	if m, ok := c.Creative.GenerationModes[name]; ok {
		return name, m
	}
	return c.Creative.DefaultMode, c.Creative.GenerationModes[c.Creative.DefaultMode]
}

// SeverityScore returns the configured score for sev.
func (c *WorkflowConfig) SeverityScore(sev domain.Severity) float64 {
	if lvl, ok := c.Validation.SeverityLevels[sev]; ok {
		return lvl.Score
	}
	return defaultSeverityScores[sev]
}

// PreserveExisting reports whether Apply keeps the current canvas elements.
func (c *WorkflowConfig) PreserveExisting() bool {
	p := c.Creative.ContextualAwareness.PreserveExistingElements
	return p == nil || *p
}

// BlocksExport reports whether an issue of severity sev blocks export.
func (c *WorkflowConfig) BlocksExport(sev domain.Severity) bool {
	if lvl, ok := c.Validation.SeverityLevels[sev]; ok {
		return lvl.BlockExport
	}
	return sev == domain.SeverityCritical
}

func unitInterval(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be within [0,1]", name)
	}
	return nil
}
