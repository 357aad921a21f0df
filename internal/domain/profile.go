package domain

import (
	"fmt"
	"strings"
)

// Supported retail platforms.
const (
	PlatformAmazon   = "amazon"
	PlatformWalmart  = "walmart"
	PlatformFlipkart = "flipkart"
)

// Dimensions is the required canvas size.
type Dimensions struct {
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
	AspectRatio string `json:"aspectRatio,omitempty" yaml:"aspect_ratio,omitempty"`
}

type FileConstraints struct {
	MaxMB   float64  `json:"maxMB" yaml:"max_mb"`
	MinMB   float64  `json:"minMB,omitempty" yaml:"min_mb,omitempty"`
	Formats []string `json:"formats,omitempty" yaml:"formats,omitempty"`
	DPI     int      `json:"dpi,omitempty" yaml:"dpi,omitempty"`
}

type Readability struct {
	MinContrastRatio        float64 `json:"minContrastRatio,omitempty" yaml:"min_contrast_ratio,omitempty"`
	AvoidOverlappingProduct bool    `json:"avoidOverlappingProduct,omitempty" yaml:"avoid_overlapping_product,omitempty"`
}

type TextConstraints struct {
	MaxLines         int         `json:"maxLines" yaml:"max_lines"`
	MinFontSize      float64     `json:"minFontSize" yaml:"min_font_size"`
	MaxFontSize      float64     `json:"maxFontSize,omitempty" yaml:"max_font_size,omitempty"`
	AllowedFonts     []string    `json:"allowedFonts" yaml:"allowed_fonts"`
	MaxCharacters    int         `json:"maxCharacters,omitempty" yaml:"max_characters,omitempty"`
	LineHeightRatio  float64     `json:"lineHeightRatio,omitempty" yaml:"line_height_ratio,omitempty"`
	TextToImageRatio float64     `json:"textToImageRatio,omitempty" yaml:"text_to_image_ratio,omitempty"`
	Readability      Readability `json:"readability" yaml:"readability"`
}

type Resolution struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type ProductConstraints struct {
	MinCoverage               float64     `json:"minCoverage" yaml:"min_coverage"`
	MaxCoverage               float64     `json:"maxCoverage" yaml:"max_coverage"`
	MinVisibility             float64     `json:"minVisibility,omitempty" yaml:"min_visibility,omitempty"`
	CenterAlignmentTolerance  float64     `json:"centerAlignmentTolerance,omitempty" yaml:"center_alignment_tolerance,omitempty"`
	BackgroundRemovalRequired bool        `json:"backgroundRemovalRequired,omitempty" yaml:"background_removal_required,omitempty"`
	ShowMultipleAngles        bool        `json:"showMultipleAngles,omitempty" yaml:"show_multiple_angles,omitempty"`
	MinResolution             *Resolution `json:"minResolution,omitempty" yaml:"min_resolution,omitempty"`
}

type BrandConstraints struct {
	Colors              []string `json:"colors" yaml:"colors"`
	LogoRequired        bool     `json:"logoRequired,omitempty" yaml:"logo_required,omitempty"`
	LogoMaxSizePercent  float64  `json:"logoMaxSizePercent,omitempty" yaml:"logo_max_size_percent,omitempty"`
	LogoPositions       []string `json:"logoPositions,omitempty" yaml:"logo_positions,omitempty"`
	ConsistencyScoreMin float64  `json:"consistencyScoreMin,omitempty" yaml:"consistency_score_min,omitempty"`
}

type Accessibility struct {
	AltTextRequired bool `json:"altTextRequired,omitempty" yaml:"alt_text_required,omitempty"`
	ColorBlindSafe  bool `json:"colorBlindSafe,omitempty" yaml:"color_blind_safe,omitempty"`
}

type ComplianceConstraints struct {
	ProhibitedContent   []string      `json:"prohibitedContent,omitempty" yaml:"prohibited_content,omitempty"`
	RequiredDisclaimers []string      `json:"requiredDisclaimers,omitempty" yaml:"required_disclaimers,omitempty"`
	TrademarkClearance  bool          `json:"trademarkClearance,omitempty" yaml:"trademark_clearance,omitempty"`
	Accessibility       Accessibility `json:"accessibility" yaml:"accessibility"`
}

type PerformanceHints struct {
	ClickThroughZones      []string    `json:"clickThroughZones,omitempty" yaml:"click_through_zones,omitempty"`
	RecommendedCTAPosition string      `json:"recommendedCtaPosition,omitempty" yaml:"recommended_cta_position,omitempty"`
	CTAMinSize             *Resolution `json:"ctaMinSize,omitempty" yaml:"cta_min_size,omitempty"`
}

type SeasonalRules struct {
	HolidayThemesAllowed    bool `json:"holidayThemesAllowed" yaml:"holiday_themes_allowed"`
	SeasonalColorVariations bool `json:"seasonalColorVariations" yaml:"seasonal_color_variations"`
}

// PlatformProfile is the constraint set for one retail platform. Profiles are
// shared between requests once loaded and must be treated as read-only.
type PlatformProfile struct {
	Platform        string                `json:"platform" yaml:"platform"`
	DisplayName     string                `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	RequiredBgColor string                `json:"requiredBgColor,omitempty" yaml:"required_bg_color,omitempty"`
	AllowedBgColors []string              `json:"allowedBgColors,omitempty" yaml:"allowed_bg_colors,omitempty"`
	Dimensions      Dimensions            `json:"dimensions" yaml:"dimensions"`
	File            FileConstraints       `json:"fileSize" yaml:"file"`
	Text            TextConstraints       `json:"text" yaml:"text"`
	Product         ProductConstraints    `json:"product" yaml:"product"`
	Brand           BrandConstraints      `json:"brand" yaml:"brand"`
	Compliance      ComplianceConstraints `json:"compliance" yaml:"compliance"`
	Performance     PerformanceHints      `json:"performance" yaml:"performance"`
	Seasonal        *SeasonalRules        `json:"seasonalRules,omitempty" yaml:"seasonal,omitempty"`
}

// BackgroundAllowed reports whether color satisfies the profile's background rule.
func (p *PlatformProfile) BackgroundAllowed(color string) bool {
	if p.RequiredBgColor == "" {
		return true
	}
	if strings.EqualFold(color, p.RequiredBgColor) {
		return true
	}
	for _, c := range p.AllowedBgColors {
		if strings.EqualFold(color, c) {
			return true
		}
	}
	return false
}

// FontAllowed reports whether family is one of the allowed fonts. An empty
// allow-list accepts every font.
func (p *PlatformProfile) FontAllowed(family string) bool {
	if len(p.Text.AllowedFonts) == 0 {
		return true
	}
	for _, f := range p.Text.AllowedFonts {
		if strings.EqualFold(strings.TrimSpace(family), f) {
			return true
		}
	}
	return false
}

// Validate rejects structurally malformed profiles.
func (p *PlatformProfile) Validate() error {
	if strings.TrimSpace(p.Platform) == "" {
		return fmt.Errorf("platform is required")
	}
	if p.Dimensions.Width <= 0 || p.Dimensions.Height <= 0 {
		return fmt.Errorf("dimensions must be positive")
	}
	if p.File.MaxMB < 0 || p.File.MinMB < 0 || (p.File.MaxMB > 0 && p.File.MinMB > p.File.MaxMB) {
		return fmt.Errorf("file size bounds are invalid")
	}
	if p.Text.MaxLines < 0 {
		return fmt.Errorf("text.max_lines must not be negative")
	}
	if p.Text.MinFontSize < 0 {
		return fmt.Errorf("text.min_font_size must not be negative")
	}
	if p.Text.MaxFontSize > 0 && p.Text.MinFontSize > p.Text.MaxFontSize {
		return fmt.Errorf("text.min_font_size exceeds text.max_font_size")
	}
	if p.Product.MaxCoverage > 0 && p.Product.MinCoverage > p.Product.MaxCoverage {
		return fmt.Errorf("product.min_coverage exceeds product.max_coverage")
	}
	if p.Brand.ConsistencyScoreMin < 0 || p.Brand.ConsistencyScoreMin > 1 {
		return fmt.Errorf("brand.consistency_score_min must be within [0,1]")
	}
	return nil
}
