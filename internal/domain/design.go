package domain

import (
	"strings"
	"time"
)

// ElementType enumerates the kinds of canvas elements a design may carry.
type ElementType string

const (
	ElementText       ElementType = "text"
	ElementImage      ElementType = "image"
	ElementShape      ElementType = "shape"
	ElementBackground ElementType = "background"
)

// Style holds the presentational attributes of an element. Only the fields the
// rule engine and auto-fixer inspect are typed; anything else rides in Extra.
type Style struct {
	FontSize        float64        `json:"fontSize,omitempty"`
	FontFamily      string         `json:"fontFamily,omitempty"`
	FontWeight      string         `json:"fontWeight,omitempty"`
	Color           string         `json:"color,omitempty"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	TextAlign       string         `json:"textAlign,omitempty"`
	Opacity         *float64       `json:"opacity,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// ElementFlags marks elements that carry special meaning for review and validation.
type ElementFlags struct {
	IsCritical      bool   `json:"isCritical,omitempty"`
	IsProduct       bool   `json:"isProduct,omitempty"`
	IsBrandElement  bool   `json:"isBrandElement,omitempty"`
	NeedsGeneration bool   `json:"needsGeneration,omitempty"`
	Layer           int    `json:"layer,omitempty"`
	Prompt          string `json:"prompt,omitempty"`
}

// Element is a single positioned item on the canvas.
type Element struct {
	ID       string        `json:"id"`
	Type     ElementType   `json:"type"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Style    *Style        `json:"style,omitempty"`
	Content  string        `json:"content,omitempty"`
	Src      string        `json:"src,omitempty"`
	Metadata *ElementFlags `json:"metadata,omitempty"`
}

// Flags returns the element flags, never nil.
func (e Element) Flags() ElementFlags {
	if e.Metadata == nil {
		return ElementFlags{}
	}
	return *e.Metadata
}

// Background describes the canvas backdrop.
type Background struct {
	Color string `json:"color,omitempty"`
	Image string `json:"image,omitempty"`
}

// DesignMetadata tracks edit history and optional brand/platform hints.
type DesignMetadata struct {
	Version      int       `json:"version"`
	LastModified time.Time `json:"lastModified"`
	Brand        string    `json:"brand,omitempty"`
	Platform     string    `json:"platform,omitempty"`
}

// Design is the full canvas state exchanged with clients.
type Design struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Elements   []Element       `json:"elements"`
	Background *Background     `json:"background,omitempty"`
	Metadata   *DesignMetadata `json:"metadata,omitempty"`
}

// Clone returns a deep copy so callers can mutate the result without touching
// the original design.
func (d Design) Clone() Design {
	out := d
	out.Elements = make([]Element, len(d.Elements))
	for i, el := range d.Elements {
		out.Elements[i] = el.Clone()
	}
	if d.Background != nil {
		bg := *d.Background
		out.Background = &bg
	}
	if d.Metadata != nil {
		md := *d.Metadata
		out.Metadata = &md
	}
	return out
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Style != nil {
		st := *e.Style
		if e.Style.Opacity != nil {
			op := *e.Style.Opacity
			st.Opacity = &op
		}
		if e.Style.Extra != nil {
			st.Extra = make(map[string]any, len(e.Style.Extra))
			for k, v := range e.Style.Extra {
				st.Extra[k] = v
			}
		}
		out.Style = &st
	}
	if e.Metadata != nil {
		md := *e.Metadata
		out.Metadata = &md
	}
	return out
}

// BackgroundColor returns the canvas background color or "" when unset.
func (d Design) BackgroundColor() string {
	if d.Background == nil {
		return ""
	}
	return d.Background.Color
}

// Version returns the design version, zero when metadata is absent.
func (d Design) Version() int {
	if d.Metadata == nil {
		return 0
	}
	return d.Metadata.Version
}

// Platform returns the platform recorded in the design metadata.
func (d Design) Platform() string {
	if d.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(d.Metadata.Platform)
}

// TextElements returns the text elements in canvas order.
func (d Design) TextElements() []Element {
	var out []Element
	for _, el := range d.Elements {
		if el.Type == ElementText {
			out = append(out, el)
		}
	}
	return out
}

// Summary is the compact element listing handed to model prompts.
type Summary struct {
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Background string           `json:"background,omitempty"`
	Elements   []ElementSummary `json:"elements"`
}

// ElementSummary is one entry of Summary.
type ElementSummary struct {
	ID        string      `json:"id"`
	Type      ElementType `json:"type"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Content   string      `json:"content,omitempty"`
	Color     string      `json:"color,omitempty"`
	FontSize  float64     `json:"fontSize,omitempty"`
	IsProduct bool        `json:"isProduct,omitempty"`
}

// Summarize builds the prompt-ready summary of the design.
func (d Design) Summarize() Summary {
	s := Summary{Width: d.Width, Height: d.Height, Background: d.BackgroundColor()}
	s.Elements = make([]ElementSummary, 0, len(d.Elements))
	for _, el := range d.Elements {
		es := ElementSummary{
			ID:        el.ID,
			Type:      el.Type,
			X:         el.X,
			Y:         el.Y,
			Width:     el.Width,
			Height:    el.Height,
			Content:   el.Content,
			IsProduct: el.Flags().IsProduct,
		}
		if el.Style != nil {
			es.Color = el.Style.Color
			es.FontSize = el.Style.FontSize
		}
		s.Elements = append(s.Elements, es)
	}
	return s
}
