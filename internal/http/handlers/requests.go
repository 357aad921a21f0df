package handlers

import (
	"strings"

	"retailcreative/internal/domain"
)

type routeRequest struct {
	Canvas      *domain.Design `json:"canvasState"`
	UserRequest string         `json:"userRequest"`
}

func (r *routeRequest) validate() error {
	if r.Canvas == nil {
		return domain.InputError("canvasState", "is required")
	}
	if strings.TrimSpace(r.UserRequest) == "" {
		return domain.InputError("userRequest", "is required")
	}
	return nil
}

type creativeRequest struct {
	Canvas         *domain.Design `json:"canvasState"`
	Platform       string         `json:"platform"`
	UserRequest    string         `json:"userRequest"`
	GenerationMode string         `json:"generationMode,omitempty"`
}

func (r *creativeRequest) validate() error {
	if r.Canvas == nil {
		return domain.InputError("canvasState", "is required")
	}
	if strings.TrimSpace(r.UserRequest) == "" {
		return domain.InputError("userRequest", "is required")
	}
	return validMode(r.GenerationMode)
}

type decisionRequest struct {
	Approved         *bool  `json:"approved"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
	Feedback         string `json:"feedback,omitempty"`
}

func (r *decisionRequest) validate() error {
	if r.Approved == nil {
		return domain.InputError("approved", "is required")
	}
	return nil
}

type validateRequest struct {
	Canvas   *domain.Design `json:"canvasState"`
	Platform string         `json:"platform"`
	Tier     string         `json:"tier,omitempty"`

	tier domain.Tier
}

func (r *validateRequest) validate() error {
	if r.Canvas == nil {
		return domain.InputError("canvasState", "is required")
	}
	t, ok := domain.ParseTier(r.Tier)
	if !ok {
		return domain.InputError("tier", "must be one of instant, rule_engine, model, comprehensive")
	}
	r.tier = t
	return nil
}

type autoFixRequest struct {
	Canvas     *domain.Design `json:"canvasState"`
	Violations []domain.Issue `json:"violations"`
	Platform   string         `json:"platform,omitempty"`
}

func (r *autoFixRequest) validate() error {
	if r.Canvas == nil {
		return domain.InputError("canvasState", "is required")
	}
	if r.Violations == nil {
		return domain.InputError("violations", "is required")
	}
	return nil
}

type workflowRequest struct {
	Canvas         *domain.Design `json:"canvasState"`
	UserRequest    string         `json:"userRequest"`
	Platform       string         `json:"platform,omitempty"`
	GenerationMode string         `json:"generationMode,omitempty"`
	Tier           string         `json:"tier,omitempty"`

	tier domain.Tier
}

func (r *workflowRequest) validate() error {
	if r.Canvas == nil {
		return domain.InputError("canvasState", "is required")
	}
	if strings.TrimSpace(r.UserRequest) == "" {
		return domain.InputError("userRequest", "is required")
	}
	t, ok := domain.ParseTier(r.Tier)
	if !ok {
		return domain.InputError("tier", "must be one of instant, rule_engine, model, comprehensive")
	}
	r.tier = t
	return validMode(r.GenerationMode)
}

func validMode(m string) error {
	switch domain.GenerationMode(strings.ToLower(strings.TrimSpace(m))) {
	case "", domain.ModeQuick, domain.ModeStandard, domain.ModeComprehensive:
		return nil
	default:
		return domain.InputError("generationMode", "must be one of quick, standard, comprehensive")
	}
}

func parseMode(m string) domain.GenerationMode {
	return domain.GenerationMode(strings.ToLower(strings.TrimSpace(m)))
}
