// Package orchestrator composes intent routing with the creative workflow and
// the validation pipeline behind the single /workflow entry point.
package orchestrator

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"retailcreative/internal/creative"
	"retailcreative/internal/domain"
)

type Classifier interface {
	Classify(ctx context.Context, request string, summary domain.Summary) domain.RouterDecision
}

type Creator interface {
	Run(ctx context.Context, req creative.Request) (domain.CreativeResult, error)
}

type Validator interface {
	Validate(ctx context.Context, d domain.Design, platform string, tier domain.Tier) (domain.ValidationResult, error)
}

// Request is one end-to-end workflow call. Platform, when set, overrides the
// platform the classifier picked.
type Request struct {
	Design      domain.Design
	UserRequest string
	Platform    string
	Mode        domain.GenerationMode
	Tier        domain.Tier
}

// Response carries the routing decision and whichever stages ran.
type Response struct {
	Routing    domain.RouterDecision    `json:"routing"`
	Creative   *domain.CreativeResult   `json:"creative,omitempty"`
	Validation *domain.ValidationResult `json:"validation,omitempty"`
}

type Orchestrator struct {
	router    Classifier
	creative  Creator
	validator Validator
	logger    zerolog.Logger
}

func New(router Classifier, creative Creator, validator Validator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{router: router, creative: creative, validator: validator, logger: logger}
}

// Run classifies the request and dispatches on the category. A decision that
// needs clarification is returned without running any stage.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Response, error) {
	decision := o.router.Classify(ctx, req.UserRequest, req.Design.Summarize())
	resp := Response{Routing: decision}
	if decision.NeedsClarification {
		o.logger.Debug().
			Str("category", string(decision.Category)).
			Msg("orchestrator: clarification needed, skipping stages")
		return resp, nil
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform == "" {
		platform = decision.Platform
	}
	tier := req.Tier
	if tier == "" {
		tier = domain.TierModel
	}

	switch decision.Category {
	case domain.CategoryValidate:
		res, err := o.validator.Validate(ctx, req.Design, platform, tier)
		if err != nil {
			return Response{}, err
		}
		resp.Validation = &res

	case domain.CategoryCombined:
		out, err := o.runCreative(ctx, req, platform)
		if err != nil {
			return Response{}, err
		}
		resp.Creative = &out
		target := req.Design
		if out.Phase == domain.PhaseApply {
			target = out.Design
		}
		res, err := o.validator.Validate(ctx, target, platform, tier)
		if err != nil {
			return Response{}, err
		}
		resp.Validation = &res

	default:
		out, err := o.runCreative(ctx, req, platform)
		if err != nil {
			return Response{}, err
		}
		resp.Creative = &out
	}

	o.logger.Info().
		Str("category", string(decision.Category)).
		Str("platform", platform).
		Bool("creative", resp.Creative != nil).
		Bool("validation", resp.Validation != nil).
		Msg("orchestrator: workflow completed")
	return resp, nil
}

func (o *Orchestrator) runCreative(ctx context.Context, req Request, platform string) (domain.CreativeResult, error) {
	return o.creative.Run(ctx, creative.Request{
		Design:      req.Design,
		Platform:    platform,
		UserRequest: req.UserRequest,
		Mode:        req.Mode,
	})
}
