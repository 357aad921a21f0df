package handlers

import (
	"net/http"
	"strings"

	"retailcreative/internal/domain"
)

func (a *App) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	platform, err := a.platform(r, req.Platform)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Validator.Validate(r.Context(), *req.Canvas, platform, req.tier)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, res)
}

type autoFixResponse struct {
	Canvas       domain.Design    `json:"canvasState"`
	AppliedFixes []domain.AutoFix `json:"appliedFixes"`
}

// AutoFix applies the fixes offered for the posted violations. The platform
// comes from the request, then the canvas metadata, then the service default.
func (a *App) AutoFix(w http.ResponseWriter, r *http.Request) {
	var req autoFixRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	name := firstNonEmpty(req.Platform, req.Canvas.Platform(), a.DefaultPlatform)
	platform, err := a.platform(r, name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	profile, err := a.Profiles.Profile(r.Context(), platform)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	design := req.Canvas.Clone()
	fixes := a.Fixes.GenerateFixes(req.Violations, profile)
	for _, fix := range fixes {
		design = fix.Apply(design)
	}
	a.Logger.Debug().
		Str("platform", platform).
		Int("violations", len(req.Violations)).
		Int("applied", len(fixes)).
		Msg("auto-fix applied")
	a.ok(w, autoFixResponse{Canvas: design, AppliedFixes: fixes})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
