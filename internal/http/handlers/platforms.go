package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"retailcreative/internal/rules"
)

type platformSummary struct {
	Platform    string `json:"platform"`
	DisplayName string `json:"displayName"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (a *App) PlatformsList(w http.ResponseWriter, r *http.Request) {
	names, err := a.Profiles.Platforms(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]platformSummary, 0, len(names))
	for _, name := range names {
		p, err := a.Profiles.Profile(r.Context(), name)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		out = append(out, platformSummary{
			Platform:    p.Platform,
			DisplayName: rules.DisplayName(p),
			Width:       p.Dimensions.Width,
			Height:      p.Dimensions.Height,
		})
	}
	a.ok(w, out)
}

func (a *App) PlatformShow(w http.ResponseWriter, r *http.Request) {
	platform, err := a.platform(r, chi.URLParam(r, "platform"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Profiles.Profile(r.Context(), platform)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, p)
}

// PlatformsReload drops cached profiles and model clients.
func (a *App) PlatformsReload(w http.ResponseWriter, r *http.Request) {
	a.Profiles.Reload()
	if a.Models != nil {
		a.Models.Reset()
	}
	a.Logger.Info().Msg("platform profiles reloaded")
	a.PlatformsList(w, r)
}
