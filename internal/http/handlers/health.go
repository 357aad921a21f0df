package handlers

import (
	"net/http"
)

// Health reports liveness and whether the platform profiles load.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	names, err := a.Profiles.Platforms(r.Context())
	if err != nil {
		a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "error": "profiles unavailable"})
		return
	}
	a.json(w, http.StatusOK, map[string]any{"status": "ok", "platforms": len(names)})
}
