package handlers

import (
	"net/http"
	"strings"

	"retailcreative/internal/orchestrator"
)

// Workflow routes the request and runs the creative and validation stages its
// category calls for.
func (a *App) Workflow(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	platform := ""
	if strings.TrimSpace(req.Platform) != "" {
		p, err := a.platform(r, req.Platform)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		platform = p
	}
	res, err := a.Orchestrator.Run(r.Context(), orchestrator.Request{
		Design:      *req.Canvas,
		UserRequest: req.UserRequest,
		Platform:    platform,
		Mode:        parseMode(req.GenerationMode),
		Tier:        req.tier,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, res)
}
