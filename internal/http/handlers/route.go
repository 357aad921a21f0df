package handlers

import (
	"net/http"
)

// Route classifies a request. The classifier never fails, so only malformed
// input produces an error.
func (a *App) Route(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.Router.Classify(r.Context(), req.UserRequest, req.Canvas.Summarize()))
}
