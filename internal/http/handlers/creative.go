package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"retailcreative/internal/creative"
	"retailcreative/internal/domain"
)

func (a *App) CreativeRun(w http.ResponseWriter, r *http.Request) {
	var req creativeRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	platform, err := a.platform(r, req.Platform)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Creative.Run(r.Context(), creative.Request{
		Design:      *req.Canvas,
		Platform:    platform,
		UserRequest: req.UserRequest,
		Mode:        parseMode(req.GenerationMode),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, res)
}

func (a *App) CreativeReview(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	sess, err := a.Creative.Pending(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, sess)
}

func (a *App) CreativeDecision(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req decisionRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Creative.Decide(r.Context(), id, domain.HITLDecision{
		Approved:         *req.Approved,
		SelectedOptionID: req.SelectedOptionID,
		Feedback:         req.Feedback,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, res)
}

// reviewID reads the {id} route param. Review ids are uuids, so anything else
// cannot name a session.
func reviewID(r *http.Request) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return "", domain.ErrReviewNotFound
	}
	return id.String(), nil
}
