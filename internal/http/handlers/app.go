package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"retailcreative/internal/autofix"
	"retailcreative/internal/creative"
	"retailcreative/internal/domain"
	"retailcreative/internal/intent"
	"retailcreative/internal/orchestrator"
	"retailcreative/internal/rules"
	"retailcreative/internal/validation"
)

// maxBodyBytes bounds request payloads; canvases with inline data URLs can be large.
const maxBodyBytes = 8 << 20

// Resettable is a cache that can be dropped on demand.
type Resettable interface {
	Reset()
}

type App struct {
	Logger          zerolog.Logger
	Profiles        *rules.Provider
	Router          *intent.Classifier
	Validator       *validation.Pipeline
	Fixes           *autofix.Engine
	Creative        *creative.Workflow
	Orchestrator    *orchestrator.Orchestrator
	Models          Resettable
	DefaultPlatform string
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) ok(w http.ResponseWriter, data any) {
	a.json(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, envelope{Error: &errorBody{Code: code, Message: message}})
}

// fail maps a domain error onto its HTTP status.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var input *domain.ValidationInputError
	var cfgErr *domain.ConfigError
	var stateErr *domain.WorkflowStateError
	switch {
	case errors.As(err, &input):
		a.error(w, http.StatusBadRequest, "invalid_request", input.Error())
	case errors.Is(err, domain.ErrUnknownPlatform):
		a.error(w, http.StatusBadRequest, "unknown_platform", err.Error())
	case errors.Is(err, domain.ErrReviewNotFound):
		a.error(w, http.StatusNotFound, "not_found", "review session not found")
	case errors.As(err, &cfgErr):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("configuration error")
		a.error(w, http.StatusInternalServerError, "config_error", "platform configuration unavailable")
	case errors.As(err, &stateErr):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("workflow state error")
		a.error(w, http.StatusInternalServerError, "workflow_state", stateErr.Error())
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// decode reads a JSON body into dst and runs its boundary check.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst interface{ validate() error }) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return domain.InputError("body", "invalid JSON payload")
	}
	return dst.validate()
}

// platform normalizes p and checks it against the supported set.
func (a *App) platform(r *http.Request, p string) (string, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return "", domain.InputError("platform", "is required")
	}
	ok, err := a.Profiles.Supported(r.Context(), p)
	if err != nil {
		return "", err
	}
	if !ok {
		names, _ := a.Profiles.Platforms(r.Context())
		return "", domain.InputError("platform", "must be one of: %s", strings.Join(names, ", "))
	}
	return p, nil
}
