// Package creative runs the design-generation workflow: analyze the canvas,
// plan options with the model, materialize assets, gate on human review and
// apply the chosen option.
package creative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/metrics"
	"retailcreative/internal/providers/llm"
)

type event string

const (
	evAnalyzed    event = "analyzed"
	evPlanned     event = "planned"
	evGenerated   event = "generated"
	evNeedsReview event = "needs_review"
	evApproved    event = "approved"
	evRevise      event = "revise"
	evNoOptions   event = "no_options"
)

// transitions maps (phase, event) to the next phase. Apply has no outgoing
// edges; a review event that maps back to review pauses the run.
var transitions = map[domain.Phase]map[event]domain.Phase{
	domain.PhaseAnalyze:  {evAnalyzed: domain.PhasePlan},
	domain.PhasePlan:     {evPlanned: domain.PhaseGenerate},
	domain.PhaseGenerate: {evGenerated: domain.PhaseReview},
	domain.PhaseReview: {
		evApproved:    domain.PhaseApply,
		evNeedsReview: domain.PhaseReview,
		evNoOptions:   domain.PhaseReview,
		evRevise:      domain.PhasePlan,
	},
}

// ProfileSource resolves platform profiles.
type ProfileSource interface {
	Profile(ctx context.Context, platform string) (*domain.PlatformProfile, error)
}

// AssetMaterializer produces artwork for image elements flagged as needing
// generation and returns the element with its source filled in.
type AssetMaterializer interface {
	Materialize(ctx context.Context, platform string, el domain.Element) (domain.Element, error)
}

type Options struct {
	Profiles ProfileSource
	Model    llm.Capability
	Config   *jsoncfg.WorkflowConfig
	Reviews  domain.ReviewRepository
	Assets   AssetMaterializer
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type Workflow struct {
	profiles ProfileSource
	model    llm.Capability
	cfg      *jsoncfg.WorkflowConfig
	reviews  domain.ReviewRepository
	assets   AssetMaterializer
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(opts Options) *Workflow {
	cfg := opts.Config
	if cfg == nil {
		cfg = jsoncfg.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Workflow{
		profiles: opts.Profiles,
		model:    opts.Model,
		cfg:      cfg,
		reviews:  opts.Reviews,
		assets:   opts.Assets,
		logger:   opts.Logger.With().Str("component", "creative").Logger(),
		metrics:  opts.Metrics,
		now:      now,
	}
}

// Request starts a workflow run.
type Request struct {
	Design      domain.Design
	Platform    string
	UserRequest string
	Mode        domain.GenerationMode
}

// run is the mutable state of one execution.
type run struct {
	phase        domain.Phase
	id           string
	platform     string
	request      string
	mode         domain.GenerationMode
	modeCfg      jsoncfg.GenerationModeConfig
	design       domain.Design
	profile      *domain.PlatformProfile
	brand        *domain.BrandContext
	preserve     bool
	options      []domain.DesignOption
	selected     *domain.DesignOption
	reasons      []string
	requiresHITL bool
	iteration    int
	createdAt    time.Time
}

// Run executes the workflow until it applies an option or pauses in review.
func (w *Workflow) Run(ctx context.Context, req Request) (domain.CreativeResult, error) {
	mode, modeCfg := w.cfg.Mode(req.Mode)
	st := &run{
		phase:     domain.PhaseAnalyze,
		platform:  strings.ToLower(strings.TrimSpace(req.Platform)),
		request:   req.UserRequest,
		mode:      mode,
		modeCfg:   modeCfg,
		design:    req.Design,
		preserve:  w.cfg.PreserveExisting(),
		iteration: 1,
	}
	if err := w.drive(ctx, st); err != nil {
		return domain.CreativeResult{}, err
	}
	return st.result(), nil
}

// Pending returns the review session waiting on a decision.
func (w *Workflow) Pending(ctx context.Context, id string) (*domain.ReviewSession, error) {
	if w.reviews == nil {
		return nil, domain.ErrReviewNotFound
	}
	return w.reviews.Get(ctx, id)
}

// Decide resumes a paused run with a reviewer's decision. Approval applies
// the selected option (the first when none is named). A rejection with
// feedback plans again, bounded by the mode's iteration limit. A rejection
// without feedback discards the session and leaves the canvas unchanged.
func (w *Workflow) Decide(ctx context.Context, id string, decision domain.HITLDecision) (domain.CreativeResult, error) {
	sess, err := w.Pending(ctx, id)
	if err != nil {
		return domain.CreativeResult{}, err
	}
	st, err := w.resume(ctx, sess)
	if err != nil {
		return domain.CreativeResult{}, err
	}
	log := w.logger.With().Str("review_id", id).Logger()

	switch {
	case decision.Approved:
		opt, err := pickOption(st.options, decision.SelectedOptionID)
		if err != nil {
			return domain.CreativeResult{}, err
		}
		st.selected, st.requiresHITL = &opt, false
		if err := st.fire(evApproved); err != nil {
			return domain.CreativeResult{}, err
		}
		w.metrics.HITLDecision("approved")
		log.Info().Str("option_id", opt.ID).Msg("review approved")

	case strings.TrimSpace(decision.Feedback) != "":
		if st.iteration >= st.modeCfg.MaxIterations {
			return domain.CreativeResult{}, &domain.WorkflowStateError{
				Phase: domain.PhaseReview,
				Err:   fmt.Errorf("revision limit of %d reached", st.modeCfg.MaxIterations),
			}
		}
		st.iteration++
		st.request = st.request + "\n\nReviewer feedback: " + strings.TrimSpace(decision.Feedback)
		st.options, st.reasons, st.requiresHITL = nil, nil, false
		if err := st.fire(evRevise); err != nil {
			return domain.CreativeResult{}, err
		}
		w.metrics.HITLDecision("revised")
		log.Info().Int("iteration", st.iteration).Msg("review sent back for revision")

	default:
		if err := w.reviews.Delete(ctx, id); err != nil {
			return domain.CreativeResult{}, err
		}
		w.metrics.HITLDecision("rejected")
		log.Info().Msg("review rejected")
		st.options, st.reasons, st.requiresHITL = nil, nil, false
		return st.result(), nil
	}

	if err := w.drive(ctx, st); err != nil {
		return domain.CreativeResult{}, err
	}
	if !st.requiresHITL {
		if err := w.reviews.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.CreativeResult{}, err
		}
	}
	return st.result(), nil
}

func (w *Workflow) resume(ctx context.Context, sess *domain.ReviewSession) (*run, error) {
	profile, err := w.profiles.Profile(ctx, sess.Platform)
	if err != nil {
		return nil, err
	}
	mode, modeCfg := w.cfg.Mode(sess.Mode)
	brand := AnalyzeBrand(sess.Design, profile)
	return &run{
		phase:        domain.PhaseReview,
		id:           sess.ID,
		platform:     sess.Platform,
		request:      sess.Request,
		mode:         mode,
		modeCfg:      modeCfg,
		design:       sess.Design,
		profile:      profile,
		brand:        &brand,
		preserve:     w.cfg.PreserveExisting(),
		options:      sess.Options,
		reasons:      sess.Reasons,
		requiresHITL: true,
		iteration:    sess.Iteration,
		createdAt:    sess.CreatedAt,
	}, nil
}

// drive steps the machine until Apply completes or Review pauses.
func (w *Workflow) drive(ctx context.Context, st *run) error {
	for {
		ev, err := w.step(ctx, st)
		if err != nil {
			return err
		}
		if len(transitions[st.phase]) == 0 {
			break
		}
		if next := transitions[st.phase][ev]; next == st.phase {
			break
		}
		if err := st.fire(ev); err != nil {
			return err
		}
	}
	w.metrics.WorkflowRun(string(st.phase))
	return nil
}

func (st *run) fire(ev event) error {
	next, ok := transitions[st.phase][ev]
	if !ok {
		return &domain.WorkflowStateError{Phase: st.phase, Err: fmt.Errorf("no transition on %q", ev)}
	}
	st.phase = next
	return nil
}

func (w *Workflow) step(ctx context.Context, st *run) (event, error) {
	switch st.phase {
	case domain.PhaseAnalyze:
		return w.analyze(ctx, st)
	case domain.PhasePlan:
		return w.plan(ctx, st)
	case domain.PhaseGenerate:
		return w.generate(ctx, st)
	case domain.PhaseReview:
		return w.review(ctx, st)
	case domain.PhaseApply:
		return "", w.apply(st)
	default:
		return "", &domain.WorkflowStateError{Phase: st.phase, Err: errors.New("unknown phase")}
	}
}

func (w *Workflow) analyze(ctx context.Context, st *run) (event, error) {
	profile, err := w.profiles.Profile(ctx, st.platform)
	if err != nil {
		return "", err
	}
	brand := AnalyzeBrand(st.design, profile)
	st.profile, st.brand = profile, &brand
	w.logger.Debug().
		Str("platform", st.platform).
		Int("elements", len(st.design.Elements)).
		Float64("brand_consistency", brand.ConsistencyScore).
		Msg("canvas analyzed")
	return evAnalyzed, nil
}

func (w *Workflow) plan(ctx context.Context, st *run) (event, error) {
	resp, err := llm.Invoke[planResponse](ctx, w.model, planPrompt(st, st.modeCfg.OptionsCount))
	if err != nil {
		w.logger.Warn().Err(err).Str("reason", "model_failure").Msg("planning failed, continuing without options")
		w.metrics.Fallback("creative")
		st.options = []domain.DesignOption{}
		return evPlanned, nil
	}
	st.options = normalizeOptions(resp.Options, st.modeCfg.OptionsCount, st.design.Elements)
	w.logger.Debug().Int("options", len(st.options)).Str("mode", string(st.mode)).Msg("design options planned")
	return evPlanned, nil
}

func (w *Workflow) generate(ctx context.Context, st *run) (event, error) {
	if w.assets == nil {
		return evGenerated, nil
	}
	for i := range st.options {
		for j, el := range st.options[i].Elements {
			if el.Type != domain.ElementImage || !el.Flags().NeedsGeneration || el.Src != "" {
				continue
			}
			out, err := w.assets.Materialize(ctx, st.platform, el)
			if err != nil {
				w.logger.Warn().Err(err).Str("element", el.ID).Msg("asset materialization failed")
				continue
			}
			st.options[i].Elements[j] = out
		}
	}
	return evGenerated, nil
}

func (w *Workflow) review(ctx context.Context, st *run) (event, error) {
	if len(st.options) == 0 {
		st.requiresHITL = false
		st.reasons = []string{}
		return evNoOptions, nil
	}
	st.reasons = ReviewReasons(st.options, st.design, st.profile, w.cfg.Creative.HITLTriggers)
	if len(st.reasons) == 0 || st.modeCfg.SkipReview {
		st.requiresHITL = false
		return evApproved, nil
	}

	st.requiresHITL = true
	if err := w.saveSession(ctx, st); err != nil {
		return "", err
	}
	w.logger.Info().Str("review_id", st.id).Strs("reasons", st.reasons).Msg("awaiting human review")
	return evNeedsReview, nil
}

func (w *Workflow) saveSession(ctx context.Context, st *run) error {
	if w.reviews == nil {
		return nil
	}
	now := w.now().UTC()
	if st.id == "" {
		st.id = uuid.NewString()
	}
	if st.createdAt.IsZero() {
		st.createdAt = now
	}
	return w.reviews.Save(ctx, &domain.ReviewSession{
		ID:        st.id,
		Platform:  st.platform,
		Request:   st.request,
		Mode:      st.mode,
		Design:    st.design,
		Options:   st.options,
		Reasons:   st.reasons,
		Iteration: st.iteration,
		CreatedAt: st.createdAt,
		UpdatedAt: now,
	})
}

func (w *Workflow) apply(st *run) error {
	if st.selected == nil {
		if len(st.options) == 0 {
			return &domain.WorkflowStateError{Phase: domain.PhaseApply, Err: domain.ErrNoOptions}
		}
		first := st.options[0]
		st.selected = &first
	}
	st.design = Apply(st.design, *st.selected, st.preserve, w.now())
	w.logger.Info().Str("option_id", st.selected.ID).Int("version", st.design.Version()).Msg("design option applied")
	return nil
}

func (st *run) result() domain.CreativeResult {
	res := domain.CreativeResult{
		Design:       st.design,
		Options:      st.options,
		RequiresHITL: st.requiresHITL,
		HITLReasons:  st.reasons,
		Phase:        st.phase,
		BrandContext: st.brand,
		Iteration:    st.iteration,
	}
	if res.Options == nil {
		res.Options = []domain.DesignOption{}
	}
	if st.requiresHITL {
		res.ReviewID = st.id
	}
	if st.phase == domain.PhaseApply {
		res.SelectedOption = st.selected
	}
	return res
}

func pickOption(opts []domain.DesignOption, id string) (domain.DesignOption, error) {
	if len(opts) == 0 {
		return domain.DesignOption{}, &domain.WorkflowStateError{Phase: domain.PhaseReview, Err: domain.ErrNoOptions}
	}
	if id == "" {
		return opts[0], nil
	}
	for _, o := range opts {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.DesignOption{}, domain.InputError("selectedOptionId", "unknown option %q", id)
}
