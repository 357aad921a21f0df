package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"retailcreative/internal/http/handlers"
	"retailcreative/internal/middleware"
)

// Options configures the router's ambient middleware.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	Gatherer        prometheus.Gatherer
	StaticDir       string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	// Health & docs
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))

		r.Post("/route", app.Route)
		r.Post("/creative", app.CreativeRun)
		r.Get("/creative/reviews/{id}", app.CreativeReview)
		r.Post("/creative/reviews/{id}/decision", app.CreativeDecision)
		r.Post("/validate", app.Validate)
		r.Post("/validate/auto-fix", app.AutoFix)
		r.Post("/workflow", app.Workflow)

		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", app.PlatformsList)
			r.Post("/reload", app.PlatformsReload)
			r.Get("/{platform}", app.PlatformShow)
		})
	})

	return r
}
