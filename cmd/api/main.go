package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"retailcreative/internal/adapter/repo"
	"retailcreative/internal/autofix"
	"retailcreative/internal/creative"
	"retailcreative/internal/domain"
	"retailcreative/internal/domain/jsoncfg"
	"retailcreative/internal/http/handlers"
	"retailcreative/internal/http/httpapi"
	"retailcreative/internal/infra"
	"retailcreative/internal/intent"
	"retailcreative/internal/metrics"
	"retailcreative/internal/orchestrator"
	"retailcreative/internal/providers/image"
	"retailcreative/internal/providers/llm"
	"retailcreative/internal/rules"
	"retailcreative/internal/sqlinline"
	"retailcreative/internal/storage"
	"retailcreative/internal/validation"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wcfg, err := jsoncfg.Load(cfg.WorkflowConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load workflow config")
	}
	defaultPlatform := cfg.DefaultPlatform
	if defaultPlatform == "" {
		defaultPlatform = wcfg.Router.DefaultPlatform
	}
	wcfg.Router.DefaultPlatform = defaultPlatform

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Postgres is optional: it backs the postgres profile source and review sessions.
	var sqlExec infra.SQLExecutor
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		sqlExec = infra.NewSQLRunner(pool, logger)
		if err := infra.ApplySchema(ctx, sqlExec, sqlinline.QCreateSchema); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply schema")
		}
	}

	var source rules.Source
	switch cfg.ProfileSource {
	case infra.ProfileSourceDir:
		source = rules.NewDirSource(cfg.ProfileDir)
	case infra.ProfileSourcePostgres:
		source = rules.NewPostgresSource(sqlExec)
	default:
		source = rules.NewBuiltinSource()
	}
	profiles := rules.NewProvider(source, logger)
	if _, err := profiles.Platforms(ctx); err != nil {
		logger.Fatal().Err(err).Str("source", source.Name()).Msg("failed to load platform profiles")
	}

	var reviews domain.ReviewRepository = repo.NewReviewRepositoryMemory()
	if sqlExec != nil {
		reviews = repo.NewReviewRepository(sqlExec)
	}

	model, models := buildModel(ctx, cfg, logger, m)

	var assets creative.AssetMaterializer
	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("asset storage unavailable, image generation disabled")
	} else {
		assets = image.NewMaterializer(image.NewPlaceholder(), store, profiles, logger)
	}

	fixes := autofix.New(wcfg)
	router := intent.New(intent.Options{Model: model, Platforms: profiles, Config: wcfg, Logger: logger, Metrics: m})
	pipeline := validation.New(validation.Options{Profiles: profiles, Model: model, Config: wcfg, Fixes: fixes, Logger: logger, Metrics: m})
	workflow := creative.New(creative.Options{
		Profiles: profiles,
		Model:    model,
		Config:   wcfg,
		Reviews:  reviews,
		Assets:   assets,
		Logger:   logger,
		Metrics:  m,
	})

	app := &handlers.App{
		Logger:          logger,
		Profiles:        profiles,
		Router:          router,
		Validator:       pipeline,
		Fixes:           fixes,
		Creative:        workflow,
		Orchestrator:    orchestrator.New(router, workflow, pipeline, logger),
		Models:          models,
		DefaultPlatform: defaultPlatform,
	}

	opts := httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Gatherer:        reg,
	}
	if store != nil {
		opts.StaticDir = store.BasePath()
	}
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, opts))

	logger.Info().
		Str("addr", server.Addr()).
		Str("profiles", source.Name()).
		Str("model_provider", cfg.ModelProvider).
		Bool("postgres", sqlExec != nil).
		Msg("API listening")
	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}

// buildModel returns the model capability and, when a provider is configured,
// the registry so its client cache can be reset.
func buildModel(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, m *metrics.Metrics) (llm.Capability, handlers.Resettable) {
	var (
		factory llm.Factory
		model   string
		err     error
	)
	switch cfg.ModelProvider {
	case infra.ModelProviderGemini:
		model = cfg.GeminiModel
		factory, err = llm.NewGeminiFactory(ctx, cfg.GeminiAPIKey)
	case infra.ModelProviderOpenAI:
		model = cfg.OpenAIModel
		factory, err = llm.NewOpenAIFactory(llm.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
		})
	default:
		logger.Info().Msg("model provider disabled, using deterministic fallbacks")
		return llm.Unavailable{}, nil
	}
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.ModelProvider).Msg("model provider unavailable, using deterministic fallbacks")
		return llm.Unavailable{}, nil
	}

	registry, err := llm.NewRegistry(llm.RegistryOptions{
		Provider:      cfg.ModelProvider,
		Model:         model,
		Factory:       factory,
		RatePerMinute: cfg.ModelRatePerMin,
		Logger:        logger,
		OnCall:        m.ModelCall,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("model registry unavailable, using deterministic fallbacks")
		return llm.Unavailable{}, nil
	}
	return registry, registry
}
