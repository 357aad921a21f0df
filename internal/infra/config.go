package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBMaxConns         int
	StorageBaseURL     string
	StoragePath        string
	AllowedOrigins     []string
	ProfileSource      string
	ProfileDir         string
	WorkflowConfigPath string
	DefaultPlatform    string
	ModelProvider      string
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	ModelRatePerMin    int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

const (
	ProfileSourceBuiltin  = "builtin"
	ProfileSourceDir      = "dir"
	ProfileSourcePostgres = "postgres"

	ModelProviderGemini = "gemini"
	ModelProviderOpenAI = "openai"
	ModelProviderNone   = "none"
)

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 10),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		StoragePath:        getEnv("STORAGE_PATH", "./data/assets"),
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", getEnv("FRONTEND_ORIGIN", "http://localhost:5173"))),
		ProfileSource:      strings.ToLower(getEnv("PROFILE_SOURCE", ProfileSourceBuiltin)),
		ProfileDir:         os.Getenv("PROFILE_DIR"),
		WorkflowConfigPath: os.Getenv("WORKFLOW_CONFIG_PATH"),
		DefaultPlatform:    strings.ToLower(os.Getenv("DEFAULT_PLATFORM")),
		ModelProvider:      strings.ToLower(getEnv("MODEL_PROVIDER", ModelProviderGemini)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		ModelRatePerMin:    getEnvInt("MODEL_RATE_PER_MINUTE", 60),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	switch cfg.ProfileSource {
	case ProfileSourceBuiltin:
	case ProfileSourceDir:
		if cfg.ProfileDir == "" {
			return nil, fmt.Errorf("PROFILE_DIR is required when PROFILE_SOURCE=dir")
		}
	case ProfileSourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when PROFILE_SOURCE=postgres")
		}
	default:
		return nil, fmt.Errorf("PROFILE_SOURCE must be one of builtin, dir, postgres")
	}

	switch cfg.ModelProvider {
	case ModelProviderGemini, ModelProviderOpenAI, ModelProviderNone:
	default:
		return nil, fmt.Errorf("MODEL_PROVIDER must be one of gemini, openai, none")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
