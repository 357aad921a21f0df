package infra

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("PROFILE_SOURCE", "")
	t.Setenv("MODEL_PROVIDER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_ORIGIN", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL = %q, want %q", cfg.StorageBaseURL, "http://localhost:8080/static")
	}
	if cfg.ProfileSource != ProfileSourceBuiltin {
		t.Fatalf("ProfileSource = %q, want %q", cfg.ProfileSource, ProfileSourceBuiltin)
	}
	if cfg.ModelProvider != ModelProviderGemini {
		t.Fatalf("ModelProvider = %q, want %q", cfg.ModelProvider, ModelProviderGemini)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("AllowedOrigins = %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:1919/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigSplitsOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com ,https://b.example.com,, ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.AllowedOrigins) != len(expected) {
		t.Fatalf("AllowedOrigins = %#v, want %#v", cfg.AllowedOrigins, expected)
	}
	for i := range expected {
		if cfg.AllowedOrigins[i] != expected[i] {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], expected[i])
		}
	}
}

func TestLoadConfigRejectsInvalidSources(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown profile source", env: map[string]string{"PROFILE_SOURCE": "s3"}},
		{name: "dir without path", env: map[string]string{"PROFILE_SOURCE": "dir", "PROFILE_DIR": ""}},
		{name: "postgres without url", env: map[string]string{"PROFILE_SOURCE": "postgres", "DATABASE_URL": ""}},
		{name: "unknown model provider", env: map[string]string{"MODEL_PROVIDER": "bard"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
