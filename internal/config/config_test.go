package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LLM_ENDPOINT", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("FREE_MODEL", "")
	t.Setenv("PRO_MODEL", "")
	t.Setenv("ADVANCED_MODEL", "")
	t.Setenv("DEFAULT_MODEL", "")
	t.Setenv("AUTH_TOKEN_SECRET", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.DefaultModel != defaultModelID {
		t.Errorf("expected default model %q, got %q", defaultModelID, cfg.DefaultModel)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.FreeModel != "" || cfg.ProModel != "" || cfg.AdvancedModel != "" {
		t.Errorf("expected empty tier models, got %q %q %q", cfg.FreeModel, cfg.ProModel, cfg.AdvancedModel)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/custom.db")
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FREE_MODEL", "provider/free-model")
	t.Setenv("PRO_MODEL", "provider/pro-model")
	t.Setenv("ADVANCED_MODEL", "provider/advanced-model")
	t.Setenv("DEFAULT_MODEL", "provider/fallback-model")
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("expected DB path /tmp/custom.db, got %q", cfg.DBPath)
	}

	if cfg.ServerPort != 9091 {
		t.Errorf("expected server port 9091, got %d", cfg.ServerPort)
	}

	if cfg.FreeModel != "provider/free-model" {
		t.Errorf("expected free model, got %q", cfg.FreeModel)
	}

	if cfg.DefaultModel != "provider/fallback-model" {
		t.Errorf("expected fallback model, got %q", cfg.DefaultModel)
	}

	if cfg.AuthSecret != "test-secret" {
		t.Errorf("expected auth secret, got %q", cfg.AuthSecret)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected production environment, got %q", cfg.Environment)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid SERVER_PORT")
	}
}
