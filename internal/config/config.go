package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Site Sensei server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	LLMEndpoint   string
	LLMAPIKey     string
	FreeModel     string
	ProModel      string
	AdvancedModel string
	DefaultModel  string
	AuthSecret    string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
}

const (
	defaultDBPath        = "./data/sitesensei.db"
	defaultServerPort    = 8080
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"
	defaultShutdownGrace = 10 * time.Second

	// Fallback upstream identifier for unrecognized model tiers.
	defaultModelID = "meta-llama/llama-3-8b-instruct:free"
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		LLMEndpoint:   os.Getenv("LLM_ENDPOINT"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		FreeModel:     os.Getenv("FREE_MODEL"),
		ProModel:      os.Getenv("PRO_MODEL"),
		AdvancedModel: os.Getenv("ADVANCED_MODEL"),
		DefaultModel:  getEnv("DEFAULT_MODEL", defaultModelID),
		AuthSecret:    os.Getenv("AUTH_TOKEN_SECRET"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   getEnv("ENV", defaultEnvironment),
		ShutdownGrace: defaultShutdownGrace,
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
