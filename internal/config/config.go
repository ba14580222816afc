package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"shadow-claim/internal/payout"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv               string
	Port                 string
	LogLevel             string
	LogFormat            string
	ProcedureRegistryURL string
	MaxBatchSize         int
	BatchConcurrency     int

	ProtectedCategories       []string
	DefaultRoomCategory       string
	DefaultCoPayThresholdAge  int
	DefaultPlannedNoticeHours int
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	defaults := payout.DefaultConfig()
	cfg := &Config{
		AppEnv:               valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                 valueOrDefault(k.String("PORT"), "8080"),
		LogLevel:             valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:            valueOrDefault(k.String("LOG_FORMAT"), "json"),
		ProcedureRegistryURL: strings.TrimRight(strings.TrimSpace(k.String("PROCEDURE_REGISTRY_URL")), "/"),

		DefaultRoomCategory: valueOrDefault(k.String("DEFAULT_ROOM_CATEGORY"), defaults.DefaultRoomCategory),
		ProtectedCategories: defaults.ProtectedCategories,
	}
	if v := k.String("PROTECTED_CATEGORIES"); strings.TrimSpace(v) != "" {
		cfg.ProtectedCategories = splitAndTrim(v)
	}

	var err error
	if cfg.MaxBatchSize, err = parseInt(k.String("MAX_BATCH_SIZE"), 100); err != nil {
		return nil, err
	}
	if cfg.BatchConcurrency, err = parseInt(k.String("BATCH_CONCURRENCY"), 8); err != nil {
		return nil, err
	}
	if cfg.DefaultCoPayThresholdAge, err = parseInt(k.String("DEFAULT_COPAY_THRESHOLD_AGE"), defaults.DefaultCoPayThresholdAge); err != nil {
		return nil, err
	}
	if cfg.DefaultPlannedNoticeHours, err = parseInt(k.String("DEFAULT_PLANNED_NOTICE_HOURS"), defaults.DefaultPlannedNoticeHours); err != nil {
		return nil, err
	}

	if cfg.MaxBatchSize <= 0 {
		return nil, fmt.Errorf("MAX_BATCH_SIZE must be positive, got %d", cfg.MaxBatchSize)
	}
	if cfg.BatchConcurrency <= 0 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be positive, got %d", cfg.BatchConcurrency)
	}
	return cfg, nil
}

// Engine returns the payout defaults configured for this deployment.
func (c *Config) Engine() payout.Config {
	cfg := payout.DefaultConfig()
	cfg.ProtectedCategories = append([]string(nil), c.ProtectedCategories...)
	cfg.DefaultRoomCategory = c.DefaultRoomCategory
	cfg.DefaultCoPayThresholdAge = c.DefaultCoPayThresholdAge
	cfg.DefaultPlannedNoticeHours = c.DefaultPlannedNoticeHours
	return cfg
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseInt(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", value, err)
	}
	return n, nil
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(vars map[string]string) (*Config, error) {
	original := make(map[string]*string, len(vars))
	for key, value := range vars {
		if prev, ok := os.LookupEnv(key); ok {
			original[key] = &prev
		} else {
			original[key] = nil
		}
		if err := setEnvVar(key, value); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	for key, prev := range original {
		if prev == nil {
			_ = os.Unsetenv(key)
			continue
		}
		_ = os.Setenv(key, *prev)
	}
	return cfg, err
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}
