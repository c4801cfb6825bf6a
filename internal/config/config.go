// Package config provides configuration for the chat service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ModeMock selects the offline mock completion client.
const ModeMock = "MOCK"

// DefaultDatabaseURL is the SQLite DSN used when DATABASE_URL is unset.
const DefaultDatabaseURL = "file:portfolio.db?cache=shared&mode=rwc"

// Config holds the service configuration. It is built once at startup and
// handed to constructors; nothing reads it from a global.
type Config struct {
	AppName string
	Debug   bool
	Mode    string

	// Server settings
	HTTPPort    int
	CORSOrigins []string

	// Completion API
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string
	LLMTimeout        time.Duration
	LLMTemperature    float64
	LLMMaxTokens      int

	// Database
	DatabaseURL string

	// Knowledge document
	ResumePath string

	// Logging
	LogLevel string
}

// ErrMissingAPIKey is returned when no completion API key is configured.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY is required")

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// StoreConfig is the subset of settings needed to open the history store.
type StoreConfig struct {
	DatabaseURL string
}

// LoadStoreConfig reads the store settings the same way Load does, without
// requiring the completion settings.
func LoadStoreConfig() (*StoreConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return &StoreConfig{
		DatabaseURL: getEnv("DATABASE_URL", DefaultDatabaseURL),
	}, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// FromEnv builds a Config from the current process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppName:           getEnv("APP_NAME", "Portfolio AI Chat API"),
		Debug:             getEnvBool("DEBUG", false),
		Mode:              strings.ToUpper(getEnv("IBU_MODE", "")),
		HTTPPort:          getEnvInt("PORT", 8000),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.2-3b-instruct:free"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		LLMTemperature:    getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:      getEnvInt("LLM_MAX_TOKENS", 300),
		DatabaseURL:       getEnv("DATABASE_URL", DefaultDatabaseURL),
		ResumePath:        getEnv("RESUME_PATH", "data/resume.json"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if cfg.OpenRouterAPIKey == "" && !cfg.MockMode() {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

// MockMode reports whether the mock completion client should be used.
func (c *Config) MockMode() bool {
	return c.Mode == ModeMock
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
