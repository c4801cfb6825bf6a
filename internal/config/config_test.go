package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_NAME", "DEBUG", "IBU_MODE", "PORT", "CORS_ORIGINS", "OPENROUTER_MODEL",
		"OPENROUTER_BASE_URL", "LLM_TIMEOUT_MS", "LLM_TEMPERATURE", "LLM_MAX_TOKENS", "DATABASE_URL", "RESUME_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Portfolio AI Chat API", cfg.AppName)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "meta-llama/llama-3.2-3b-instruct:free", cfg.OpenRouterModel)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 0.3, cfg.LLMTemperature)
	assert.Equal(t, 300, cfg.LLMMaxTokens)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.MockMode())
}

func TestFromEnvRequiresAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("IBU_MODE", "")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFromEnvMockModeSkipsAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("IBU_MODE", "mock")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.MockMode())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "secret")
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LLM_TIMEOUT_MS", "1500")
	t.Setenv("LLM_TEMPERATURE", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 1500*time.Millisecond, cfg.LLMTimeout)
	assert.Equal(t, 0.3, cfg.LLMTemperature)
}

// unsetEnv removes key for the duration of the test. godotenv only fills
// variables that are absent, so an empty value is not enough.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadStoreConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=file:from-dotenv.db\n"), 0o600))
	t.Chdir(dir)
	unsetEnv(t, "DATABASE_URL")
	unsetEnv(t, "OPENROUTER_API_KEY")
	unsetEnv(t, "IBU_MODE")

	cfg, err := LoadStoreConfig()
	require.NoError(t, err)
	assert.Equal(t, "file:from-dotenv.db", cfg.DatabaseURL)
}

func TestLoadStoreConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetEnv(t, "DATABASE_URL")

	cfg, err := LoadStoreConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
}

func TestLoadStoreConfigEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=file:from-dotenv.db\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "file:from-env.db")

	cfg, err := LoadStoreConfig()
	require.NoError(t, err)
	assert.Equal(t, "file:from-env.db", cfg.DatabaseURL)
}
