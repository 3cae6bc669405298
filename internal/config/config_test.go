package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://./test.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, "sqlite://./test.db", cfg.DatabaseURL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.CORSOrigins)
	assert.Equal(t, LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "mistral", cfg.LLMModel)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 0.0001)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiration())
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "HTTP_PORT=9090\nJWT_SECRET=s3cret\nLLM_PROVIDER=static\nLLM_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	for _, key := range []string{"HTTP_PORT", "JWT_SECRET", "LLM_PROVIDER", "LLM_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, LLMProviderStatic, cfg.LLMProvider)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "sqlite://x.db", HTTPPort: "8000", LLMProvider: "carrier-pigeon", JWTExpirationHours: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg = &Config{DatabaseURL: "", HTTPPort: "8000", LLMProvider: LLMProviderStatic}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = &Config{DatabaseURL: "sqlite://x.db", HTTPPort: "8000", LLMProvider: LLMProviderStatic, JWTExpirationHours: -3, LLMHistoryLimit: -1}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, 0, cfg.LLMHistoryLimit)
}
