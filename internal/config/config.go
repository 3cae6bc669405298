package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Supported responder providers.
const (
	LLMProviderOpenAI = "openai" // any OpenAI-compatible endpoint, Ollama included
	LLMProviderStatic = "static"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration values loaded from environment variables.
type Config struct {
	AppName     string `envconfig:"APP_NAME" default:"Stifel Financial Chat App"`
	AppVersion  string `envconfig:"APP_VERSION" default:"1.0.0"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`

	HTTPPort    string   `envconfig:"HTTP_PORT" default:"8000"`
	DatabaseURL string   `envconfig:"DATABASE_URL" default:"sqlite://./advisorchat.db"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:3001"`

	// Empty JWTSecret disables bearer auth; advisor ids are then taken from the request.
	JWTSecret          string `envconfig:"JWT_SECRET"`
	JWTExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	LLMProvider     string        `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMBaseURL      string        `envconfig:"LLM_BASE_URL" default:"http://localhost:11434/v1"`
	LLMAPIKey       string        `envconfig:"LLM_API_KEY" default:"ollama"`
	LLMModel        string        `envconfig:"LLM_MODEL" default:"mistral"`
	LLMTemperature  float32       `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	LLMTimeout      time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	LLMHistoryLimit int           `envconfig:"LLM_HISTORY_LIMIT" default:"10"`
}

// TokenExpiration is the lifetime of minted advisor tokens.
func (c *Config) TokenExpiration() time.Duration {
	return time.Hour * time.Duration(c.JWTExpirationHours)
}

// AuthEnabled reports whether /api/v1 requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return strings.TrimSpace(c.JWTSecret) != ""
}

// Validate checks the values that have no safe fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%w: DATABASE_URL is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.HTTPPort) == "" {
		return fmt.Errorf("%w: HTTP_PORT is empty", ErrInvalidConfig)
	}
	switch c.LLMProvider {
	case LLMProviderOpenAI:
		if strings.TrimSpace(c.LLMModel) == "" {
			return fmt.Errorf("%w: LLM_MODEL is required for provider %q", ErrInvalidConfig, c.LLMProvider)
		}
	case LLMProviderStatic:
	default:
		return fmt.Errorf("%w: unsupported LLM_PROVIDER %q", ErrInvalidConfig, c.LLMProvider)
	}
	if c.JWTExpirationHours <= 0 {
		log.Warn().Int("hours", c.JWTExpirationHours).Msg("Invalid JWT_EXPIRATION_HOURS, using default 24h")
		c.JWTExpirationHours = 24
	}
	if c.LLMHistoryLimit < 0 {
		c.LLMHistoryLimit = 0
	}
	return nil
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first (or the given files), then checks actual environment variables.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// Don't fail if .env is not present, might be in production
		log.Debug().Err(err).Msg("Could not load .env file. Using environment variables only.")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
