// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds all runtime configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8090"`

	// Generative service endpoints and credentials.
	TextBaseURL  string `env:"TEXT_BASE_URL" envDefault:"https://api.openai.com/v1" validate:"required,url"`
	ImageBaseURL string `env:"IMAGE_BASE_URL" envDefault:"https://api.openai.com/v1" validate:"required,url"`
	APIKey       string `env:"GENAI_API_KEY"`
	TextModel    string `env:"TEXT_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel   string `env:"IMAGE_MODEL" envDefault:"dall-e-3"`
	ImageSize    string `env:"IMAGE_SIZE" envDefault:"1024x1024"`

	// Pipeline configuration. One queue per client instance; the text and
	// image pipelines do not share these limits at runtime.
	MaxQueueSize     int           `env:"MAX_QUEUE_SIZE" envDefault:"10" validate:"gte=1"`
	MaxRetryAttempts int           `env:"MAX_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"2s" validate:"gte=0"`
	RetryMaxDelay    time.Duration `env:"RETRY_MAX_DELAY" envDefault:"60s" validate:"gte=0"`
	RetryEnabled     bool          `env:"RETRY_ENABLED" envDefault:"true"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	// PromptTokenBudget caps the number of transcript tokens included in a
	// prompt; older transcript text is trimmed first.
	PromptTokenBudget int    `env:"PROMPT_TOKEN_BUDGET" envDefault:"6000" validate:"gte=256"`
	TokenModel        string `env:"TOKEN_MODEL" envDefault:"gpt-4o"`

	// Presentation panel.
	PanelTokenHash        string        `env:"PANEL_TOKEN_HASH"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// SettingsPath points at the YAML settings file maintained by the host
	// application; empty disables the file-backed store.
	SettingsPath string `env:"SETTINGS_PATH"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"gm-assist"`
}

// Load parses configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks invariants the env defaults alone cannot guarantee.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("op=config.Validate: %w", err)
	}
	return nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
