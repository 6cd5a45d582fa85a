package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment driven configuration for the petal API.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"petal-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PETAL_API_PORT" envDefault:"8288"`
	LogLevel        string        `env:"PETAL_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"PETAL_LOG_FORMAT" envDefault:"json"` // json or console
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Upstream image API (required, no default)
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAITimeout time.Duration `env:"OPENAI_HTTP_TIMEOUT" envDefault:"2m"`

	// Secondary text vendor, only used for prompt rewriting. Optional: the
	// gemini model choice fails with a configuration error when unset.
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL   string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiTextModel string        `env:"GEMINI_TEXT_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiTimeout   time.Duration `env:"GEMINI_HTTP_TIMEOUT" envDefault:"1m"`

	// Flower templates
	TemplatesPath     string        `env:"PETAL_TEMPLATES_PATH"` // optional override of the embedded set
	TemplatesCacheTTL time.Duration `env:"PETAL_TEMPLATES_CACHE_TTL" envDefault:"2m"`

	// Upload limits
	MaxUploadBytes int64 `env:"PETAL_MAX_UPLOAD_BYTES" envDefault:"26214400"`

	// Image library storage (S3-compatible). Optional: library endpoints are
	// disabled until a bucket and credentials are configured.
	S3Endpoint     string        `env:"PETAL_S3_ENDPOINT"`
	S3Region       string        `env:"PETAL_S3_REGION" envDefault:"us-west-2"`
	S3Bucket       string        `env:"PETAL_S3_BUCKET"`
	S3AccessKeyID  string        `env:"PETAL_S3_ACCESS_KEY_ID"`
	S3SecretKey    string        `env:"PETAL_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool          `env:"PETAL_S3_USE_PATH_STYLE" envDefault:"true"`
	S3PresignTTL   time.Duration `env:"PETAL_S3_PRESIGN_TTL" envDefault:"720h"`

	RemoteFetchTimeout time.Duration `env:"PETAL_REMOTE_FETCH_TIMEOUT" envDefault:"15s"`

	// Authentication
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/")
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.GeminiBaseURL = strings.TrimRight(strings.TrimSpace(cfg.GeminiBaseURL), "/")
	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 25 * 1024 * 1024
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// HasGemini reports whether the secondary text vendor is configured.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// HasStorage reports whether the image library storage is configured.
func (c *Config) HasStorage() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretKey != ""
}
