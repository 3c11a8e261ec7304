package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Version        string        `env:"VERSION" envDefault:"0.1.0"`
	Port           int           `env:"PORT" envDefault:"8080"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN      string        `env:"SENTRY_DSN"`
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	MigrateOnStart bool          `env:"MIGRATE_ON_START" envDefault:"true"`
	TokenSecret    string        `env:"TOKEN_SECRET,required"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Image uploads
	ImageStore     string `env:"IMAGE_STORE" envDefault:"local"`
	ImageDir       string `env:"IMAGE_DIR" envDefault:"wwwroot/fotos"`
	ImageURLPrefix string `env:"IMAGE_URL_PREFIX" envDefault:"/fotos"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// MinTokenSecretLen is the shortest accepted HMAC secret.
const MinTokenSecretLen = 32

var ErrWeakTokenSecret = errors.New("TOKEN_SECRET must be at least 32 bytes")

// NewConfig reads configuration from the process environment. A .env file in
// the working directory is loaded first when present.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}
	if len(cfg.TokenSecret) < MinTokenSecretLen {
		return nil, ErrWeakTokenSecret
	}
	return cfg, nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}
