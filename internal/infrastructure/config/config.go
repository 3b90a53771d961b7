package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=720h"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Notify NotifyConfig
	Reset  ResetConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tlc"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST,      default=smtp.yandex.ru"`
	Port     int    `env:"SMTP_PORT,      default=587"`
	Login    string `env:"EMAIL_LOGIN"`
	Password string `env:"EMAIL_PASSWORD"`
	Support  string `env:"EMAIL_SUPPORT"`
}

type NotifyConfig struct {
	Workers int           `env:"NOTIFY_WORKERS, default=4"`
	Timeout time.Duration `env:"NOTIFY_TIMEOUT, default=15s"`
	Retries uint64        `env:"NOTIFY_RETRIES, default=3"`
	Backoff time.Duration `env:"NOTIFY_BACKOFF, default=2s"`
	// DrainTimeout bounds delivery of queued notifications at shutdown.
	DrainTimeout time.Duration `env:"NOTIFY_DRAIN_TIMEOUT, default=30s"`
}

// ResetConfig holds the opt-in hardening of the password reset flow. Zero
// values disable it.
type ResetConfig struct {
	MaxAttempts   int           `env:"RESET_MAX_ATTEMPTS,   default=0"`
	AttemptWindow time.Duration `env:"RESET_ATTEMPT_WINDOW, default=15m"`
	CodeTTL       time.Duration `env:"RESET_CODE_TTL,       default=0s"`
}

// Development reports whether the process runs in a developer environment.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
