package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT      JWTConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Throttle ThrottleConfig
}

// JWTConfig carries the token-signing surface. Secret is the only required
// setting in the whole configuration; it must be standard base64 and decode
// to at least 256 bits.
type JWTConfig struct {
	Secret       string `env:"JWT_SECRET"`
	ExpirationMs int64  `env:"JWT_EXPIRATION_MS,  default=86400000"`
	Issuer       string `env:"JWT_ISSUER,         default=auth-service"`
	HeaderName   string `env:"JWT_HEADER_NAME,    default=Authorization"`
	HeaderPrefix string `env:"JWT_HEADER_PREFIX,  default=Bearer"`
}

// Lifetime converts the millisecond setting into a duration.
func (j JWTConfig) Lifetime() time.Duration {
	return time.Duration(j.ExpirationMs) * time.Millisecond
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// ThrottleConfig bounds repeated failed logins per username.
type ThrottleConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES,    default=5"`
	Window      time.Duration `env:"LOGIN_FAILURE_WINDOW,  default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
