package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP     HTTP       `mapstructure:",squash"`
	Upstream Upstream   `mapstructure:",squash"`
	Redis    Redis      `mapstructure:",squash"`
}

type HTTP struct {
	Port           int           `mapstructure:"HTTP_PORT"`
	Timeout        time.Duration `mapstructure:"HTTP_TIMEOUT"`
	AllowedOrigins []string      `mapstructure:"HTTP_ALLOWED_ORIGINS"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Upstream holds the legacy routes API configuration. BaseURL serves
// both /search and /locations.
type Upstream struct {
	BaseURL               string        `mapstructure:"ROUTES_API_BASE_URL"`
	Timeout               time.Duration `mapstructure:"ROUTES_API_TIMEOUT"`
	RateLimitRPS          int           `mapstructure:"ROUTES_API_RATE_LIMIT"`
	ResultCacheExpiration time.Duration `mapstructure:"RESULT_CACHE_EXPIRATION"`
	ResultLockTimeout     time.Duration `mapstructure:"RESULT_LOCK_TIMEOUT"`
}
