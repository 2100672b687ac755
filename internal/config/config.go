package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/childsupport/internal/logging"
)

const (
	defaultPort               = "8080"
	defaultEnv                = "dev"
	defaultLogLevel           = "info"
	defaultLogFormat          = "text"
	defaultCacheTTL           = 10 * time.Minute
	defaultRateLimitPerMinute = 60
)

var log = logrus.WithField("module", "config")

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	LogFormat          string
	RedisAddr          string
	CacheTTL           time.Duration
	RateLimitPerMinute int
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites them.
	TrustProxy bool
}

// IsDev reports whether the server runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Warnf("read .env: %v", err)
	}

	cfg := Config{
		Port:               os.Getenv("PORT"),
		Env:                strings.ToLower(os.Getenv("APP_ENV")),
		LogLevel:           strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogFormat:          strings.ToLower(os.Getenv("LOG_FORMAT")),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		CacheTTL:           durationEnv("CACHE_TTL", defaultCacheTTL),
		RateLimitPerMinute: positiveIntEnv("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute),
		TrustProxy:         boolEnv("TRUST_PROXY", false),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	} else if names := logging.LevelNames(); !lo.Contains(names, cfg.LogLevel) {
		log.Warnf("LOG_LEVEL=%q is not one of %v, using %s", cfg.LogLevel, names, defaultLogLevel)
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFormat != "json" {
		cfg.LogFormat = defaultLogFormat
	}

	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR is not set, using in-memory result cache")
	}

	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warnf("%s=%q is not a positive duration, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func positiveIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warnf("%s=%q is not a positive integer, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warnf("%s=%q is not a boolean, using %t", key, raw, fallback)
		return fallback
	}
	return b
}
