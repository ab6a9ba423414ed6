package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtbook/libs/config"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/model"
)

// Config is read from the environment. Flag-like values stay strings so "yes" and "on"
// work the same as in the other services.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"gateway-service"`
	Port        string `envconfig:"PORT" default:"8080"`

	CourtTimezone     string `envconfig:"COURT_TIMEZONE" default:"UTC"`
	CourtTypeSpelling string `envconfig:"COURT_TYPE_SPELLING" default:"padel"`

	AuthURL        string        `envconfig:"AUTH_URL" default:"http://auth-api:8081"`
	BookingURL     string        `envconfig:"BOOKING_URL" default:"http://booking-api:8083"`
	AdminURL       string        `envconfig:"ADMIN_URL"`
	BookingTimeout time.Duration `envconfig:"BOOKING_TIMEOUT" default:"5s"`

	JWTSecret        string `envconfig:"JWT_SECRET" default:"dev-secret"`
	JWKSURL          string `envconfig:"JWKS_URL"`
	JWKSCacheSeconds int    `envconfig:"JWKS_CACHE_SECONDS" default:"300"`

	BodyLimitBytes        int64 `envconfig:"REQUEST_BODY_LIMIT_BYTES" default:"1048576"`
	RequestTimeoutSeconds int   `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"10"`

	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	RateLimitPrefix    string `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
	RateLimitFailOpen  string `envconfig:"RATE_LIMIT_FAIL_OPEN" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	IdempotencyTTL    time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	IdempotencyPrefix string        `envconfig:"IDEMPOTENCY_PREFIX" default:"idem"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`

	CORSAllowedOrigins   string `envconfig:"CORS_ALLOWED_ORIGINS"`
	CORSAllowedMethods   string `envconfig:"CORS_ALLOWED_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	CORSAllowedHeaders   string `envconfig:"CORS_ALLOWED_HEADERS" default:"Authorization,Content-Type,X-Request-Id,Idempotency-Key"`
	CORSExposedHeaders   string `envconfig:"CORS_EXPOSED_HEADERS" default:"X-Request-Id,Idempotent-Replay,Retry-After"`
	CORSAllowCredentials string `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	CORSMaxAgeSeconds    int    `envconfig:"CORS_MAX_AGE_SECONDS" default:"600"`

	location *time.Location
	spelling model.Spelling
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := config.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// normalize checks the values that have no safe fallback and clamps the ones that do.
func (c *Config) normalize() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port (got %q)", c.Port)
	}
	loc, err := time.LoadLocation(strings.TrimSpace(c.CourtTimezone))
	if err != nil {
		return fmt.Errorf("COURT_TIMEZONE: %w", err)
	}
	c.location = loc
	spelling, err := model.ParseSpelling(c.CourtTypeSpelling)
	if err != nil {
		return fmt.Errorf("COURT_TYPE_SPELLING: %w", err)
	}
	c.spelling = spelling

	if strings.TrimSpace(c.AdminURL) == "" {
		c.AdminURL = c.BookingURL
	}
	if c.JWKSCacheSeconds <= 0 {
		c.JWKSCacheSeconds = 300
	}
	if c.BodyLimitBytes <= 0 {
		c.BodyLimitBytes = 1 << 20
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 10
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 60
	}
	if c.RedisDB < 0 {
		c.RedisDB = 0
	}
	if c.CORSMaxAgeSeconds <= 0 {
		c.CORSMaxAgeSeconds = 600
	}
	return nil
}
