// Package ratelimit provides a sliding-window request limiter with
// in-memory and Redis backends.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Standard errors.
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterClosed     = errors.New("limiter is closed")
)

// Limiter limits the rate of requests per key.
type Limiter interface {
	// Allow reports whether one request for the key is permitted.
	Allow(ctx context.Context, key string) (bool, error)

	// AllowN reports whether n requests for the key are permitted.
	AllowN(ctx context.Context, key string, n int) (bool, error)

	// Reset clears the limit state for the key.
	Reset(ctx context.Context, key string) error

	// GetInfo returns the current limit state for the key.
	GetInfo(ctx context.Context, key string) (*LimitInfo, error)

	// Close shuts down the limiter.
	Close() error
}

// LimitInfo describes the current limit state.
type LimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Config configures a rate limiter.
type Config struct {
	// Requests allowed per window.
	Requests int `koanf:"requests"`

	// Window duration.
	Window time.Duration `koanf:"window"`

	// Backend storage (memory, redis).
	Backend string `koanf:"backend"`

	// CleanupInterval for the in-memory backend.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// Redis settings.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() *Config {
	return &Config{
		Requests:        100,
		Window:          time.Minute,
		Backend:         "memory",
		CleanupInterval: 5 * time.Minute,
	}
}

// New creates a limiter for the configured backend.
func New(cfg *Config) (Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case "redis":
		return NewRedisLimiter(cfg)
	case "memory", "":
		return NewMemoryLimiter(cfg), nil
	default:
		return NewMemoryLimiter(cfg), nil
	}
}
