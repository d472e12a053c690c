package config

import (
	"fmt"
	"os"

	"github.com/vigil-audit/vigil/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "VIGIL_CORS_ENABLED",
	Origins:          "VIGIL_CORS_ORIGINS",
	AllowedMethods:   "VIGIL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "VIGIL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "VIGIL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "VIGIL_CORS_MAX_AGE",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	Enabled:   "VIGIL_RATE_LIMIT_ENABLED",
	DailyCap:  "VIGIL_RATE_LIMIT_DAILY_CAP",
	UserIDKey: "VIGIL_RATE_LIMIT_USER_ID_HEADER",
}

// APIConfig holds API routing, CORS, and rate limit settings.
type APIConfig struct {
	BasePath  string                     `toml:"base_path"`
	CORS      middleware.CORSConfig      `toml:"cors"`
	RateLimit middleware.RateLimitConfig `toml:"rate_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and rate limit configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.RateLimit.Merge(&overlay.RateLimit)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("VIGIL_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
