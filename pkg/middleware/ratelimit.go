package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/vigil-audit/vigil/pkg/handlers"
)

// RateLimitConfig holds per-user daily request quota settings.
type RateLimitConfig struct {
	Enabled   bool   `toml:"enabled"`
	DailyCap  int    `toml:"daily_cap"`
	UserIDKey string `toml:"user_id_header"`
}

// RateLimitEnv maps rate limit config fields to environment variable names
// for override injection.
type RateLimitEnv struct {
	Enabled   string
	DailyCap  string
	UserIDKey string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RateLimitConfig) Finalize(env *RateLimitEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. The boolean always applies; the
// remaining fields only apply when non-zero.
func (c *RateLimitConfig) Merge(overlay *RateLimitConfig) {
	c.Enabled = overlay.Enabled

	if overlay.DailyCap != 0 {
		c.DailyCap = overlay.DailyCap
	}
	if overlay.UserIDKey != "" {
		c.UserIDKey = overlay.UserIDKey
	}
}

func (c *RateLimitConfig) loadDefaults() {
	if c.DailyCap == 0 {
		c.DailyCap = 50
	}
	if c.UserIDKey == "" {
		c.UserIDKey = "X-User-ID"
	}
}

func (c *RateLimitConfig) loadEnv(env *RateLimitEnv) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.DailyCap != "" {
		if v := os.Getenv(env.DailyCap); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DailyCap = n
			}
		}
	}
	if env.UserIDKey != "" {
		if v := os.Getenv(env.UserIDKey); v != "" {
			c.UserIDKey = v
		}
	}
}

func (c *RateLimitConfig) validate() error {
	if c.DailyCap < 1 {
		return fmt.Errorf("invalid daily_cap: %d", c.DailyCap)
	}
	return nil
}

type quotaKey struct {
	user string
	day  string
}

// rateLimiter tracks request counts per user per UTC day. Counts for past
// days are dropped lazily on the next request.
type rateLimiter struct {
	mu     sync.Mutex
	counts map[quotaKey]int
	day    string
	now    func() time.Time
}

func (rl *rateLimiter) allow(user string, limit int) bool {
	day := rl.now().UTC().Format(time.DateOnly)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if day != rl.day {
		rl.counts = map[quotaKey]int{}
		rl.day = day
	}

	key := quotaKey{user: user, day: day}
	if rl.counts[key] >= limit {
		return false
	}
	rl.counts[key]++
	return true
}

// RateLimit returns middleware enforcing a per-user daily request cap.
// Users are identified by the configured header; requests without it share
// an anonymous quota. Exhausted quotas receive 429 with a JSON error body.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	limiter := &rateLimiter{
		counts: map[quotaKey]int{},
		now:    time.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			user := r.Header.Get(config.UserIDKey)
			if user == "" {
				user = "anonymous"
			}

			if !limiter.allow(user, config.DailyCap) {
				handlers.RespondJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": fmt.Sprintf("daily audit quota of %d requests exhausted", config.DailyCap),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
