package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineTopK            = "VIGIL_PIPELINE_TOP_K"
	EnvPipelineModelTimeout    = "VIGIL_PIPELINE_MODEL_TIMEOUT"
	EnvPipelineMaxVideoMinutes = "VIGIL_PIPELINE_MAX_VIDEO_MINUTES"
)

// PipelineConfig holds audit pipeline tuning parameters.
type PipelineConfig struct {
	// TopK bounds how many rule fragments retrieval feeds the model.
	TopK         int    `toml:"top_k"`
	ModelTimeout string `toml:"model_timeout"`
	// MaxVideoMinutes rejects audit requests for videos longer than this
	// when the source duration is known. Zero disables the gate.
	MaxVideoMinutes float64 `toml:"max_video_minutes"`
}

// ModelTimeoutDuration returns ModelTimeout as a time.Duration.
func (c *PipelineConfig) ModelTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ModelTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.ModelTimeout != "" {
		c.ModelTimeout = overlay.ModelTimeout
	}
	if overlay.MaxVideoMinutes != 0 {
		c.MaxVideoMinutes = overlay.MaxVideoMinutes
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.TopK == 0 {
		c.TopK = 3
	}
	if c.ModelTimeout == "" {
		c.ModelTimeout = "2m"
	}
	if c.MaxVideoMinutes == 0 {
		c.MaxVideoMinutes = 10
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineTopK); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.TopK = k
		}
	}
	if v := os.Getenv(EnvPipelineModelTimeout); v != "" {
		c.ModelTimeout = v
	}
	if v := os.Getenv(EnvPipelineMaxVideoMinutes); v != "" {
		if m, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxVideoMinutes = m
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("invalid top_k: %d", c.TopK)
	}
	if _, err := time.ParseDuration(c.ModelTimeout); err != nil {
		return fmt.Errorf("invalid model_timeout: %w", err)
	}
	if c.MaxVideoMinutes < 0 {
		return fmt.Errorf("invalid max_video_minutes: %g", c.MaxVideoMinutes)
	}
	return nil
}
