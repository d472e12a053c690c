// Package config loads and finalizes service configuration from TOML files
// and environment variables. Each sub-config follows the same three-phase
// finalize pattern: defaults, environment overrides, validation.
package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/vigil-audit/vigil/internal/extraction"
	"github.com/vigil-audit/vigil/internal/knowledge"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVigilEnv             = "VIGIL_ENV"
	EnvVigilShutdownTimeout = "VIGIL_SHUTDOWN_TIMEOUT"
	EnvVigilVersion         = "VIGIL_VERSION"
)

var knowledgeEnv = &knowledge.Env{
	Path:              "VIGIL_KNOWLEDGE_PATH",
	Collection:        "VIGIL_KNOWLEDGE_COLLECTION",
	EmbeddingsBaseURL: "VIGIL_EMBEDDINGS_BASE_URL",
	EmbeddingsModel:   "VIGIL_EMBEDDINGS_MODEL",
	EmbeddingsAPIKey:  "VIGIL_EMBEDDINGS_API_KEY",
}

var extractionEnv = &extraction.Env{
	WorkDir:              "VIGIL_EXTRACTION_WORK_DIR",
	FrameStride:          "VIGIL_EXTRACTION_FRAME_STRIDE",
	YTDLPPath:            "VIGIL_EXTRACTION_YTDLP_PATH",
	OCRLanguage:          "VIGIL_EXTRACTION_OCR_LANGUAGE",
	DownloadTimeout:      "VIGIL_EXTRACTION_DOWNLOAD_TIMEOUT",
	ExtractTimeout:       "VIGIL_EXTRACTION_EXTRACT_TIMEOUT",
	TranscriptionBaseURL: "VIGIL_TRANSCRIPTION_BASE_URL",
	TranscriptionModel:   "VIGIL_TRANSCRIPTION_MODEL",
	TranscriptionAPIKey:  "VIGIL_TRANSCRIPTION_API_KEY",
}

// Config is the root configuration for the Vigil service.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Agent           gaconfig.AgentConfig  `toml:"agent"`
	Knowledge       knowledge.Config      `toml:"knowledge"`
	Extraction      extraction.Config     `toml:"extraction"`
	Pipeline        PipelineConfig        `toml:"pipeline"`
	API             APIConfig             `toml:"api"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the VIGIL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVigilEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Agent.Merge(&overlay.Agent)
	c.Knowledge.Merge(&overlay.Knowledge)
	c.Extraction.Merge(&overlay.Extraction)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Knowledge.Finalize(knowledgeEnv); err != nil {
		return fmt.Errorf("knowledge: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.Agent.Name == "" {
		c.Agent.Name = "vigil-auditor"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVigilShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVigilVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVigilEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
