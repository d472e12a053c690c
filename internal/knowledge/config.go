package knowledge

import (
	"fmt"
	"os"
)

// Config holds the knowledge index location and the embeddings endpoint
// used to vectorize queries.
type Config struct {
	Path              string `toml:"path"`
	Collection        string `toml:"collection"`
	EmbeddingsBaseURL string `toml:"embeddings_base_url"`
	EmbeddingsModel   string `toml:"embeddings_model"`

	// Set via environment only; never written to config files.
	EmbeddingsAPIKey string `toml:"-"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Path              string
	Collection        string
	EmbeddingsBaseURL string
	EmbeddingsModel   string
	EmbeddingsAPIKey  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Collection != "" {
		c.Collection = overlay.Collection
	}
	if overlay.EmbeddingsBaseURL != "" {
		c.EmbeddingsBaseURL = overlay.EmbeddingsBaseURL
	}
	if overlay.EmbeddingsModel != "" {
		c.EmbeddingsModel = overlay.EmbeddingsModel
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "data/index"
	}
	if c.Collection == "" {
		c.Collection = "compliance-rules"
	}
	if c.EmbeddingsModel == "" {
		c.EmbeddingsModel = "mistral-embed"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(envVar string, target *string) {
		if envVar == "" {
			return
		}
		if v := os.Getenv(envVar); v != "" {
			*target = v
		}
	}

	set(env.Path, &c.Path)
	set(env.Collection, &c.Collection)
	set(env.EmbeddingsBaseURL, &c.EmbeddingsBaseURL)
	set(env.EmbeddingsModel, &c.EmbeddingsModel)
	set(env.EmbeddingsAPIKey, &c.EmbeddingsAPIKey)
}

func (c *Config) validate() error {
	if c.Path == "" {
		return fmt.Errorf("index path required")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection name required")
	}
	return nil
}
