package extraction

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds video acquisition and extraction parameters.
type Config struct {
	// WorkDir receives transient video files and frame dumps. Every audit
	// uses its own uniquely named files beneath it.
	WorkDir     string `toml:"work_dir"`
	FrameStride int    `toml:"frame_stride"`
	YTDLPPath   string `toml:"ytdlp_path"`
	OCRLanguage string `toml:"ocr_language"`

	DownloadTimeout string `toml:"download_timeout"`
	ExtractTimeout  string `toml:"extract_timeout"`

	TranscriptionBaseURL string `toml:"transcription_base_url"`
	TranscriptionModel   string `toml:"transcription_model"`

	// Set via environment only; never written to config files.
	TranscriptionAPIKey string `toml:"-"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	WorkDir              string
	FrameStride          string
	YTDLPPath            string
	OCRLanguage          string
	DownloadTimeout      string
	ExtractTimeout       string
	TranscriptionBaseURL string
	TranscriptionModel   string
	TranscriptionAPIKey  string
}

// DownloadTimeoutDuration returns DownloadTimeout as a time.Duration.
func (c *Config) DownloadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DownloadTimeout)
	return d
}

// ExtractTimeoutDuration returns ExtractTimeout as a time.Duration.
func (c *Config) ExtractTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ExtractTimeout)
	return d
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
	if overlay.WorkDir != "" {
		c.WorkDir = overlay.WorkDir
	}
	if overlay.FrameStride != 0 {
		c.FrameStride = overlay.FrameStride
	}
	if overlay.YTDLPPath != "" {
		c.YTDLPPath = overlay.YTDLPPath
	}
	if overlay.OCRLanguage != "" {
		c.OCRLanguage = overlay.OCRLanguage
	}
	if overlay.DownloadTimeout != "" {
		c.DownloadTimeout = overlay.DownloadTimeout
	}
	if overlay.ExtractTimeout != "" {
		c.ExtractTimeout = overlay.ExtractTimeout
	}
	if overlay.TranscriptionBaseURL != "" {
		c.TranscriptionBaseURL = overlay.TranscriptionBaseURL
	}
	if overlay.TranscriptionModel != "" {
		c.TranscriptionModel = overlay.TranscriptionModel
	}
}

func (c *Config) loadDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	if c.FrameStride == 0 {
		c.FrameStride = 10
	}
	if c.YTDLPPath == "" {
		c.YTDLPPath = "yt-dlp"
	}
	if c.OCRLanguage == "" {
		c.OCRLanguage = "eng"
	}
	if c.DownloadTimeout == "" {
		c.DownloadTimeout = "5m"
	}
	if c.ExtractTimeout == "" {
		c.ExtractTimeout = "10m"
	}
	if c.TranscriptionModel == "" {
		c.TranscriptionModel = "whisper-1"
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

	set(env.WorkDir, &c.WorkDir)
	set(env.YTDLPPath, &c.YTDLPPath)
	set(env.OCRLanguage, &c.OCRLanguage)
	set(env.DownloadTimeout, &c.DownloadTimeout)
	set(env.ExtractTimeout, &c.ExtractTimeout)
	set(env.TranscriptionBaseURL, &c.TranscriptionBaseURL)
	set(env.TranscriptionModel, &c.TranscriptionModel)
	set(env.TranscriptionAPIKey, &c.TranscriptionAPIKey)

	if env.FrameStride != "" {
		if v := os.Getenv(env.FrameStride); v != "" {
			if stride, err := strconv.Atoi(v); err == nil {
				c.FrameStride = stride
			}
		}
	}
}

func (c *Config) validate() error {
	if c.FrameStride < 1 {
		return fmt.Errorf("invalid frame_stride: %d", c.FrameStride)
	}
	if _, err := time.ParseDuration(c.DownloadTimeout); err != nil {
		return fmt.Errorf("invalid download_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ExtractTimeout); err != nil {
		return fmt.Errorf("invalid extract_timeout: %w", err)
	}
	return nil
}
