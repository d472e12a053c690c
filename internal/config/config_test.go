package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Agent.Name = "test-agent"
	t.Setenv(EnvAgentProviderName, "azure")

	if err := cfg.finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Knowledge.Path != "data/index" {
		t.Errorf("Knowledge.Path = %q", cfg.Knowledge.Path)
	}
	if cfg.Extraction.FrameStride != 10 {
		t.Errorf("Extraction.FrameStride = %d", cfg.Extraction.FrameStride)
	}
	if cfg.Pipeline.TopK != 3 {
		t.Errorf("Pipeline.TopK = %d", cfg.Pipeline.TopK)
	}
	if cfg.Pipeline.ModelTimeoutDuration() != 2*time.Minute {
		t.Errorf("Pipeline.ModelTimeout = %q", cfg.Pipeline.ModelTimeout)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("API.BasePath = %q", cfg.API.BasePath)
	}
	if cfg.API.RateLimit.DailyCap != 50 {
		t.Errorf("API.RateLimit.DailyCap = %d", cfg.API.RateLimit.DailyCap)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvVigilShutdownTimeout, "45s")
	t.Setenv(EnvServerPort, "9090")
	t.Setenv(EnvPipelineTopK, "5")
	t.Setenv("VIGIL_KNOWLEDGE_PATH", "/var/lib/vigil/index")
	t.Setenv("VIGIL_EXTRACTION_FRAME_STRIDE", "25")
	t.Setenv(EnvAgentProviderName, "azure")

	cfg := &Config{}
	cfg.Agent.Name = "test-agent"

	if err := cfg.finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("ShutdownTimeout = %q", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Pipeline.TopK != 5 {
		t.Errorf("Pipeline.TopK = %d", cfg.Pipeline.TopK)
	}
	if cfg.Knowledge.Path != "/var/lib/vigil/index" {
		t.Errorf("Knowledge.Path = %q", cfg.Knowledge.Path)
	}
	if cfg.Extraction.FrameStride != 25 {
		t.Errorf("Extraction.FrameStride = %d", cfg.Extraction.FrameStride)
	}
}

func TestConfigMerge(t *testing.T) {
	base := &Config{
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
	base.Server.Port = 8080
	base.Pipeline.TopK = 3
	base.Knowledge.Collection = "compliance-rules"

	overlay := &Config{Version: "0.2.0"}
	overlay.Server.Port = 9000
	overlay.Pipeline.MaxVideoMinutes = 20

	base.Merge(overlay)

	if base.Version != "0.2.0" {
		t.Errorf("Version = %q", base.Version)
	}
	if base.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, want untouched", base.ShutdownTimeout)
	}
	if base.Server.Port != 9000 {
		t.Errorf("Server.Port = %d", base.Server.Port)
	}
	if base.Pipeline.TopK != 3 {
		t.Errorf("Pipeline.TopK = %d, want untouched", base.Pipeline.TopK)
	}
	if base.Pipeline.MaxVideoMinutes != 20 {
		t.Errorf("Pipeline.MaxVideoMinutes = %g", base.Pipeline.MaxVideoMinutes)
	}
	if base.Knowledge.Collection != "compliance-rules" {
		t.Errorf("Knowledge.Collection = %q, want untouched", base.Knowledge.Collection)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
shutdown_timeout = "1m"
version = "1.2.3"

[server]
port = 7000

[pipeline]
top_k = 7
max_video_minutes = 15.5

[knowledge]
path = "custom/index"

[extraction]
frame_stride = 30

[api.rate_limit]
enabled = true
daily_cap = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ShutdownTimeout != "1m" || cfg.Version != "1.2.3" {
		t.Errorf("root fields = %q %q", cfg.ShutdownTimeout, cfg.Version)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Pipeline.TopK != 7 || cfg.Pipeline.MaxVideoMinutes != 15.5 {
		t.Errorf("Pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Knowledge.Path != "custom/index" {
		t.Errorf("Knowledge.Path = %q", cfg.Knowledge.Path)
	}
	if cfg.Extraction.FrameStride != 30 {
		t.Errorf("Extraction.FrameStride = %d", cfg.Extraction.FrameStride)
	}
	if !cfg.API.RateLimit.Enabled || cfg.API.RateLimit.DailyCap != 10 {
		t.Errorf("RateLimit = %+v", cfg.API.RateLimit)
	}
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{name: "defaults pass", mutate: func(*ServerConfig) {}},
		{name: "bad port", mutate: func(c *ServerConfig) { c.Port = 70000 }, wantErr: true},
		{name: "bad read timeout", mutate: func(c *ServerConfig) { c.ReadTimeout = "soon" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ServerConfig{}
			cfg.loadDefaults()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
