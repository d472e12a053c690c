// Package infrastructure provides core service initialization for application
// startup. It assembles the shared dependencies (logging, knowledge index,
// extraction tooling, audit agent) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vigil-audit/vigil/internal/auditor"
	"github.com/vigil-audit/vigil/internal/config"
	"github.com/vigil-audit/vigil/internal/extraction"
	"github.com/vigil-audit/vigil/internal/knowledge"
	"github.com/vigil-audit/vigil/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Knowledge  knowledge.System
	Extraction extraction.System
	Auditor    *auditor.Service
}

// New creates an Infrastructure from the application configuration. The
// knowledge index is opened read-only; a missing index degrades to an empty
// one rather than failing startup.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	kn, err := knowledge.Load(&cfg.Knowledge, logger)
	if err != nil {
		return nil, fmt.Errorf("knowledge init failed: %w", err)
	}

	ext := extraction.New(&cfg.Extraction, logger)

	aud, err := auditor.New(&cfg.Agent, kn, auditor.Options{
		TopK:         cfg.Pipeline.TopK,
		ModelTimeout: cfg.Pipeline.ModelTimeoutDuration(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("auditor init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Knowledge:  kn,
		Extraction: ext,
		Auditor:    aud,
	}, nil
}
