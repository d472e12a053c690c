package api

import (
	"github.com/vigil-audit/vigil/internal/config"
	"github.com/vigil-audit/vigil/internal/infrastructure"
	"github.com/vigil-audit/vigil/internal/workflow"
)

// Runtime extends Infrastructure with API-specific configuration and the
// workflow runtime shared by domain systems.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow *workflow.Runtime
	Pipeline config.PipelineConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     logger,
			Knowledge:  infra.Knowledge,
			Extraction: infra.Extraction,
			Auditor:    infra.Auditor,
		},
		Workflow: &workflow.Runtime{
			Extraction: infra.Extraction,
			Auditor:    infra.Auditor,
			Logger:     logger,
		},
		Pipeline: cfg.Pipeline,
	}
}
