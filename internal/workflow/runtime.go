package workflow

import (
	"context"
	"log/slog"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/internal/auditor"
	"github.com/vigil-audit/vigil/internal/extraction"
)

// Auditor judges extracted content against the compliance rule index.
type Auditor interface {
	Audit(ctx context.Context, state audit.State) (*auditor.Outcome, error)
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure systems.
type Runtime struct {
	Extraction extraction.System
	Auditor    Auditor
	Logger     *slog.Logger
}
