// Package audits is the audit request domain: it validates incoming
// requests, gates on source video duration, and drives the pipeline.
package audits

import (
	"context"

	"github.com/vigil-audit/vigil/internal/audit"
)

// RunCommand carries the inputs for one audit run.
type RunCommand struct {
	VideoURL string `json:"video_url"`
	VideoID  string `json:"video_id"`
}

// System defines the public contract for audit domain operations.
type System interface {
	Handler() *Handler

	Run(ctx context.Context, cmd RunCommand) (*audit.State, error)
}
