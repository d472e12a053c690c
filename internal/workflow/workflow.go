// Package workflow orchestrates the two-stage audit pipeline as a state
// graph: ingestion resolves the video into transcript and on-screen text,
// the audit stage judges it against the compliance rule index. Stage
// failures are folded into the state record, so a run that starts always
// produces a complete record.
package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vigil-audit/vigil/internal/audit"
)

// KeyAuditState is the state bag key holding the audit.State record.
const KeyAuditState = "audit_state"

// Request identifies one video to audit.
type Request struct {
	VideoURL string
	VideoID  string
}

// Normalize assigns a generated video ID when the caller left it blank.
func (r *Request) Normalize() {
	if r.VideoID == "" {
		r.VideoID = "vid_" + uuid.NewString()[:8]
	}
}

// Execute runs the audit pipeline for a single video. The returned record is
// always complete: every stage ran, errors are accumulated in State.Errors,
// and the verdict is pass or fail. Only graph machinery failures return an
// error.
func Execute(ctx context.Context, rt *Runtime, req Request) (*audit.State, error) {
	req.Normalize()

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGraphBuild, err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyAuditState, audit.NewState(req.VideoURL, req.VideoID))

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	record, err := extractRecord(final)
	if err != nil {
		return nil, err
	}

	// Totality safeguard. Both stages set a verdict on every path, so an
	// unset verdict here means a stage contract was broken.
	if record.Verdict == audit.VerdictUnset {
		rt.Logger.Error("pipeline finished without a verdict, forcing fail", "video_id", record.VideoID)
		*record = audit.Merge(*record, audit.Delta{
			Errors:  []string{"pipeline completed without a verdict"},
			Verdict: audit.VerdictFail,
		})
	}

	return record, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("vigil-audit")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("ingest", IngestNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("audit", AuditNode(rt)); err != nil {
		return nil, err
	}

	// ingest → audit (unconditional; the audit node guards on its own input)
	if err := graph.AddEdge("ingest", "audit", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("ingest"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("audit"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractRecord(s state.State) (*audit.State, error) {
	record, err := readRecord(s)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// mergeNodeState reads the record from the bag, merges delta into it, and
// writes it back. Every node mutates the record only through this path.
func mergeNodeState(s state.State, delta audit.Delta) (state.State, error) {
	record, err := readRecord(s)
	if err != nil {
		return s, err
	}
	return s.Set(KeyAuditState, audit.Merge(record, delta)), nil
}
