package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vigil-audit/vigil/internal/audit"
)

// AuditNode returns a state node that judges the extracted content. It runs
// unconditionally; the auditor guards on a missing transcript itself. A
// typed auditor failure is folded into the record as an error plus a fail
// verdict, leaving any prior report untouched.
func AuditNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		record, err := readRecord(s)
		if err != nil {
			return s, fmt.Errorf("audit: %w", err)
		}

		outcome, err := rt.Auditor.Audit(ctx, record)
		if err != nil {
			rt.Logger.ErrorContext(ctx, "audit stage failed", "video_id", record.VideoID, "error", err)

			return mergeNodeState(s, audit.Delta{
				Errors:  []string{err.Error()},
				Verdict: audit.VerdictFail,
			})
		}

		return mergeNodeState(s, audit.Delta{
			Issues:  outcome.Issues,
			Verdict: outcome.Verdict,
			Report:  &outcome.Report,
		})
	})
}
