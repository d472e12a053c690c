package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vigil-audit/vigil/internal/audit"
)

// IngestNode returns a state node that resolves the video into a transcript
// and on-screen text snippets. An ingestion failure does not abort the run:
// the error is folded into the record, the verdict is set to fail, and the
// content fields are explicitly emptied so downstream stages see a record
// where ingestion ran and produced nothing.
func IngestNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		record, err := readRecord(s)
		if err != nil {
			return s, fmt.Errorf("ingest: %w", err)
		}

		extraction, metadata, err := rt.Extraction.Process(ctx, record.VideoURL, record.VideoID)
		if err != nil {
			rt.Logger.ErrorContext(
				ctx, "ingestion failed",
				"video_id", record.VideoID,
				"url", record.VideoURL,
				"error", err,
			)

			empty := ""
			return mergeNodeState(s, audit.Delta{
				Errors:     []string{err.Error()},
				Verdict:    audit.VerdictFail,
				Metadata:   metadata,
				Transcript: &empty,
				OCRText:    &[]string{},
			})
		}

		rt.Logger.InfoContext(
			ctx, "ingestion complete",
			"video_id", record.VideoID,
			"transcript_chars", len(extraction.Transcript),
			"ocr_snippets", len(extraction.OCRText),
		)

		return mergeNodeState(s, audit.Delta{
			Metadata:   metadata,
			Transcript: &extraction.Transcript,
			OCRText:    &extraction.OCRText,
		})
	})
}

func readRecord(s state.State) (audit.State, error) {
	val, ok := s.Get(KeyAuditState)
	if !ok {
		return audit.State{}, fmt.Errorf("%w: missing %s in state", ErrGraphState, KeyAuditState)
	}

	record, ok := val.(audit.State)
	if !ok {
		return audit.State{}, fmt.Errorf("%w: %s is not audit.State", ErrGraphState, KeyAuditState)
	}

	return record, nil
}
