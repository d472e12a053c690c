package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/internal/auditor"
	"github.com/vigil-audit/vigil/internal/extraction"
	"github.com/vigil-audit/vigil/internal/workflow"
)

type fakeExtraction struct {
	extraction *extraction.Extraction
	metadata   map[string]any
	err        error
	calls      int
}

func (f *fakeExtraction) Acquire(_ context.Context, _ string) (string, map[string]any, error) {
	return "", nil, errors.New("not used")
}

func (f *fakeExtraction) Extract(_ context.Context, _, _ string) (*extraction.Extraction, error) {
	return nil, errors.New("not used")
}

func (f *fakeExtraction) Probe(_ context.Context, _ string) (map[string]any, error) {
	return f.metadata, nil
}

func (f *fakeExtraction) Process(_ context.Context, _, _ string) (*extraction.Extraction, map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.metadata, f.err
	}
	return f.extraction, f.metadata, nil
}

type fakeAuditor struct {
	outcome *auditor.Outcome
	err     error
	seen    []audit.State
}

func (f *fakeAuditor) Audit(_ context.Context, state audit.State) (*auditor.Outcome, error) {
	f.seen = append(f.seen, state)
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func testRuntime(ext *fakeExtraction, aud *fakeAuditor) *workflow.Runtime {
	return &workflow.Runtime{
		Extraction: ext,
		Auditor:    aud,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExecute(t *testing.T) {
	t.Run("clean run", func(t *testing.T) {
		ext := &fakeExtraction{
			extraction: &extraction.Extraction{
				Transcript: "welcome to our product demo",
				OCRText:    []string{"LIMITED OFFER"},
			},
			metadata: map[string]any{"title": "demo"},
		}
		aud := &fakeAuditor{outcome: &auditor.Outcome{
			Verdict: audit.VerdictPass,
			Report:  "no violations found",
			Issues:  []audit.ComplianceIssue{},
		}}

		record, err := workflow.Execute(context.Background(), testRuntime(ext, aud), workflow.Request{
			VideoURL: "https://youtu.be/demo",
			VideoID:  "vid_demo",
		})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}

		if record.VideoID != "vid_demo" || record.VideoURL != "https://youtu.be/demo" {
			t.Errorf("identity fields = %q %q", record.VideoID, record.VideoURL)
		}
		if record.TranscriptText() != "welcome to our product demo" {
			t.Errorf("transcript = %q", record.TranscriptText())
		}
		if len(record.OCRText) != 1 || record.OCRText[0] != "LIMITED OFFER" {
			t.Errorf("ocr = %v", record.OCRText)
		}
		if record.Metadata["title"] != "demo" {
			t.Errorf("metadata = %v", record.Metadata)
		}
		if record.Verdict != audit.VerdictPass || record.Report != "no violations found" {
			t.Errorf("verdict = %q, report = %q", record.Verdict, record.Report)
		}
		if len(record.Errors) != 0 {
			t.Errorf("errors = %v", record.Errors)
		}
		if record.LocalFilePath != nil {
			t.Errorf("local file path leaked: %v", *record.LocalFilePath)
		}
	})

	t.Run("audit stage sees extracted content", func(t *testing.T) {
		ext := &fakeExtraction{extraction: &extraction.Extraction{
			Transcript: "hello",
			OCRText:    []string{"A", "B"},
		}}
		aud := &fakeAuditor{outcome: &auditor.Outcome{Verdict: audit.VerdictPass}}

		if _, err := workflow.Execute(context.Background(), testRuntime(ext, aud), workflow.Request{
			VideoURL: "https://example.com/v.mp4",
		}); err != nil {
			t.Fatalf("Execute: %v", err)
		}

		if len(aud.seen) != 1 {
			t.Fatalf("auditor invoked %d times, want 1", len(aud.seen))
		}
		seen := aud.seen[0]
		if seen.TranscriptText() != "hello" || len(seen.OCRText) != 2 {
			t.Errorf("auditor input = %q %v", seen.TranscriptText(), seen.OCRText)
		}
	})

	t.Run("ingestion failure completes the run", func(t *testing.T) {
		ext := &fakeExtraction{err: errors.New("failed to download the video : status 404")}
		aud := &fakeAuditor{outcome: &auditor.Outcome{
			Verdict: audit.VerdictFail,
			Report:  auditor.SkipReport,
			Skipped: true,
		}}

		record, err := workflow.Execute(context.Background(), testRuntime(ext, aud), workflow.Request{
			VideoURL: "https://example.com/missing.mp4",
			VideoID:  "vid_missing",
		})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}

		if len(record.Errors) != 1 || !strings.HasPrefix(record.Errors[0], "failed to download the video : ") {
			t.Errorf("errors = %v", record.Errors)
		}
		if record.Verdict != audit.VerdictFail {
			t.Errorf("verdict = %q, want fail", record.Verdict)
		}
		if record.Transcript == nil || *record.Transcript != "" {
			t.Errorf("transcript = %v, want explicit empty", record.Transcript)
		}
		if record.OCRText == nil || len(record.OCRText) != 0 {
			t.Errorf("ocr = %v, want explicit empty", record.OCRText)
		}
		if len(aud.seen) != 1 {
			t.Errorf("audit stage ran %d times, want 1 (unconditional edge)", len(aud.seen))
		}
		if record.Report != auditor.SkipReport {
			t.Errorf("report = %q", record.Report)
		}
	})

	t.Run("audit failure folds into the record", func(t *testing.T) {
		ext := &fakeExtraction{extraction: &extraction.Extraction{Transcript: "hello"}}
		aud := &fakeAuditor{err: auditor.ErrParse}

		record, err := workflow.Execute(context.Background(), testRuntime(ext, aud), workflow.Request{
			VideoURL: "https://youtu.be/x",
		})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}

		if len(record.Errors) != 1 || record.Errors[0] != auditor.ErrParse.Error() {
			t.Errorf("errors = %v", record.Errors)
		}
		if record.Verdict != audit.VerdictFail {
			t.Errorf("verdict = %q, want fail", record.Verdict)
		}
		if record.Report != "" {
			t.Errorf("report = %q, want untouched", record.Report)
		}
	})

	t.Run("both stage errors accumulate in order", func(t *testing.T) {
		ext := &fakeExtraction{err: errors.New("failed to download the video : timeout")}
		aud := &fakeAuditor{err: auditor.ErrInvocation}

		record, err := workflow.Execute(context.Background(), testRuntime(ext, aud), workflow.Request{
			VideoURL: "https://example.com/v.mp4",
		})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}

		if len(record.Errors) != 2 {
			t.Fatalf("errors = %v, want 2", record.Errors)
		}
		if !strings.HasPrefix(record.Errors[0], "failed to download the video") {
			t.Errorf("errors[0] = %q", record.Errors[0])
		}
		if record.Errors[1] != auditor.ErrInvocation.Error() {
			t.Errorf("errors[1] = %q", record.Errors[1])
		}
	})

	t.Run("unset verdict is forced to fail", func(t *testing.T) {
		ext := &fakeExtraction{extraction: &extraction.Extraction{Transcript: "hello"}}
		aud := &fakeAuditor{outcome: &auditor.Outcome{}}

		record, err := workflow.Execute(context.Background(), testRuntime(ext, aud), workflow.Request{
			VideoURL: "https://youtu.be/x",
		})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}

		if record.Verdict != audit.VerdictFail {
			t.Errorf("verdict = %q, want forced fail", record.Verdict)
		}
		if len(record.Errors) != 1 {
			t.Errorf("errors = %v, want safeguard entry", record.Errors)
		}
	})
}

func TestRequestNormalize(t *testing.T) {
	req := workflow.Request{VideoURL: "https://youtu.be/x"}
	req.Normalize()

	if !strings.HasPrefix(req.VideoID, "vid_") || len(req.VideoID) != len("vid_")+8 {
		t.Errorf("VideoID = %q, want generated vid_ id", req.VideoID)
	}

	req2 := workflow.Request{VideoURL: "https://youtu.be/x", VideoID: "vid_keep"}
	req2.Normalize()
	if req2.VideoID != "vid_keep" {
		t.Errorf("VideoID = %q, want preserved", req2.VideoID)
	}
}
