package audits_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/internal/auditor"
	"github.com/vigil-audit/vigil/internal/audits"
	"github.com/vigil-audit/vigil/internal/config"
	"github.com/vigil-audit/vigil/internal/extraction"
	"github.com/vigil-audit/vigil/internal/workflow"
)

type fakeExtraction struct {
	extraction *extraction.Extraction
	metadata   map[string]any
	probeErr   error
	processErr error
}

func (f *fakeExtraction) Acquire(_ context.Context, _ string) (string, map[string]any, error) {
	return "", nil, errors.New("not used")
}

func (f *fakeExtraction) Extract(_ context.Context, _, _ string) (*extraction.Extraction, error) {
	return nil, errors.New("not used")
}

func (f *fakeExtraction) Probe(_ context.Context, _ string) (map[string]any, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.metadata, nil
}

func (f *fakeExtraction) Process(_ context.Context, _, _ string) (*extraction.Extraction, map[string]any, error) {
	if f.processErr != nil {
		return nil, f.metadata, f.processErr
	}
	return f.extraction, f.metadata, nil
}

type fakeAuditor struct {
	outcome *auditor.Outcome
}

func (f *fakeAuditor) Audit(_ context.Context, _ audit.State) (*auditor.Outcome, error) {
	return f.outcome, nil
}

func testService(ext *fakeExtraction, pipeline config.PipelineConfig) *audits.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &workflow.Runtime{
		Extraction: ext,
		Auditor: &fakeAuditor{outcome: &auditor.Outcome{
			Verdict: audit.VerdictPass,
			Report:  "no violations found",
		}},
		Logger: logger,
	}
	return audits.New(rt, pipeline, logger)
}

func passingExtraction() *fakeExtraction {
	return &fakeExtraction{
		extraction: &extraction.Extraction{Transcript: "hello"},
		metadata:   map[string]any{"duration": float64(120)},
	}
}

func TestRunValidation(t *testing.T) {
	svc := testService(passingExtraction(), config.PipelineConfig{})

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty url", url: ""},
		{name: "no scheme", url: "youtube.com/watch?v=abc"},
		{name: "file scheme", url: "file:///etc/passwd"},
		{name: "missing host", url: "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: tt.url})
			if !errors.Is(err, audits.ErrInvalidURL) {
				t.Errorf("Run(%q) = %v, want ErrInvalidURL", tt.url, err)
			}
		})
	}
}

func TestRunDurationGate(t *testing.T) {
	pipeline := config.PipelineConfig{MaxVideoMinutes: 10}

	t.Run("over cap rejected", func(t *testing.T) {
		ext := passingExtraction()
		ext.metadata = map[string]any{"duration": float64(11 * 60)}
		svc := testService(ext, pipeline)

		_, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: "https://youtu.be/long"})
		if !errors.Is(err, audits.ErrVideoTooLong) {
			t.Errorf("Run = %v, want ErrVideoTooLong", err)
		}
	})

	t.Run("under cap admitted", func(t *testing.T) {
		svc := testService(passingExtraction(), pipeline)

		record, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: "https://youtu.be/short"})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if record.Verdict != audit.VerdictPass {
			t.Errorf("verdict = %q", record.Verdict)
		}
	})

	t.Run("unknown duration admitted", func(t *testing.T) {
		ext := passingExtraction()
		ext.metadata = map[string]any{"content_type": "video/mp4"}
		svc := testService(ext, pipeline)

		if _, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: "https://example.com/v.mp4"}); err != nil {
			t.Errorf("Run: %v", err)
		}
	})

	t.Run("probe failure admitted", func(t *testing.T) {
		ext := passingExtraction()
		ext.probeErr = extraction.ErrProbe
		svc := testService(ext, pipeline)

		if _, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: "https://youtu.be/x"}); err != nil {
			t.Errorf("Run: %v", err)
		}
	})

	t.Run("gate disabled", func(t *testing.T) {
		ext := passingExtraction()
		ext.metadata = map[string]any{"duration": float64(120 * 60)}
		svc := testService(ext, config.PipelineConfig{})

		if _, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: "https://youtu.be/x"}); err != nil {
			t.Errorf("Run: %v", err)
		}
	})
}

func TestRunFailedPipelineStillReturnsRecord(t *testing.T) {
	ext := passingExtraction()
	ext.processErr = errors.New("failed to download the video : timeout")
	svc := testService(ext, config.PipelineConfig{})

	record, err := svc.Run(context.Background(), audits.RunCommand{VideoURL: "https://youtu.be/x"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(record.Errors) == 0 {
		t.Error("expected ingestion error in record")
	}
	if record.Verdict != audit.VerdictFail {
		t.Errorf("verdict = %q, want fail", record.Verdict)
	}
}

func TestHandlerRun(t *testing.T) {
	post := func(t *testing.T, svc audits.System, body []byte) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/audits", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		svc.Handler().Run(rec, req)
		return rec
	}

	t.Run("successful audit", func(t *testing.T) {
		svc := testService(passingExtraction(), config.PipelineConfig{})
		body, _ := json.Marshal(audits.RunCommand{VideoURL: "https://youtu.be/x", VideoID: "vid_x"})

		rec := post(t, svc, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var record audit.State
		if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
			t.Fatalf("unmarshal record: %v", err)
		}
		if record.VideoID != "vid_x" || record.Verdict != audit.VerdictPass {
			t.Errorf("record = %+v", record)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := testService(passingExtraction(), config.PipelineConfig{})
		rec := post(t, svc, []byte("{not json"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		svc := testService(passingExtraction(), config.PipelineConfig{})
		body, _ := json.Marshal(audits.RunCommand{VideoURL: "not-a-url"})

		rec := post(t, svc, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("video too long", func(t *testing.T) {
		ext := passingExtraction()
		ext.metadata = map[string]any{"duration": float64(60 * 60)}
		svc := testService(ext, config.PipelineConfig{MaxVideoMinutes: 10})
		body, _ := json.Marshal(audits.RunCommand{VideoURL: "https://youtu.be/long"})

		rec := post(t, svc, body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}
