package auditor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/internal/auditor"
	"github.com/vigil-audit/vigil/internal/knowledge"
)

type fakeModel struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeModel) Invoke(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeKnowledge struct {
	fragments []knowledge.Fragment
	err       error
	queries   []string
}

func (f *fakeKnowledge) Search(_ context.Context, query string, k int) ([]knowledge.Fragment, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.fragments) > k {
		return f.fragments[:k], f.err
	}
	return f.fragments, f.err
}

func (f *fakeKnowledge) Size() int { return len(f.fragments) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(model *fakeModel, kn *fakeKnowledge) *auditor.Service {
	return auditor.NewWithModel(model, kn, auditor.Options{}, testLogger())
}

func stateWithTranscript(transcript string) audit.State {
	s := audit.NewState("https://youtu.be/abc", "vid_1")
	s.Transcript = &transcript
	return s
}

func TestAuditGuard(t *testing.T) {
	for _, transcript := range []string{"", "   "} {
		model := &fakeModel{}
		kn := &fakeKnowledge{}
		svc := newService(model, kn)

		state := stateWithTranscript(transcript)
		outcome, err := svc.Audit(context.Background(), state)
		if err != nil {
			t.Fatalf("Audit: %v", err)
		}

		if !outcome.Skipped {
			t.Error("outcome not marked skipped")
		}
		if outcome.Verdict != audit.VerdictFail {
			t.Errorf("verdict = %q, want fail", outcome.Verdict)
		}
		if outcome.Report != auditor.SkipReport {
			t.Errorf("report = %q", outcome.Report)
		}
		if len(outcome.Issues) != 0 {
			t.Errorf("issues = %v, want none", outcome.Issues)
		}
		if model.calls != 0 {
			t.Errorf("model invoked %d times, want 0", model.calls)
		}
		if len(kn.queries) != 0 {
			t.Errorf("retrieval ran %d times, want 0", len(kn.queries))
		}
	}
}

func TestAuditRetrieval(t *testing.T) {
	t.Run("query concatenates transcript and joined ocr", func(t *testing.T) {
		kn := &fakeKnowledge{}
		model := &fakeModel{response: `{"compliance_result":[],"audit_result":"pass","audit_report":"clean"}`}
		svc := newService(model, kn)

		state := stateWithTranscript("buy now")
		state.OCRText = []string{"SALE", "50% OFF"}

		if _, err := svc.Audit(context.Background(), state); err != nil {
			t.Fatalf("Audit: %v", err)
		}
		if len(kn.queries) != 1 || kn.queries[0] != "buy now SALE50% OFF" {
			t.Errorf("queries = %v", kn.queries)
		}
	})

	t.Run("retrieved rules reach the prompt", func(t *testing.T) {
		kn := &fakeKnowledge{fragments: []knowledge.Fragment{
			{ID: "r1", Text: "no unverified medical claims"},
			{ID: "r2", Text: "pricing must include fees"},
		}}
		model := &fakeModel{response: `{"compliance_result":[],"audit_result":"pass","audit_report":"clean"}`}
		svc := newService(model, kn)

		if _, err := svc.Audit(context.Background(), stateWithTranscript("hello")); err != nil {
			t.Fatalf("Audit: %v", err)
		}
		prompt := model.prompts[0]
		if !strings.Contains(prompt, "no unverified medical claims\n\npricing must include fees") {
			t.Errorf("rules not joined with blank line in prompt:\n%s", prompt)
		}
	})

	t.Run("search failure degrades to zero rules", func(t *testing.T) {
		kn := &fakeKnowledge{err: errors.New("index corrupt")}
		model := &fakeModel{response: `{"compliance_result":[],"audit_result":"pass","audit_report":"clean"}`}
		svc := newService(model, kn)

		outcome, err := svc.Audit(context.Background(), stateWithTranscript("hello"))
		if err != nil {
			t.Fatalf("Audit: %v", err)
		}
		if outcome.Verdict != audit.VerdictPass {
			t.Errorf("verdict = %q, want pass", outcome.Verdict)
		}
		if model.calls == 0 {
			t.Error("model never invoked")
		}
	})
}

func TestAuditJudgment(t *testing.T) {
	t.Run("fenced fail verdict round-trips", func(t *testing.T) {
		model := &fakeModel{response: "```json\n" +
			`{"compliance_result":[{"category":"claim validation","severity":"critical","description":"unverified medical claim"}],"audit_result":"fail","audit_report":"1 critical violation found"}` +
			"\n```"}
		svc := newService(model, &fakeKnowledge{})

		outcome, err := svc.Audit(context.Background(), stateWithTranscript("guaranteed to cure headaches"))
		if err != nil {
			t.Fatalf("Audit: %v", err)
		}

		if outcome.Verdict != audit.VerdictFail {
			t.Errorf("verdict = %q, want fail", outcome.Verdict)
		}
		if len(outcome.Issues) != 1 {
			t.Fatalf("issues = %v, want exactly one", outcome.Issues)
		}
		issue := outcome.Issues[0]
		if issue.Category != "claim validation" ||
			issue.Severity != audit.SeverityCritical ||
			issue.Description != "unverified medical claim" {
			t.Errorf("issue = %+v", issue)
		}
		if outcome.Report != "1 critical violation found" {
			t.Errorf("report = %q", outcome.Report)
		}
	})

	t.Run("invocation failure is typed", func(t *testing.T) {
		model := &fakeModel{err: errors.New("rate limited")}
		svc := newService(model, &fakeKnowledge{})

		_, err := svc.Audit(context.Background(), stateWithTranscript("hello"))
		if !errors.Is(err, auditor.ErrInvocation) {
			t.Errorf("err = %v, want ErrInvocation", err)
		}
		if model.calls != 2 {
			t.Errorf("model invoked %d times, want 2 (single retry)", model.calls)
		}
	})

	t.Run("malformed response is typed", func(t *testing.T) {
		model := &fakeModel{response: "I think this video is fine."}
		svc := newService(model, &fakeKnowledge{})

		_, err := svc.Audit(context.Background(), stateWithTranscript("hello"))
		if !errors.Is(err, auditor.ErrParse) {
			t.Errorf("err = %v, want ErrParse", err)
		}
	})
}

func TestParseVerdict(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		v, err := auditor.ParseVerdict(`{"compliance_result":[],"audit_result":"pass","audit_report":"clean"}`)
		if err != nil {
			t.Fatalf("ParseVerdict: %v", err)
		}
		if v.Verdict != audit.VerdictPass || len(v.Issues) != 0 || v.Report != "clean" {
			t.Errorf("verdict = %+v", v)
		}
	})

	t.Run("fence without language tag", func(t *testing.T) {
		v, err := auditor.ParseVerdict("```\n{\"audit_result\":\"pass\"}\n```")
		if err != nil {
			t.Fatalf("ParseVerdict: %v", err)
		}
		if v.Verdict != audit.VerdictPass {
			t.Errorf("verdict = %q", v.Verdict)
		}
	})

	t.Run("missing fields take documented defaults", func(t *testing.T) {
		v, err := auditor.ParseVerdict(`{}`)
		if err != nil {
			t.Fatalf("ParseVerdict: %v", err)
		}
		if v.Verdict != audit.VerdictFail {
			t.Errorf("verdict = %q, want fail default", v.Verdict)
		}
		if v.Report != "no report generated" {
			t.Errorf("report = %q", v.Report)
		}
		if v.Issues == nil || len(v.Issues) != 0 {
			t.Errorf("issues = %v, want empty slice", v.Issues)
		}
	})

	t.Run("structural deviations", func(t *testing.T) {
		cases := map[string]string{
			"not json":          "the video passes",
			"unknown verdict":   `{"audit_result":"maybe"}`,
			"unknown severity":  `{"audit_result":"fail","compliance_result":[{"category":"c","severity":"severe","description":"d"}]}`,
			"wrong result type": `{"audit_result":7}`,
			"wrong issues type": `{"compliance_result":"none"}`,
		}
		for name, input := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := auditor.ParseVerdict(input); !errors.Is(err, auditor.ErrParse) {
					t.Errorf("ParseVerdict(%q) = %v, want ErrParse", input, err)
				}
			})
		}
	})

	t.Run("timestamp carried through", func(t *testing.T) {
		v, err := auditor.ParseVerdict(`{"audit_result":"fail","compliance_result":[{"category":"c","severity":"low","description":"d","timestamp":"00:42"}]}`)
		if err != nil {
			t.Fatalf("ParseVerdict: %v", err)
		}
		if v.Issues[0].Timestamp == nil || *v.Issues[0].Timestamp != "00:42" {
			t.Errorf("timestamp = %v", v.Issues[0].Timestamp)
		}
	})
}
