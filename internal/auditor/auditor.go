// Package auditor implements the retrieval-augmented audit stage: guard on
// missing input, similarity search for relevant compliance rules, one model
// invocation under a strict output contract, and defensive verdict parsing.
package auditor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/internal/knowledge"
	"github.com/vigil-audit/vigil/internal/prompts"
	"github.com/vigil-audit/vigil/pkg/retry"
)

// SkipReport is the fixed report attached when the guard fires.
const SkipReport = "audit skipped: no transcript was available for this video"

// Options tune the audit stage.
type Options struct {
	// TopK bounds how many rule fragments retrieval feeds the model.
	TopK int
	// ModelTimeout bounds one judgment call including its single retry.
	ModelTimeout time.Duration
}

// Outcome is the audit stage's discriminated success result.
type Outcome struct {
	Issues  []audit.ComplianceIssue
	Verdict audit.Verdict
	Report  string
	// Skipped is true when the guard fired: no retrieval, no model call.
	Skipped bool
}

// Service runs audits against a knowledge index and a reasoning model.
type Service struct {
	model     Model
	knowledge knowledge.System
	opts      Options
	logger    *slog.Logger
}

// New creates a Service with a go-agents chat agent built once from cfg.
func New(cfg *gaconfig.AgentConfig, kn knowledge.System, opts Options, logger *slog.Logger) (*Service, error) {
	model, err := newAgentModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("create audit agent: %w", err)
	}
	return NewWithModel(model, kn, opts, logger), nil
}

// NewWithModel creates a Service with an explicit model implementation.
func NewWithModel(model Model, kn knowledge.System, opts Options, logger *slog.Logger) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = 2 * time.Minute
	}

	return &Service{
		model:     model,
		knowledge: kn,
		opts:      opts,
		logger:    logger.With("system", "auditor"),
	}
}

// Audit judges the extracted content in state. Typed failures (ErrInvocation,
// ErrParse) are returned for the orchestrator to fold into the state record;
// retrieval trouble is recovered here and never becomes a pipeline error.
func (s *Service) Audit(ctx context.Context, state audit.State) (*Outcome, error) {
	transcript := state.TranscriptText()
	if strings.TrimSpace(transcript) == "" {
		s.logger.Warn("no transcript available, skipping audit", "video_id", state.VideoID)
		return &Outcome{Verdict: audit.VerdictFail, Report: SkipReport, Skipped: true}, nil
	}

	rules := s.retrieveRules(ctx, transcript, state.OCRText)

	prompt, err := prompts.Compose(rules, state.Metadata, transcript, state.OCRText)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvocation, err)
	}

	invokeCtx, cancel := context.WithTimeout(ctx, s.opts.ModelTimeout)
	defer cancel()

	raw, err := retry.Do(invokeCtx, func() (string, error) {
		return s.model.Invoke(invokeCtx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvocation, err)
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		return nil, err
	}

	// Non-empty issues with a pass verdict is the model's call to make;
	// surfaced but not corrected.
	if verdict.Verdict == audit.VerdictPass && len(verdict.Issues) > 0 {
		s.logger.Warn(
			"verdict is pass but violations were reported",
			"video_id", state.VideoID,
			"issues", len(verdict.Issues),
		)
	}

	s.logger.Info(
		"audit complete",
		"video_id", state.VideoID,
		"verdict", verdict.Verdict,
		"issues", len(verdict.Issues),
	)

	return &Outcome{
		Issues:  verdict.Issues,
		Verdict: verdict.Verdict,
		Report:  verdict.Report,
	}, nil
}

// retrieveRules builds the retrieval query from transcript and joined OCR
// snippets and returns the top-k fragments joined with blank lines. A failed
// search degrades to zero rules with a warning.
func (s *Service) retrieveRules(ctx context.Context, transcript string, ocr []string) string {
	query := transcript + " " + strings.Join(ocr, "")

	fragments, err := s.knowledge.Search(ctx, query, s.opts.TopK)
	if err != nil {
		s.logger.Warn("rule retrieval failed, auditing on content alone", "error", err)
		return ""
	}
	if len(fragments) == 0 {
		s.logger.Warn("no rules retrieved, auditing on content alone")
		return ""
	}

	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	return strings.Join(texts, "\n\n")
}
