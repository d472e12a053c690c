package audits

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/internal/config"
	"github.com/vigil-audit/vigil/internal/workflow"
)

// Service implements System on top of the workflow runtime.
type Service struct {
	runtime  *workflow.Runtime
	pipeline config.PipelineConfig
	logger   *slog.Logger
}

// New creates an audits Service.
func New(rt *workflow.Runtime, pipeline config.PipelineConfig, logger *slog.Logger) *Service {
	return &Service{
		runtime:  rt,
		pipeline: pipeline,
		logger:   logger.With("system", "audits"),
	}
}

// Handler creates an HTTP handler backed by this service.
func (s *Service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Run validates the request, gates on source duration when it is known, and
// executes the audit pipeline. Pipeline-internal failures do not surface
// here; they live in the returned record's errors.
func (s *Service) Run(ctx context.Context, cmd RunCommand) (*audit.State, error) {
	if err := validateURL(cmd.VideoURL); err != nil {
		return nil, err
	}

	if err := s.gateDuration(ctx, cmd.VideoURL); err != nil {
		return nil, err
	}

	record, err := workflow.Execute(ctx, s.runtime, workflow.Request{
		VideoURL: cmd.VideoURL,
		VideoID:  cmd.VideoID,
	})
	if err != nil {
		return nil, fmt.Errorf("run audit pipeline: %w", err)
	}

	return record, nil
}

// gateDuration rejects videos longer than the configured cap. The gate only
// applies when a probe succeeds and reports a duration; an unknown duration
// never blocks an audit.
func (s *Service) gateDuration(ctx context.Context, videoURL string) error {
	if s.pipeline.MaxVideoMinutes <= 0 {
		return nil
	}

	metadata, err := s.runtime.Extraction.Probe(ctx, videoURL)
	if err != nil {
		s.logger.Warn("duration probe failed, admitting audit", "url", videoURL, "error", err)
		return nil
	}

	seconds, ok := metadata["duration"].(float64)
	if !ok || seconds <= 0 {
		return nil
	}

	if minutes := seconds / 60; minutes > s.pipeline.MaxVideoMinutes {
		return fmt.Errorf(
			"%w: %.1f minutes exceeds the %.1f minute cap",
			ErrVideoTooLong, minutes, s.pipeline.MaxVideoMinutes,
		)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: video_url required", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
