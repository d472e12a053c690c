// Package extraction resolves a source video to a transient local file and
// produces a transcript plus on-screen text snippets from it. Recognized
// video-sharing URLs go through yt-dlp; anything else is fetched directly.
// Transcription and text recognition run behind narrow interfaces so the
// audit pipeline can be exercised without media tooling installed.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/vigil-audit/vigil/pkg/retry"
)

// Extraction is the all-or-nothing output of extracting one video: either
// both fields are valid or the whole extraction failed.
type Extraction struct {
	Transcript string
	OCRText    []string
}

// System defines the public contract for video extraction operations.
type System interface {
	// Acquire materializes the video at url to a per-request-unique local
	// path and returns whatever source metadata came cheap.
	Acquire(ctx context.Context, url string) (string, map[string]any, error)

	// Extract produces the transcript and on-screen text from a local file.
	Extract(ctx context.Context, localPath, videoID string) (*Extraction, error)

	// Process runs Acquire then Extract, removing the transient file on
	// every exit path.
	Process(ctx context.Context, url, videoID string) (*Extraction, map[string]any, error)

	// Probe fetches source metadata (duration, title) without downloading.
	Probe(ctx context.Context, url string) (map[string]any, error)
}

// Service implements System with yt-dlp, ffmpeg, a whisper-compatible
// transcription endpoint, and tesseract.
type Service struct {
	cfg         *Config
	transcriber Transcriber
	recognizer  Recognizer
	client      *http.Client
	logger      *slog.Logger

	// ffmpeg entry points, replaceable in tests.
	demux  func(videoPath, audioPath string) error
	sample func(videoPath, framesDir string, stride int) error
}

// New creates a Service wired to the default transcriber and recognizer.
func New(cfg *Config, logger *slog.Logger) *Service {
	return NewWithClients(
		cfg,
		newWhisperTranscriber(cfg),
		newTesseractRecognizer(cfg.OCRLanguage),
		logger,
	)
}

// NewWithClients creates a Service with explicit transcription and
// recognition clients.
func NewWithClients(cfg *Config, t Transcriber, r Recognizer, logger *slog.Logger) *Service {
	return &Service{
		cfg:         cfg,
		transcriber: t,
		recognizer:  r,
		client:      &http.Client{},
		logger:      logger.With("system", "extraction"),
		demux:       demuxAudio,
		sample:      sampleFrames,
	}
}

// Process acquires the video, extracts transcript and on-screen text, and
// removes the transient file whether or not extraction succeeded.
func (s *Service) Process(ctx context.Context, url, videoID string) (*Extraction, map[string]any, error) {
	localPath, metadata, err := s.Acquire(ctx, url)
	if err != nil {
		return nil, metadata, err
	}

	defer func() {
		if rmErr := os.Remove(localPath); rmErr != nil {
			s.logger.Warn("failed to remove transient video file", "path", localPath, "error", rmErr)
		}
	}()

	extraction, err := s.Extract(ctx, localPath, videoID)
	if err != nil {
		return nil, metadata, err
	}
	return extraction, metadata, nil
}

// Acquire downloads the video to a unique path under the work directory,
// retrying once on transient failure within the configured timeout.
func (s *Service) Acquire(ctx context.Context, url string) (string, map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DownloadTimeoutDuration())
	defer cancel()

	dest := s.destPath()
	s.logger.Info("acquiring video", "url", url, "dest", dest)

	_, err := retry.Do(ctx, func() (struct{}, error) {
		return struct{}{}, s.download(ctx, url, dest)
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w : %s", ErrDownload, err)
	}

	metadata := s.bestEffortMetadata(ctx, url)
	return dest, metadata, nil
}

func (s *Service) download(ctx context.Context, url, dest string) error {
	if IsSharedHost(url) {
		return s.downloadShared(ctx, url, dest)
	}
	return s.downloadDirect(ctx, url, dest)
}

// bestEffortMetadata probes the source; metadata is populated
// opportunistically and a probe failure never fails acquisition.
func (s *Service) bestEffortMetadata(ctx context.Context, url string) map[string]any {
	metadata, err := s.Probe(ctx, url)
	if err != nil {
		s.logger.Warn("metadata probe failed", "url", url, "error", err)
		return map[string]any{}
	}
	return metadata
}
