package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"
)

// Extract transcribes the full audio track and recognizes on-screen text on
// every stride-th decoded frame. The result is all-or-nothing: a failure in
// either sub-step discards partial output. Intermediate audio and frame
// files are removed on every exit path.
func (s *Service) Extract(ctx context.Context, localPath, videoID string) (*Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ExtractTimeoutDuration())
	defer cancel()

	s.logger.Info("extracting video data", "video_id", videoID, "path", localPath)

	audioPath := localPath + ".wav"
	if err := s.demux(localPath, audioPath); err != nil {
		return nil, fmt.Errorf("%w: demux audio: %s", ErrExtraction, err)
	}
	defer os.Remove(audioPath)

	transcript, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: transcribe: %s", ErrExtraction, err)
	}

	framesDir, err := os.MkdirTemp(s.cfg.WorkDir, "vigil-frames-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create frames dir: %s", ErrExtraction, err)
	}
	defer os.RemoveAll(framesDir)

	if err := s.sample(localPath, framesDir, s.cfg.FrameStride); err != nil {
		return nil, fmt.Errorf("%w: sample frames: %s", ErrExtraction, err)
	}

	ocrText, err := s.recognizeFrames(ctx, framesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: recognize frames: %s", ErrExtraction, err)
	}

	s.logger.Info(
		"extraction complete",
		"video_id", videoID,
		"transcript_len", len(transcript),
		"ocr_snippets", len(ocrText),
	)

	return &Extraction{Transcript: transcript, OCRText: ocrText}, nil
}

func demuxAudio(videoPath, audioPath string) error {
	return ffmpeg.Input(videoPath).
		Output(audioPath, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "pcm_s16le",
			"ar":     "16000",
			"ac":     "1",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}

// frameSelectExpr keeps decoded frames 0, stride, 2*stride, ... so a video
// with F frames yields ceil(F/stride) samples.
func frameSelectExpr(stride int) string {
	return fmt.Sprintf(`select=not(mod(n\,%d))`, stride)
}

func sampleFrames(videoPath, framesDir string, stride int) error {
	return ffmpeg.Input(videoPath).
		Output(filepath.Join(framesDir, "frame-%06d.png"), ffmpeg.KwArgs{
			"vf":    frameSelectExpr(stride),
			"vsync": "vfr",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}

// recognizeFrames runs text recognition over the sampled frames with bounded
// concurrency, then collects non-blank results in ascending frame order. No
// deduplication, no confidence filtering.
func (s *Service) recognizeFrames(ctx context.Context, framesDir string) ([]string, error) {
	frames, err := filepath.Glob(filepath.Join(framesDir, "frame-*.png"))
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	sort.Strings(frames)

	results := make([]string, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recognizeWorkerCount(len(frames)))

	for i, frame := range frames {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			text, err := s.recognizer.Recognize(frame)
			if err != nil {
				return fmt.Errorf("frame %s: %w", filepath.Base(frame), err)
			}

			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ocrText := make([]string, 0, len(results))
	for _, text := range results {
		if strings.TrimSpace(text) != "" {
			ocrText = append(ocrText, text)
		}
	}
	return ocrText, nil
}

func recognizeWorkerCount(frameCount int) int {
	return max(min(runtime.NumCPU(), frameCount), 1)
}
