package extraction

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vigil-audit/vigil/pkg/retry"
)

// Transcriber produces a transcript from an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// whisperTranscriber speaks the OpenAI audio transcription API, pointed at
// any whisper-compatible endpoint via the configured base URL.
type whisperTranscriber struct {
	client *openai.Client
	model  string
}

func newWhisperTranscriber(cfg *Config) *whisperTranscriber {
	clientCfg := openai.DefaultConfig(cfg.TranscriptionAPIKey)
	if cfg.TranscriptionBaseURL != "" {
		clientCfg.BaseURL = cfg.TranscriptionBaseURL
	}

	return &whisperTranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.TranscriptionModel,
	}
}

func (t *whisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := retry.Do(ctx, func() (openai.AudioResponse, error) {
		return t.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    t.model,
			FilePath: audioPath,
		})
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
