package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/philippgille/chromem-go"
)

// Document is one rule fragment to index.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Create opens the persisted index for writing, creating it if absent. Used
// by the offline indexing job only; audits load read-only via Load.
func Create(cfg *Config, logger *slog.Logger) (*Service, error) {
	ef := chromem.NewEmbeddingFuncOpenAICompat(
		cfg.EmbeddingsBaseURL,
		cfg.EmbeddingsAPIKey,
		cfg.EmbeddingsModel,
		nil,
	)
	return CreateWithEmbedding(cfg, ef, logger)
}

// CreateWithEmbedding is Create with an explicit embedding function.
func CreateWithEmbedding(cfg *Config, ef chromem.EmbeddingFunc, logger *slog.Logger) (*Service, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexLoad, err)
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexLoad, err)
	}

	return &Service{
		collection: collection,
		logger:     logger.With("system", "knowledge"),
	}, nil
}

// Add embeds and stores the given documents.
func (s *Service) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	converted := make([]chromem.Document, len(docs))
	for i, d := range docs {
		converted[i] = chromem.Document{
			ID:       d.ID,
			Content:  d.Text,
			Metadata: d.Metadata,
		}
	}

	if err := s.collection.AddDocuments(ctx, converted, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("documents indexed", "count", len(docs), "total", s.Size())
	return nil
}
