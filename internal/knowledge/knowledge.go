// Package knowledge provides read-only similarity search over the persisted
// compliance-rule index. The index is built offline (cmd/index) and loaded
// once per process; it is safe to share across concurrent audits.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/philippgille/chromem-go"
)

// Fragment is one retrieved rule passage.
type Fragment struct {
	ID         string
	Text       string
	Similarity float32
}

// System defines the public contract for knowledge index operations.
type System interface {
	Search(ctx context.Context, query string, k int) ([]Fragment, error)
	Size() int
}

// Service implements System over a chromem collection.
type Service struct {
	collection *chromem.Collection
	logger     *slog.Logger
}

// Load opens the persisted index at cfg.Path. A missing or unreadable index
// is not an error: the service falls back to an empty in-memory collection,
// logs a warning, and every search returns zero fragments. Audits proceed on
// content alone in that case.
func Load(cfg *Config, logger *slog.Logger) (*Service, error) {
	ef := chromem.NewEmbeddingFuncOpenAICompat(
		cfg.EmbeddingsBaseURL,
		cfg.EmbeddingsAPIKey,
		cfg.EmbeddingsModel,
		nil,
	)
	return LoadWithEmbedding(cfg, ef, logger)
}

// LoadWithEmbedding is Load with an explicit embedding function, for callers
// that provide their own vectorizer.
func LoadWithEmbedding(cfg *Config, ef chromem.EmbeddingFunc, logger *slog.Logger) (*Service, error) {
	logger = logger.With("system", "knowledge")

	collection, err := openCollection(cfg, ef)
	if err != nil {
		logger.Warn(
			"knowledge index unavailable, falling back to empty index",
			"path", cfg.Path,
			"error", err,
		)
		collection, err = chromem.NewDB().CreateCollection(cfg.Collection, nil, ef)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexLoad, err)
		}
	}

	svc := &Service{collection: collection, logger: logger}
	logger.Info("knowledge index loaded", "path", cfg.Path, "fragments", svc.Size())
	return svc, nil
}

func openCollection(cfg *Config, ef chromem.EmbeddingFunc) (*chromem.Collection, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("open persistent index: %w", err)
	}

	collection := db.GetCollection(cfg.Collection, ef)
	if collection == nil {
		return nil, fmt.Errorf("collection %s not found in index", cfg.Collection)
	}
	return collection, nil
}

// Search returns up to k fragments nearest to query, best first. An empty
// index yields zero fragments and no error.
func (s *Service) Search(ctx context.Context, query string, k int) ([]Fragment, error) {
	n := min(k, s.collection.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	fragments := make([]Fragment, len(results))
	for i, r := range results {
		fragments[i] = Fragment{
			ID:         r.ID,
			Text:       r.Content,
			Similarity: r.Similarity,
		}
	}
	return fragments, nil
}

// Size reports the number of indexed fragments.
func (s *Service) Size() int {
	return s.collection.Count()
}
