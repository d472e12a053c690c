// Command index builds the compliance rule knowledge index from a directory
// of PDF rule documents. Each PDF is validated, its text extracted per page,
// chunked into overlapping fragments, and embedded into the persistent index.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/vigil-audit/vigil/internal/config"
	"github.com/vigil-audit/vigil/internal/knowledge"
	"github.com/vigil-audit/vigil/pkg/textsplit"
)

func main() {
	rulesDir := flag.String("rules", "rules", "directory containing PDF rule documents")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	paths, err := filepath.Glob(filepath.Join(*rulesDir, "*.pdf"))
	if err != nil {
		log.Fatal("glob rules:", err)
	}
	if len(paths) == 0 {
		log.Fatalf("no PDF rule documents found in %s", *rulesDir)
	}

	store, err := knowledge.Create(&cfg.Knowledge, logger)
	if err != nil {
		log.Fatal("open index:", err)
	}

	ctx := context.Background()
	opts := textsplit.DefaultOptions()

	for _, path := range paths {
		docs, err := fragmentPDF(path, opts)
		if err != nil {
			logger.Error("skipping rule document", "path", path, "error", err)
			continue
		}

		if err := store.Add(ctx, docs); err != nil {
			log.Fatal("index documents:", err)
		}
		logger.Info("rule document indexed", "path", path, "fragments", len(docs))
	}

	logger.Info("index build complete", "path", cfg.Knowledge.Path, "total", store.Size())
}

// fragmentPDF validates the PDF, extracts its text page by page, and chunks
// it into index fragments. Fragment IDs encode source file, page, and chunk
// position so re-indexing the same document overwrites rather than
// duplicates.
func fragmentPDF(path string, opts textsplit.Options) ([]knowledge.Document, error) {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var docs []knowledge.Document
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", pageNum, err)
		}

		for i, chunk := range textsplit.Split(text, opts) {
			docs = append(docs, knowledge.Document{
				ID:   fmt.Sprintf("%s-p%d-c%d", source, pageNum, i),
				Text: chunk,
				Metadata: map[string]string{
					"source": filepath.Base(path),
					"page":   fmt.Sprintf("%d", pageNum),
				},
			})
		}
	}

	return docs, nil
}
