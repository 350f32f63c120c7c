package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/rdd6584/blogqa/pkg/domain/document"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Builder interface {
	Build(ctx context.Context) (int, error)
}

type builder struct {
	loader  document.Loader
	creator embedding.Creator
	writer  embedding.Writer
	config  *embedding.Config
	workers int
	logger  *logrus.Logger
}

func NewBuilder(
	loader document.Loader,
	creator embedding.Creator,
	writer embedding.Writer,
	config *embedding.Config,
	workers int,
	logger *logrus.Logger,
) Builder {
	if workers <= 0 {
		workers = 1
	}
	return &builder{
		loader:  loader,
		creator: creator,
		writer:  writer,
		config:  config,
		workers: workers,
		logger:  logger,
	}
}

// Build embeds every document and replaces the store with the full result.
// Any failure aborts the run before the writer is touched.
func (b *builder) Build(ctx context.Context) (int, error) {
	start := time.Now()

	docs, err := b.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load documents: %w", err)
	}

	records := make([]embedding.Record, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, doc := range docs {
		g.Go(func() error {
			emb, err := b.creator.Generate(gctx, embedding.FlattenInput(doc.Content), b.config.Model, b.config)
			if err != nil {
				return fmt.Errorf("failed to embed %s: %w", doc.Path, err)
			}
			if emb == nil || len(emb.Value) == 0 {
				return fmt.Errorf("failed to embed %s: %w", doc.Path, embedding.ErrEmptyEmbedding)
			}
			records[i] = embedding.Record{
				ID:        doc.ID,
				Title:     doc.Title,
				Content:   doc.Content,
				Embedding: emb.Value,
			}
			b.logger.WithFields(logrus.Fields{
				"id":   doc.ID,
				"path": doc.Path,
			}).Info("generated embedding")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := b.writer.WriteAll(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to write embedding store: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"documents": len(records),
		"duration":  time.Since(start).String(),
	}).Info("embedding store rebuilt")
	return len(records), nil
}
