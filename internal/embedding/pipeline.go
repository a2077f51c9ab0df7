package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/jobs"
)

type Pipeline struct {
	store    Store
	embedder Embedder
	logger   *zap.Logger
}

func NewPipeline(store Store, embedder Embedder, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// EmbedPending embeds up to batchSize*CandidateFactor listings that have no
// vector yet, calling the embedder once per chunk of batchSize listings.
// A failed chunk is logged and skipped. All successful updates are committed
// together at the end; a storage error rolls them back and is returned.
func (p *Pipeline) EmbedPending(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				p.logger.Warn("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	candidates, err := tx.PendingEmbeddings(ctx, batchSize*CandidateFactor)
	if err != nil {
		return 0, fmt.Errorf("select pending listings: %w", err)
	}

	if len(candidates) == 0 {
		p.logger.Debug("no listings waiting for embeddings")
		return 0, nil
	}

	p.logger.Info("embedding pending listings",
		zap.Int("candidates", len(candidates)),
		zap.Int("batch_size", batchSize),
	)

	total := 0
	for idx, chunk := range Chunk(candidates, batchSize) {
		embedded, err := p.embedChunk(ctx, tx, idx, chunk)
		if err != nil {
			return 0, err
		}
		total += embedded
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit embeddings: %w", err)
	}
	committed = true

	p.logger.Info("embedding run finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("embedded", total),
	)

	return total, nil
}

// embedChunk returns an error only for storage failures; embedder failures
// skip the chunk.
func (p *Pipeline) embedChunk(ctx context.Context, tx Tx, idx int, chunk []jobs.Listing) (int, error) {
	texts := make([]string, len(chunk))
	for i, l := range chunk {
		texts[i] = jobs.Canonicalize(l)
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(vectors) != len(chunk) {
		err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(chunk))
	}
	if err != nil {
		p.logger.Warn("skipping chunk after embedding failure",
			zap.Int("chunk", idx),
			zap.Int("size", len(chunk)),
			zap.String("first_listing_id", chunk[0].ID),
			zap.Error(err),
		)
		return 0, nil
	}

	for i, l := range chunk {
		if err := tx.SetEmbedding(ctx, l.ID, vectors[i]); err != nil {
			return 0, fmt.Errorf("store embedding for listing %s: %w", l.ID, err)
		}
	}

	p.logger.Debug("chunk embedded", zap.Int("chunk", idx), zap.Int("size", len(chunk)))

	return len(chunk), nil
}

// Chunk splits listings into consecutive slices of at most size elements,
// preserving order.
func Chunk(listings []jobs.Listing, size int) [][]jobs.Listing {
	if size <= 0 || len(listings) == 0 {
		return nil
	}

	chunks := make([][]jobs.Listing, 0, (len(listings)+size-1)/size)
	for start := 0; start < len(listings); start += size {
		end := start + size
		if end > len(listings) {
			end = len(listings)
		}
		chunks = append(chunks, listings[start:end])
	}
	return chunks
}
