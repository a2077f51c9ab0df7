// Package embedding fills in vectors for stored job listings that do not
// have one yet.
package embedding

import (
	"context"
	"errors"

	"github.com/pathforge-labs/pathforge/internal/jobs"
)

// CandidateFactor bounds how many pending listings one EmbedPending call
// looks at, relative to the batch size.
const CandidateFactor = 10

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Embedder maps texts to vectors. The result has the same length and order as
// texts; on error no vector is usable.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store opens the transaction every EmbedPending call runs in.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is the unit of work of one EmbedPending call.
type Tx interface {
	// PendingEmbeddings returns up to limit listings without an embedding.
	PendingEmbeddings(ctx context.Context, limit int) ([]jobs.Listing, error)
	SetEmbedding(ctx context.Context, id string, vector []float32) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
