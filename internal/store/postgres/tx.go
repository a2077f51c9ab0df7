package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/pathforge-labs/pathforge/internal/embedding"
	"github.com/pathforge-labs/pathforge/internal/jobs"
)

var _ embedding.Store = (*Store)(nil)

// Begin opens a transaction for one embedding run.
func (s *Store) Begin(ctx context.Context) (embedding.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &embeddingTx{tx: tx}, nil
}

type embeddingTx struct {
	tx pgx.Tx
}

const pendingSQL = `
	SELECT id::text, fingerprint, COALESCE(external_id, ''), title, company, description,
	       location, work_type, salary_info, source_url, source_platform, extra, created_at
	FROM job_listings
	WHERE embedding IS NULL
	ORDER BY created_at, id
	LIMIT $1`

func (t *embeddingTx) PendingEmbeddings(ctx context.Context, limit int) ([]jobs.Listing, error) {
	rows, err := t.tx.Query(ctx, pendingSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending embeddings: %w", err)
	}
	defer rows.Close()

	var listings []jobs.Listing
	for rows.Next() {
		var l jobs.Listing
		if err := rows.Scan(
			&l.ID, &l.Fingerprint, &l.ExternalID, &l.Title, &l.Company, &l.Description,
			&l.Location, &l.WorkType, &l.SalaryInfo, &l.SourceURL, &l.SourcePlatform,
			&l.Extra, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pending listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending listings: %w", err)
	}

	return listings, nil
}

func (t *embeddingTx) SetEmbedding(ctx context.Context, id string, vector []float32) error {
	if len(vector) != jobs.EmbeddingDimensions {
		return fmt.Errorf("embedding for %s has %d dimensions, want %d", id, len(vector), jobs.EmbeddingDimensions)
	}

	tag, err := t.tx.Exec(ctx,
		`UPDATE job_listings SET embedding = $1, embedded_at = now() WHERE id = $2`,
		pgvector.NewVector(vector), id,
	)
	if err != nil {
		return fmt.Errorf("update embedding for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update embedding for %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (t *embeddingTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is a no-op once the transaction has been committed.
func (t *embeddingTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
