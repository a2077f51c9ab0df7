// Package postgres stores job listings and their embeddings in PostgreSQL
// with the pgvector extension.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/pathforge-labs/pathforge/internal/fingerprint"
	"github.com/pathforge-labs/pathforge/internal/jobs"
)

var ErrInvalidFingerprint = errors.New("invalid listing fingerprint")

// Store is a pgxpool-backed listing store.
type Store struct {
	pool *pgxpool.Pool
}

// Stats summarises the listing table.
type Stats struct {
	Total    int64
	Pending  int64
	Embedded int64
}

// Open creates and verifies a connection pool. Migrate must have run first so
// the vector type can be registered on every new connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const insertListingSQL = `
	INSERT INTO job_listings (
		id, fingerprint, external_id, title, company, description, location,
		work_type, salary_info, source_url, source_platform, extra
	) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT DO NOTHING`

// InsertListing stores l and reports whether a row was written. A false
// result with a nil error means a listing with the same fingerprint or
// external id already exists.
func (s *Store) InsertListing(ctx context.Context, l jobs.Listing) (bool, error) {
	if !fingerprint.Valid(l.Fingerprint) {
		return false, fmt.Errorf("%w: %q", ErrInvalidFingerprint, l.Fingerprint)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}

	extra := l.Extra
	if extra == nil {
		extra = map[string]any{}
	}

	tag, err := s.pool.Exec(ctx, insertListingSQL,
		l.ID, l.Fingerprint, l.ExternalID, l.Title, l.Company, l.Description, l.Location,
		l.WorkType, l.SalaryInfo, l.SourceURL, l.SourcePlatform, extra,
	)
	if err != nil {
		return false, fmt.Errorf("insert listing %s: %w", l.Fingerprint, err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE embedding IS NULL),
		       count(*) FILTER (WHERE embedding IS NOT NULL)
		FROM job_listings`,
	).Scan(&st.Total, &st.Pending, &st.Embedded)
	if err != nil {
		return Stats{}, fmt.Errorf("query listing stats: %w", err)
	}
	return st, nil
}
