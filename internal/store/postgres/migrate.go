package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// migration is one idempotent schema step.
type migration struct {
	Name string
	SQL  string
}

var migrations = []migration{
	{
		Name: "create_vector_extension",
		SQL:  `CREATE EXTENSION IF NOT EXISTS vector`,
	},
	{
		Name: "create_job_listings",
		SQL: `
			CREATE TABLE IF NOT EXISTS job_listings (
				id              UUID PRIMARY KEY,
				fingerprint     TEXT NOT NULL UNIQUE,
				external_id     TEXT UNIQUE,
				title           TEXT NOT NULL,
				company         TEXT NOT NULL,
				description     TEXT NOT NULL DEFAULT '',
				location        TEXT NOT NULL DEFAULT '',
				work_type       TEXT NOT NULL DEFAULT '',
				salary_info     TEXT NOT NULL DEFAULT '',
				source_url      TEXT NOT NULL DEFAULT '',
				source_platform TEXT NOT NULL DEFAULT '',
				extra           JSONB NOT NULL DEFAULT '{}'::jsonb,
				embedding       vector(3072),
				created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
				embedded_at     TIMESTAMPTZ
			)`,
	},
	{
		Name: "index_job_listings_pending_embedding",
		SQL: `
			CREATE INDEX IF NOT EXISTS job_listings_pending_embedding_idx
			ON job_listings (created_at, id)
			WHERE embedding IS NULL`,
	},
}

// Migrate applies every migration on a dedicated connection. It runs before
// Open so the vector type exists when the pool registers it.
func Migrate(ctx context.Context, databaseURL string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for migrations: %w", err)
	}
	defer conn.Close(ctx)

	for _, m := range migrations {
		if _, err := conn.Exec(ctx, m.SQL); err != nil {
			log.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.Debug("migration applied", zap.String("name", m.Name))
	}

	log.Info("database schema is up to date", zap.Int("migrations", len(migrations)))
	return nil
}
