package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pathforge-labs/pathforge/internal/embedding"
	"github.com/pathforge-labs/pathforge/internal/fingerprint"
	"github.com/pathforge-labs/pathforge/internal/jobs"
)

func TestMigrationsOrder(t *testing.T) {
	ms := migrations
	if len(ms) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(ms))
	}
	if !strings.Contains(ms[0].SQL, "CREATE EXTENSION IF NOT EXISTS vector") {
		t.Fatalf("vector extension must be created first, got %q", ms[0].Name)
	}

	table := ms[1].SQL
	for _, want := range []string{"fingerprint     TEXT NOT NULL UNIQUE", "external_id     TEXT UNIQUE", "vector(3072)"} {
		if !strings.Contains(table, want) {
			t.Fatalf("listing table is missing %q", want)
		}
	}
}

func TestInsertListingRejectsInvalidFingerprint(t *testing.T) {
	s := &Store{}
	for _, fp := range []string{"", "abc", strings.Repeat("G", fingerprint.Length)} {
		l := listing("Go Engineer", "Acme", "")
		l.Fingerprint = fp

		inserted, err := s.InsertListing(context.Background(), l)
		if !errors.Is(err, ErrInvalidFingerprint) || inserted {
			t.Fatalf("fingerprint %q: expected ErrInvalidFingerprint, got %v, %v", fp, inserted, err)
		}
	}
}

// The tests below need a PostgreSQL database with pgvector available.
func testStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("PATHFORGE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PATHFORGE_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	if err := Migrate(ctx, url, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(store.Close)

	if _, err := store.pool.Exec(ctx, `TRUNCATE job_listings`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return store
}

func listing(title, company, externalID string) jobs.Listing {
	raw := jobs.RawListing{
		Title:          title,
		Company:        company,
		Location:       "Berlin",
		Description:    "Build things",
		SourcePlatform: "test",
		ExternalID:     externalID,
	}
	return jobs.Listing{Fingerprint: fingerprint.Of(raw), RawListing: raw}
}

func TestInsertListingRejectsDuplicates(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	inserted, err := store.InsertListing(ctx, listing("Go Engineer", "Acme", ""))
	if err != nil || !inserted {
		t.Fatalf("expected first insert to succeed, got %v, %v", inserted, err)
	}

	inserted, err = store.InsertListing(ctx, listing("go engineer!", "ACME", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Fatal("expected fingerprint duplicate to be rejected")
	}

	if _, err := store.InsertListing(ctx, listing("Rust Engineer", "Acme", "x:1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inserted, err = store.InsertListing(ctx, listing("Zig Engineer", "Acme", "x:1"))
	if err != nil || inserted {
		t.Fatalf("expected external id duplicate to be rejected, got %v, %v", inserted, err)
	}

	// Empty external ids are stored as NULL and never collide.
	inserted, err = store.InsertListing(ctx, listing("Python Engineer", "Acme", ""))
	if err != nil || !inserted {
		t.Fatalf("expected insert with empty external id to succeed, got %v, %v", inserted, err)
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 3 || st.Pending != 3 || st.Embedded != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

type constantEmbedder struct{}

func (constantEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, jobs.EmbeddingDimensions)
		v[0] = 1
		out[i] = v
	}
	return out, nil
}

func TestEmbedPendingAgainstPostgres(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := store.InsertListing(ctx, listing(title, "Acme", "")); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	p := embedding.NewPipeline(store, constantEmbedder{}, nil)
	n, err := p.EmbedPending(ctx, 2)
	if err != nil {
		t.Fatalf("embed pending: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 embedded, got %d", n)
	}

	n, err = p.EmbedPending(ctx, 2)
	if err != nil || n != 0 {
		t.Fatalf("expected nothing left to embed, got %d, %v", n, err)
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Pending != 0 || st.Embedded != 3 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
