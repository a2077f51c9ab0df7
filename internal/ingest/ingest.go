// Package ingest pulls listings from providers, filters them and hands the
// survivors to storage. Storage uniqueness decides what counts as new.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/filtering"
	"github.com/pathforge-labs/pathforge/internal/fingerprint"
	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/logger"
	"github.com/pathforge-labs/pathforge/internal/provider"
)

// Store persists a listing. It returns false without an error when the
// listing duplicates one already stored.
type Store interface {
	InsertListing(ctx context.Context, l jobs.Listing) (bool, error)
}

type Options struct {
	Filters      []filtering.Filter
	FilterConfig *filtering.Config
	Blacklist    filtering.BlacklistChecker
	// DryRun fetches and filters without touching storage.
	DryRun bool
}

type Service struct {
	store  Store
	opts   Options
	logger *zap.Logger
}

func NewService(store Store, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Filters == nil {
		opts.Filters = filtering.Default()
	}
	return &Service{store: store, opts: opts, logger: log}
}

// Run searches every provider with every params set. A failing search is
// logged and counted, and the loop moves on. Only cancellation and filter
// configuration errors stop the run.
func (s *Service) Run(ctx context.Context, providers []provider.Provider, searches []provider.SearchParams) (*Report, error) {
	if s.store == nil && !s.opts.DryRun {
		return nil, fmt.Errorf("ingest store is not configured")
	}
	if len(searches) == 0 {
		searches = []provider.SearchParams{{}}
	}

	report := NewReport()
	seen := map[string]struct{}{}

	for _, p := range providers {
		counters := report.For(p.Name())
		log := logger.WithFields(s.logger, logger.ProviderFields(p.Name(), "")...)

		for _, params := range searches {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			if err := s.runSearch(ctx, log, p, params, counters, seen); err != nil {
				return report, err
			}
		}

		log.Info("provider ingestion finished",
			zap.Int("fetched", counters.Fetched),
			zap.Int("inserted", counters.Inserted),
			zap.Int("duplicates", counters.Duplicate),
			zap.Int("filtered", counters.Filtered),
			zap.Int("failed", counters.Failed),
			zap.Int("search_errors", counters.SearchErrors),
		)
	}

	return report, nil
}

func (s *Service) runSearch(ctx context.Context, log *zap.Logger, p provider.Provider, params provider.SearchParams, c *Counters, seen map[string]struct{}) error {
	results, err := p.Search(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.SearchErrors++
		log.Warn("search failed, continuing",
			zap.String("keywords", params.Keywords),
			zap.String("location", params.Location),
			zap.Error(err),
		)
		return nil
	}
	c.Fetched += len(results)

	valid := make([]jobs.RawListing, 0, len(results))
	for _, r := range results {
		if err := r.Validate(); err != nil {
			c.Invalid++
			log.Debug("dropping invalid listing",
				zap.String("external_id", r.ExternalID),
				zap.Error(err),
			)
			continue
		}
		if r.SourcePlatform == "" {
			r.SourcePlatform = p.Name()
		}
		valid = append(valid, r)
	}

	deps := filtering.Deps{Logger: log, Blacklist: s.opts.Blacklist}
	left, err := filtering.Run(ctx, s.opts.FilterConfig, deps, s.opts.Filters, filtering.NewListings(valid))
	if err != nil {
		return fmt.Errorf("filtering %s listings: %w", p.Name(), err)
	}
	c.Filtered += len(valid) - left.Len()

	for _, r := range left.Items {
		l := jobs.Listing{Fingerprint: fingerprint.Of(r), RawListing: r}

		if _, ok := seen[l.Fingerprint]; ok {
			c.Duplicate++
			continue
		}
		seen[l.Fingerprint] = struct{}{}
		c.Accepted++

		if s.opts.DryRun {
			continue
		}

		inserted, err := s.store.InsertListing(ctx, l)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Failed++
			log.Warn("storing listing failed",
				zap.String(logger.FieldFingerprint, l.Fingerprint),
				zap.Error(err),
			)
			continue
		}
		if inserted {
			c.Inserted++
		} else {
			c.Duplicate++
		}
	}

	return nil
}
