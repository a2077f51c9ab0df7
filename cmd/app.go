package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/ai/gemini"
	"github.com/pathforge-labs/pathforge/internal/blacklist"
	"github.com/pathforge-labs/pathforge/internal/ingest"
	"github.com/pathforge-labs/pathforge/internal/logger"
	"github.com/pathforge-labs/pathforge/internal/provider"
	"github.com/pathforge-labs/pathforge/internal/provider/adzuna"
	"github.com/pathforge-labs/pathforge/internal/provider/headhunter"
	"github.com/pathforge-labs/pathforge/internal/secrets"
	"github.com/pathforge-labs/pathforge/internal/store/postgres"
)

// setup builds the logger and the config shared by every command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

// openStore brings the schema up to date and opens the pool.
func openStore(ctx context.Context, config *Config, logger *zap.Logger) (*postgres.Store, error) {
	url := strings.TrimSpace(config.DatabaseURL)
	if url == "" {
		return nil, errors.New("database url is not configured (set database-url or DATABASE_URL)")
	}

	if err := postgres.Migrate(ctx, url, logger); err != nil {
		return nil, err
	}

	return postgres.Open(ctx, url)
}

// openBlacklist returns nil without an error when redis is not configured.
func openBlacklist(ctx context.Context, config *Config) (*blacklist.Client, error) {
	url := strings.TrimSpace(config.RedisURL)
	if url == "" {
		return nil, nil
	}
	return blacklist.New(ctx, url)
}

func newEmbedder(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Embedder, error) {
	cfg := config.Embedding

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set embedding.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	return gemini.NewEmbedder(ctx, gemini.Config{
		APIKey:     apiKey,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		MaxRetries: cfg.MaxRetries,
	}, logger)
}

// newRegistry registers every provider that has enough configuration to run.
func newRegistry(config *Config, logger *zap.Logger) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	if cfg := config.Adzuna; cfg != nil && cfg.AppID != "" && cfg.AppKey != "" {
		registry.Register(adzuna.New(*cfg, logger.Named(adzuna.Name)))
	} else {
		logger.Debug("adzuna credentials are not configured; provider disabled")
	}

	hhConfig := headhunter.Config{}
	if config.HH != nil {
		hhConfig = *config.HH
	}
	token, err := secrets.Optional(secrets.Source{
		Name: "headhunter token",
		File: hhConfig.TokenFile,
	})
	if err != nil {
		return nil, err
	}
	hh := headhunter.New(token, logger.Named(headhunter.Name))
	if hhConfig.UserAgent != "" {
		hh.UserAgent = hhConfig.UserAgent
	}
	registry.Register(hh)

	return registry, nil
}

func newIngestService(store ingest.Store, config *Config, bl *blacklist.Client, dryRun bool, logger *zap.Logger) *ingest.Service {
	opts := ingest.Options{
		FilterConfig: config.Filters,
		DryRun:       dryRun,
	}
	// A nil *blacklist.Client must not end up inside a non-nil interface.
	if bl != nil {
		opts.Blacklist = bl
	}
	return ingest.NewService(store, opts, logger)
}

func logReport(logger *zap.Logger, report *ingest.Report) {
	for _, name := range report.Providers() {
		c := report.For(name)
		logger.Info("ingestion report",
			zap.String("provider", name),
			zap.Int("fetched", c.Fetched),
			zap.Int("invalid", c.Invalid),
			zap.Int("filtered", c.Filtered),
			zap.Int("accepted", c.Accepted),
			zap.Int("duplicates", c.Duplicate),
			zap.Int("inserted", c.Inserted),
			zap.Int("failed", c.Failed),
			zap.Int("search_errors", c.SearchErrors),
		)
	}

	total := report.Total()
	logger.Info("ingestion finished",
		zap.Int("fetched", total.Fetched),
		zap.Int("inserted", total.Inserted),
		zap.Int("duplicates", total.Duplicate),
	)
}
