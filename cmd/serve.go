package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/embedding"
	"github.com/pathforge-labs/pathforge/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run ingestion and embedding on a schedule until interrupted",
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Duration("interval", defaultInterval, "time between cycles")

	viper.BindPFlag("schedule.interval", serveCmd.Flags().Lookup("interval"))
}

func runServe() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	store, err := openStore(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer store.Close()

	bl, err := openBlacklist(ctx, config)
	if err != nil {
		logger.Fatal("connecting to blacklist", zap.Error(err))
	}
	if bl != nil {
		defer bl.Close()
	}

	registry, err := newRegistry(config, logger)
	if err != nil {
		logger.Fatal("configuring providers", zap.Error(err))
	}
	providers, err := registry.Select(config.Providers)
	if err != nil {
		logger.Fatal("selecting providers", zap.Error(err))
	}

	embedder, err := newEmbedder(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the embedder", zap.Error(err))
	}

	ingester := newIngestService(store, config, bl, false, logger)
	pipeline := embedding.NewPipeline(store, embedder, logger)
	batchSize := config.Embedding.BatchSize

	s, err := scheduler.New(config.Schedule.Interval, []scheduler.Step{
		{
			Name: "ingest",
			Run: func(ctx context.Context) error {
				report, err := ingester.Run(ctx, providers, config.Searches)
				if report != nil {
					logReport(logger, report)
				}
				return err
			},
		},
		{
			Name: "embed",
			Run: func(ctx context.Context) error {
				_, err := pipeline.EmbedPending(ctx, batchSize)
				return err
			},
		},
	}, logger.Named("scheduler"))
	if err != nil {
		logger.Fatal("creating the scheduler", zap.Error(err))
	}

	if err := s.Start(ctx); err != nil {
		logger.Fatal("starting the scheduler", zap.Error(err))
	}

	<-ctx.Done()
	logger.Info("shutting down", zap.String("reason", "signal received"))
	s.Stop()
}
