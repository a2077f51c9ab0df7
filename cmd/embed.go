package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/embedding"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute embeddings for stored listings that do not have one yet",
	Run: func(_ *cobra.Command, _ []string) {
		runEmbed()
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().IntP("batch-size", "b", defaultBatchSize, "listings per embedding request")

	viper.BindPFlag("embedding.batch-size", embedCmd.Flags().Lookup("batch-size"))
}

func runEmbed() {
	ctx := context.Background()
	logger, config := setup()

	store, err := openStore(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer store.Close()

	embedder, err := newEmbedder(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the embedder", zap.Error(err))
	}

	pipeline := embedding.NewPipeline(store, embedder, logger)
	count, err := pipeline.EmbedPending(ctx, config.Embedding.BatchSize)
	if err != nil {
		logger.Fatal("embedding pending listings", zap.Error(err))
	}

	logger.Info("embedding finished", zap.Int("embedded", count), zap.String("model", embedder.Model()))
}
