package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/filtering"
	"github.com/pathforge-labs/pathforge/internal/ingest"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch listings from the configured providers and store the new ones",
	Run: func(cmd *cobra.Command, _ []string) {
		runIngest(cmd)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before storing listings")
	ingestCmd.Flags().Bool("dry-run", false, "fetch and filter listings without storing them")
	ingestCmd.Flags().StringSliceP("provider", "p", nil, "providers to use (default is all configured)")

	viper.BindPFlag("providers", ingestCmd.Flags().Lookup("provider"))
}

func runIngest(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	registry, err := newRegistry(config, logger)
	if err != nil {
		logger.Fatal("configuring providers", zap.Error(err))
	}

	providers, err := registry.Select(config.Providers)
	if err != nil {
		logger.Fatal("selecting providers", zap.Error(err), zap.Strings("available", registry.Names()))
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}

	logger.Info("starting the ingestion",
		zap.String("version", version),
		zap.Strings("providers", names),
		zap.Int("searches", len(config.Searches)),
		zap.Bool("dry_run", dryRun),
	)

	for _, st := range filtering.Describe(filtering.Default()) {
		logger.Debug("filter", zap.String("name", st.Name), zap.Bool("enabled", st.Enabled))
	}

	if !dryRun && !autoApprove {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Store new listings from %s?", strings.Join(names, ", ")),
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	bl, err := openBlacklist(ctx, config)
	if err != nil {
		logger.Fatal("connecting to blacklist", zap.Error(err))
	}
	if bl != nil {
		defer bl.Close()
	}

	var store ingest.Store
	if !dryRun {
		pg, err := openStore(ctx, config, logger)
		if err != nil {
			logger.Fatal("opening the store", zap.Error(err))
		}
		defer pg.Close()
		store = pg
	}

	report, err := newIngestService(store, config, bl, dryRun, logger).Run(ctx, providers, config.Searches)
	if err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}

	logReport(logger, report)
}
