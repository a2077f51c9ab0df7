package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/blacklist"
)

var blacklistCmd = &cobra.Command{
	Use:   "blacklist",
	Short: "Manage companies excluded from ingestion",
}

var blacklistAddCmd = &cobra.Command{
	Use:   "add COMPANY...",
	Short: "Add companies to the blacklist",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withBlacklist(func(ctx context.Context, logger *zap.Logger, bl *blacklist.Client) error {
			for _, company := range args {
				added, err := bl.Add(ctx, company)
				if err != nil {
					return err
				}
				logger.Info("blacklist add", zap.String("company", company), zap.Bool("added", added))
			}
			return nil
		})
	},
}

var blacklistRemoveCmd = &cobra.Command{
	Use:   "remove COMPANY...",
	Short: "Remove companies from the blacklist",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withBlacklist(func(ctx context.Context, logger *zap.Logger, bl *blacklist.Client) error {
			for _, company := range args {
				removed, err := bl.Remove(ctx, company)
				if err != nil {
					return err
				}
				logger.Info("blacklist remove", zap.String("company", company), zap.Bool("removed", removed))
			}
			return nil
		})
	},
}

var blacklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print blacklisted companies",
	Run: func(_ *cobra.Command, _ []string) {
		withBlacklist(func(ctx context.Context, _ *zap.Logger, bl *blacklist.Client) error {
			companies, err := bl.List(ctx)
			if err != nil {
				return err
			}
			for _, c := range companies {
				fmt.Println(c)
			}
			return nil
		})
	},
}

func init() {
	blacklistCmd.AddCommand(blacklistAddCmd, blacklistRemoveCmd, blacklistListCmd)
	rootCmd.AddCommand(blacklistCmd)
}

func withBlacklist(fn func(ctx context.Context, logger *zap.Logger, bl *blacklist.Client) error) {
	ctx := context.Background()
	logger, config := setup()

	bl, err := openBlacklist(ctx, config)
	if err != nil {
		logger.Fatal("connecting to blacklist", zap.Error(err))
	}
	if bl == nil {
		logger.Fatal("redis url is not configured", zap.String("hint", "set redis-url or REDIS_URL"))
	}
	defer bl.Close()

	if err := fn(ctx, logger, bl); err != nil {
		logger.Fatal("blacklist", zap.Error(err))
	}
}
