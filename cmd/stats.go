package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print listing totals",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		logger, config := setup()

		store, err := openStore(ctx, config, logger)
		if err != nil {
			logger.Fatal("opening the store", zap.Error(err))
		}
		defer store.Close()

		st, err := store.Stats(ctx)
		if err != nil {
			logger.Fatal("reading stats", zap.Error(err))
		}

		fmt.Printf("total: %d\nembedded: %d\npending: %d\n", st.Total, st.Embedded, st.Pending)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
