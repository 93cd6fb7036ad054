package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tickethub/server/internal/metrics"
	"github.com/tickethub/server/internal/storage/postgres"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Truncate all application tables",
	Long: `Truncate events, customers, partners and users, restarting their id
sequences. Intended for demo and classroom databases only; every row is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirm {
			return fmt.Errorf("refusing to truncate without --yes")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		if err := postgres.ResetSession(ctx, pool); err != nil {
			return err
		}
		metrics.SessionResetsTotal.Inc()
		fmt.Fprintln(cmd.OutOrStdout(), "all tables truncated")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "confirm the destructive reset")
}
