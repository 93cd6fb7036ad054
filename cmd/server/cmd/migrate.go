package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tickethub/server/internal/storage/postgres"
)

var (
	migrationsPath string
	migrateSteps   int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := postgres.MigrateUp(cfg.Database.URL, migrationsPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := postgres.MigrateDown(cfg.Database.URL, migrationsPath, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", migrateSteps)
		return nil
	},
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "migrations", postgres.DefaultMigrationsPath, "path to migration files")
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
