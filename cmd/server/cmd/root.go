package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tickethub/server/internal/config"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "TicketHub server - ticketing platform backend",
		Long: `TicketHub server is the backend for a small ticketing platform.

The server supports:
- Partner and customer registration
- Token-based login
- Event creation and listing for partners
- A public event catalog`,
		// Run the serve command by default if no subcommand is specified
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional, uses env vars by default)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resetCmd)
}

func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
