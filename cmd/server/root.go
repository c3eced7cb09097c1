package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/lexiflash/internal/config"
	"github.com/vytor/lexiflash/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "lexiflash",
	Short:         "Vocabulary learning session daemon",
	Long:          "lexiflash runs flashcard and quiz sessions against the learning API and keeps unsent answers in a local outbox.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("addr", "", "Listen address (overrides ADDR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(flushCmd)
}

// loadConfig reads the environment, applies flag overrides, validates the
// result and installs the default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = strings.ToUpper(v)
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration: %v", err)
		return cfg, err
	}

	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	))
	return cfg, nil
}
