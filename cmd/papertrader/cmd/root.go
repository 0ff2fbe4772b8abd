package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "papertrader",
	Short: "A rule-based equity paper-trading simulator",
	Long: `Papertrader is a rule-based equity paper-trading simulator written in Go.

It provides tools for:
  - Backtesting a moving-average strategy against historical bars
  - Live paper trading against Yahoo Finance quotes
  - Persistent account state across restarts
  - Trade and valuation journaling (CSV or SQLite)
  - CSV reports of price series, trade markers and portfolio value

Complete documentation is available at https://github.com/rustyeddy/papertrader`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init("papertrader", logger.ParseLevel(logLevel))
	},
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func log() *slog.Logger {
	return slog.Default()
}
