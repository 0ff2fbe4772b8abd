package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/replay"
	"github.com/rustyeddy/papertrader/report"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay historical bars through the strategy",
	Long: `Backtest replays historical daily bars for every configured symbol
through the moving-average strategy, starting from the account's persisted
state (or a fresh balance).

Bars come from Yahoo Finance, or from a local dataset directory of CSV
files (optionally gzip/xz compressed) when data.dataset_dir is set.

Example:
  papertrader backtest --config papertrader.yaml --report ./out`,
	RunE: runBacktestCmd,
}

var (
	btConfigPath string
	btReportDir  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	backtestCmd.Flags().StringVarP(&btReportDir, "report", "r", "", "directory for CSV reports (optional)")
	backtestCmd.MarkFlagRequired("config")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(btConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	symbols, err := resolveSymbols(cfg)
	if err != nil {
		return fmt.Errorf("resolve symbols: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	start, end, err := cfg.Range(time.Now())
	if err != nil {
		return fmt.Errorf("date range: %w", err)
	}

	ctx := context.Background()
	source := openSource(cfg)

	fmt.Printf("Backtesting %d symbols from %s to %s\n",
		len(symbols), start.Format("2006-01-02"), end.Format("2006-01-02"))

	series, err := seedSeries(ctx, cfg, source, symbols, start, end, market.SeedFirstClose)
	if err != nil {
		return err
	}

	led := openLedger(cfg, j)

	loop, err := replay.NewLoop(replay.Config{
		Evaluator: cfg.Evaluator(),
		Sizer:     cfg.Sizer(),
		Start:     start,
	}, led, series, nil, log())
	if err != nil {
		return err
	}

	res, err := loop.RunBacktest(ctx)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	fmt.Println()
	report.Summary(os.Stdout, res)

	if btReportDir != "" {
		w := report.Writer{Dir: btReportDir}
		for _, s := range series {
			if err := w.WriteSeries(s); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		values, dates := led.ValuationHistory()
		if err := w.WritePortfolio(values, dates); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("\nReports written to %s\n", btReportDir)
	}

	return nil
}
