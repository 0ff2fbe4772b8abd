package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/replay"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Paper trade against live quotes",
	Long: `Live polls Yahoo Finance for fresh quotes on a fixed interval and
runs the moving-average strategy on each poll. The account state is
persisted after every trade and valuation, so a restart resumes where
the previous session left off.

Stop with Ctrl-C; the final account status is logged on shutdown.

Example:
  papertrader live --config papertrader.yaml`,
	RunE: runLiveCmd,
}

var liveConfigPath string

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().StringVarP(&liveConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	liveCmd.MarkFlagRequired("config")
}

func runLiveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(liveConfigPath)
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

	poll, err := cfg.Live.ParsePollInterval()
	if err != nil {
		return fmt.Errorf("poll interval: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := openSource(cfg)
	start, end, err := cfg.Range(time.Now())
	if err != nil {
		return fmt.Errorf("date range: %w", err)
	}

	fmt.Printf("Live trading %d symbols, polling every %s\n", len(symbols), poll)

	series, err := seedSeries(ctx, cfg, source, symbols, start, end, market.SeedLastClose)
	if err != nil {
		return err
	}

	led := openLedger(cfg, j)

	lookback := time.Duration(cfg.Data.LookbackDays) * 24 * time.Hour
	loop, err := replay.NewLoop(replay.Config{
		Evaluator:    cfg.Evaluator(),
		Sizer:        cfg.Sizer(),
		PollInterval: poll,
		Lookback:     lookback,
		Interval:     market.Interval(cfg.Data.Interval),
	}, led, series, source, log())
	if err != nil {
		return err
	}

	if err := loop.RunLive(ctx); err != nil {
		return fmt.Errorf("live: %w", err)
	}

	fmt.Println("Stopped.")
	return nil
}
