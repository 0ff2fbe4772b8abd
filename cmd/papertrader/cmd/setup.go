package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/dataset"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/ledger"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/yahoo"
)

// openJournal builds the trade journal named by the config.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.ValuationsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Noop{}, nil
	}
}

// resolveSymbols returns the trading universe, preferring the explicit
// symbol list over the universe CSV.
func resolveSymbols(cfg *config.Config) ([]string, error) {
	if len(cfg.Data.Symbols) > 0 {
		return cfg.Data.Symbols, nil
	}
	return market.LoadUniverse(cfg.Data.UniverseFile)
}

// openSource picks the bar source: a local dataset directory when one is
// configured, Yahoo Finance otherwise.
func openSource(cfg *config.Config) market.BarSource {
	if cfg.Data.DatasetDir != "" {
		return dataset.Source{Dir: cfg.Data.DatasetDir}
	}
	return yahoo.NewClient()
}

// openLedger restores (or creates) the persistent account.
func openLedger(cfg *config.Config, j journal.Journal) *ledger.Ledger {
	opts := ledger.Options{Journal: j, Logger: log()}
	if cfg.Account.StateFile != "" {
		opts.Store = ledger.NewStore(cfg.Account.StateFile)
	}
	return ledger.New(cfg.Account.InitialBalance, opts)
}

// seedSeries fetches history for every symbol and builds its price series.
// Symbols with no data are skipped with a warning; it is an error when
// nothing at all could be seeded.
func seedSeries(ctx context.Context, cfg *config.Config, source market.BarSource, symbols []string, start, end time.Time, policy market.SeedPolicy) ([]*market.Series, error) {
	series := make([]*market.Series, 0, len(symbols))
	for _, sym := range symbols {
		bars, err := source.GetBars(ctx, market.BarRequest{
			Symbol:   sym,
			Start:    start,
			End:      end,
			Interval: market.Interval(cfg.Data.Interval),
		})
		if err != nil {
			if errors.Is(err, market.ErrNoData) {
				log().Warn("no data for symbol, skipping", "symbol", sym)
				continue
			}
			return nil, fmt.Errorf("fetch %s: %w", sym, err)
		}
		series = append(series, market.NewSeries(sym, bars, policy))
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no symbols could be seeded")
	}
	return series, nil
}
