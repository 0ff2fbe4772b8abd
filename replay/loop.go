// Package replay drives the trading flow: each step advances every price
// series by one bar, evaluates the signal per symbol, sizes and applies at
// most one order per symbol, and snapshots the ledger. A bounded run over
// seeded history is a backtest; an unbounded polling run against a live
// bar source is live trading.
package replay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/ledger"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/signal"
)

// Config tunes one loop run.
type Config struct {
	Evaluator signal.Evaluator
	Sizer     signal.Sizer

	// Start and StepInterval stamp backtest steps: step i happens at
	// Start + i*StepInterval. Zero values default to the first series'
	// first observation and 24h.
	Start        time.Time
	StepInterval time.Duration

	// Live mode: wall-clock wait between steps, and the fetch window used
	// to refresh each symbol.
	PollInterval time.Duration
	Lookback     time.Duration
	Interval     market.Interval
}

// Loop owns one run. It is single-threaded: one step runs to completion
// before the next begins, and cancellation is observed between steps.
type Loop struct {
	cfg    Config
	ledger *ledger.Ledger
	series []*market.Series
	source market.BarSource
	log    *slog.Logger

	state State
}

// NewLoop builds a loop over the given series, in the given (stable)
// order. The source may be nil for backtest-only use.
func NewLoop(cfg Config, led *ledger.Ledger, series []*market.Series, source market.BarSource, log *slog.Logger) (*Loop, error) {
	if led == nil {
		return nil, fmt.Errorf("replay: ledger is required")
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("replay: at least one price series is required")
	}
	if err := cfg.Evaluator.Validate(); err != nil {
		return nil, err
	}
	if cfg.Sizer.RiskFraction <= 0 || cfg.Sizer.RiskFraction > 1 {
		return nil, fmt.Errorf("replay: risk fraction must be in (0,1]")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Loop{
		cfg:    cfg,
		ledger: led,
		series: series,
		source: source,
		log:    log,
		state:  Seeding,
	}, nil
}

// State returns the current lifecycle state.
func (l *Loop) State() State { return l.state }

// prices returns the current price per symbol.
func (l *Loop) prices() map[string]float64 {
	out := make(map[string]float64, len(l.series))
	for _, s := range l.series {
		out[s.Symbol] = s.Price()
	}
	return out
}

// seed makes the initial trade decisions against historical-only data.
// Executed once, before any stepping.
func (l *Loop) seed(now time.Time) {
	l.log.Info("making initial trading decisions")
	for _, s := range l.series {
		if avg, err := s.TrailingAverage(l.cfg.Evaluator.Window); err == nil {
			l.log.Info("initial signal check",
				"symbol", s.Symbol, "price", s.Price(), "trailing_avg", avg)
		}
		res := l.decide(s, now)
		if res.Action != "" {
			l.log.Info("initial trade", "symbol", s.Symbol, "action", string(res.Action))
		}
	}
	l.state = Stepping
}

// decide evaluates buy-then-sell for one symbol and applies at most one
// order. Buy takes priority when both conditions somehow hold.
func (l *Loop) decide(s *market.Series, now time.Time) SymbolResult {
	res := SymbolResult{Symbol: s.Symbol, Status: SymbolOK}

	if l.cfg.Evaluator.ShouldBuy(s) {
		qty := l.cfg.Sizer.BuyQuantity(l.ledger.Balance(), s.Price())
		if qty > 0 && l.ledger.Buy(s.Symbol, qty, s.Price(), now) {
			s.MarkBuy(now, s.Price())
			res.Action = journal.Buy
		}
		return res
	}

	if l.cfg.Evaluator.ShouldSell(s) {
		qty := l.cfg.Sizer.SellQuantity(l.ledger.Position(s.Symbol))
		if qty > 0 && l.ledger.Sell(s.Symbol, qty, s.Price(), now) {
			s.MarkSell(now, s.Price())
			res.Action = journal.Sell
		}
		return res
	}

	return res
}

// backtestStep advances every series by its next seeded bar, then decides
// every symbol, then snapshots once.
func (l *Loop) backtestStep(now time.Time) StepResult {
	step := StepResult{Time: now}

	for _, s := range l.series {
		s.Replay(now)
	}
	for _, s := range l.series {
		step.Symbols = append(step.Symbols, l.decide(s, now))
	}

	step.Value = l.ledger.Snapshot(now, l.prices())
	l.log.Debug("step complete", "time", now, "portfolio_value", step.Value)
	return step
}

// RunBacktest runs a bounded simulation: one step per bar of the shortest
// seeded series, then stops and reports. An unexpected fault inside a step
// aborts the run with the final status logged, since there are no further
// steps to retry.
func (l *Loop) RunBacktest(ctx context.Context) (Result, error) {
	steps := l.series[0].SeededLen()
	for _, s := range l.series[1:] {
		if n := s.SeededLen(); n < steps {
			steps = n
		}
	}

	start := l.cfg.Start
	if start.IsZero() {
		if obs := l.series[0].Observations(); len(obs) > 0 {
			start = obs[0].Time
		} else {
			start = time.Now().UTC()
		}
	}
	interval := l.cfg.StepInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	l.log.Info("running backtest", "symbols", len(l.series), "steps", steps, "start", start)
	l.seed(start)

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			l.stop()
			return l.result(i), err
		}

		now := start.Add(time.Duration(i) * interval)
		if _, err := l.safeStep(func() StepResult { return l.backtestStep(now) }); err != nil {
			l.stop()
			res := l.result(i)
			l.log.Error("backtest aborted", "step", i, "error", err, "final_value", res.FinalValue)
			return res, fmt.Errorf("backtest step %d: %w", i, err)
		}
	}

	l.stop()
	return l.result(steps), nil
}

// liveStep refreshes every series from the bar source, then decides and
// snapshots. A failed fetch means no update for that symbol this step,
// never a loop-fatal error.
func (l *Loop) liveStep(ctx context.Context, now time.Time) StepResult {
	step := StepResult{Time: now}

	for _, s := range l.series {
		bars, err := l.source.GetBars(ctx, market.BarRequest{
			Symbol:   s.Symbol,
			Lookback: l.cfg.Lookback,
			Interval: l.cfg.Interval,
		})
		if err == nil && len(bars) == 0 {
			err = market.ErrNoData
		}
		if err != nil {
			l.log.Warn("no update for symbol this step", "symbol", s.Symbol, "error", err)
			step.Symbols = append(step.Symbols, SymbolResult{Symbol: s.Symbol, Status: SymbolSkipped, Err: err})
			continue
		}

		s.Advance(bars[len(bars)-1])

		if avg, err := s.TrailingAverage(l.cfg.Evaluator.Window); err == nil {
			l.log.Info("symbol update", "symbol", s.Symbol, "price", s.Price(), "trailing_avg", avg)
		}

		step.Symbols = append(step.Symbols, l.decide(s, now))
	}

	step.Value = l.ledger.Snapshot(now, l.prices())
	l.ledger.LogStatus(l.prices())
	return step
}

// RunLive polls the bar source on a fixed interval until the context is
// cancelled. Any fault inside a step is contained and logged; the loop
// degrades by skipping and keeps running until explicitly stopped.
func (l *Loop) RunLive(ctx context.Context) error {
	if l.source == nil {
		return fmt.Errorf("replay: live mode requires a bar source")
	}
	poll := l.cfg.PollInterval
	if poll <= 0 {
		poll = time.Minute
	}

	l.log.Info("starting live trading loop", "symbols", len(l.series), "poll_interval", poll)
	l.seed(time.Now().UTC())

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		now := time.Now().UTC()
		if _, err := l.safeStep(func() StepResult { return l.liveStep(ctx, now) }); err != nil {
			l.log.Error("step failed, continuing", "error", err)
		}

		select {
		case <-ctx.Done():
			l.log.Info("live trading stopped")
			l.ledger.LogStatus(l.prices())
			l.stop()
			return nil
		case <-ticker.C:
		}
	}
}

// safeStep contains unexpected faults at the step boundary.
func (l *Loop) safeStep(step func() StepResult) (res StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected fault: %v", r)
		}
	}()
	return step(), nil
}

func (l *Loop) stop() {
	l.state = Stopped
}

func (l *Loop) result(steps int) Result {
	final := l.ledger.PortfolioValue(l.prices())
	initial := l.ledger.InitialBalance()

	r := Result{
		InitialBalance: initial,
		FinalValue:     final,
		Profit:         final - initial,
		Steps:          steps,
		Trades:         l.ledger.TotalTrades(),
	}
	if initial != 0 {
		r.ROI = r.Profit / initial * 100
	}
	return r
}
