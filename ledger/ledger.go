// Package ledger owns the paper-trading accounting state: cash balance,
// per-symbol share holdings, the trade log, and the portfolio valuation
// history. All mutation goes through Buy, Sell and Snapshot, which enforce
// the accounting invariants (cash never negative, positions never
// negative) and persist the state after every change.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/pkg/id"
)

// Options configures optional ledger collaborators.
type Options struct {
	// Store persists the ledger across restarts. Nil disables persistence.
	Store *Store

	// Journal receives trade and valuation records. Nil means discard.
	Journal journal.Journal

	// Logger for trade events and warnings. Nil uses slog.Default.
	Logger *slog.Logger
}

// Ledger is the single owner of cash and position state for one run.
// It is not safe for concurrent use; the replay loop is the only caller.
type Ledger struct {
	log     *slog.Logger
	journal journal.Journal
	store   *Store

	initial   float64
	balance   float64
	portfolio map[string]int

	trades   []journal.TradeRecord
	tradeLog []string

	values []float64
	dates  []time.Time

	totalTrades int
}

// New builds a ledger with the given starting balance. When a store is
// configured and holds a previous run's state, that state is restored;
// a missing or unreadable state file falls back to a fresh ledger seeded
// from initialBalance and is logged, never fatal.
func New(initialBalance float64, opts Options) *Ledger {
	l := &Ledger{
		log:     opts.Logger,
		journal: opts.Journal,
		store:   opts.Store,
		initial: initialBalance,
	}
	if l.log == nil {
		l.log = slog.Default()
	}
	if l.journal == nil {
		l.journal = journal.Noop{}
	}

	if l.store != nil {
		st, err := l.store.Load()
		if err == nil {
			err = l.restore(st)
			if err == nil {
				l.log.Info("ledger state restored",
					"path", l.store.Path(),
					"balance", l.balance,
					"positions", len(l.portfolio),
					"total_trades", l.totalTrades)
				return l
			}
		}
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Info("no ledger state file, starting fresh", "path", l.store.Path())
		} else {
			l.log.Warn("ledger state unusable, starting fresh", "path", l.store.Path(), "error", err)
		}
	}

	l.reset()
	return l
}

// reset seeds a fresh ledger: full cash balance, no positions, and a
// valuation history primed with the starting balance.
func (l *Ledger) reset() {
	l.balance = l.initial
	l.portfolio = make(map[string]int)
	l.trades = nil
	l.tradeLog = nil
	l.totalTrades = 0
	l.values = []float64{l.initial}
	l.dates = []time.Time{time.Now().UTC()}
}

func (l *Ledger) restore(st State) error {
	if len(st.PortfolioHistory) != len(st.PortfolioDates) {
		return fmt.Errorf("history/date length mismatch: %d vs %d",
			len(st.PortfolioHistory), len(st.PortfolioDates))
	}
	if st.Balance < 0 {
		return fmt.Errorf("negative balance %.2f", st.Balance)
	}
	for sym, qty := range st.Portfolio {
		if qty < 0 {
			return fmt.Errorf("negative position %d for %s", qty, sym)
		}
	}

	dates := make([]time.Time, len(st.PortfolioDates))
	for i, raw := range st.PortfolioDates {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("bad portfolio date %q: %w", raw, err)
		}
		dates[i] = t
	}

	l.balance = st.Balance
	l.portfolio = st.Portfolio
	if l.portfolio == nil {
		l.portfolio = make(map[string]int)
	}
	l.totalTrades = st.TotalTrades
	l.values = st.PortfolioHistory
	l.dates = dates
	return nil
}

// Buy purchases quantity shares of symbol at price. It fails silently
// (false, no state change) when the quantity is not positive or the cost
// exceeds the cash balance.
func (l *Ledger) Buy(symbol string, quantity int, price float64, at time.Time) bool {
	if quantity <= 0 {
		return false
	}
	cost := price * float64(quantity)
	if cost > l.balance {
		l.log.Info("buy rejected: insufficient cash",
			"symbol", symbol, "quantity", quantity, "price", price, "balance", l.balance)
		return false
	}

	l.balance -= cost
	l.portfolio[symbol] += quantity
	l.record(journal.Buy, symbol, quantity, price, at)
	l.tradeLog = append(l.tradeLog,
		fmt.Sprintf("Bought %d shares of %s at $%.2f", quantity, symbol, price))

	l.log.Info("trade executed",
		"action", "BUY", "symbol", symbol, "quantity", quantity,
		"price", price, "total", cost, "balance", l.balance)

	l.persist()
	return true
}

// Sell liquidates quantity shares of symbol at price. It fails silently
// (false, no state change) when the quantity is not positive or exceeds
// the held position.
func (l *Ledger) Sell(symbol string, quantity int, price float64, at time.Time) bool {
	if quantity <= 0 {
		return false
	}
	if l.portfolio[symbol] < quantity {
		l.log.Info("sell rejected: insufficient shares",
			"symbol", symbol, "quantity", quantity, "held", l.portfolio[symbol])
		return false
	}

	proceeds := price * float64(quantity)
	l.balance += proceeds
	l.portfolio[symbol] -= quantity
	l.record(journal.Sell, symbol, quantity, price, at)
	l.tradeLog = append(l.tradeLog,
		fmt.Sprintf("Sold %d shares of %s at $%.2f", quantity, symbol, price))

	l.log.Info("trade executed",
		"action", "SELL", "symbol", symbol, "quantity", quantity,
		"price", price, "total", proceeds, "balance", l.balance)

	l.persist()
	return true
}

func (l *Ledger) record(action journal.Action, symbol string, quantity int, price float64, at time.Time) {
	rec := journal.TradeRecord{
		ID:       id.New(),
		Time:     at,
		Action:   action,
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
		Total:    price * float64(quantity),
	}
	l.trades = append(l.trades, rec)
	l.totalTrades++

	if err := l.journal.RecordTrade(rec); err != nil {
		l.log.Warn("journal trade failed", "trade_id", rec.ID, "error", err)
	}
}

// PortfolioValue returns cash plus the market value of all holdings at the
// given prices. A held symbol missing from the price map is a data
// consistency warning: it contributes zero instead of failing the whole
// computation.
func (l *Ledger) PortfolioValue(prices map[string]float64) float64 {
	total := l.balance
	for symbol, quantity := range l.portfolio {
		if quantity == 0 {
			continue
		}
		price, ok := prices[symbol]
		if !ok {
			l.log.Warn("no price for held symbol, valuing at zero",
				"symbol", symbol, "quantity", quantity)
			continue
		}
		total += price * float64(quantity)
	}
	return total
}

// Snapshot appends a (timestamp, portfolio value) point to the valuation
// history and persists. Called once per replay step after all symbols are
// processed.
func (l *Ledger) Snapshot(at time.Time, prices map[string]float64) float64 {
	v := l.PortfolioValue(prices)
	l.values = append(l.values, v)
	l.dates = append(l.dates, at)

	if err := l.journal.RecordValuation(journal.ValuationSnapshot{Time: at, Balance: l.balance, Value: v}); err != nil {
		l.log.Warn("journal valuation failed", "error", err)
	}

	l.persist()
	return v
}

// persist writes the whole state file. A failed write is logged and the
// in-memory operation stands; the next successful persist catches up
// (at-least-once, overwrite-in-place).
func (l *Ledger) persist() {
	if l.store == nil {
		return
	}
	if err := l.store.Save(l.state()); err != nil {
		l.log.Warn("ledger persist failed", "path", l.store.Path(), "error", err)
	}
}

func (l *Ledger) state() State {
	dates := make([]string, len(l.dates))
	for i, t := range l.dates {
		dates[i] = t.Format(time.RFC3339)
	}
	portfolio := make(map[string]int, len(l.portfolio))
	for sym, qty := range l.portfolio {
		portfolio[sym] = qty
	}
	history := make([]float64, len(l.values))
	copy(history, l.values)

	return State{
		Balance:          l.balance,
		Portfolio:        portfolio,
		TotalTrades:      l.totalTrades,
		PortfolioHistory: history,
		PortfolioDates:   dates,
	}
}

// Balance returns the current cash balance.
func (l *Ledger) Balance() float64 { return l.balance }

// InitialBalance returns the balance the run was configured with.
func (l *Ledger) InitialBalance() float64 { return l.initial }

// Position returns the held share count for symbol (zero when absent).
func (l *Ledger) Position(symbol string) int { return l.portfolio[symbol] }

// Positions returns a copy of the holdings map.
func (l *Ledger) Positions() map[string]int {
	out := make(map[string]int, len(l.portfolio))
	for sym, qty := range l.portfolio {
		out[sym] = qty
	}
	return out
}

// TotalTrades returns the monotonically non-decreasing trade counter.
func (l *Ledger) TotalTrades() int { return l.totalTrades }

// Trades returns the trade records of this process lifetime, in order.
func (l *Ledger) Trades() []journal.TradeRecord { return l.trades }

// TradeLog returns the human-readable trade history.
func (l *Ledger) TradeLog() []string { return l.tradeLog }

// ValuationHistory returns the parallel value and timestamp sequences.
func (l *Ledger) ValuationHistory() ([]float64, []time.Time) {
	return l.values, l.dates
}

// LogStatus emits one portfolio-status summary event.
func (l *Ledger) LogStatus(prices map[string]float64) {
	l.log.Info("portfolio status",
		"balance", l.balance,
		"positions", l.Positions(),
		"total_value", l.PortfolioValue(prices),
		"total_trades", l.totalTrades)
}
