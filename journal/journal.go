// Package journal records executed trades and portfolio valuations to
// durable sinks (SQLite or CSV) for after-the-fact analysis. It is an
// append-only audit trail; the ledger's own state file is what survives
// restarts.
package journal

import "time"

// Action is the trade direction.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// TradeRecord is one executed order.
type TradeRecord struct {
	ID       string
	Time     time.Time
	Action   Action
	Symbol   string
	Quantity int
	Price    float64
	Total    float64
}

// ValuationSnapshot is the portfolio value at the end of one replay step.
type ValuationSnapshot struct {
	Time    time.Time
	Balance float64
	Value   float64
}

// Journal is the sink for trade and valuation events.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordValuation(ValuationSnapshot) error
	Close() error
}

// Noop discards everything. Used when journaling is disabled.
type Noop struct{}

func (Noop) RecordTrade(TradeRecord) error           { return nil }
func (Noop) RecordValuation(ValuationSnapshot) error { return nil }
func (Noop) Close() error                            { return nil }
