package replay

import (
	"time"

	"github.com/rustyeddy/papertrader/journal"
)

// State is the loop lifecycle: initial decisions against historical-only
// data, then repeated stepping, then a terminal stop.
type State int

const (
	Seeding State = iota
	Stepping
	Stopped
)

func (s State) String() string {
	switch s {
	case Seeding:
		return "seeding"
	case Stepping:
		return "stepping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// SymbolStatus classifies the outcome of one symbol within a step.
type SymbolStatus int

const (
	// SymbolOK means the symbol was advanced and evaluated (including a
	// hold decision).
	SymbolOK SymbolStatus = iota

	// SymbolSkipped means no update was available this step (fetch failed
	// or returned empty); the symbol is skipped, not the loop.
	SymbolSkipped
)

// SymbolResult is the per-symbol outcome of one step.
type SymbolResult struct {
	Symbol string
	Status SymbolStatus

	// Action is set when an order was applied this step.
	Action journal.Action

	// Err carries the skip reason for SymbolSkipped.
	Err error
}

// StepResult is the outcome of one replay step.
type StepResult struct {
	Time    time.Time
	Symbols []SymbolResult

	// Value is the portfolio value snapshotted at the end of the step.
	Value float64
}

// Result summarizes a bounded (backtest) run.
type Result struct {
	InitialBalance float64
	FinalValue     float64
	Profit         float64
	ROI            float64
	Steps          int
	Trades         int
}
