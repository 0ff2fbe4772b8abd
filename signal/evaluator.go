// Package signal implements the moving-average trade signal and the order
// sizing policy applied on top of it.
package signal

import (
	"errors"

	"github.com/rustyeddy/papertrader/market"
)

const (
	// DefaultWindow is the trailing simple-moving-average window in bars.
	DefaultWindow = 20

	// DefaultBuyFactor buys when the price is 2% below the trailing average.
	DefaultBuyFactor = 0.98

	// DefaultSellFactor sells when the price is 2% above the trailing average.
	DefaultSellFactor = 1.02
)

// Evaluator is a pure, stateless signal over a price series window. Buy and
// sell conditions are not mutually exclusive in general; callers must check
// ShouldBuy before ShouldSell so buy takes priority.
type Evaluator struct {
	Window     int
	BuyFactor  float64
	SellFactor float64
}

// NewEvaluator returns an evaluator with the default window and thresholds.
func NewEvaluator() Evaluator {
	return Evaluator{
		Window:     DefaultWindow,
		BuyFactor:  DefaultBuyFactor,
		SellFactor: DefaultSellFactor,
	}
}

// ShouldBuy reports whether the current price is strictly below the trailing
// average scaled by BuyFactor. Insufficient history means no signal, never
// an error.
func (e Evaluator) ShouldBuy(s *market.Series) bool {
	avg, err := s.TrailingAverage(e.Window)
	if err != nil {
		return false
	}
	return s.Price() < avg*e.BuyFactor
}

// ShouldSell reports whether the current price is strictly above the
// trailing average scaled by SellFactor.
func (e Evaluator) ShouldSell(s *market.Series) bool {
	avg, err := s.TrailingAverage(e.Window)
	if err != nil {
		return false
	}
	return s.Price() > avg*e.SellFactor
}

// Validate checks the evaluator parameters.
func (e Evaluator) Validate() error {
	if e.Window <= 1 {
		return errors.New("signal: window must be > 1")
	}
	if e.BuyFactor <= 0 || e.SellFactor <= 0 {
		return errors.New("signal: factors must be positive")
	}
	if e.BuyFactor >= e.SellFactor {
		return errors.New("signal: buy factor must be below sell factor")
	}
	return nil
}
