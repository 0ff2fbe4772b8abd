package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/papertrader/market"
)

// flatSeries returns a series of n bars at the given close, with the
// current price forced to price via one extra live bar.
func flatSeries(t *testing.T, n int, flat, price float64) *market.Series {
	t.Helper()

	bars := make([]market.Bar, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = market.Bar{Time: base.AddDate(0, 0, i), Close: flat}
	}
	s := market.NewSeries("TEST", bars, market.SeedFirstClose)
	s.Advance(market.Bar{Time: base.AddDate(0, 0, n), Close: price})
	return s
}

func TestShouldBuy(t *testing.T) {
	t.Parallel()

	e := NewEvaluator()

	tests := []struct {
		name  string
		price float64
		want  bool
	}{
		// 20 flat closes at 100 plus the current price: the window mean
		// shifts with the appended bar, so thresholds are computed below.
		{"well_below", 80, true},
		{"just_above_threshold", 98, false},
		{"at_mean", 100, false},
		{"above_mean", 110, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := flatSeries(t, 20, 100, tt.price)
			assert.Equal(t, tt.want, e.ShouldBuy(s))
		})
	}
}

func TestShouldBuyBoundaryExact(t *testing.T) {
	t.Parallel()

	// Window [4, 4, 6, 2] has mean 4; with BuyFactor 0.5 the threshold is
	// exactly 2, the current price. Strict inequality: no signal at the
	// boundary, signal one tick below it.
	e := Evaluator{Window: 4, BuyFactor: 0.5, SellFactor: 2.0}

	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	var bars []market.Bar
	for i, c := range []float64{4, 4, 6} {
		bars = append(bars, market.Bar{Time: base.AddDate(0, 0, i), Close: c})
	}
	s := market.NewSeries("TEST", bars, market.SeedLastClose)
	s.Advance(market.Bar{Time: base.AddDate(0, 0, 3), Close: 2})

	assert.False(t, e.ShouldBuy(s))

	// A price clearly below the scaled mean flips the signal: window
	// [4, 6, 2, 0.5] has mean 3.125, threshold 1.5625.
	s.Advance(market.Bar{Time: base.AddDate(0, 0, 4), Close: 0.5})
	assert.True(t, e.ShouldBuy(s))
}

func TestShouldSell(t *testing.T) {
	t.Parallel()

	e := NewEvaluator()

	tests := []struct {
		name  string
		price float64
		want  bool
	}{
		{"well_above", 130, true},
		{"at_mean", 100, false},
		{"just_below_threshold", 102, false},
		{"below_mean", 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := flatSeries(t, 20, 100, tt.price)
			assert.Equal(t, tt.want, e.ShouldSell(s))
		})
	}
}

func TestInsufficientHistoryIsNoSignal(t *testing.T) {
	t.Parallel()

	e := NewEvaluator()
	s := flatSeries(t, 5, 100, 50)

	assert.False(t, e.ShouldBuy(s))
	assert.False(t, e.ShouldSell(s))
}

func TestEvaluatorValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewEvaluator().Validate())
	assert.Error(t, Evaluator{Window: 1, BuyFactor: 0.98, SellFactor: 1.02}.Validate())
	assert.Error(t, Evaluator{Window: 20, BuyFactor: 0, SellFactor: 1.02}.Validate())
	assert.Error(t, Evaluator{Window: 20, BuyFactor: 1.02, SellFactor: 0.98}.Validate())
}
