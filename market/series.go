package market

import (
	"errors"
	"time"
)

// ErrInsufficientHistory is returned by TrailingAverage when fewer
// observations exist than the requested window. Callers treat it as
// "no signal", not as a failure.
var ErrInsufficientHistory = errors.New("market: insufficient history for window")

// SeedPolicy selects which seeded bar provides the initial current price.
type SeedPolicy int

const (
	// SeedFirstClose seeds the current price from the FIRST historical bar
	// even though the history holds the whole list. This mirrors the
	// behavior of the system this replaces; the first replay step's price
	// therefore does not match the most recent historical close.
	// Flagged for product-owner confirmation before changing the default.
	SeedFirstClose SeedPolicy = iota

	// SeedLastClose seeds the current price from the most recent bar.
	SeedLastClose
)

// Series is an ordered, append-only sequence of close-price observations
// for one symbol, with a cursor for replay consumption. A backtest replays
// the seeded bars one per step through Replay; a live run appends freshly
// fetched bars through Advance. The series never shrinks and is not
// persisted across restarts (only the ledger is).
type Series struct {
	Symbol string

	obs    []Observation
	seeded int // number of observations present at seed time
	cursor int // next seeded bar to replay; invariant: cursor <= seeded
	price  float64

	// Fill markers, consumed by the report/charting sink.
	buys  []Observation
	sells []Observation
}

// NewSeries seeds a series with the full historical bar list. The cursor
// starts at zero, so a backtest replays the seeded bars from the beginning.
func NewSeries(symbol string, bars []Bar, policy SeedPolicy) *Series {
	s := &Series{Symbol: symbol}
	s.obs = make([]Observation, 0, 2*len(bars))
	for _, b := range bars {
		s.obs = append(s.obs, Observation{Time: b.Time, Close: b.Close})
	}
	s.seeded = len(s.obs)
	if s.seeded > 0 {
		switch policy {
		case SeedLastClose:
			s.price = s.obs[s.seeded-1].Close
		default:
			s.price = s.obs[0].Close
		}
	}
	return s
}

// Price returns the current price: the close of the bar at the replay
// cursor, or the seed price before any advance.
func (s *Series) Price() float64 { return s.price }

// Len returns the number of observations recorded so far.
func (s *Series) Len() int { return len(s.obs) }

// SeededLen returns the number of bars the series was seeded with, which
// bounds how many replay steps it supports.
func (s *Series) SeededLen() int { return s.seeded }

// Observations returns the recorded observations. The returned slice is
// shared; callers must not mutate it.
func (s *Series) Observations() []Observation { return s.obs }

// Replay advances the backtest cursor by one seeded bar, recording its
// close as a new observation stamped now. When the seeded data is
// exhausted it is a no-op and returns the current price with ok=false.
func (s *Series) Replay(now time.Time) (price float64, ok bool) {
	if s.cursor >= s.seeded {
		return s.price, false
	}
	s.price = s.obs[s.cursor].Close
	s.obs = append(s.obs, Observation{Time: now, Close: s.price})
	s.cursor++
	return s.price, true
}

// Advance appends one freshly fetched bar and makes its close the current
// price. Used in live mode, where every step fetches the newest bar.
func (s *Series) Advance(b Bar) float64 {
	s.price = b.Close
	s.obs = append(s.obs, Observation{Time: b.Time, Close: b.Close})
	if s.cursor < s.seeded {
		s.cursor++
	}
	return s.price
}

// TrailingAverage returns the arithmetic mean of the last window closes.
func (s *Series) TrailingAverage(window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("market: window must be positive")
	}
	if len(s.obs) < window {
		return 0, ErrInsufficientHistory
	}
	sum := 0.0
	for i := len(s.obs) - window; i < len(s.obs); i++ {
		sum += s.obs[i].Close
	}
	return sum / float64(window), nil
}

// MarkBuy records a buy fill marker at the given time and price.
func (s *Series) MarkBuy(t time.Time, price float64) {
	s.buys = append(s.buys, Observation{Time: t, Close: price})
}

// MarkSell records a sell fill marker at the given time and price.
func (s *Series) MarkSell(t time.Time, price float64) {
	s.sells = append(s.sells, Observation{Time: t, Close: price})
}

// Buys returns the recorded buy markers in fill order.
func (s *Series) Buys() []Observation { return s.buys }

// Sells returns the recorded sell markers in fill order.
func (s *Series) Sells() []Observation { return s.sells }
