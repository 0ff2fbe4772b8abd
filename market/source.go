package market

import (
	"context"
	"errors"
	"time"
)

// ErrNoData is the explicit empty-result marker: the provider answered but
// has no bars for the requested symbol and range. The replay loop treats it
// as "skip this symbol for the step", never as fatal.
var ErrNoData = errors.New("market: no data for symbol")

// Interval is a bar granularity accepted by data providers.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
)

// BarRequest asks for historical bars for one symbol. Either a Start/End
// range or a Lookback from now may be given; Lookback wins when both are
// set.
type BarRequest struct {
	Symbol   string
	Start    time.Time
	End      time.Time
	Lookback time.Duration
	Interval Interval
}

// BarSource fetches historical or current bars from a market-data
// provider.
type BarSource interface {
	GetBars(ctx context.Context, req BarRequest) ([]Bar, error)
}
