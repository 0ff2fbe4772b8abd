// Package market holds the price-side data model: OHLCV bars, per-symbol
// price series with replay support, and the tradable symbol universe.
package market

import "time"

// Bar is one OHLCV observation for a symbol at a point in time.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Observation is a single (timestamp, close) point in a Series. Immutable
// once recorded.
type Observation struct {
	Time  time.Time
	Close float64
}
