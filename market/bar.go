// Package market defines the bar and stream-key types consumed by the
// scanning engine, along with the data-quality checks applied to incoming
// bars before they touch any per-key state.
package market

import (
	"errors"
	"math"
	"time"
)

// Bar is one OHLCV sample at a fixed time granularity. Immutable once
// ingested; produced externally, consumed once.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// HLC3 returns the (high+low+close)/3 typical price.
func (b Bar) HLC3() float64 {
	return (b.High + b.Low + b.Close) / 3.0
}

// Range returns high-low.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// MissingPrice reports whether any price field is NaN or Inf. Such a bar
// must not be folded into running indicator state: feeding a single NaN
// through a recursive accumulator poisons every later value.
func (b Bar) MissingPrice() bool {
	for _, v := range [4]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Key identifies one isolated stream of bars. All engine state is owned by
// exactly one key; different keys never share state.
type Key struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

func (k Key) String() string {
	return k.Symbol + ":" + k.Timeframe
}

// ErrOutOfOrderBar is reported when a bar's timestamp is not strictly after
// the previous bar for the same key. The bar is rejected; state is untouched.
var ErrOutOfOrderBar = errors.New("market: bar timestamp not after previous bar")
