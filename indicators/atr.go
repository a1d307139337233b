package indicators

import (
	"fmt"

	"github.com/rustyeddy/lorentzian/market"
)

// ATR is a streaming Average True Range with Wilder smoothing, seeded with
// the simple average of the first period true ranges.
type ATR struct {
	period int

	atr       float64
	count     int
	warmupSum float64

	prev    market.Bar
	hasPrev bool
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

func (a *ATR) Warmup() int {
	// TR requires a previous bar.
	return a.period + 1
}

func (a *ATR) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.prev = market.Bar{}
	a.hasPrev = false
}

func (a *ATR) Update(b market.Bar) {
	if !a.hasPrev {
		a.prev = b
		a.hasPrev = true
		return
	}

	tr := trueRange(b, a.prev)
	a.prev = b

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
		return
	}

	a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

// ATRState is the serializable state of an ATR.
type ATRState struct {
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	WarmupSum float64    `json:"warmup_sum"`
	Prev      market.Bar `json:"prev"`
	HasPrev   bool       `json:"has_prev"`
}

func (a *ATR) State() ATRState {
	return ATRState{
		Value:     a.atr,
		Count:     a.count,
		WarmupSum: a.warmupSum,
		Prev:      a.prev,
		HasPrev:   a.hasPrev,
	}
}

func (a *ATR) Restore(s ATRState) {
	a.atr = s.Value
	a.count = s.Count
	a.warmupSum = s.WarmupSum
	a.prev = s.Prev
	a.hasPrev = s.HasPrev
}
