package indicators

import (
	"math"

	"github.com/rustyeddy/lorentzian/market"
)

// VolatilityFilter passes when a short-window ATR exceeds a longer-window
// ATR baseline scaled by Factor. With Factor=1 that is simply "volatility is
// above its recent norm".
type VolatilityFilter struct {
	recent   *ATR
	baseline *ATR
	factor   float64
}

func NewVolatilityFilter(minLen, maxLen int, factor float64) *VolatilityFilter {
	return &VolatilityFilter{
		recent:   NewATR(minLen),
		baseline: NewATR(maxLen),
		factor:   factor,
	}
}

func (f *VolatilityFilter) Update(b market.Bar) {
	f.recent.Update(b)
	f.baseline.Update(b)
}

func (f *VolatilityFilter) Ready() bool {
	return f.recent.Ready() && f.baseline.Ready()
}

func (f *VolatilityFilter) Pass() bool {
	if !f.Ready() {
		return false
	}
	return f.recent.Value() > f.factor*f.baseline.Value()
}

func (f *VolatilityFilter) Reset() {
	f.recent.Reset()
	f.baseline.Reset()
}

// VolatilityFilterState is the serializable state of a VolatilityFilter.
type VolatilityFilterState struct {
	Recent   ATRState `json:"recent"`
	Baseline ATRState `json:"baseline"`
}

func (f *VolatilityFilter) State() VolatilityFilterState {
	return VolatilityFilterState{Recent: f.recent.State(), Baseline: f.baseline.State()}
}

func (f *VolatilityFilter) Restore(s VolatilityFilterState) {
	f.recent.Restore(s.Recent)
	f.baseline.Restore(s.Baseline)
}

// RegimeFilter separates trending from ranging markets with an adaptive
// recursive filter over close and passes while the normalized decline of the
// filtered curve's slope stays at or above the threshold.
//
// The recursion is load-bearing and must not be approximated with a plain
// EMA: v1 = 0.2*Δclose + 0.8*v1 and v2 = 0.1*(high-low) + 0.8*v2 feed an
// adaptive gain alpha = (-ω² + √(ω⁴+16ω²))/8 where ω = |v1/v2|.
type RegimeFilter struct {
	threshold float64

	v1   float64
	v2   float64
	klmf float64

	prevClose float64
	hasPrev   bool

	slopeAvg *EMA

	decline     float64
	haveDecline bool
}

// regimeSlopeLen is the span of the exponential average the current slope
// magnitude is compared against.
const regimeSlopeLen = 200

func NewRegimeFilter(threshold float64) *RegimeFilter {
	return &RegimeFilter{
		threshold: threshold,
		slopeAvg:  NewEMA(regimeSlopeLen),
	}
}

func (f *RegimeFilter) Update(b market.Bar) {
	if !f.hasPrev {
		f.prevClose = b.Close
		f.klmf = b.Close
		f.hasPrev = true
		return
	}

	f.v1 = 0.2*(b.Close-f.prevClose) + 0.8*f.v1
	f.v2 = 0.1*(b.High-b.Low) + 0.8*f.v2
	f.prevClose = b.Close

	omega := 0.0
	if f.v2 != 0 {
		omega = math.Abs(f.v1 / f.v2)
	}
	alpha := (-omega*omega + math.Sqrt(omega*omega*omega*omega+16*omega*omega)) / 8

	prev := f.klmf
	f.klmf = alpha*b.Close + (1-alpha)*f.klmf
	absSlope := math.Abs(f.klmf - prev)

	f.slopeAvg.Push(absSlope)
	if avg := f.slopeAvg.Value(); f.slopeAvg.Ready() && avg != 0 {
		f.decline = (absSlope - avg) / avg
		f.haveDecline = true
	} else {
		f.haveDecline = false
	}
}

func (f *RegimeFilter) Ready() bool {
	return f.slopeAvg.Ready()
}

// Pass reports whether the curve slope is holding up against its own
// average. A flat market (zero slope throughout) never passes.
func (f *RegimeFilter) Pass() bool {
	return f.haveDecline && f.decline >= f.threshold
}

func (f *RegimeFilter) Reset() {
	f.v1 = 0
	f.v2 = 0
	f.klmf = 0
	f.prevClose = 0
	f.hasPrev = false
	f.slopeAvg.Reset()
	f.decline = 0
	f.haveDecline = false
}

// RegimeFilterState is the serializable state of a RegimeFilter.
type RegimeFilterState struct {
	V1          float64  `json:"v1"`
	V2          float64  `json:"v2"`
	KLMF        float64  `json:"klmf"`
	PrevClose   float64  `json:"prev_close"`
	HasPrev     bool     `json:"has_prev"`
	SlopeAvg    EMAState `json:"slope_avg"`
	Decline     float64  `json:"decline"`
	HaveDecline bool     `json:"have_decline"`
}

func (f *RegimeFilter) State() RegimeFilterState {
	return RegimeFilterState{
		V1:          f.v1,
		V2:          f.v2,
		KLMF:        f.klmf,
		PrevClose:   f.prevClose,
		HasPrev:     f.hasPrev,
		SlopeAvg:    f.slopeAvg.State(),
		Decline:     f.decline,
		HaveDecline: f.haveDecline,
	}
}

func (f *RegimeFilter) Restore(s RegimeFilterState) {
	f.v1 = s.V1
	f.v2 = s.V2
	f.klmf = s.KLMF
	f.prevClose = s.PrevClose
	f.hasPrev = s.HasPrev
	f.slopeAvg.Restore(s.SlopeAvg)
	f.decline = s.Decline
	f.haveDecline = s.HaveDecline
}
