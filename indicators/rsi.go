package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/lorentzian/market"
)

// RSI is a streaming Relative Strength Index over close, Wilder-smoothed,
// with an optional extra EMA smoothing pass, normalized to [0,1].
type RSI struct {
	period int
	smooth int

	up      *RMA
	down    *RMA
	smoothd *EMA

	prevClose float64
	hasPrev   bool
}

// NewRSI creates an RSI(period) smoothed by EMA(smooth). smooth=1 is a
// pass-through.
func NewRSI(period, smooth int) *RSI {
	return &RSI{
		period:  period,
		smooth:  smooth,
		up:      NewRMA(period),
		down:    NewRMA(period),
		smoothd: NewEMA(smooth),
	}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d,%d)", r.period, r.smooth)
}

func (r *RSI) Warmup() int {
	return r.period + r.smooth
}

func (r *RSI) Reset() {
	r.up.Reset()
	r.down.Reset()
	r.smoothd.Reset()
	r.prevClose = 0
	r.hasPrev = false
}

func (r *RSI) Update(b market.Bar) {
	if !r.hasPrev {
		r.prevClose = b.Close
		r.hasPrev = true
		return
	}

	ch := b.Close - r.prevClose
	r.prevClose = b.Close
	r.up.Push(math.Max(ch, 0))
	r.down.Push(math.Max(-ch, 0))

	if !r.up.Ready() {
		return
	}

	up := r.up.Value()
	down := r.down.Value()

	var rsi float64
	switch {
	case up == 0 && down == 0:
		// No movement at all: neutral, not overbought.
		rsi = 50
	case down == 0:
		rsi = 100
	case up == 0:
		rsi = 0
	default:
		rsi = 100 - 100/(1+up/down)
	}
	r.smoothd.Push(rsi)
}

func (r *RSI) Ready() bool {
	return r.smoothd.Ready()
}

// Value returns the smoothed RSI rescaled from [0,100] into [0,1].
func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	return Rescale(r.smoothd.Value(), 0, 100, 0, 1)
}

// RSIState is the serializable state of an RSI.
type RSIState struct {
	Up        RMAState `json:"up"`
	Down      RMAState `json:"down"`
	Smooth    EMAState `json:"smooth"`
	PrevClose float64  `json:"prev_close"`
	HasPrev   bool     `json:"has_prev"`
}

func (r *RSI) State() RSIState {
	return RSIState{
		Up:        r.up.State(),
		Down:      r.down.State(),
		Smooth:    r.smoothd.State(),
		PrevClose: r.prevClose,
		HasPrev:   r.hasPrev,
	}
}

func (r *RSI) Restore(s RSIState) {
	r.up.Restore(s.Up)
	r.down.Restore(s.Down)
	r.smoothd.Restore(s.Smooth)
	r.prevClose = s.PrevClose
	r.hasPrev = s.HasPrev
}
