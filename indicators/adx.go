package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/lorentzian/market"
)

// ADX is a streaming Average Directional Index (Wilder trend strength),
// rescaled from [0,100] into [0,1].
//
// TR and the directional movements are accumulated with Wilder running sums
// (s = s - s/n + x); DX is then Wilder-averaged into ADX.
type ADX struct {
	period int

	prev    market.Bar
	hasPrev bool

	trSum    float64
	plusSum  float64
	minusSum float64

	dx    *RMA
	count int
}

func NewADX(period int) *ADX {
	return &ADX{period: period, dx: NewRMA(period)}
}

func (a *ADX) Name() string {
	return fmt.Sprintf("ADX(%d)", a.period)
}

func (a *ADX) Warmup() int {
	return 2*a.period + 1
}

func (a *ADX) Reset() {
	a.prev = market.Bar{}
	a.hasPrev = false
	a.trSum = 0
	a.plusSum = 0
	a.minusSum = 0
	a.dx.Reset()
	a.count = 0
}

func (a *ADX) Update(b market.Bar) {
	if !a.hasPrev {
		a.prev = b
		a.hasPrev = true
		return
	}

	tr := trueRange(b, a.prev)
	up := b.High - a.prev.High
	down := a.prev.Low - b.Low
	a.prev = b
	a.count++

	var plusDM, minusDM float64
	if up > down {
		plusDM = math.Max(up, 0)
	}
	if down > up {
		minusDM = math.Max(down, 0)
	}

	n := float64(a.period)
	a.trSum = a.trSum - a.trSum/n + tr
	a.plusSum = a.plusSum - a.plusSum/n + plusDM
	a.minusSum = a.minusSum - a.minusSum/n + minusDM

	if a.trSum == 0 {
		a.dx.Push(0)
		return
	}

	diPlus := a.plusSum / a.trSum * 100
	diMinus := a.minusSum / a.trSum * 100

	dx := 0.0
	if den := diPlus + diMinus; den != 0 {
		dx = math.Abs(diPlus-diMinus) / den * 100
	}
	a.dx.Push(dx)
}

func (a *ADX) Ready() bool {
	return a.dx.Ready()
}

// Value returns ADX rescaled from [0,100] into [0,1].
func (a *ADX) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return Rescale(a.dx.Value(), 0, 100, 0, 1)
}

// Raw returns the unscaled ADX in [0,100], as compared against the filter
// threshold.
func (a *ADX) Raw() float64 {
	if !a.Ready() {
		return 0
	}
	return a.dx.Value()
}

// ADXState is the serializable state of an ADX.
type ADXState struct {
	Prev     market.Bar `json:"prev"`
	HasPrev  bool       `json:"has_prev"`
	TRSum    float64    `json:"tr_sum"`
	PlusSum  float64    `json:"plus_sum"`
	MinusSum float64    `json:"minus_sum"`
	DX       RMAState   `json:"dx"`
	Count    int        `json:"count"`
}

func (a *ADX) State() ADXState {
	return ADXState{
		Prev:     a.prev,
		HasPrev:  a.hasPrev,
		TRSum:    a.trSum,
		PlusSum:  a.plusSum,
		MinusSum: a.minusSum,
		DX:       a.dx.State(),
		Count:    a.count,
	}
}

func (a *ADX) Restore(s ADXState) {
	a.prev = s.Prev
	a.hasPrev = s.HasPrev
	a.trSum = s.TRSum
	a.plusSum = s.PlusSum
	a.minusSum = s.MinusSum
	a.dx.Restore(s.DX)
	a.count = s.Count
}
