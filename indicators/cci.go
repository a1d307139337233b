package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/lorentzian/market"
)

// CCI is a streaming Commodity Channel Index over close with an optional
// EMA smoothing pass, normalized into [0,1] against its own running min/max
// range.
//
// The mean deviation is recomputed over the bounded period window each bar;
// work per bar is O(period), independent of total history.
type CCI struct {
	period int
	smooth int

	vals    []float64
	smoothd *EMA
	norm    *MinMax

	last float64
}

func NewCCI(period, smooth int) *CCI {
	return &CCI{
		period:  period,
		smooth:  smooth,
		vals:    make([]float64, 0, period),
		smoothd: NewEMA(smooth),
		norm:    NewMinMax(),
	}
}

func (c *CCI) Name() string {
	return fmt.Sprintf("CCI(%d,%d)", c.period, c.smooth)
}

func (c *CCI) Warmup() int {
	return c.period + c.smooth
}

func (c *CCI) Reset() {
	c.vals = c.vals[:0]
	c.smoothd.Reset()
	c.norm.Reset()
	c.last = 0
}

func (c *CCI) Update(b market.Bar) {
	src := b.Close

	c.vals = append(c.vals, src)
	if len(c.vals) > c.period {
		c.vals = c.vals[1:]
	}
	if len(c.vals) < c.period {
		return
	}

	mean := 0.0
	for _, v := range c.vals {
		mean += v
	}
	mean /= float64(c.period)

	dev := 0.0
	for _, v := range c.vals {
		dev += math.Abs(v - mean)
	}
	dev /= float64(c.period)

	cci := 0.0
	if dev != 0 {
		cci = (src - mean) / (0.015 * dev)
	}

	c.smoothd.Push(cci)
	if !c.smoothd.Ready() {
		return
	}

	c.last = c.smoothd.Value()
	c.norm.Push(c.last)
}

func (c *CCI) Ready() bool {
	return c.smoothd.Ready()
}

func (c *CCI) Value() float64 {
	if !c.Ready() {
		return 0
	}
	return c.norm.Normalize(c.last)
}

// CCIState is the serializable state of a CCI.
type CCIState struct {
	Values []float64   `json:"values"`
	Smooth EMAState    `json:"smooth"`
	Norm   MinMaxState `json:"norm"`
	Last   float64     `json:"last"`
}

func (c *CCI) State() CCIState {
	return CCIState{
		Values: append([]float64(nil), c.vals...),
		Smooth: c.smoothd.State(),
		Norm:   c.norm.State(),
		Last:   c.last,
	}
}

func (c *CCI) Restore(s CCIState) {
	c.vals = append(c.vals[:0], s.Values...)
	c.smoothd.Restore(s.Smooth)
	c.norm.Restore(s.Norm)
	c.last = s.Last
}
