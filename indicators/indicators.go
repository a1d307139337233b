// Package indicators provides the streaming technical indicators behind the
// scanner's feature vectors and filters.
//
// Every indicator is incremental: Update consumes the next *closed* bar (or
// scalar sample) and does bounded work against previous state, never
// re-scanning history. Values are therefore path-dependent in exactly the way
// a long-running chart session is, which is the semantics the classifier
// depends on.
package indicators

import (
	"math"

	"github.com/rustyeddy/lorentzian/market"
)

// Oscillator consumes closed bars and produces one streaming value.
// Deterministic and safe to use in live, replay, and backtest runs.
type Oscillator interface {
	// Name returns a stable identifier like "RSI(14,1)" or "WT(10,11)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value. Callers should always check Ready().
	Value() float64
}

// Rescale maps v from [oldMin,oldMax] into [newMin,newMax]. A degenerate
// source range is widened by epsilon rather than dividing by zero.
func Rescale(v, oldMin, oldMax, newMin, newMax float64) float64 {
	return newMin + (newMax-newMin)*(v-oldMin)/math.Max(oldMax-oldMin, 1e-10)
}

// MinMax tracks the running historical minimum and maximum of a series and
// rescales samples into [0,1] against that range. The range only ever
// widens; it is never recomputed from a window.
type MinMax struct {
	min  float64
	max  float64
	seen bool
}

func NewMinMax() *MinMax {
	return &MinMax{}
}

func (m *MinMax) Push(v float64) {
	if !m.seen {
		m.min, m.max, m.seen = v, v, true
		return
	}
	m.min = math.Min(m.min, v)
	m.max = math.Max(m.max, v)
}

// Normalize rescales v into [0,1] against the running range, clamped. While
// the range is degenerate (max == min) it returns the midpoint 0.5.
func (m *MinMax) Normalize(v float64) float64 {
	if !m.seen || m.max == m.min {
		return 0.5
	}
	n := (v - m.min) / (m.max - m.min)
	return math.Max(0, math.Min(1, n))
}

func (m *MinMax) Reset() {
	m.min, m.max, m.seen = 0, 0, false
}

// MinMaxState is the serializable state of a MinMax normalizer.
type MinMaxState struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Seen bool    `json:"seen"`
}

func (m *MinMax) State() MinMaxState {
	return MinMaxState{Min: m.min, Max: m.max, Seen: m.seen}
}

func (m *MinMax) Restore(s MinMaxState) {
	m.min, m.max, m.seen = s.Min, s.Max, s.Seen
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}
