package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/lorentzian/market"
)

// WaveTrend is a streaming WaveTrend oscillator over the typical price
// (hlc3), normalized into [0,1] against its own running min/max range.
//
// Pipeline: ema1 = EMA(src, n1); ema2 = EMA(|src-ema1|, n1);
// ci = (src-ema1)/(0.015*ema2); wt1 = EMA(ci, n2); wt2 = SMA(wt1, 4);
// output = normalize(wt1-wt2).
type WaveTrend struct {
	channelLen int
	averageLen int

	ema1 *EMA
	ema2 *EMA
	wt1  *EMA
	wt2  *SMA
	norm *MinMax

	last float64
}

func NewWaveTrend(channelLen, averageLen int) *WaveTrend {
	return &WaveTrend{
		channelLen: channelLen,
		averageLen: averageLen,
		ema1:       NewEMA(channelLen),
		ema2:       NewEMA(channelLen),
		wt1:        NewEMA(averageLen),
		wt2:        NewSMA(4),
		norm:       NewMinMax(),
	}
}

func (w *WaveTrend) Name() string {
	return fmt.Sprintf("WT(%d,%d)", w.channelLen, w.averageLen)
}

func (w *WaveTrend) Warmup() int {
	return 2*w.channelLen + w.averageLen + 4
}

func (w *WaveTrend) Reset() {
	w.ema1.Reset()
	w.ema2.Reset()
	w.wt1.Reset()
	w.wt2.Reset()
	w.norm.Reset()
	w.last = 0
}

func (w *WaveTrend) Update(b market.Bar) {
	src := b.HLC3()

	w.ema1.Push(src)
	if !w.ema1.Ready() {
		return
	}

	w.ema2.Push(math.Abs(src - w.ema1.Value()))
	if !w.ema2.Ready() {
		return
	}

	ci := 0.0
	if denom := 0.015 * w.ema2.Value(); denom != 0 {
		ci = (src - w.ema1.Value()) / denom
	}

	w.wt1.Push(ci)
	if !w.wt1.Ready() {
		return
	}

	w.wt2.Push(w.wt1.Value())
	if !w.wt2.Ready() {
		return
	}

	w.last = w.wt1.Value() - w.wt2.Value()
	w.norm.Push(w.last)
}

func (w *WaveTrend) Ready() bool {
	return w.wt2.Ready()
}

func (w *WaveTrend) Value() float64 {
	if !w.Ready() {
		return 0
	}
	return w.norm.Normalize(w.last)
}

// WaveTrendState is the serializable state of a WaveTrend.
type WaveTrendState struct {
	EMA1 EMAState    `json:"ema1"`
	EMA2 EMAState    `json:"ema2"`
	WT1  EMAState    `json:"wt1"`
	WT2  SMAState    `json:"wt2"`
	Norm MinMaxState `json:"norm"`
	Last float64     `json:"last"`
}

func (w *WaveTrend) State() WaveTrendState {
	return WaveTrendState{
		EMA1: w.ema1.State(),
		EMA2: w.ema2.State(),
		WT1:  w.wt1.State(),
		WT2:  w.wt2.State(),
		Norm: w.norm.State(),
		Last: w.last,
	}
}

func (w *WaveTrend) Restore(s WaveTrendState) {
	w.ema1.Restore(s.EMA1)
	w.ema2.Restore(s.EMA2)
	w.wt1.Restore(s.WT1)
	w.wt2.Restore(s.WT2)
	w.norm.Restore(s.Norm)
	w.last = s.Last
}
