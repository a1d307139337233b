package indicators

// Scalar moving averages. These back the bar-level oscillators (an RSI's
// internal Wilder smoothing, WaveTrend's EMA cascade) and the trend filters,
// so they consume plain samples via Push rather than bars.

// SMA is a streaming Simple Moving Average over a scalar series.
type SMA struct {
	period int
	vals   []float64
	sum    float64
}

func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		vals:   make([]float64, 0, period),
	}
}

func (m *SMA) Push(v float64) {
	m.vals = append(m.vals, v)
	m.sum += v
	if len(m.vals) > m.period {
		m.sum -= m.vals[0]
		m.vals = m.vals[1:]
	}
}

func (m *SMA) Ready() bool {
	return len(m.vals) >= m.period
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(len(m.vals))
}

func (m *SMA) Reset() {
	m.vals = m.vals[:0]
	m.sum = 0
}

// SMAState is the serializable state of an SMA.
type SMAState struct {
	Values []float64 `json:"values"`
}

func (m *SMA) State() SMAState {
	return SMAState{Values: append([]float64(nil), m.vals...)}
}

func (m *SMA) Restore(s SMAState) {
	m.vals = append(m.vals[:0], s.Values...)
	m.sum = 0
	for _, v := range m.vals {
		m.sum += v
	}
}

// EMA is a streaming Exponential Moving Average over a scalar series,
// seeded with the SMA of the first period samples.
type EMA struct {
	period    int
	mult      float64
	count     int
	warmupSum float64
	ema       float64
}

func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		mult:   2.0 / float64(period+1),
	}
}

func (e *EMA) Push(v float64) {
	if e.count < e.period {
		e.warmupSum += v
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = (v-e.ema)*e.mult + e.ema
}

func (e *EMA) Ready() bool {
	return e.count >= e.period
}

func (e *EMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}

func (e *EMA) Reset() {
	e.count = 0
	e.warmupSum = 0
	e.ema = 0
}

// EMAState is the serializable state of an EMA.
type EMAState struct {
	Count     int     `json:"count"`
	WarmupSum float64 `json:"warmup_sum"`
	Value     float64 `json:"value"`
}

func (e *EMA) State() EMAState {
	return EMAState{Count: e.count, WarmupSum: e.warmupSum, Value: e.ema}
}

func (e *EMA) Restore(s EMAState) {
	e.count, e.warmupSum, e.ema = s.Count, s.WarmupSum, s.Value
}

// RMA is a streaming Wilder moving average (a.k.a. smoothed MA) over a
// scalar series, seeded with the SMA of the first period samples. RSI, ATR
// and ADX are all defined on top of it.
type RMA struct {
	period    int
	count     int
	warmupSum float64
	rma       float64
}

func NewRMA(period int) *RMA {
	return &RMA{period: period}
}

func (r *RMA) Push(v float64) {
	if r.count < r.period {
		r.warmupSum += v
		r.count++
		if r.count == r.period {
			r.rma = r.warmupSum / float64(r.period)
		}
		return
	}
	r.rma = (r.rma*float64(r.period-1) + v) / float64(r.period)
}

func (r *RMA) Ready() bool {
	return r.count >= r.period
}

func (r *RMA) Value() float64 {
	if !r.Ready() {
		return 0
	}
	return r.rma
}

func (r *RMA) Reset() {
	r.count = 0
	r.warmupSum = 0
	r.rma = 0
}

// RMAState is the serializable state of an RMA.
type RMAState struct {
	Count     int     `json:"count"`
	WarmupSum float64 `json:"warmup_sum"`
	Value     float64 `json:"value"`
}

func (r *RMA) State() RMAState {
	return RMAState{Count: r.count, WarmupSum: r.warmupSum, Value: r.rma}
}

func (r *RMA) Restore(s RMAState) {
	r.count, r.warmupSum, r.rma = s.Count, s.WarmupSum, s.Value
}
