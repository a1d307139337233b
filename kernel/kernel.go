// Package kernel implements a Nadaraya-Watson kernel regression over the
// raw close series. It is independent of the classifier and serves as the
// trend confirmation gate and, optionally, the dynamic exit trigger.
package kernel

import (
	"fmt"
	"math"
)

// Kind selects the weighting kernel.
type Kind string

const (
	// RationalQuadratic behaves like an infinite sum of Gaussians of
	// different length scales; RelativeWeight controls how aggressively
	// near bars dominate far bars.
	RationalQuadratic Kind = "rational-quadratic"
	Gaussian          Kind = "gaussian"
)

// Config parameterizes the regression.
type Config struct {
	Kind Kind

	// Lookback is the kernel bandwidth h in bars.
	Lookback int

	// RelativeWeight is the rational-quadratic shape parameter r; ignored
	// by the Gaussian kernel.
	RelativeWeight float64

	// RegressionLevel extends the estimation window beyond the bandwidth,
	// stiffening the curve.
	RegressionLevel int

	// Smoothing enables the lag-compensated second estimate; trend
	// direction then comes from the two estimates' relative position
	// instead of the primary estimate's rate of change.
	Smoothing bool

	// Lag is the bandwidth reduction of the second estimate.
	Lag int
}

func (c Config) Validate() error {
	switch c.Kind {
	case RationalQuadratic, Gaussian:
	default:
		return fmt.Errorf("kernel: unknown kind %q", c.Kind)
	}
	if c.Lookback <= 0 {
		return fmt.Errorf("kernel: lookback must be positive, got %d", c.Lookback)
	}
	if c.Kind == RationalQuadratic && c.RelativeWeight <= 0 {
		return fmt.Errorf("kernel: relative weight must be positive, got %v", c.RelativeWeight)
	}
	if c.RegressionLevel < 0 {
		return fmt.Errorf("kernel: regression level must be non-negative, got %d", c.RegressionLevel)
	}
	if c.Lag < 0 || c.Lag >= c.Lookback {
		return fmt.Errorf("kernel: lag must be in [0,lookback), got %d", c.Lag)
	}
	return nil
}

// Regression recomputes the weighted estimate over a bounded window of the
// most recent closes each bar: O(window) per bar, independent of total bars
// processed.
type Regression struct {
	cfg    Config
	window int

	closes []float64 // newest last, bounded to window

	yhat1     float64
	prevYhat1 float64
	old1      float64 // yhat1 two bars back

	yhat2     float64
	prevYhat2 float64

	count int
}

func New(cfg Config) (*Regression, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := cfg.Lookback + cfg.RegressionLevel
	return &Regression{
		cfg:    cfg,
		window: w,
		closes: make([]float64, 0, w),
	}, nil
}

func (k *Regression) weight(i int, h float64) float64 {
	fi := float64(i)
	switch k.cfg.Kind {
	case Gaussian:
		return math.Exp(-fi * fi / (2 * h * h))
	default:
		return math.Pow(1+fi*fi/(h*h*2*k.cfg.RelativeWeight), -k.cfg.RelativeWeight)
	}
}

func (k *Regression) estimate(h float64) float64 {
	num, den := 0.0, 0.0
	for i := 0; i < len(k.closes); i++ {
		y := k.closes[len(k.closes)-1-i]
		w := k.weight(i, h)
		num += y * w
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Update folds the next close into the window and recomputes both
// estimates.
func (k *Regression) Update(close float64) {
	k.closes = append(k.closes, close)
	if len(k.closes) > k.window {
		k.closes = k.closes[1:]
	}

	k.old1 = k.prevYhat1
	k.prevYhat1 = k.yhat1
	k.prevYhat2 = k.yhat2

	k.yhat1 = k.estimate(float64(k.cfg.Lookback))
	k.yhat2 = k.estimate(float64(k.cfg.Lookback - k.cfg.Lag))
	k.count++
}

// Ready reports whether enough bars have been seen to evaluate rate changes
// and crossovers.
func (k *Regression) Ready() bool {
	return k.count >= 3
}

// Estimate returns the current smoothed value of the primary estimate.
func (k *Regression) Estimate() float64 {
	return k.yhat1
}

// Bullish reports whether the regression confirms an upward trend: the
// lag-compensated estimate sits on or above the primary one in smoothing
// mode, otherwise the primary estimate is rising.
func (k *Regression) Bullish() bool {
	if !k.Ready() {
		return false
	}
	if k.cfg.Smoothing {
		return k.yhat2 >= k.yhat1
	}
	return k.yhat1 > k.prevYhat1
}

func (k *Regression) Bearish() bool {
	if !k.Ready() {
		return false
	}
	if k.cfg.Smoothing {
		return k.yhat2 <= k.yhat1
	}
	return k.yhat1 < k.prevYhat1
}

// BullishFlip reports a trend-reversal event this bar: in smoothing mode a
// crossover of the lag-compensated estimate above the primary one, otherwise
// the primary estimate's slope turning positive.
func (k *Regression) BullishFlip() bool {
	if !k.Ready() {
		return false
	}
	if k.cfg.Smoothing {
		return k.prevYhat2 <= k.prevYhat1 && k.yhat2 > k.yhat1
	}
	return k.yhat1 > k.prevYhat1 && k.prevYhat1 < k.old1
}

func (k *Regression) BearishFlip() bool {
	if !k.Ready() {
		return false
	}
	if k.cfg.Smoothing {
		return k.prevYhat2 >= k.prevYhat1 && k.yhat2 < k.yhat1
	}
	return k.yhat1 < k.prevYhat1 && k.prevYhat1 > k.old1
}

func (k *Regression) Reset() {
	k.closes = k.closes[:0]
	k.yhat1, k.prevYhat1, k.old1 = 0, 0, 0
	k.yhat2, k.prevYhat2 = 0, 0
	k.count = 0
}

// State is the serializable state of a Regression.
type State struct {
	Closes    []float64 `json:"closes"`
	Yhat1     float64   `json:"yhat1"`
	PrevYhat1 float64   `json:"prev_yhat1"`
	Old1      float64   `json:"old1"`
	Yhat2     float64   `json:"yhat2"`
	PrevYhat2 float64   `json:"prev_yhat2"`
	Count     int       `json:"count"`
}

func (k *Regression) State() State {
	return State{
		Closes:    append([]float64(nil), k.closes...),
		Yhat1:     k.yhat1,
		PrevYhat1: k.prevYhat1,
		Old1:      k.old1,
		Yhat2:     k.yhat2,
		PrevYhat2: k.prevYhat2,
		Count:     k.count,
	}
}

func (k *Regression) Restore(s State) {
	k.closes = append(k.closes[:0], s.Closes...)
	k.yhat1 = s.Yhat1
	k.prevYhat1 = s.PrevYhat1
	k.old1 = s.Old1
	k.yhat2 = s.Yhat2
	k.prevYhat2 = s.PrevYhat2
	k.count = s.Count
}
