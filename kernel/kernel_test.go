package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func rqConfig() Config {
	return Config{
		Kind:            RationalQuadratic,
		Lookback:        8,
		RelativeWeight:  8,
		RegressionLevel: 25,
		Lag:             2,
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, rqConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown kind", func(c *Config) { c.Kind = "epanechnikov" }},
		{"zero lookback", func(c *Config) { c.Lookback = 0 }},
		{"zero relative weight", func(c *Config) { c.RelativeWeight = 0 }},
		{"negative regression level", func(c *Config) { c.RegressionLevel = -1 }},
		{"lag exceeds lookback", func(c *Config) { c.Lag = 8 }},
		{"negative lag", func(c *Config) { c.Lag = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := rqConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_GaussianIgnoresRelativeWeight(t *testing.T) {
	cfg := rqConfig()
	cfg.Kind = Gaussian
	cfg.RelativeWeight = 0
	require.NoError(t, cfg.Validate())
}

func TestRegression_ConstantSeries(t *testing.T) {
	k, err := New(rqConfig())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		k.Update(42)
	}
	require.True(t, k.Ready())

	// Weights normalize out: the estimate of a constant is the constant.
	require.InDelta(t, 42.0, k.Estimate(), 1e-9)
	require.False(t, k.Bullish())
	require.False(t, k.Bearish())
}

func TestRegression_RisingSeriesIsBullish(t *testing.T) {
	k, err := New(rqConfig())
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		k.Update(100 + float64(i))
	}
	require.True(t, k.Ready())
	require.True(t, k.Bullish())
	require.False(t, k.Bearish())

	// The estimate trails the latest close but tracks the trend.
	require.Less(t, k.Estimate(), 159.0)
	require.Greater(t, k.Estimate(), 100.0)
}

func TestRegression_FallingSeriesIsBearish(t *testing.T) {
	k, err := New(rqConfig())
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		k.Update(200 - float64(i))
	}
	require.True(t, k.Bearish())
	require.False(t, k.Bullish())
}

func TestRegression_FlipOnReversal(t *testing.T) {
	k, err := New(rqConfig())
	require.NoError(t, err)

	var bullFlips, bearFlips int
	// Decline into a trough, then recover.
	for i := 0; i < 40; i++ {
		k.Update(200 - float64(i))
		if k.BullishFlip() {
			bullFlips++
		}
	}
	for i := 0; i < 40; i++ {
		k.Update(160 + float64(i))
		if k.BullishFlip() {
			bullFlips++
		}
		if k.BearishFlip() {
			bearFlips++
		}
	}

	require.Equal(t, 1, bullFlips)
	require.Zero(t, bearFlips)
	require.True(t, k.Bullish())
}

func TestRegression_SmoothingModeBullish(t *testing.T) {
	cfg := rqConfig()
	cfg.Smoothing = true
	k, err := New(cfg)
	require.NoError(t, err)

	// The lag-reduced estimate hugs price closer, so in an uptrend it sits
	// above the primary estimate.
	for i := 0; i < 60; i++ {
		k.Update(100 + float64(i))
	}
	require.True(t, k.Bullish())
	require.False(t, k.Bearish())
}

func TestRegression_GaussianTracksTrend(t *testing.T) {
	cfg := rqConfig()
	cfg.Kind = Gaussian
	k, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		k.Update(100 + float64(i))
	}
	require.True(t, k.Bullish())
	require.False(t, math.IsNaN(k.Estimate()))
}

func TestRegression_NotReadyBeforeThreeBars(t *testing.T) {
	k, err := New(rqConfig())
	require.NoError(t, err)

	k.Update(1)
	k.Update(2)
	require.False(t, k.Ready())
	require.False(t, k.Bullish())
	require.False(t, k.BearishFlip())

	k.Update(3)
	require.True(t, k.Ready())
}

func TestRegression_StateRoundTrip(t *testing.T) {
	a, err := New(rqConfig())
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		a.Update(100 + 5*math.Sin(float64(i)*0.3))
	}

	b, err := New(rqConfig())
	require.NoError(t, err)
	b.Restore(a.State())

	for i := 50; i < 60; i++ {
		v := 100 + 5*math.Sin(float64(i)*0.3)
		a.Update(v)
		b.Update(v)
		require.Equal(t, a.Estimate(), b.Estimate())
		require.Equal(t, a.Bullish(), b.Bullish())
		require.Equal(t, a.BullishFlip(), b.BullishFlip())
	}
}
