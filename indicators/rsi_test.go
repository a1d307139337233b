package indicators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRSI_KnownSequence(t *testing.T) {
	rsi := NewRSI(3, 1)

	// closes: 10, 11, 10.5, 11.5
	// changes: +1, -0.5, +1
	// up RMA seed   = (1 + 0 + 1)/3   = 2/3
	// down RMA seed = (0 + 0.5 + 0)/3 = 1/6
	// rsi = 100 - 100/(1 + (2/3)/(1/6)) = 80 -> 0.8 normalized
	for _, c := range []float64{10, 11, 10.5, 11.5} {
		rsi.Update(flatBar(c))
	}
	require.True(t, rsi.Ready())
	require.InDelta(t, 0.8, rsi.Value(), 1e-9)
}

func TestRSI_OnlyGains(t *testing.T) {
	rsi := NewRSI(3, 1)
	for c := 0; c < 10; c++ {
		rsi.Update(flatBar(float64(100 + c)))
	}
	require.True(t, rsi.Ready())
	require.InDelta(t, 1.0, rsi.Value(), 1e-9)
}

func TestRSI_OnlyLosses(t *testing.T) {
	rsi := NewRSI(3, 1)
	for c := 0; c < 10; c++ {
		rsi.Update(flatBar(float64(100 - c)))
	}
	require.True(t, rsi.Ready())
	require.InDelta(t, 0.0, rsi.Value(), 1e-9)
}

func TestRSI_FlatSeriesIsNeutral(t *testing.T) {
	rsi := NewRSI(3, 1)
	for c := 0; c < 10; c++ {
		rsi.Update(flatBar(42))
	}
	require.True(t, rsi.Ready())

	// No movement at all is neutral, not overbought.
	require.InDelta(t, 0.5, rsi.Value(), 1e-9)
}

func TestRSI_WarmupAndReset(t *testing.T) {
	rsi := NewRSI(3, 2)
	require.Equal(t, 5, rsi.Warmup())
	require.False(t, rsi.Ready())
	require.Equal(t, 0.0, rsi.Value())

	for c := 0; c < 10; c++ {
		rsi.Update(flatBar(float64(100 + c)))
	}
	require.True(t, rsi.Ready())

	rsi.Reset()
	require.False(t, rsi.Ready())
	require.Equal(t, 0.0, rsi.Value())
}

func TestRSI_StateRoundTrip(t *testing.T) {
	a := NewRSI(3, 2)
	for c := 0; c < 8; c++ {
		a.Update(flatBar(float64(100 + c*c%5)))
	}

	b := NewRSI(3, 2)
	b.Restore(a.State())

	for c := 0; c < 4; c++ {
		bar := flatBar(float64(103 + c))
		a.Update(bar)
		b.Update(bar)
		require.Equal(t, a.Value(), b.Value())
	}
}
