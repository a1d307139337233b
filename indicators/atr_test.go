package indicators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestATR_KnownSequence(t *testing.T) {
	atr := NewATR(2)
	require.Equal(t, 3, atr.Warmup())

	bars := []struct{ h, l, c float64 }{
		{2, 1, 1.5},   // previous bar only, no TR yet
		{3, 2, 2.5},   // TR = max(1, 1.5, 0.5) = 1.5
		{4, 2.5, 3},   // TR = max(1.5, 1.5, 0)  = 1.5 -> seed ATR = 1.5
		{5, 4, 4.5},   // TR = max(1, 2, 1)      = 2   -> (1.5 + 2)/2 = 1.75
	}

	for i, b := range bars {
		atr.Update(marketBar(b.h, b.l, b.c))
		if i < 2 {
			require.False(t, atr.Ready())
		}
	}
	require.True(t, atr.Ready())
	require.InDelta(t, 1.75, atr.Value(), 1e-9)
}

func TestATR_FlatMarketIsZero(t *testing.T) {
	atr := NewATR(3)
	for i := 0; i < 10; i++ {
		atr.Update(flatBar(100))
	}
	require.True(t, atr.Ready())
	require.Equal(t, 0.0, atr.Value())
}

func TestATR_StateRoundTrip(t *testing.T) {
	a := NewATR(3)
	for i := 0; i < 12; i++ {
		a.Update(trendBar(i))
	}

	b := NewATR(3)
	b.Restore(a.State())

	a.Update(trendBar(12))
	b.Update(trendBar(12))
	require.Equal(t, a.Value(), b.Value())
}
