package indicators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVolatilityFilter_ExpandingRangesPass(t *testing.T) {
	f := NewVolatilityFilter(1, 3, 1.0)

	for i := 0; i < 20; i++ {
		f.Update(trendBar(i))
	}
	require.True(t, f.Ready())

	// Ranges widen every bar, so the latest true range sits above the
	// longer-window baseline.
	require.True(t, f.Pass())
}

func TestVolatilityFilter_ContractingRangesFail(t *testing.T) {
	f := NewVolatilityFilter(1, 3, 1.0)

	for i := 0; i < 20; i++ {
		c := 100.0
		spread := 2.0 - 0.05*float64(i)
		f.Update(marketBar(c+spread, c-spread, c))
	}
	require.True(t, f.Ready())
	require.False(t, f.Pass())
}

func TestVolatilityFilter_FlatMarketFails(t *testing.T) {
	f := NewVolatilityFilter(1, 3, 1.0)
	for i := 0; i < 20; i++ {
		f.Update(flatBar(100))
	}
	require.True(t, f.Ready())
	require.False(t, f.Pass())
}

func TestVolatilityFilter_NotReadyNeverPasses(t *testing.T) {
	f := NewVolatilityFilter(1, 10, 1.0)
	for i := 0; i < 5; i++ {
		f.Update(trendBar(i))
	}
	require.False(t, f.Ready())
	require.False(t, f.Pass())
}

func TestRegimeFilter_FlatMarketNeverPasses(t *testing.T) {
	f := NewRegimeFilter(-0.1)

	for i := 0; i < 250; i++ {
		f.Update(flatBar(100))
		require.False(t, f.Pass())
	}
}

func TestRegimeFilter_SteadyTrendPasses(t *testing.T) {
	f := NewRegimeFilter(-0.1)

	for i := 0; i < 250; i++ {
		f.Update(trendBar(i))
	}
	require.True(t, f.Ready())

	// The filtered curve climbs at a steady rate, so its slope holds up
	// against its own long average.
	require.True(t, f.Pass())
}

func TestRegimeFilter_NotPassingBeforeWarmup(t *testing.T) {
	f := NewRegimeFilter(-0.1)
	for i := 0; i < 50; i++ {
		f.Update(trendBar(i))
		require.False(t, f.Pass())
	}
}

func TestFilters_StateRoundTrip(t *testing.T) {
	t.Run("volatility", func(t *testing.T) {
		a := NewVolatilityFilter(2, 5, 1.0)
		for i := 0; i < 30; i++ {
			a.Update(trendBar(i))
		}
		b := NewVolatilityFilter(2, 5, 1.0)
		b.Restore(a.State())

		for i := 30; i < 40; i++ {
			a.Update(trendBar(i))
			b.Update(trendBar(i))
			require.Equal(t, a.Pass(), b.Pass())
		}
	})

	t.Run("regime", func(t *testing.T) {
		a := NewRegimeFilter(-0.1)
		for i := 0; i < 230; i++ {
			a.Update(trendBar(i))
		}
		b := NewRegimeFilter(-0.1)
		b.Restore(a.State())

		for i := 230; i < 240; i++ {
			a.Update(trendBar(i))
			b.Update(trendBar(i))
			require.Equal(t, a.Pass(), b.Pass())
		}
	})
}
