package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/lorentzian/market"
)

func TestNewSession_ValidatesOnce(t *testing.T) {
	cfg := testSettings()
	cfg.FeatureCount = 0
	_, err := NewSession(cfg)
	require.Error(t, err)

	sess, err := NewSession(testSettings())
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID())
}

func TestSession_ContextsAreIsolated(t *testing.T) {
	sess, err := NewSession(testSettings())
	require.NoError(t, err)

	eur := market.Key{Symbol: "EUR_USD", Timeframe: "H1"}
	gbp := market.Key{Symbol: "GBP_USD", Timeframe: "H1"}

	for _, b := range trendBars(20) {
		res := sess.Process(eur, b)
		require.Equal(t, StatusOK, res.Status)
	}

	// The other key never saw a bar; its context is untouched.
	require.Equal(t, 20, sess.Context(eur).Bars())
	require.Equal(t, 0, sess.Context(gbp).Bars())

	// Same context back on every lookup.
	require.Same(t, sess.Context(eur), sess.Context(eur))
}

func TestSession_KeysSorted(t *testing.T) {
	sess, err := NewSession(testSettings())
	require.NoError(t, err)

	sess.Context(market.Key{Symbol: "USD_JPY", Timeframe: "H1"})
	sess.Context(market.Key{Symbol: "EUR_USD", Timeframe: "M15"})
	sess.Context(market.Key{Symbol: "EUR_USD", Timeframe: "H1"})

	keys := sess.Keys()
	require.Len(t, keys, 3)
	require.Equal(t, "EUR_USD:H1", keys[0].String())
	require.Equal(t, "EUR_USD:M15", keys[1].String())
	require.Equal(t, "USD_JPY:H1", keys[2].String())
}

func TestSession_SnapshotRestore(t *testing.T) {
	a, err := NewSession(testSettings())
	require.NoError(t, err)

	eur := market.Key{Symbol: "EUR_USD", Timeframe: "H1"}
	gbp := market.Key{Symbol: "GBP_USD", Timeframe: "H1"}
	bars := trendBars(120)
	for _, bar := range bars[:80] {
		a.Process(eur, bar)
		a.Process(gbp, bar)
	}

	states := a.Snapshot()
	require.Len(t, states, 2)

	b, err := NewSession(testSettings())
	require.NoError(t, err)
	require.NoError(t, b.Restore(states))

	for _, bar := range bars[80:] {
		ra := a.Process(eur, bar)
		rb := b.Process(eur, bar)
		require.Equal(t, ra.Signal, rb.Signal)
		require.Equal(t, ra.Prediction, rb.Prediction)
		require.Equal(t, ra.PredictionOK, rb.PredictionOK)
	}
}
