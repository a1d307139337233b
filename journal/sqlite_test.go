package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/lorentzian/market"
)

func TestSQLiteJournal_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	entry := sampleEntry()
	exit := sampleExit()
	require.NoError(t, j.Record(entry))
	require.NoError(t, j.Record(exit))

	events, err := j.ListByKey(market.Key{Symbol: "EUR_USD", Timeframe: "H1"})
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.Equal(t, entry.EventID, events[0].EventID)
	require.Equal(t, "entry", events[0].Type)
	require.Equal(t, "long", events[0].Direction)
	require.Equal(t, 5.0, events[0].Prediction)
	require.True(t, entry.Time.Equal(events[0].Time))

	require.Equal(t, "exit", events[1].Type)
	require.Equal(t, "fixed-bars", events[1].Reason)

	// Other keys see nothing.
	events, err = j.ListByKey(market.Key{Symbol: "GBP_USD", Timeframe: "H1"})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestSQLiteJournal_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(sampleEntry()))
	require.NoError(t, j.Close())

	j, err = NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	events, err := j.ListByKey(market.Key{Symbol: "EUR_USD", Timeframe: "H1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
}
