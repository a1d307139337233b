package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "none", cfg.Journal.Type)
	require.Equal(t, 2000, cfg.Scanner.MaxBarsBack)
}

func TestLoadFromFile_YAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scanner:
  neighbors_count: 12
  max_bars_back: 500
journal:
  type: csv
  path: events.csv
log:
  level: debug
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Equal(t, 12, cfg.Scanner.NeighborsCount)
	require.Equal(t, 500, cfg.Scanner.MaxBarsBack)
	require.Equal(t, "csv", cfg.Journal.Type)
	require.Equal(t, "debug", cfg.Log.Level)

	// Untouched fields keep their defaults.
	require.Equal(t, 5, cfg.Scanner.FeatureCount)
	require.Len(t, cfg.Scanner.Features, 5)
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scanner":{"neighbors_count":4}}`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Scanner.NeighborsCount)
}

func TestLoadFromFile_InvalidSettingsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanner:\n  neighbors_count: -1\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_JournalAndSnapshot(t *testing.T) {
	cfg := Default()
	cfg.Journal.Type = "csv"
	require.Error(t, cfg.Validate(), "csv journal needs a path")

	cfg.Journal.Path = "events.csv"
	require.NoError(t, cfg.Validate())

	cfg.Journal.Type = "postgres"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Snapshot.EveryBars = 500
	require.Error(t, cfg.Validate(), "periodic snapshots need a path")

	cfg.Snapshot.Path = "snapshots.db"
	require.NoError(t, cfg.Validate())
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Scanner.NeighborsCount = 11
	cfg.Log.Level = "warn"

	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveToFile(path))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err)
		require.Equal(t, 11, loaded.Scanner.NeighborsCount)
		require.Equal(t, "warn", loaded.Log.Level)
	}
}
