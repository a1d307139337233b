package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lorentzian",
	Short: "Bar-by-bar Lorentzian-classification signal scanner",
	Long: `Lorentzian consumes a stream of OHLCV bars and, for each bar,
incrementally updates a set of stateful indicators, classifies the current
market pattern with a Lorentzian-distance nearest-neighbor model, and emits
a directional signal gated by confirmation filters.

The scan command replays a CSV bar file through a scanning session and
reports entries and exits; snapshots let a session resume where it left off.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
