package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/lorentzian/config"
	"github.com/rustyeddy/lorentzian/journal"
	"github.com/rustyeddy/lorentzian/market"
	"github.com/rustyeddy/lorentzian/pkg/id"
	"github.com/rustyeddy/lorentzian/scanner"
	"github.com/rustyeddy/lorentzian/snapshot"
)

var scanFlags struct {
	configPath string
	barsPath   string
	symbol     string
	timeframe  string
	resume     bool
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Replay a CSV bar file through a scanning session",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFlags.configPath, "config", "c", "", "config file (YAML or JSON)")
	scanCmd.Flags().StringVar(&scanFlags.barsPath, "bars", "", "CSV bar file: time,open,high,low,close,volume")
	scanCmd.Flags().StringVar(&scanFlags.symbol, "symbol", "EUR_USD", "instrument symbol")
	scanCmd.Flags().StringVar(&scanFlags.timeframe, "timeframe", "H1", "bar timeframe")
	scanCmd.Flags().BoolVar(&scanFlags.resume, "resume", false, "restore the latest snapshot before scanning")
	scanCmd.MarkFlagRequired("bars")
	rootCmd.AddCommand(scanCmd)
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var w = zerolog.ConsoleWriter{Out: os.Stderr}
	if !cfg.Pretty {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	if scanFlags.configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(scanFlags.configPath)
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(cfg.Path)
	case "sqlite":
		return journal.NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log)

	sess, err := scanner.NewSession(cfg.Scanner)
	if err != nil {
		return err
	}
	key := market.Key{Symbol: scanFlags.symbol, Timeframe: scanFlags.timeframe}
	ctx := sess.Context(key)

	var jnl journal.Journal
	if jnl, err = openJournal(cfg.Journal); err != nil {
		return err
	}
	if jnl != nil {
		defer jnl.Close()
	}

	var store *snapshot.Store
	if cfg.Snapshot.Path != "" {
		if store, err = snapshot.Open(cfg.Snapshot.Path); err != nil {
			return err
		}
		defer store.Close()
	}

	if scanFlags.resume {
		if store == nil {
			return errors.New("--resume requires snapshot.path in the config")
		}
		state, err := store.Latest(key)
		switch {
		case errors.Is(err, snapshot.ErrNotFound):
			log.Warn().Stringer("key", key).Msg("no snapshot to resume from, starting cold")
		case err != nil:
			return err
		default:
			if err := ctx.Restore(state); err != nil {
				return err
			}
			log.Info().Stringer("key", key).Int("bars", ctx.Bars()).Msg("resumed from snapshot")
		}
	}

	feed, err := openBarFeed(scanFlags.barsPath)
	if err != nil {
		return err
	}
	defer feed.Close()

	log.Info().
		Str("session", sess.ID()).
		Stringer("key", key).
		Int("max_bars_back", cfg.Scanner.MaxBarsBack).
		Int("neighbors", cfg.Scanner.NeighborsCount).
		Msg("scan started")

	var bars, rejected, skipped, entries, exits int
	for {
		b, ok, err := feed.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		bars++

		res := ctx.Process(b)
		switch res.Status {
		case scanner.StatusOutOfOrder:
			rejected++
			log.Warn().Time("bar", b.Time).Err(res.Err).Msg("bar rejected")
			continue
		case scanner.StatusMissingData:
			skipped++
			log.Warn().Time("bar", b.Time).Msg("bar skipped, missing price data")
			continue
		}

		if res.Entry != nil {
			entries++
			log.Info().
				Time("bar", b.Time).
				Str("event", res.Entry.ID).
				Stringer("direction", res.Entry.Direction).
				Float64("prediction", res.Prediction).
				Msg("entry")
			if jnl != nil {
				if err := jnl.Record(journal.Event{
					EventID:    res.Entry.ID,
					Symbol:     key.Symbol,
					Timeframe:  key.Timeframe,
					Time:       b.Time,
					Type:       "entry",
					Direction:  res.Entry.Direction.String(),
					Prediction: res.Prediction,
				}); err != nil {
					return err
				}
			}
		}
		if res.Exit != nil {
			exits++
			log.Info().
				Time("bar", b.Time).
				Stringer("direction", res.Exit.Direction).
				Str("reason", res.Exit.Reason).
				Msg("exit")
			if jnl != nil {
				if err := jnl.Record(journal.Event{
					EventID:    id.New(),
					Symbol:     key.Symbol,
					Timeframe:  key.Timeframe,
					Time:       b.Time,
					Type:       "exit",
					Direction:  res.Exit.Direction.String(),
					Prediction: res.Prediction,
					Reason:     res.Exit.Reason,
				}); err != nil {
					return err
				}
			}
		}

		if store != nil && cfg.Snapshot.EveryBars > 0 && ctx.Bars()%cfg.Snapshot.EveryBars == 0 {
			if _, err := store.Save(ctx.Snapshot()); err != nil {
				return err
			}
			log.Debug().Int("bars", ctx.Bars()).Msg("checkpoint saved")
		}
	}

	if store != nil {
		if _, err := store.Save(ctx.Snapshot()); err != nil {
			return err
		}
	}

	log.Info().
		Int("bars", bars).
		Int("rejected", rejected).
		Int("skipped", skipped).
		Int("entries", entries).
		Int("exits", exits).
		Stringer("signal", ctx.Signal()).
		Msg("scan finished")
	return nil
}
