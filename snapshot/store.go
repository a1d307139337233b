// Package snapshot persists per-key scanner state so a scanning session can
// resume across process restarts. A snapshot captures the indicator engine,
// feature window, neighbor set, kernel window and signal machine of one key
// as a single atomic unit: the structures are mutually dependent and must
// never be restored piecemeal.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/lorentzian/market"
	"github.com/rustyeddy/lorentzian/pkg/id"
	"github.com/rustyeddy/lorentzian/scanner"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	snapshot_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	taken_at DATETIME NOT NULL,
	state BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_key ON snapshots(symbol, timeframe, snapshot_id);
`

// ErrNotFound is returned by Latest when no snapshot exists for the key.
var ErrNotFound = errors.New("snapshot: not found")

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save writes one key's state in a single statement and returns the
// snapshot ID.
func (s *Store) Save(state scanner.ContextState) (string, error) {
	blob, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("snapshot: marshal state: %w", err)
	}
	sid := id.New()
	_, err = s.db.Exec(`
		INSERT INTO snapshots (snapshot_id, symbol, timeframe, taken_at, state)
		VALUES (?, ?, ?, ?, ?)`,
		sid, state.Key.Symbol, state.Key.Timeframe, time.Now().UTC(), blob,
	)
	if err != nil {
		return "", fmt.Errorf("snapshot: save %s: %w", state.Key, err)
	}
	return sid, nil
}

// SaveAll writes a set of per-key states in one transaction.
func (s *Store) SaveAll(states []scanner.ContextState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, st := range states {
		blob, err := json.Marshal(st)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("snapshot: marshal state for %s: %w", st.Key, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO snapshots (snapshot_id, symbol, timeframe, taken_at, state)
			VALUES (?, ?, ?, ?, ?)`,
			id.New(), st.Key.Symbol, st.Key.Timeframe, time.Now().UTC(), blob,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("snapshot: save %s: %w", st.Key, err)
		}
	}
	return tx.Commit()
}

// Latest loads the most recent snapshot for key. ULIDs sort by generation
// time, so ordering on snapshot_id resolves same-timestamp writes.
func (s *Store) Latest(key market.Key) (scanner.ContextState, error) {
	var blob []byte
	err := s.db.QueryRow(`
		SELECT state FROM snapshots
		WHERE symbol = ? AND timeframe = ?
		ORDER BY snapshot_id DESC LIMIT 1`,
		key.Symbol, key.Timeframe,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return scanner.ContextState{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return scanner.ContextState{}, err
	}

	var state scanner.ContextState
	if err := json.Unmarshal(blob, &state); err != nil {
		return scanner.ContextState{}, fmt.Errorf("snapshot: unmarshal state for %s: %w", key, err)
	}
	return state, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
