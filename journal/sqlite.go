package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/lorentzian/market"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Record(e Event) error {
	_, err := j.db.Exec(`
		INSERT INTO signal_events
		(event_id, symbol, timeframe, time, type, direction, prediction, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.Symbol, e.Timeframe, e.Time, e.Type, e.Direction, e.Prediction, e.Reason,
	)
	return err
}

// ListByKey returns the recorded events for one key in time order.
func (j *SQLiteJournal) ListByKey(key market.Key) ([]Event, error) {
	rows, err := j.db.Query(`
		SELECT event_id, symbol, timeframe, time, type, direction, prediction, reason
		FROM signal_events
		WHERE symbol = ? AND timeframe = ?
		ORDER BY time, event_id`,
		key.Symbol, key.Timeframe,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.EventID, &e.Symbol, &e.Timeframe, &e.Time,
			&e.Type, &e.Direction, &e.Prediction, &e.Reason); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
