package journal

const Schema = `
CREATE TABLE IF NOT EXISTS signal_events (
	event_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	time DATETIME NOT NULL,
	type TEXT NOT NULL,
	direction TEXT NOT NULL,
	prediction REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signal_events_key ON signal_events(symbol, timeframe, time);
`
