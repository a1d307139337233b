// Package journal records confirmed entry and exit events so a scanning run
// can be audited after the fact.
package journal

import "time"

// Event is one recorded signal event.
type Event struct {
	EventID   string    `json:"event_id"`
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Time      time.Time `json:"time"`

	// Type is "entry" or "exit".
	Type       string  `json:"type"`
	Direction  string  `json:"direction"`
	Prediction float64 `json:"prediction"`
	// Reason is the exit reason ("fixed-bars", "kernel-flip", "reversal");
	// empty for entries.
	Reason string `json:"reason"`
}

// Journal records signal events.
type Journal interface {
	Record(e Event) error
	Close() error
}
