package scanner

import (
	"time"

	"github.com/rustyeddy/lorentzian/market"
)

// Signal is the held directional state for one key.
type Signal int8

const (
	Neutral Signal = 0
	Long    Signal = 1
	Short   Signal = -1
)

func (s Signal) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "neutral"
	}
}

// BarStatus reports how a bar was handled.
type BarStatus string

const (
	// StatusOK: the bar was folded into state normally.
	StatusOK BarStatus = "ok"
	// StatusMissingData: a price field was NaN/Inf; the bar was skipped
	// entirely and state is identical to the bar never having arrived.
	StatusMissingData BarStatus = "missing-data"
	// StatusOutOfOrder: the bar's timestamp was not after the previous
	// bar's; it was rejected and state is untouched.
	StatusOutOfOrder BarStatus = "out-of-order"
)

// NoEntryReason explains why a bar produced no entry event. A suppressed
// entry is not an error; it is the filters doing their job, and mis-tuned
// filters can suppress every entry, so the reason must be observable.
type NoEntryReason string

const (
	NoEntryWarmup       NoEntryReason = "warmup"
	NoEntryNoTransition NoEntryReason = "no-transition"
	NoEntryFilters      NoEntryReason = "filters-failed"
	NoEntryKernel       NoEntryReason = "kernel-disagrees"
	NoEntryTrend        NoEntryReason = "trend-disagrees"
)

// EntryEvent is a confirmed directional entry. ID is a ULID assigned by the
// processing context.
type EntryEvent struct {
	ID        string `json:"id"`
	Direction Signal `json:"direction"`
}

// ExitEvent closes a held position.
type ExitEvent struct {
	Direction Signal `json:"direction"`
	// Reason is one of "fixed-bars", "kernel-flip", "reversal".
	Reason string `json:"reason"`
}

// BarResult is the per-bar output contract. Callers always receive a
// well-formed result; data-quality conditions are reported here rather than
// raised.
type BarResult struct {
	Key  market.Key
	Time time.Time

	Status BarStatus
	// Err carries the sentinel for rejected bars (see market.ErrOutOfOrderBar).
	Err error

	// WarmupComplete is true once the feature window holds max_bars_back
	// entries. Before that, Prediction is unavailable: PredictionOK is
	// false and Prediction must not be read as a meaningful zero.
	WarmupComplete bool
	Prediction     float64
	PredictionOK   bool

	Signal  Signal
	Filters map[string]bool

	Entry *EntryEvent
	Exit  *ExitEvent
	// NoEntryReason is set whenever Entry is nil on a normally processed
	// bar.
	NoEntryReason NoEntryReason
}
