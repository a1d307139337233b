// Package classifier implements the Lorentzian-distance nearest-neighbor
// model: a bounded sliding window of historical feature vectors with
// deferred training labels, and a persistent FIFO-capped neighbor set.
package classifier

// FeatureVector is a fixed-size ordered tuple of normalized oscillator
// values, computed fresh every bar and never retroactively altered.
type FeatureVector []float64

// Entry is one historical observation in the window. Its training label is
// only knowable a fixed horizon after insertion, so Labeled stays false for
// the newest horizon entries.
type Entry struct {
	Vec     FeatureVector `json:"vec"`
	Close   float64       `json:"close"`
	Seq     uint64        `json:"seq"`
	Label   int           `json:"label"`
	Labeled bool          `json:"labeled"`
}

// FeatureWindow is a ring-buffer-backed FIFO of entries, oldest first,
// bounded to its capacity. Appends evict the oldest entry once full; the
// window never shrinks.
type FeatureWindow struct {
	buf     []Entry
	start   int
	length  int
	horizon int
	seq     uint64
}

func NewFeatureWindow(capacity, horizon int) *FeatureWindow {
	return &FeatureWindow{
		buf:     make([]Entry, capacity),
		horizon: horizon,
	}
}

func (w *FeatureWindow) Len() int {
	return w.length
}

func (w *FeatureWindow) Cap() int {
	return len(w.buf)
}

// Full reports whether the warm-up window has been filled.
func (w *FeatureWindow) Full() bool {
	return w.length == len(w.buf)
}

// At returns the entry at oldest-first index i.
func (w *FeatureWindow) At(i int) *Entry {
	return &w.buf[(w.start+i)%len(w.buf)]
}

// Append inserts the newest observation at the tail, evicting the oldest
// entry when the window is full.
func (w *FeatureWindow) Append(vec FeatureVector, close float64) {
	e := Entry{Vec: vec, Close: close, Seq: w.seq}
	w.seq++

	if w.length < len(w.buf) {
		w.buf[(w.start+w.length)%len(w.buf)] = e
		w.length++
		return
	}
	w.buf[w.start] = e
	w.start = (w.start + 1) % len(w.buf)
}

// ResolveLabel writes the training label for the entry inserted horizon
// bars ago, now that its forward price change is observable: +1 if the
// current close is above that entry's close, -1 if below, 0 if equal.
// Call once per bar with the new bar's close, before appending it.
func (w *FeatureWindow) ResolveLabel(close float64) {
	idx := w.length - w.horizon
	if idx < 0 {
		return
	}
	e := w.At(idx)
	if e.Labeled {
		return
	}
	switch {
	case close > e.Close:
		e.Label = 1
	case close < e.Close:
		e.Label = -1
	default:
		e.Label = 0
	}
	e.Labeled = true
}

// WindowState is the serializable state of a FeatureWindow.
type WindowState struct {
	Entries []Entry `json:"entries"`
	Seq     uint64  `json:"seq"`
}

func (w *FeatureWindow) State() WindowState {
	entries := make([]Entry, w.length)
	for i := 0; i < w.length; i++ {
		entries[i] = *w.At(i)
	}
	return WindowState{Entries: entries, Seq: w.seq}
}

func (w *FeatureWindow) Restore(s WindowState) {
	w.start = 0
	w.length = 0
	w.seq = 0
	for i := range s.Entries {
		e := s.Entries[i]
		w.Append(e.Vec, e.Close)
		cur := w.At(w.length - 1)
		cur.Seq = e.Seq
		cur.Label = e.Label
		cur.Labeled = e.Labeled
	}
	w.seq = s.Seq
}
