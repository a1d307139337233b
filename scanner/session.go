package scanner

import (
	"sort"

	"github.com/rustyeddy/lorentzian/market"
	"github.com/rustyeddy/lorentzian/pkg/id"
)

// Session holds one isolated Context per (symbol,timeframe) key, all sharing
// the same validated settings. A Session is not safe for concurrent use;
// callers that want parallelism shard keys across workers and hand each
// worker its own contexts via Context; disjoint keys share no state.
type Session struct {
	id       string
	cfg      Settings
	contexts map[market.Key]*Context
}

// NewSession validates cfg once; per-key contexts are created lazily on
// first use.
func NewSession(cfg Settings) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		id:       id.New(),
		cfg:      cfg,
		contexts: make(map[market.Key]*Context),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Settings() Settings {
	return s.cfg
}

// Context returns the context for key, creating it on first use.
func (s *Session) Context(key market.Key) *Context {
	ctx, ok := s.contexts[key]
	if !ok {
		ctx = newContext(key, s.cfg)
		s.contexts[key] = ctx
	}
	return ctx
}

// Process runs one bar through the context owning key.
func (s *Session) Process(key market.Key, b market.Bar) BarResult {
	return s.Context(key).Process(b)
}

// Keys returns the keys seen so far, sorted for stable iteration.
func (s *Session) Keys() []market.Key {
	keys := make([]market.Key, 0, len(s.contexts))
	for k := range s.contexts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Snapshot captures the state of every context, one atomic unit per key.
func (s *Session) Snapshot() []ContextState {
	states := make([]ContextState, 0, len(s.contexts))
	for _, k := range s.Keys() {
		states = append(states, s.contexts[k].Snapshot())
	}
	return states
}

// Restore rebuilds contexts from previously captured states.
func (s *Session) Restore(states []ContextState) error {
	for _, st := range states {
		if err := s.Context(st.Key).Restore(st); err != nil {
			return err
		}
	}
	return nil
}
