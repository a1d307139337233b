package scanner

import (
	"fmt"
	"time"

	"github.com/rustyeddy/lorentzian/classifier"
	"github.com/rustyeddy/lorentzian/kernel"
	"github.com/rustyeddy/lorentzian/market"
	"github.com/rustyeddy/lorentzian/pkg/id"
)

// Context owns all mutable state for one (symbol,timeframe) key and
// processes that key's bars strictly in arrival order. A bar is processed to
// completion before the next is admitted; nothing blocks or suspends
// mid-bar.
//
// A Context is not safe for concurrent use. Isolation across keys is the
// concurrency model: independent contexts share no state, so workers owning
// disjoint keys need no locks.
type Context struct {
	key market.Key
	cfg Settings

	engine  *featureEngine
	clf     *classifier.Classifier
	kern    *kernel.Regression
	machine *Machine

	lastTime time.Time
	bars     int
}

// NewContext validates cfg and builds a fresh context for key.
func NewContext(key market.Key, cfg Settings) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newContext(key, cfg), nil
}

// newContext assumes cfg is already validated.
func newContext(key market.Key, cfg Settings) *Context {
	kern, err := kernel.New(cfg.Kernel.config())
	if err != nil {
		// Settings validation covers the kernel config.
		panic(err)
	}
	return &Context{
		key:     key,
		cfg:     cfg,
		engine:  newFeatureEngine(cfg),
		clf:     classifier.New(cfg.NeighborsCount, cfg.MaxBarsBack, cfg.PredictionHorizon),
		kern:    kern,
		machine: NewMachine(cfg),
	}
}

func (c *Context) Key() market.Key {
	return c.key
}

// Bars returns the number of bars folded into state so far.
func (c *Context) Bars() int {
	return c.bars
}

// Signal returns the currently held signal.
func (c *Context) Signal() Signal {
	return c.machine.Signal()
}

// Process runs one bar through the pipeline: indicator update, feature
// window/classifier step, kernel update, signal transition. Rejected or
// skipped bars leave every structure untouched.
func (c *Context) Process(b market.Bar) BarResult {
	res := BarResult{
		Key:            c.key,
		Time:           b.Time,
		Status:         StatusOK,
		Signal:         c.machine.Signal(),
		WarmupComplete: c.clf.Window().Full(),
	}

	if !c.lastTime.IsZero() && !b.Time.After(c.lastTime) {
		res.Status = StatusOutOfOrder
		res.Err = fmt.Errorf("%w: %s then %s", market.ErrOutOfOrderBar,
			c.lastTime.Format(time.RFC3339), b.Time.Format(time.RFC3339))
		return res
	}
	if b.MissingPrice() {
		// Skipping the whole bar keeps state identical to the bar never
		// having arrived; folding a NaN into any accumulator would poison
		// every later value.
		res.Status = StatusMissingData
		return res
	}

	c.lastTime = b.Time
	c.bars++

	vec, filters, trend := c.engine.Update(b)
	c.kern.Update(b.Close)

	pred, predOK := c.clf.Step(vec, b.Close)

	sig, entry, exit, reason := c.machine.Step(machineInput{
		Prediction:     pred,
		PredictionOK:   predOK,
		FilterAll:      filters.All(),
		KernelBullish:  c.kern.Bullish(),
		KernelBearish:  c.kern.Bearish(),
		KernelBullFlip: c.kern.BullishFlip(),
		KernelBearFlip: c.kern.BearishFlip(),
		Trend:          trend,
	})
	if entry != nil {
		entry.ID = id.New()
	}

	res.WarmupComplete = c.clf.Window().Full()
	res.Prediction = pred
	res.PredictionOK = predOK
	res.Signal = sig
	res.Filters = filters.Map()
	res.Entry = entry
	res.Exit = exit
	res.NoEntryReason = reason
	return res
}

// ContextState is the atomically captured state of one key: the indicator
// engine, feature window, neighbor set, kernel window and machine are
// mutually dependent, so they snapshot and restore together or not at all.
type ContextState struct {
	Key      market.Key       `json:"key"`
	LastTime time.Time        `json:"last_time"`
	Bars     int              `json:"bars"`
	Engine   EngineState      `json:"engine"`
	Model    classifier.State `json:"model"`
	Kernel   kernel.State     `json:"kernel"`
	Machine  MachineState     `json:"machine"`
}

func (c *Context) Snapshot() ContextState {
	return ContextState{
		Key:      c.key,
		LastTime: c.lastTime,
		Bars:     c.bars,
		Engine:   c.engine.State(),
		Model:    c.clf.State(),
		Kernel:   c.kern.State(),
		Machine:  c.machine.State(),
	}
}

// Restore replaces the context's state with a previously captured snapshot.
// The snapshot must have been taken from a context with the same key and
// settings.
func (c *Context) Restore(s ContextState) error {
	if s.Key != c.key {
		return fmt.Errorf("scanner: snapshot key %s does not match context key %s", s.Key, c.key)
	}
	c.lastTime = s.LastTime
	c.bars = s.Bars
	c.engine.Restore(s.Engine)
	c.clf.Restore(s.Model)
	c.kern.Restore(s.Kernel)
	c.machine.Restore(s.Machine)
	return nil
}
