package scanner

import (
	"github.com/rustyeddy/lorentzian/classifier"
	"github.com/rustyeddy/lorentzian/indicators"
	"github.com/rustyeddy/lorentzian/market"
)

// FilterStates carries the per-bar evaluation of the independent boolean
// filters. A disabled filter passes unconditionally.
type FilterStates struct {
	Volatility bool
	Regime     bool
	ADX        bool
}

// All is the filter gate: every filter must pass before the classifier's
// prediction may change the held signal.
func (f FilterStates) All() bool {
	return f.Volatility && f.Regime && f.ADX
}

// Map renders the states for the per-bar result.
func (f FilterStates) Map() map[string]bool {
	return map[string]bool{
		"volatility": f.Volatility,
		"regime":     f.Regime,
		"adx":        f.ADX,
		"all":        f.All(),
	}
}

// TrendState carries the long-horizon moving-average alignment used to
// confirm entries. A disabled trend filter agrees with both directions.
type TrendState struct {
	EMAUp   bool
	EMADown bool
	SMAUp   bool
	SMADown bool
}

// featureEngine computes the per-bar feature vector and filter states from
// one new bar plus prior indicator state, updating that state in place.
// All work is incremental; nothing re-derives from full history.
type featureEngine struct {
	cfg Settings

	slots []indicators.Oscillator
	kinds []FeatureKind

	vol    *indicators.VolatilityFilter
	regime *indicators.RegimeFilter
	adx    *indicators.ADX

	emaTrend *indicators.EMA
	smaTrend *indicators.SMA
}

// newFeatureEngine assumes cfg has already been validated.
func newFeatureEngine(cfg Settings) *featureEngine {
	e := &featureEngine{
		cfg:      cfg,
		vol:      indicators.NewVolatilityFilter(cfg.VolatilityMinLength, cfg.VolatilityMaxLength, cfg.VolatilityFactor),
		regime:   indicators.NewRegimeFilter(cfg.RegimeThreshold),
		adx:      indicators.NewADX(cfg.ADXFilterLength),
		emaTrend: indicators.NewEMA(cfg.EMAPeriod),
		smaTrend: indicators.NewSMA(cfg.SMAPeriod),
	}
	for _, spec := range cfg.Features[:cfg.FeatureCount] {
		e.kinds = append(e.kinds, spec.Kind)
		switch spec.Kind {
		case FeatureWT:
			e.slots = append(e.slots, indicators.NewWaveTrend(spec.ParamA, spec.ParamB))
		case FeatureCCI:
			e.slots = append(e.slots, indicators.NewCCI(spec.ParamA, spec.ParamB))
		case FeatureADX:
			e.slots = append(e.slots, indicators.NewADX(spec.ParamA))
		default:
			e.slots = append(e.slots, indicators.NewRSI(spec.ParamA, spec.ParamB))
		}
	}
	return e
}

// Update folds one bar into every indicator and returns the feature vector,
// the filter evaluations and the trend alignment. On the earliest bars the
// oscillators bootstrap from partial state; their values settle well inside
// the classifier's much longer warm-up window.
func (e *featureEngine) Update(b market.Bar) (classifier.FeatureVector, FilterStates, TrendState) {
	vec := make(classifier.FeatureVector, len(e.slots))
	for i, osc := range e.slots {
		osc.Update(b)
		vec[i] = osc.Value()
	}

	e.vol.Update(b)
	e.regime.Update(b)
	e.adx.Update(b)
	e.emaTrend.Push(b.Close)
	e.smaTrend.Push(b.Close)

	filters := FilterStates{
		Volatility: !e.cfg.UseVolatilityFilter || e.vol.Pass(),
		Regime:     !e.cfg.UseRegimeFilter || e.regime.Pass(),
		ADX:        !e.cfg.UseADXFilter || (e.adx.Ready() && e.adx.Raw() > e.cfg.ADXThreshold),
	}

	trend := TrendState{
		EMAUp:   !e.cfg.UseEMAFilter || (e.emaTrend.Ready() && b.Close > e.emaTrend.Value()),
		EMADown: !e.cfg.UseEMAFilter || (e.emaTrend.Ready() && b.Close < e.emaTrend.Value()),
		SMAUp:   !e.cfg.UseSMAFilter || (e.smaTrend.Ready() && b.Close > e.smaTrend.Value()),
		SMADown: !e.cfg.UseSMAFilter || (e.smaTrend.Ready() && b.Close < e.smaTrend.Value()),
	}

	return vec, filters, trend
}

// slotState is the tagged serialized form of one feature slot.
type slotState struct {
	Kind FeatureKind                `json:"kind"`
	RSI  *indicators.RSIState       `json:"rsi,omitempty"`
	WT   *indicators.WaveTrendState `json:"wt,omitempty"`
	CCI  *indicators.CCIState       `json:"cci,omitempty"`
	ADX  *indicators.ADXState       `json:"adx,omitempty"`
}

// EngineState is the serializable state of the feature engine.
type EngineState struct {
	Slots    []slotState                      `json:"slots"`
	Vol      indicators.VolatilityFilterState `json:"vol"`
	Regime   indicators.RegimeFilterState     `json:"regime"`
	ADX      indicators.ADXState              `json:"adx"`
	EMATrend indicators.EMAState              `json:"ema_trend"`
	SMATrend indicators.SMAState              `json:"sma_trend"`
}

func (e *featureEngine) State() EngineState {
	s := EngineState{
		Vol:      e.vol.State(),
		Regime:   e.regime.State(),
		ADX:      e.adx.State(),
		EMATrend: e.emaTrend.State(),
		SMATrend: e.smaTrend.State(),
	}
	for i, osc := range e.slots {
		ss := slotState{Kind: e.kinds[i]}
		switch o := osc.(type) {
		case *indicators.WaveTrend:
			st := o.State()
			ss.WT = &st
		case *indicators.CCI:
			st := o.State()
			ss.CCI = &st
		case *indicators.ADX:
			st := o.State()
			ss.ADX = &st
		case *indicators.RSI:
			st := o.State()
			ss.RSI = &st
		}
		s.Slots = append(s.Slots, ss)
	}
	return s
}

func (e *featureEngine) Restore(s EngineState) {
	e.vol.Restore(s.Vol)
	e.regime.Restore(s.Regime)
	e.adx.Restore(s.ADX)
	e.emaTrend.Restore(s.EMATrend)
	e.smaTrend.Restore(s.SMATrend)
	for i, ss := range s.Slots {
		if i >= len(e.slots) {
			break
		}
		switch o := e.slots[i].(type) {
		case *indicators.WaveTrend:
			if ss.WT != nil {
				o.Restore(*ss.WT)
			}
		case *indicators.CCI:
			if ss.CCI != nil {
				o.Restore(*ss.CCI)
			}
		case *indicators.ADX:
			if ss.ADX != nil {
				o.Restore(*ss.ADX)
			}
		case *indicators.RSI:
			if ss.RSI != nil {
				o.Restore(*ss.RSI)
			}
		}
	}
}
