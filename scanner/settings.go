// Package scanner wires the indicator engine, the Lorentzian classifier,
// the kernel regression filter and the signal state machine into a per-key
// bar processor.
package scanner

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/rustyeddy/lorentzian/kernel"
)

// FeatureKind selects which oscillator feeds a feature slot. The set is
// closed; slots are dispatched over it at construction time, not per call.
type FeatureKind string

const (
	FeatureRSI FeatureKind = "rsi"
	FeatureWT  FeatureKind = "wt"
	FeatureCCI FeatureKind = "cci"
	FeatureADX FeatureKind = "adx"
)

// FeatureSpec configures one feature slot. ParamA is the oscillator's main
// length; ParamB is the smoothing length (ignored by adx).
type FeatureSpec struct {
	Kind   FeatureKind `yaml:"kind" json:"kind" validate:"oneof=rsi wt cci adx"`
	ParamA int         `yaml:"param_a" json:"param_a" validate:"gt=0"`
	ParamB int         `yaml:"param_b" json:"param_b" validate:"gte=0"`
}

// ExitMode selects how held positions are closed.
type ExitMode string

const (
	// ExitFixedBars closes after a fixed holding period.
	ExitFixedBars ExitMode = "fixed-bars"
	// ExitDynamicKernel closes on a kernel trend flip opposing the held
	// position.
	ExitDynamicKernel ExitMode = "dynamic-kernel"
)

// KernelSettings parameterize the trend confirmation filter.
type KernelSettings struct {
	Kind            string  `yaml:"kind" json:"kind" default:"rational-quadratic" validate:"oneof=rational-quadratic gaussian"`
	Lookback        int     `yaml:"lookback" json:"lookback" default:"8" validate:"gt=0"`
	RelativeWeight  float64 `yaml:"relative_weight" json:"relative_weight" default:"8" validate:"gt=0"`
	RegressionLevel int     `yaml:"regression_level" json:"regression_level" default:"25" validate:"gte=0"`
	UseSmoothing    bool    `yaml:"use_smoothing" json:"use_smoothing"`
	Lag             int     `yaml:"lag" json:"lag" default:"2" validate:"gte=0"`
}

func (k KernelSettings) config() kernel.Config {
	return kernel.Config{
		Kind:            kernel.Kind(k.Kind),
		Lookback:        k.Lookback,
		RelativeWeight:  k.RelativeWeight,
		RegressionLevel: k.RegressionLevel,
		Smoothing:       k.UseSmoothing,
		Lag:             k.Lag,
	}
}

// Settings is the immutable configuration consumed by every component of a
// scanning session. Build it with DefaultSettings and override fields, or
// load it from a config file; either way it is validated eagerly at session
// construction and never silently corrected.
type Settings struct {
	NeighborsCount    int           `yaml:"neighbors_count" json:"neighbors_count" default:"8" validate:"gt=0"`
	MaxBarsBack       int           `yaml:"max_bars_back" json:"max_bars_back" default:"2000" validate:"gt=0"`
	FeatureCount      int           `yaml:"feature_count" json:"feature_count" default:"5" validate:"gte=2,lte=5"`
	Features          []FeatureSpec `yaml:"features" json:"features" validate:"dive"`
	PredictionHorizon int           `yaml:"prediction_horizon" json:"prediction_horizon" default:"4" validate:"gt=0"`

	UseVolatilityFilter bool    `yaml:"use_volatility_filter" json:"use_volatility_filter"`
	VolatilityMinLength int     `yaml:"volatility_min_length" json:"volatility_min_length" default:"1" validate:"gt=0"`
	VolatilityMaxLength int     `yaml:"volatility_max_length" json:"volatility_max_length" default:"10" validate:"gt=0"`
	VolatilityFactor    float64 `yaml:"volatility_factor" json:"volatility_factor" default:"1.0" validate:"gt=0"`

	UseRegimeFilter bool    `yaml:"use_regime_filter" json:"use_regime_filter"`
	RegimeThreshold float64 `yaml:"regime_threshold" json:"regime_threshold" default:"-0.1"`

	UseADXFilter    bool    `yaml:"use_adx_filter" json:"use_adx_filter"`
	ADXFilterLength int     `yaml:"adx_filter_length" json:"adx_filter_length" default:"14" validate:"gt=0"`
	ADXThreshold    float64 `yaml:"adx_threshold" json:"adx_threshold" default:"20" validate:"gte=0"`

	Kernel KernelSettings `yaml:"kernel" json:"kernel"`

	UseEMAFilter bool `yaml:"use_ema_filter" json:"use_ema_filter"`
	EMAPeriod    int  `yaml:"ema_period" json:"ema_period" default:"200" validate:"gt=0"`
	UseSMAFilter bool `yaml:"use_sma_filter" json:"use_sma_filter"`
	SMAPeriod    int  `yaml:"sma_period" json:"sma_period" default:"200" validate:"gt=0"`

	ExitMode      ExitMode `yaml:"exit_mode" json:"exit_mode" default:"fixed-bars" validate:"oneof=fixed-bars dynamic-kernel"`
	FixedExitBars int      `yaml:"fixed_exit_bars" json:"fixed_exit_bars" default:"4" validate:"gt=0"`
}

// DefaultFeatures is the standard five-slot feature set.
func DefaultFeatures() []FeatureSpec {
	return []FeatureSpec{
		{Kind: FeatureRSI, ParamA: 14, ParamB: 1},
		{Kind: FeatureWT, ParamA: 10, ParamB: 11},
		{Kind: FeatureCCI, ParamA: 20, ParamB: 1},
		{Kind: FeatureADX, ParamA: 20},
		{Kind: FeatureRSI, ParamA: 9, ParamB: 1},
	}
}

// DefaultSettings returns a fully populated configuration: volatility and
// regime filters on, ADX and trend filters off, the five standard feature
// slots, fixed 4-bar exits.
func DefaultSettings() Settings {
	s := Settings{
		UseVolatilityFilter: true,
		UseRegimeFilter:     true,
	}
	if err := defaults.Set(&s); err != nil {
		// Only possible with a malformed struct tag, which is a
		// programming error.
		panic(err)
	}
	s.Features = DefaultFeatures()
	return s
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration eagerly. Any failure here is a
// ConfigurationError: fatal to session construction.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("scanner: invalid settings: %w", err)
	}
	if len(s.Features) < s.FeatureCount {
		return fmt.Errorf("scanner: feature_count is %d but only %d feature slots are populated",
			s.FeatureCount, len(s.Features))
	}
	for i, f := range s.Features[:s.FeatureCount] {
		if f.Kind != FeatureADX && f.ParamB <= 0 {
			return fmt.Errorf("scanner: feature slot %d (%s) needs a positive smoothing length", i+1, f.Kind)
		}
	}
	if s.PredictionHorizon >= s.MaxBarsBack {
		return fmt.Errorf("scanner: prediction_horizon (%d) must be smaller than max_bars_back (%d)",
			s.PredictionHorizon, s.MaxBarsBack)
	}
	if s.VolatilityMaxLength <= s.VolatilityMinLength {
		return fmt.Errorf("scanner: volatility_max_length (%d) must exceed volatility_min_length (%d)",
			s.VolatilityMaxLength, s.VolatilityMinLength)
	}
	if err := s.Kernel.config().Validate(); err != nil {
		return fmt.Errorf("scanner: invalid settings: %w", err)
	}
	return nil
}
