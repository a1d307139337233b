package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Validate(t *testing.T) {
	cfg := DefaultSettings()
	require.NoError(t, cfg.Validate())

	require.Equal(t, 8, cfg.NeighborsCount)
	require.Equal(t, 2000, cfg.MaxBarsBack)
	require.Equal(t, 5, cfg.FeatureCount)
	require.Len(t, cfg.Features, 5)
	require.True(t, cfg.UseVolatilityFilter)
	require.True(t, cfg.UseRegimeFilter)
	require.False(t, cfg.UseADXFilter)
	require.Equal(t, ExitFixedBars, cfg.ExitMode)
}

func TestSettings_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero neighbors", func(s *Settings) { s.NeighborsCount = 0 }},
		{"zero max bars back", func(s *Settings) { s.MaxBarsBack = 0 }},
		{"feature count too low", func(s *Settings) { s.FeatureCount = 1 }},
		{"feature count too high", func(s *Settings) { s.FeatureCount = 6 }},
		{"more slots demanded than populated", func(s *Settings) { s.Features = s.Features[:3] }},
		{"unknown feature kind", func(s *Settings) { s.Features[0].Kind = "macd" }},
		{"missing smoothing length", func(s *Settings) { s.Features[0].ParamB = 0 }},
		{"horizon at least max bars back", func(s *Settings) { s.MaxBarsBack = 4 }},
		{"inverted volatility lengths", func(s *Settings) {
			s.VolatilityMinLength = 10
			s.VolatilityMaxLength = 5
		}},
		{"bad kernel kind", func(s *Settings) { s.Kernel.Kind = "triangular" }},
		{"bad exit mode", func(s *Settings) { s.ExitMode = "market-close" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSettings()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestSettings_ADXSlotNeedsNoSmoothing(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Features = []FeatureSpec{
		{Kind: FeatureADX, ParamA: 14},
		{Kind: FeatureRSI, ParamA: 14, ParamB: 1},
	}
	cfg.FeatureCount = 2
	require.NoError(t, cfg.Validate())
}

func TestSettings_ExtraSlotsBeyondCountAreIgnored(t *testing.T) {
	cfg := DefaultSettings()
	cfg.FeatureCount = 2

	// Slot 3 is broken but inactive; only the first FeatureCount slots are
	// checked for smoothing.
	cfg.Features[2].ParamB = 0
	require.NoError(t, cfg.Validate())
}
