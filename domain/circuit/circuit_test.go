package circuit

import (
	"math"
	"testing"

	"labfit/internal/errors"
)

func testConfig() Config {
	return Config{
		SupplyVoltage:    5.0,
		SeriesResistance: 1000.0,
		FullScaleVoltage: 5.0,
		MaxCount:         1000,
		ThermalVoltage:   0.02569,
		VoltageSigma:     0.005,
	}
}

func TestCountsToVolts(t *testing.T) {
	cfg := testConfig()
	if got := cfg.CountsToVolts(1000); got != 5.0 {
		t.Fatalf("full-scale counts = %g V, want 5.0", got)
	}
	if got := cfg.CountsToVolts(500); got != 2.5 {
		t.Fatalf("half-scale counts = %g V, want 2.5", got)
	}
	if got := cfg.CountsToVolts(0); got != 0 {
		t.Fatalf("zero counts = %g V, want 0", got)
	}
}

func TestDiodeObservations(t *testing.T) {
	cfg := testConfig()
	samples := []Sample{
		{Drive: 0, CountsCurrent: 0, CountsVoltage: 100},   // zero current, filtered
		{Drive: 1, CountsCurrent: -5, CountsVoltage: 100},  // negative current, filtered
		{Drive: 2, CountsCurrent: 200, CountsVoltage: 860}, // 1 V / 1 kOhm = 1 mA
		{Drive: 3, CountsCurrent: 400, CountsVoltage: 840},
	}

	obs, err := cfg.DiodeObservations(samples)
	if err != nil {
		t.Fatalf("DiodeObservations: %v", err)
	}
	if obs.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (non-positive currents filtered)", obs.Len())
	}

	if math.Abs(obs.X[0]-0.001) > 1e-12 {
		t.Fatalf("current = %g A, want 0.001", obs.X[0])
	}
	// Diode voltage is supply minus the measured node voltage: 5 - 4.3 = 0.7 V.
	if math.Abs(obs.Y[0]-0.7) > 1e-12 {
		t.Fatalf("diode voltage = %g V, want 0.7", obs.Y[0])
	}
	for _, s := range obs.Sigma {
		if s != cfg.VoltageSigma {
			t.Fatalf("sigma = %g, want %g", s, cfg.VoltageSigma)
		}
	}
}

func TestDiodeObservations_AllFiltered(t *testing.T) {
	cfg := testConfig()
	samples := []Sample{
		{CountsCurrent: 0, CountsVoltage: 100},
		{CountsCurrent: -1, CountsVoltage: 100},
	}
	if _, err := cfg.DiodeObservations(samples); !errors.HasCode(err, errors.CodeInsufficientData) {
		t.Fatalf("error = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestResistorObservations(t *testing.T) {
	cfg := testConfig()
	samples := []Sample{
		{CountsCurrent: 0, CountsVoltage: 0},
		{CountsCurrent: 200, CountsVoltage: 200},
	}
	obs, err := cfg.ResistorObservations(samples)
	if err != nil {
		t.Fatalf("ResistorObservations: %v", err)
	}
	if obs.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (linear model keeps zero current)", obs.Len())
	}
	if math.Abs(obs.X[1]-0.001) > 1e-12 || math.Abs(obs.Y[1]-1.0) > 1e-12 {
		t.Fatalf("point = (%g, %g), want (0.001, 1.0)", obs.X[1], obs.Y[1])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "supply", mutate: func(c *Config) { c.SupplyVoltage = 0 }},
		{name: "series resistance", mutate: func(c *Config) { c.SeriesResistance = -1 }},
		{name: "full scale", mutate: func(c *Config) { c.FullScaleVoltage = 0 }},
		{name: "max count", mutate: func(c *Config) { c.MaxCount = 0 }},
		{name: "thermal voltage", mutate: func(c *Config) { c.ThermalVoltage = 0 }},
		{name: "voltage sigma", mutate: func(c *Config) { c.VoltageSigma = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.HasCode(err, errors.CodeConfigInvalid) {
				t.Fatalf("error = %v, want CONFIG_INVALID", err)
			}
		})
	}
}

func TestDerivedQuantities(t *testing.T) {
	const vT = 0.02569

	eta := EmissionCoefficient(vT)
	if got := eta([]float64{2 * vT, 0.9}); math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("emission coefficient = %g, want 2.0", got)
	}

	is := SaturationCurrent()
	// I_s = exp(-B/A) with A=0.05, B=0.9.
	want := math.Exp(-0.9 / 0.05)
	if got := is([]float64{0.05, 0.9}); math.Abs(got-want) > 1e-20 {
		t.Fatalf("saturation current = %g, want %g", got, want)
	}

	// A sampled slope of zero must yield a non-finite value, not a panic.
	if got := is([]float64{0, 0.9}); !math.IsInf(got, 0) && !math.IsNaN(got) && got != 0 {
		t.Fatalf("saturation current at zero slope = %g, want non-finite or zero", got)
	}
}
