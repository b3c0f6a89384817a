// Package circuit turns raw ADC sweep samples into the clean (x, y, sigma)
// observation sets the core consumes, and defines the derived diode quantities
// whose uncertainty the Monte Carlo propagator estimates.
package circuit

import (
	"math"

	"labfit/domain/fit"
	"labfit/internal/errors"
	"labfit/internal/montecarlo"
)

// Sample is one raw sweep row: a drive/index value and the two ADC-count
// readings taken at that drive level.
type Sample struct {
	Drive         float64
	CountsCurrent float64
	CountsVoltage float64
}

// Config holds the fixed constants of the measurement circuit
type Config struct {
	// SupplyVoltage is the rail the diode branch hangs off, in volts
	SupplyVoltage float64
	// SeriesResistance converts the sensed voltage to current, in ohms
	SeriesResistance float64
	// FullScaleVoltage and MaxCount define the ADC transfer function
	FullScaleVoltage float64
	MaxCount         int
	// ThermalVoltage is kT/q at the lab temperature, in volts
	ThermalVoltage float64
	// VoltageSigma is the per-point measurement uncertainty, in volts
	VoltageSigma float64
}

// Validate checks the circuit constants are physical
func (c Config) Validate() error {
	if c.SupplyVoltage <= 0 {
		return errors.ConfigInvalid("supply voltage must be > 0")
	}
	if c.SeriesResistance <= 0 {
		return errors.ConfigInvalid("series resistance must be > 0")
	}
	if c.FullScaleVoltage <= 0 || c.MaxCount <= 0 {
		return errors.ConfigInvalid("ADC full scale and max count must be > 0")
	}
	if c.ThermalVoltage <= 0 {
		return errors.ConfigInvalid("thermal voltage must be > 0")
	}
	if c.VoltageSigma <= 0 {
		return errors.ConfigInvalid("voltage sigma must be > 0")
	}
	return nil
}

// CountsToVolts applies the ADC transfer function
func (c Config) CountsToVolts(counts float64) float64 {
	return counts * c.FullScaleVoltage / float64(c.MaxCount)
}

// DiodeObservations converts raw samples into (current, diode voltage, sigma)
// triples: current via Ohm's law through the series resistor, diode voltage as
// supply minus the measured node voltage. Points with non-positive current are
// filtered out, since they sit outside the logarithmic model's domain.
func (c Config) DiodeObservations(samples []Sample) (fit.ObservationSet, error) {
	if err := c.Validate(); err != nil {
		return fit.ObservationSet{}, err
	}

	var current, voltage, sigma []float64
	for _, s := range samples {
		i := c.CountsToVolts(s.CountsCurrent) / c.SeriesResistance
		if i <= 0 {
			continue
		}
		current = append(current, i)
		voltage = append(voltage, c.SupplyVoltage-c.CountsToVolts(s.CountsVoltage))
		sigma = append(sigma, c.VoltageSigma)
	}
	if len(current) == 0 {
		return fit.ObservationSet{}, errors.InsufficientData("no samples with positive current")
	}
	return fit.NewObservationSet(current, voltage, sigma)
}

// ResistorObservations converts raw samples into (current, resistor voltage,
// sigma) triples for the linear resistor fit. Zero-current points are kept;
// the linear model has no domain restriction.
func (c Config) ResistorObservations(samples []Sample) (fit.ObservationSet, error) {
	if err := c.Validate(); err != nil {
		return fit.ObservationSet{}, err
	}

	current := make([]float64, len(samples))
	voltage := make([]float64, len(samples))
	sigma := make([]float64, len(samples))
	for idx, s := range samples {
		current[idx] = c.CountsToVolts(s.CountsCurrent) / c.SeriesResistance
		voltage[idx] = c.CountsToVolts(s.CountsVoltage)
		sigma[idx] = c.VoltageSigma
	}
	return fit.NewObservationSet(current, voltage, sigma)
}

// EmissionCoefficient derives eta = A / V_T from the linear-log slope A.
func EmissionCoefficient(thermalVoltage float64) montecarlo.DerivedFn {
	return func(params []float64) float64 {
		return params[0] / thermalVoltage
	}
}

// SaturationCurrent derives I_s = exp(-B/A) from the linear-log parameters.
// Slopes sampled near zero produce non-finite values; the propagator keeps
// them so the summary can report how often they occur.
func SaturationCurrent() montecarlo.DerivedFn {
	return func(params []float64) float64 {
		return math.Exp(-params[1] / params[0])
	}
}
