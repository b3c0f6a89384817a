// Package model holds the analytic device models the fitter and the synthetic
// generator share. Each model is a pure function of an independent variable and
// an ordered parameter vector; the same model value is used for forward
// simulation and inverse fitting, so the two directions can never drift apart.
package model

import (
	"math"

	"labfit/internal/errors"
)

// Kind identifies one of the closed set of device models
type Kind int

const (
	// KindLinear is y = A*x + B, the resistor law
	KindLinear Kind = iota
	// KindLinearLog is y = A*ln(x) + B, the ideal-diode law in log space
	KindLinearLog
	// KindLinearLogLinear is y = A*ln(x) + B + R*x, a diode with series resistance
	KindLinearLogLinear
)

// Model is a deterministic, side-effect-free mapping from (x, params) to a
// predicted dependent-variable value. Models carry no state; the zero-cost
// struct exists so arity and naming travel with the function.
type Model struct {
	kind  Kind
	arity int
	name  string
}

var (
	// Linear fits V = A*I + B across a resistor
	Linear = Model{kind: KindLinear, arity: 2, name: "linear"}
	// LinearLog fits V = A*ln(I) + B across a diode
	LinearLog = Model{kind: KindLinearLog, arity: 2, name: "linear_log"}
	// LinearLogLinear fits V = A*ln(I) + B + R*I across a diode with series resistance
	LinearLogLinear = Model{kind: KindLinearLogLinear, arity: 3, name: "linear_log_linear"}
)

// ByName resolves a model from its wire name
func ByName(name string) (Model, error) {
	switch name {
	case Linear.name:
		return Linear, nil
	case LinearLog.name:
		return LinearLog, nil
	case LinearLogLinear.name:
		return LinearLogLinear, nil
	}
	return Model{}, errors.NotFound("model " + name)
}

// Kind returns the model's variant tag
func (m Model) Kind() Kind { return m.kind }

// Arity returns the number of parameters the model takes
func (m Model) Arity() int { return m.arity }

// Name returns the model's wire name
func (m Model) Name() string { return m.name }

// Eval evaluates the model at a single x. Logarithmic kinds require x > 0 and
// return a DOMAIN_ERROR otherwise rather than a non-finite value.
func (m Model) Eval(x float64, params []float64) (float64, error) {
	if len(params) != m.arity {
		return 0, errors.DimensionMismatch("model %s takes %d parameters, got %d", m.name, m.arity, len(params))
	}
	switch m.kind {
	case KindLinear:
		return params[0]*x + params[1], nil
	case KindLinearLog:
		if x <= 0 {
			return 0, errors.DomainError("model %s requires x > 0, got %g", m.name, x)
		}
		return params[0]*math.Log(x) + params[1], nil
	case KindLinearLogLinear:
		if x <= 0 {
			return 0, errors.DomainError("model %s requires x > 0, got %g", m.name, x)
		}
		return params[0]*math.Log(x) + params[1] + params[2]*x, nil
	}
	return 0, errors.NotFound("model kind")
}

// EvalAll evaluates the model elementwise over an ordered sequence of x-values
func (m Model) EvalAll(xs []float64, params []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		y, err := m.Eval(x, params)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// InitialGuess derives a starting parameter vector from the first and last
// observations: the slope in the model's own x-space and the intercept solved
// algebraically. For the 3-parameter kind the linear coefficient starts at 0.
func (m Model) InitialGuess(xs, ys []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, errors.DimensionMismatch("x and y lengths differ: %d vs %d", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, errors.InsufficientData("initial guess needs at least 2 points, got %d", len(xs))
	}

	x0, x1 := xs[0], xs[len(xs)-1]
	y0, y1 := ys[0], ys[len(ys)-1]

	switch m.kind {
	case KindLinear:
		if x1 == x0 {
			return nil, errors.DomainError("endpoints share x = %g, slope undefined", x0)
		}
		a := (y1 - y0) / (x1 - x0)
		return []float64{a, y0 - a*x0}, nil
	case KindLinearLog, KindLinearLogLinear:
		if x0 <= 0 || x1 <= 0 {
			return nil, errors.DomainError("model %s requires x > 0 at both endpoints", m.name)
		}
		u0, u1 := math.Log(x0), math.Log(x1)
		if u1 == u0 {
			return nil, errors.DomainError("endpoints share ln(x) = %g, slope undefined", u0)
		}
		a := (y1 - y0) / (u1 - u0)
		b := y0 - a*u0
		if m.kind == KindLinearLogLinear {
			return []float64{a, b, 0}, nil
		}
		return []float64{a, b}, nil
	}
	return nil, errors.NotFound("model kind")
}
