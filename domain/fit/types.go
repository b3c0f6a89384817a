// Package fit defines the immutable value types the fitting pipeline passes
// around: observation sets going in, fit results coming out.
package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"labfit/internal/errors"
)

// ObservationSet is an ordered sequence of (x, y, sigma) triples. It is
// validated at construction and never mutated afterwards.
type ObservationSet struct {
	X     []float64
	Y     []float64
	Sigma []float64
}

// NewObservationSet validates and assembles an observation set. All three
// sequences must share a length and every sigma must be strictly positive.
func NewObservationSet(x, y, sigma []float64) (ObservationSet, error) {
	if len(x) != len(y) || len(x) != len(sigma) {
		return ObservationSet{}, errors.DimensionMismatch(
			"observation lengths differ: x=%d y=%d sigma=%d", len(x), len(y), len(sigma))
	}
	for _, s := range sigma {
		if s <= 0 || math.IsNaN(s) {
			return ObservationSet{}, errors.InvalidInput("sigma must be > 0 for every point")
		}
	}
	return ObservationSet{X: x, Y: y, Sigma: sigma}, nil
}

// Len returns the number of observations
func (o ObservationSet) Len() int { return len(o.X) }

// Result pairs best-fit parameter estimates with their covariance matrix.
// The covariance dimension always equals the parameter count.
type Result struct {
	Params     []float64
	Covariance *mat.SymDense
}

// NewResult validates the parameter/covariance dimension invariant
func NewResult(params []float64, cov *mat.SymDense) (Result, error) {
	if cov == nil || cov.SymmetricDim() != len(params) {
		dim := 0
		if cov != nil {
			dim = cov.SymmetricDim()
		}
		return Result{}, errors.DimensionMismatch(
			"covariance dimension %d does not match parameter count %d", dim, len(params))
	}
	return Result{Params: params, Covariance: cov}, nil
}

// Arity returns the number of fitted parameters
func (r Result) Arity() int { return len(r.Params) }

// StdErr extracts parameter standard errors as the square roots of the
// covariance diagonal
func (r Result) StdErr() []float64 {
	se := make([]float64, len(r.Params))
	for i := range se {
		se[i] = math.Sqrt(r.Covariance.At(i, i))
	}
	return se
}
