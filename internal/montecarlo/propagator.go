// Package montecarlo propagates fit-parameter uncertainty into derived
// physical quantities by repeated sampling.
//
// Propagate treats each parameter as independently normal with mean equal to
// the fitted value and standard deviation equal to the corresponding
// covariance diagonal entry's square root. This ignores the off-diagonal
// correlation terms the fitter actually computes; it is a documented
// approximation carried over from the lab procedure, not a bug.
// PropagateCorrelated samples from the full multivariate covariance for
// callers that want fit-derived correlations; it is never the default.
package montecarlo

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"labfit/domain/fit"
	"labfit/internal/errors"
)

// DefaultTrials is the trial count used when the caller does not specify one
const DefaultTrials = 10000

// DerivedFn maps a sampled parameter vector to a scalar derived quantity.
// It must return rather than panic for pathological inputs; non-finite return
// values are kept in the output so callers can detect broken distributions.
type DerivedFn func(params []float64) float64

// Propagate draws trials parameter vectors from independent normals implied by
// the fit covariance diagonal, evaluates fn on each, and returns every sampled
// value in order. Nothing is dropped or binned here; summarizing is the
// caller's concern.
func Propagate(res fit.Result, fn DerivedFn, trials int, rng *rand.Rand) ([]float64, error) {
	if trials <= 0 {
		trials = DefaultTrials
	}
	if fn == nil {
		return nil, errors.InvalidInput("derived-quantity function is required")
	}
	if rng == nil {
		return nil, errors.InvalidInput("random source is required")
	}

	stdErr := res.StdErr()
	p := res.Arity()
	sample := make([]float64, p)
	out := make([]float64, trials)

	for t := 0; t < trials; t++ {
		for j := 0; j < p; j++ {
			sample[j] = res.Params[j] + stdErr[j]*rng.NormFloat64()
		}
		out[t] = fn(sample)
	}
	return out, nil
}

// PropagateCorrelated draws from the full multivariate normal implied by the
// fit covariance, via its Cholesky factor. It fails with CONVERGENCE_ERROR if
// the covariance is not positive definite.
func PropagateCorrelated(res fit.Result, fn DerivedFn, trials int, rng *rand.Rand) ([]float64, error) {
	if trials <= 0 {
		trials = DefaultTrials
	}
	if fn == nil {
		return nil, errors.InvalidInput("derived-quantity function is required")
	}
	if rng == nil {
		return nil, errors.InvalidInput("random source is required")
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(res.Covariance); !ok {
		return nil, errors.ConvergenceError("fit covariance is not positive definite")
	}
	p := res.Arity()
	var lower mat.TriDense
	chol.LTo(&lower)

	z := make([]float64, p)
	sample := make([]float64, p)
	out := make([]float64, trials)

	for t := 0; t < trials; t++ {
		for j := 0; j < p; j++ {
			z[j] = rng.NormFloat64()
		}
		for i := 0; i < p; i++ {
			v := res.Params[i]
			for j := 0; j <= i; j++ {
				v += lower.At(i, j) * z[j]
			}
			sample[i] = v
		}
		out[t] = fn(sample)
	}
	return out, nil
}
