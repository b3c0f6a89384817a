// Package fitter implements weighted nonlinear least squares for the small,
// smooth device models in domain/model: a Levenberg–Marquardt loop over a
// finite-difference Jacobian, with the parameter covariance estimated from the
// inverse Gauss-Newton normal matrix at the minimum. Sigmas are treated as
// absolute uncertainties, so the covariance is not rescaled by the residual
// variance.
package fitter

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"labfit/domain/fit"
	"labfit/domain/model"
	"labfit/internal/errors"
)

// Options bound and tune the optimizer
type Options struct {
	// MaxIterations caps the outer Levenberg-Marquardt loop
	MaxIterations int
	// Tolerance is the relative chi-square decrease below which the fit is
	// declared converged
	Tolerance float64
	// InitialLambda seeds the damping schedule
	InitialLambda float64
}

// DefaultOptions returns the tuning used throughout the lab pipeline
func DefaultOptions() Options {
	return Options{
		MaxIterations: 200,
		Tolerance:     1e-10,
		InitialLambda: 1e-3,
	}
}

const (
	lambdaUp   = 10.0
	lambdaDown = 10.0
	lambdaMax  = 1e12
	lambdaMin  = 1e-14
)

// Fit minimizes the weighted sum of squared residuals
// sum_i ((y_i - m(x_i, p)) / sigma_i)^2 starting from guess, and returns the
// best-fit parameters with their covariance. It fails with DIMENSION_MISMATCH,
// INSUFFICIENT_DATA, CONVERGENCE_ERROR, or DOMAIN_ERROR per the conditions in
// the doc comments below; a failed fit yields no result at all.
func Fit(m model.Model, obs fit.ObservationSet, guess []float64, opts Options) (fit.Result, error) {
	n := obs.Len()
	p := m.Arity()

	if len(obs.Y) != n || len(obs.Sigma) != n {
		return fit.Result{}, errors.DimensionMismatch(
			"observation lengths differ: x=%d y=%d sigma=%d", n, len(obs.Y), len(obs.Sigma))
	}
	if len(guess) != p {
		return fit.Result{}, errors.DimensionMismatch(
			"initial guess has %d parameters, model %s takes %d", len(guess), m.Name(), p)
	}
	if n <= p {
		return fit.Result{}, errors.InsufficientData(
			"%d observations cannot constrain %d parameters", n, p)
	}
	if opts.MaxIterations <= 0 {
		opts = DefaultOptions()
	}

	params := make([]float64, p)
	copy(params, guess)

	residuals, chi2, err := weightedResiduals(m, obs, params)
	if err != nil {
		return fit.Result{}, err
	}

	lambda := opts.InitialLambda
	converged := false

	// J holds the weighted model Jacobian d(m/sigma)/dp; reused across iterations.
	jac := mat.NewDense(n, p, nil)

	for iter := 0; iter < opts.MaxIterations && !converged; iter++ {
		if err := weightedJacobian(jac, m, obs, params); err != nil {
			return fit.Result{}, err
		}

		// Normal matrix A = J^T J and gradient g = J^T r.
		var normal mat.Dense
		normal.Mul(jac.T(), jac)
		grad := mat.NewVecDense(p, nil)
		grad.MulVec(jac.T(), mat.NewVecDense(n, residuals))

		accepted := false
		for !accepted && lambda <= lambdaMax {
			damped := mat.NewDense(p, p, nil)
			damped.CloneFrom(&normal)
			for j := 0; j < p; j++ {
				damped.Set(j, j, normal.At(j, j)*(1+lambda))
			}

			var delta mat.VecDense
			if err := delta.SolveVec(damped, grad); err != nil {
				// Singular normal matrix at this damping; stiffen and retry.
				lambda *= lambdaUp
				continue
			}

			trial := make([]float64, p)
			for j := 0; j < p; j++ {
				trial[j] = params[j] + delta.AtVec(j)
			}

			trialResiduals, trialChi2, evalErr := weightedResiduals(m, obs, trial)
			if evalErr != nil || math.IsNaN(trialChi2) || math.IsInf(trialChi2, 0) {
				// The step left the model's domain; stiffen and retry.
				lambda *= lambdaUp
				continue
			}

			if trialChi2 < chi2 {
				improvement := chi2 - trialChi2
				params = trial
				residuals = trialResiduals
				chi2 = trialChi2
				if lambda > lambdaMin {
					lambda /= lambdaDown
				}
				accepted = true
				if improvement <= opts.Tolerance*(chi2+opts.Tolerance) {
					converged = true
				}
			} else {
				lambda *= lambdaUp
			}
		}

		if !accepted {
			// Damping exhausted without a downhill step: the current point is
			// a (possibly flat) minimum.
			converged = true
		}
	}

	if !converged {
		return fit.Result{}, errors.ConvergenceError(
			"fit of %s did not converge within %d iterations (chi2=%g)", m.Name(), opts.MaxIterations, chi2)
	}

	cov, err := covariance(jac, m, obs, params)
	if err != nil {
		return fit.Result{}, err
	}
	return fit.NewResult(params, cov)
}

// weightedResiduals computes r_i = (y_i - m(x_i, p)) / sigma_i and chi-square
func weightedResiduals(m model.Model, obs fit.ObservationSet, params []float64) ([]float64, float64, error) {
	predicted, err := m.EvalAll(obs.X, params)
	if err != nil {
		return nil, 0, err
	}
	residuals := make([]float64, obs.Len())
	chi2 := 0.0
	for i := range residuals {
		residuals[i] = (obs.Y[i] - predicted[i]) / obs.Sigma[i]
		chi2 += residuals[i] * residuals[i]
	}
	return residuals, chi2, nil
}

// covariance inverts the Gauss-Newton normal matrix at the minimum
func covariance(jac *mat.Dense, m model.Model, obs fit.ObservationSet, params []float64) (*mat.SymDense, error) {
	if err := weightedJacobian(jac, m, obs, params); err != nil {
		return nil, err
	}
	p := m.Arity()

	var normal mat.Dense
	normal.Mul(jac.T(), jac)

	var inv mat.Dense
	if err := inv.Inverse(&normal); err != nil {
		return nil, errors.ConvergenceError("normal matrix is singular at the minimum: %v", err)
	}

	// Symmetrize against floating-point drift in the inverse.
	data := make([]float64, p*p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			data[i*p+j] = (inv.At(i, j) + inv.At(j, i)) / 2
		}
	}
	return mat.NewSymDense(p, data), nil
}
