package fitter

import (
	"gonum.org/v1/gonum/stat/distuv"

	"labfit/internal/errors"
)

// ReducedChiSquare computes the weighted sum of squared residuals divided by
// the degrees of freedom (N - P). Values near 1.0 indicate the per-point
// uncertainties are consistent with the residual scatter; interpretation is
// left to the caller.
func ReducedChiSquare(observed, predicted, sigma []float64, nParams int) (float64, error) {
	n := len(observed)
	if len(predicted) != n || len(sigma) != n {
		return 0, errors.DimensionMismatch(
			"sequence lengths differ: observed=%d predicted=%d sigma=%d", n, len(predicted), len(sigma))
	}
	if n <= nParams {
		return 0, errors.InsufficientData(
			"%d observations leave no degrees of freedom for %d parameters", n, nParams)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		r := (observed[i] - predicted[i]) / sigma[i]
		sum += r * r
	}
	return sum / float64(n-nParams), nil
}

// TailProbability returns P(X >= chi2) for a chi-square distribution with dof
// degrees of freedom, as a companion diagnostic to the reduced statistic.
// chi2 here is the unreduced weighted sum of squared residuals.
func TailProbability(chi2 float64, dof int) float64 {
	if dof <= 0 {
		return 1.0
	}
	dist := distuv.ChiSquared{K: float64(dof)}
	return 1 - dist.CDF(chi2)
}
