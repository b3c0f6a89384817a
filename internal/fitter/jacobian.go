package fitter

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"labfit/domain/fit"
	"labfit/domain/model"
)

// jacobianStepScale sets the forward-difference step to sqrt(machine epsilon)
// relative to each parameter's magnitude, the standard choice for smooth
// models with O(1) conditioning.
var jacobianStepScale = math.Sqrt(2.220446049250313e-16)

// weightedJacobian fills dst with d(m(x_i, p)/sigma_i)/dp_j estimated by
// forward differences. dst must be len(obs) x arity.
func weightedJacobian(dst *mat.Dense, m model.Model, obs fit.ObservationSet, params []float64) error {
	base, err := m.EvalAll(obs.X, params)
	if err != nil {
		return err
	}

	p := m.Arity()
	perturbed := make([]float64, p)
	copy(perturbed, params)

	for j := 0; j < p; j++ {
		step := jacobianStepScale * math.Max(math.Abs(params[j]), 1)
		perturbed[j] = params[j] + step
		// Recompute the actual step; (p+h)-p can differ from h in floats.
		step = perturbed[j] - params[j]

		bumped, err := m.EvalAll(obs.X, perturbed)
		perturbed[j] = params[j]
		if err != nil {
			return err
		}

		for i := 0; i < obs.Len(); i++ {
			dst.Set(i, j, (bumped[i]-base[i])/(step*obs.Sigma[i]))
		}
	}
	return nil
}
