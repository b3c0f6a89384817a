// Package app orchestrates the fitting pipeline: fit, goodness-of-fit,
// Monte Carlo propagation, report assembly, persistence.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"labfit/domain/fit"
	"labfit/domain/model"
	internal "labfit/internal"
	"labfit/internal/errors"
	"labfit/internal/fitter"
	"labfit/internal/montecarlo"
	"labfit/models"
	"labfit/ports"
)

// DerivedQuantity names a derived-quantity function for reporting
type DerivedQuantity struct {
	Name string
	Fn   montecarlo.DerivedFn
}

// SweepRequest is one dataset to fit
type SweepRequest struct {
	Label   string
	Model   model.Model
	Obs     fit.ObservationSet
	Guess   []float64 // nil means derive from the endpoints
	Derived []DerivedQuantity
}

// SweepService runs fits across observation sets. Each fit is independent, so
// datasets are processed concurrently; randomness comes from per-dataset named
// streams, keeping results reproducible regardless of scheduling order.
type SweepService struct {
	repo   ports.ReportRepository
	rng    ports.RNG
	logger *internal.Logger
	opts   fitter.Options
	trials int
	maxPar int
}

// NewSweepService creates a sweep service. repo may be nil for fit-only runs.
func NewSweepService(repo ports.ReportRepository, rng ports.RNG, logger *internal.Logger, trials int) *SweepService {
	if trials <= 0 {
		trials = montecarlo.DefaultTrials
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SweepService{
		repo:   repo,
		rng:    rng,
		logger: logger,
		opts:   fitter.DefaultOptions(),
		trials: trials,
		maxPar: 4,
	}
}

// Run fits every request and returns reports in request order. The first
// failure cancels the remaining work.
func (s *SweepService) Run(ctx context.Context, reqs []SweepRequest) ([]*models.FitReport, error) {
	reports := make([]*models.FitReport, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxPar)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			report, err := s.RunOne(ctx, req)
			if err != nil {
				return errors.Wrapf(err, "dataset %s", req.Label)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// RunOne fits a single dataset, propagates its derived quantities, and
// persists the resulting report when a repository is configured.
func (s *SweepService) RunOne(ctx context.Context, req SweepRequest) (*models.FitReport, error) {
	started := time.Now()

	guess := req.Guess
	if guess == nil {
		derived, err := req.Model.InitialGuess(req.Obs.X, req.Obs.Y)
		if err != nil {
			return nil, errors.Wrap(err, "failed to derive initial guess")
		}
		guess = derived
	}

	result, err := fitter.Fit(req.Model, req.Obs, guess, s.opts)
	if err != nil {
		return nil, err
	}

	predicted, err := req.Model.EvalAll(req.Obs.X, result.Params)
	if err != nil {
		return nil, err
	}
	redChi2, err := fitter.ReducedChiSquare(req.Obs.Y, predicted, req.Obs.Sigma, result.Arity())
	if err != nil {
		return nil, err
	}
	dof := req.Obs.Len() - result.Arity()
	tail := fitter.TailProbability(redChi2*float64(dof), dof)

	report := newFitReport(req, result, redChi2, tail)

	for _, dq := range req.Derived {
		stream := s.rng.Stream("montecarlo/" + req.Label + "/" + dq.Name)
		samples, err := montecarlo.Propagate(result, dq.Fn, s.trials, stream)
		if err != nil {
			return nil, errors.Wrapf(err, "propagation of %s failed", dq.Name)
		}
		summary, err := montecarlo.Summarize(samples)
		if err != nil {
			return nil, errors.Wrapf(err, "summary of %s failed", dq.Name)
		}
		report.Derived = append(report.Derived, models.DerivedSummary{
			Name:         dq.Name,
			Mean:         summary.Mean,
			StdDev:       summary.StdDev,
			Percentile05: summary.Percentile05,
			Median:       summary.Median,
			Percentile95: summary.Percentile95,
			SampleCount:  summary.SampleCount,
			NonFinite:    summary.NonFinite,
		})
	}

	if s.repo != nil {
		if err := s.repo.SaveReport(ctx, report); err != nil {
			return nil, errors.Wrap(err, "failed to persist fit report")
		}
	}

	s.logger.Info("fit %s model=%s n=%d chi2r=%.3f in %s",
		req.Label, req.Model.Name(), req.Obs.Len(), redChi2, time.Since(started).Round(time.Millisecond))
	return report, nil
}

func newFitReport(req SweepRequest, result fit.Result, redChi2, tail float64) *models.FitReport {
	p := result.Arity()
	cov := make([][]float64, p)
	for i := 0; i < p; i++ {
		cov[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			cov[i][j] = result.Covariance.At(i, j)
		}
	}
	return &models.FitReport{
		ID:               uuid.New(),
		CreatedAt:        time.Now().UTC(),
		DatasetLabel:     req.Label,
		ModelName:        req.Model.Name(),
		Observations:     req.Obs.Len(),
		Params:           result.Params,
		StdErrs:          result.StdErr(),
		Covariance:       cov,
		ReducedChiSquare: redChi2,
		TailProbability:  tail,
	}
}
