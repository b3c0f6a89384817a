package montecarlo

import (
	"math"

	"github.com/montanaflynn/stats"

	"labfit/internal/errors"
)

// Summary condenses a Monte Carlo sample set for reporting. Non-finite draws
// are excluded from the statistics but counted, so pathological distributions
// stay visible.
type Summary struct {
	Mean         float64
	StdDev       float64
	Percentile05 float64
	Median       float64
	Percentile95 float64
	SampleCount  int
	NonFinite    int
}

// Summarize computes summary statistics over a sample set
func Summarize(samples []float64) (Summary, error) {
	finite := make([]float64, 0, len(samples))
	nonFinite := 0
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite++
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return Summary{}, errors.InsufficientData("no finite samples out of %d", len(samples))
	}

	mean, err := stats.Mean(finite)
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	sd, err := stats.StandardDeviationSample(finite)
	if err != nil {
		// A single finite sample has no spread; report zero rather than fail.
		sd = 0
	}
	p05, err := stats.Percentile(finite, 5)
	if err != nil {
		return Summary{}, errors.Wrap(err, "5th percentile")
	}
	median, err := stats.Median(finite)
	if err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	p95, err := stats.Percentile(finite, 95)
	if err != nil {
		return Summary{}, errors.Wrap(err, "95th percentile")
	}

	return Summary{
		Mean:         mean,
		StdDev:       sd,
		Percentile05: p05,
		Median:       median,
		Percentile95: p95,
		SampleCount:  len(samples),
		NonFinite:    nonFinite,
	}, nil
}
