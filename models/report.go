package models

import (
	"time"

	"github.com/google/uuid"
)

// DerivedSummary captures the Monte Carlo distribution of one derived quantity
type DerivedSummary struct {
	Name         string  `json:"name"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Percentile05 float64 `json:"percentile_05"`
	Median       float64 `json:"median"`
	Percentile95 float64 `json:"percentile_95"`
	SampleCount  int     `json:"sample_count"`
	NonFinite    int     `json:"non_finite"`
}

// FitReport is the persisted record of one fit: the dataset it ran against,
// the recovered parameters with their standard errors, the goodness-of-fit
// diagnostics, and the Monte Carlo summaries of any derived quantities.
type FitReport struct {
	ID               uuid.UUID        `json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	DatasetLabel     string           `json:"dataset_label"`
	ModelName        string           `json:"model_name"`
	Observations     int              `json:"observations"`
	Params           []float64        `json:"params"`
	StdErrs          []float64        `json:"std_errs"`
	Covariance       [][]float64      `json:"covariance"`
	ReducedChiSquare float64          `json:"reduced_chi_square"`
	TailProbability  float64          `json:"tail_probability"`
	Derived          []DerivedSummary `json:"derived,omitempty"`
}
