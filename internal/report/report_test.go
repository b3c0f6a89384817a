package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"labfit/models"
)

func TestMarkdown(t *testing.T) {
	r := &models.FitReport{
		ID:               uuid.New(),
		CreatedAt:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DatasetLabel:     "sweep_01/diode",
		ModelName:        "linear_log",
		Observations:     42,
		Params:           []float64{0.0512, 0.903},
		StdErrs:          []float64{0.0008, 0.004},
		ReducedChiSquare: 1.07,
		TailProbability:  0.35,
		Derived: []models.DerivedSummary{
			{Name: "emission_coefficient", Mean: 1.99, StdDev: 0.03, SampleCount: 10000},
		},
	}

	md := Markdown(r)
	for _, want := range []string{
		"sweep_01/diode",
		"linear_log",
		"1.0700",
		"emission_coefficient",
		"## Parameters",
		"## Derived quantities",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_NoDerivedSection(t *testing.T) {
	r := &models.FitReport{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		DatasetLabel: "sweep_01/resistor",
		ModelName:    "linear",
		Params:       []float64{1001.2, 0.001},
		StdErrs:      []float64{0.5, 0.003},
	}
	if strings.Contains(Markdown(r), "Derived quantities") {
		t.Fatal("report without derived summaries should omit the section")
	}
}
