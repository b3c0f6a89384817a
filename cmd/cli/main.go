// Command cli fits IV sweep data from a file, or validates the pipeline
// against synthetic data, and prints the resulting reports as markdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"labfit/adapters/excel"
	"labfit/app"
	"labfit/domain/circuit"
	"labfit/domain/model"
	internal "labfit/internal"
	"labfit/internal/config"
	"labfit/internal/report"
	"labfit/internal/rngutil"
	"labfit/internal/synth"
)

func main() {
	dataFile := flag.String("data", "", "sweep file (.xlsx or .csv); overrides SWEEP_FILE")
	demo := flag.Bool("demo", false, "run a synthetic-data validation sweep instead of reading a file")
	seed := flag.Int64("seed", 0, "override MC_SEED for this run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataFile != "" {
		cfg.Data.SweepFile = *dataFile
	}
	if *seed != 0 {
		cfg.MonteCarlo.Seed = *seed
	}

	logger := internal.NewDefaultLogger()
	rng := rngutil.NewSource(cfg.MonteCarlo.Seed)
	svc := app.NewSweepService(nil, rng, logger, cfg.MonteCarlo.Trials)

	var reqs []app.SweepRequest
	if *demo {
		reqs, err = demoRequests(cfg, rng)
	} else {
		reqs, err = fileRequests(cfg)
	}
	if err != nil {
		log.Fatalf("Failed to assemble sweep: %v", err)
	}

	reports, err := svc.Run(context.Background(), reqs)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	for _, r := range reports {
		fmt.Println(report.Markdown(r))
	}
}

// fileRequests builds resistor and diode fits from a sweep file
func fileRequests(cfg *config.Config) ([]app.SweepRequest, error) {
	if cfg.Data.SweepFile == "" {
		return nil, fmt.Errorf("no sweep file: pass -data or set SWEEP_FILE (or run with -demo)")
	}

	data, err := excel.NewSweepReader(cfg.Data.SweepFile).Read()
	if err != nil {
		return nil, err
	}

	diodeObs, err := cfg.Circuit.DiodeObservations(data.Samples)
	if err != nil {
		return nil, err
	}
	resistorObs, err := cfg.Circuit.ResistorObservations(data.Samples)
	if err != nil {
		return nil, err
	}

	return []app.SweepRequest{
		{
			Label: data.Label + "/resistor",
			Model: model.Linear,
			Obs:   resistorObs,
		},
		{
			Label: data.Label + "/diode",
			Model: model.LinearLog,
			Obs:   diodeObs,
			Derived: []app.DerivedQuantity{
				{Name: "emission_coefficient", Fn: circuit.EmissionCoefficient(cfg.Circuit.ThermalVoltage)},
				{Name: "saturation_current", Fn: circuit.SaturationCurrent()},
			},
		},
	}, nil
}

// demoRequests generates synthetic data with known ground truth and fits it
// back, exercising the full pipeline end to end.
func demoRequests(cfg *config.Config, rng *rngutil.Source) ([]app.SweepRequest, error) {
	// Resistor branch: V = A*I + B with A=1000 ohm, B=0.
	xs := make([]float64, 11)
	for i := range xs {
		xs[i] = float64(i) * 0.001
	}
	linearObs, err := synth.Generate(model.Linear, xs, []float64{1000, 0}, 0.005, rng.Stream("demo/linear"))
	if err != nil {
		return nil, err
	}

	// Diode branch: V = A*ln(I) + B over three decades of current.
	currents := make([]float64, 30)
	for i := range currents {
		currents[i] = 1e-5 * float64(i+1)
	}
	diodeObs, err := synth.Generate(model.LinearLog, currents, []float64{0.05, 0.9}, 0.005, rng.Stream("demo/diode"))
	if err != nil {
		return nil, err
	}

	return []app.SweepRequest{
		{
			Label: "demo/resistor",
			Model: model.Linear,
			Obs:   linearObs,
			Guess: []float64{1000, 0},
		},
		{
			Label: "demo/diode",
			Model: model.LinearLog,
			Obs:   diodeObs,
			Derived: []app.DerivedQuantity{
				{Name: "emission_coefficient", Fn: circuit.EmissionCoefficient(cfg.Circuit.ThermalVoltage)},
				{Name: "saturation_current", Fn: circuit.SaturationCurrent()},
			},
		},
	}, nil
}
