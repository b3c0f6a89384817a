package model

import (
	"math"
	"testing"

	"labfit/internal/errors"
)

func TestModelEval(t *testing.T) {
	tests := []struct {
		name   string
		model  Model
		x      float64
		params []float64
		want   float64
	}{
		{name: "linear", model: Linear, x: 2, params: []float64{3, 1}, want: 7},
		{name: "linear at zero", model: Linear, x: 0, params: []float64{1000, 0.5}, want: 0.5},
		{name: "linear_log at e", model: LinearLog, x: math.E, params: []float64{2, 1}, want: 3},
		{name: "linear_log at 1", model: LinearLog, x: 1, params: []float64{5, -0.25}, want: -0.25},
		{name: "linear_log_linear", model: LinearLogLinear, x: 1, params: []float64{2, 1, 10}, want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.model.Eval(tt.x, tt.params)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Eval(%g) = %g, want %g", tt.x, got, tt.want)
			}
		})
	}
}

func TestModelEval_DomainError(t *testing.T) {
	for _, m := range []Model{LinearLog, LinearLogLinear} {
		for _, x := range []float64{0, -1e-9, -5} {
			params := make([]float64, m.Arity())
			if _, err := m.Eval(x, params); !errors.HasCode(err, errors.CodeDomainError) {
				t.Fatalf("%s.Eval(%g) error = %v, want DOMAIN_ERROR", m.Name(), x, err)
			}
		}
	}

	// The linear model has no domain restriction.
	if _, err := Linear.Eval(-3, []float64{1, 2}); err != nil {
		t.Fatalf("Linear.Eval(-3): %v", err)
	}
}

func TestModelEval_ArityMismatch(t *testing.T) {
	if _, err := Linear.Eval(1, []float64{1, 2, 3}); !errors.HasCode(err, errors.CodeDimensionMismatch) {
		t.Fatalf("error = %v, want DIMENSION_MISMATCH", err)
	}
	if _, err := LinearLogLinear.Eval(1, []float64{1, 2}); !errors.HasCode(err, errors.CodeDimensionMismatch) {
		t.Fatalf("error = %v, want DIMENSION_MISMATCH", err)
	}
}

func TestEvalAll(t *testing.T) {
	xs := []float64{1, 2, 4}
	got, err := LinearLog.EvalAll(xs, []float64{1, 0})
	if err != nil {
		t.Fatalf("EvalAll: %v", err)
	}
	want := []float64{0, math.Log(2), math.Log(4)}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("EvalAll[%d] = %g, want %g", i, got[i], want[i])
		}
	}

	// One bad point poisons the whole evaluation.
	if _, err := LinearLog.EvalAll([]float64{1, -2, 4}, []float64{1, 0}); !errors.HasCode(err, errors.CodeDomainError) {
		t.Fatalf("error = %v, want DOMAIN_ERROR", err)
	}
}

func TestInitialGuess_InvertsExactData(t *testing.T) {
	// Noise-free data generated by a model must round-trip through the
	// endpoint guess back to the generating parameters.
	tests := []struct {
		name   string
		model  Model
		xs     []float64
		params []float64
	}{
		{name: "linear", model: Linear, xs: []float64{0, 0.005, 0.01}, params: []float64{1000, 0.25}},
		{name: "linear_log", model: LinearLog, xs: []float64{1e-5, 1e-4, 1e-3}, params: []float64{0.05, 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ys, err := tt.model.EvalAll(tt.xs, tt.params)
			if err != nil {
				t.Fatalf("EvalAll: %v", err)
			}
			guess, err := tt.model.InitialGuess(tt.xs, ys)
			if err != nil {
				t.Fatalf("InitialGuess: %v", err)
			}
			for i := range tt.params {
				if math.Abs(guess[i]-tt.params[i]) > 1e-9*math.Max(math.Abs(tt.params[i]), 1) {
					t.Fatalf("guess[%d] = %g, want %g", i, guess[i], tt.params[i])
				}
			}
		})
	}
}

func TestInitialGuess_ThreeParamStartsFlat(t *testing.T) {
	xs := []float64{1e-5, 1e-4, 1e-3}
	ys, err := LinearLog.EvalAll(xs, []float64{0.05, 0.9})
	if err != nil {
		t.Fatalf("EvalAll: %v", err)
	}
	guess, err := LinearLogLinear.InitialGuess(xs, ys)
	if err != nil {
		t.Fatalf("InitialGuess: %v", err)
	}
	if len(guess) != 3 {
		t.Fatalf("guess length = %d, want 3", len(guess))
	}
	if guess[2] != 0 {
		t.Fatalf("linear coefficient starts at %g, want 0", guess[2])
	}
}

func TestInitialGuess_Errors(t *testing.T) {
	if _, err := Linear.InitialGuess([]float64{1, 2}, []float64{1}); !errors.HasCode(err, errors.CodeDimensionMismatch) {
		t.Fatalf("error = %v, want DIMENSION_MISMATCH", err)
	}
	if _, err := Linear.InitialGuess([]float64{1}, []float64{1}); !errors.HasCode(err, errors.CodeInsufficientData) {
		t.Fatalf("error = %v, want INSUFFICIENT_DATA", err)
	}
	if _, err := LinearLog.InitialGuess([]float64{-1, 2}, []float64{0, 1}); !errors.HasCode(err, errors.CodeDomainError) {
		t.Fatalf("error = %v, want DOMAIN_ERROR", err)
	}
}

func TestByName(t *testing.T) {
	for _, m := range []Model{Linear, LinearLog, LinearLogLinear} {
		got, err := ByName(m.Name())
		if err != nil {
			t.Fatalf("ByName(%s): %v", m.Name(), err)
		}
		if got.Kind() != m.Kind() || got.Arity() != m.Arity() {
			t.Fatalf("ByName(%s) returned a different model", m.Name())
		}
	}
	if _, err := ByName("cubic"); !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}
