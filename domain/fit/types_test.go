package fit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"labfit/internal/errors"
)

func TestNewObservationSet(t *testing.T) {
	obs, err := NewObservationSet([]float64{1, 2}, []float64{3, 4}, []float64{0.1, 0.2})
	if err != nil {
		t.Fatalf("NewObservationSet: %v", err)
	}
	if obs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", obs.Len())
	}
}

func TestNewObservationSet_Errors(t *testing.T) {
	tests := []struct {
		name     string
		x, y, s  []float64
		wantCode string
	}{
		{name: "short y", x: []float64{1, 2}, y: []float64{3}, s: []float64{0.1, 0.2}, wantCode: errors.CodeDimensionMismatch},
		{name: "short sigma", x: []float64{1, 2}, y: []float64{3, 4}, s: []float64{0.1}, wantCode: errors.CodeDimensionMismatch},
		{name: "zero sigma", x: []float64{1, 2}, y: []float64{3, 4}, s: []float64{0.1, 0}, wantCode: errors.CodeInvalidInput},
		{name: "negative sigma", x: []float64{1, 2}, y: []float64{3, 4}, s: []float64{-0.1, 0.2}, wantCode: errors.CodeInvalidInput},
		{name: "NaN sigma", x: []float64{1}, y: []float64{2}, s: []float64{math.NaN()}, wantCode: errors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewObservationSet(tt.x, tt.y, tt.s); !errors.HasCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestNewResult_DimensionInvariant(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{0.04, 0, 0, 0.09})

	if _, err := NewResult([]float64{1, 2, 3}, cov); !errors.HasCode(err, errors.CodeDimensionMismatch) {
		t.Fatalf("error = %v, want DIMENSION_MISMATCH", err)
	}
	if _, err := NewResult([]float64{1, 2}, nil); !errors.HasCode(err, errors.CodeDimensionMismatch) {
		t.Fatalf("error = %v, want DIMENSION_MISMATCH", err)
	}

	res, err := NewResult([]float64{1, 2}, cov)
	if err != nil {
		t.Fatalf("NewResult: %v", err)
	}
	if res.Arity() != 2 {
		t.Fatalf("Arity = %d, want 2", res.Arity())
	}
}

func TestStdErr_IsSqrtOfDiagonal(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{0.04, 0.01, 0.01, 0.09})
	res, err := NewResult([]float64{5, 6}, cov)
	if err != nil {
		t.Fatalf("NewResult: %v", err)
	}

	se := res.StdErr()
	if math.Abs(se[0]-0.2) > 1e-12 || math.Abs(se[1]-0.3) > 1e-12 {
		t.Fatalf("StdErr = %v, want [0.2 0.3]", se)
	}
}
