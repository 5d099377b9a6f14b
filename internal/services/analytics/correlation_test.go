package analytics

import (
	"math"
	"testing"

	"MarketPulse/internal/services/bars"
)

func TestBuildCorrelationMatrixInvariants(t *testing.T) {
	returns := map[string][]float64{
		"A": {0.01, -0.02, 0.03, 0.01, -0.01},
		"B": {0.02, -0.01, 0.02, 0.00, -0.02},
		"C": {-0.01, 0.02, -0.03, -0.01, 0.01},
	}
	m := BuildCorrelationMatrix([]string{"A", "B", "C"}, returns, bars.NewValidator())

	if len(m.Matrix) != 3 {
		t.Fatalf("expected 3x3 matrix")
	}
	for i := 0; i < 3; i++ {
		if m.Matrix[i][i] != 1 {
			t.Fatalf("diagonal [%d][%d] = %g, want 1", i, i, m.Matrix[i][i])
		}
		for j := 0; j < 3; j++ {
			if m.Matrix[i][j] != m.Matrix[j][i] {
				t.Fatalf("asymmetry at [%d][%d]", i, j)
			}
			if m.Matrix[i][j] < -1 || m.Matrix[i][j] > 1 {
				t.Fatalf("entry [%d][%d] = %g out of range", i, j, m.Matrix[i][j])
			}
		}
	}
	if !m.Validation.IsValid {
		t.Fatalf("matrix should validate: %v", m.Validation.Issues)
	}
}

func TestBuildCorrelationMatrixPerfect(t *testing.T) {
	a := []float64{0.01, -0.02, 0.03, -0.01}
	inv := []float64{-0.01, 0.02, -0.03, 0.01}
	m := BuildCorrelationMatrix([]string{"A", "B"}, map[string][]float64{"A": a, "B": inv}, nil)

	if math.Abs(m.Matrix[0][1]+1) > 1e-12 {
		t.Fatalf("inverted series should correlate -1, got %g", m.Matrix[0][1])
	}
}

func TestBuildCorrelationMatrixPrefix(t *testing.T) {
	// C is shorter; the pair correlates over the common prefix only
	returns := map[string][]float64{
		"A": {0.01, 0.02, 0.03, 0.04, 0.05, -0.06},
		"C": {0.01, 0.02, 0.03},
	}
	m := BuildCorrelationMatrix([]string{"A", "C"}, returns, nil)
	if math.Abs(m.Matrix[0][1]-1) > 1e-9 {
		t.Fatalf("prefix correlation should be 1, got %g", m.Matrix[0][1])
	}
}

func TestBuildCorrelationMatrixEmpty(t *testing.T) {
	m := BuildCorrelationMatrix(nil, nil, nil)
	if !m.Empty() {
		t.Fatalf("expected empty matrix")
	}
}
