package analytics

import (
	"math"
	"testing"
)

func TestFractalDimensionDegenerate(t *testing.T) {
	if fd := FractalDimension([]float64{0.01, 0.02}); fd != NeutralFractalDimension {
		t.Fatalf("short window: got %g, want neutral", fd)
	}
	flat := make([]float64, 20)
	if fd := FractalDimension(flat); fd != NeutralFractalDimension {
		t.Fatalf("zero dispersion: got %g, want neutral", fd)
	}
}

func TestFractalDimensionRange(t *testing.T) {
	w := make([]float64, 40)
	for i := range w {
		w[i] = 0.01 * math.Sin(float64(i)*0.7)
	}
	fd := FractalDimension(w)
	if fd < 1 || fd > 2 {
		t.Fatalf("fractal dimension %g out of [1, 2]", fd)
	}
}

func TestFractalDimensionMeanReverting(t *testing.T) {
	// perfectly alternating returns cap the cumulative range, pushing
	// the Hurst estimate to zero and the dimension to its ceiling
	w := make([]float64, 16)
	for i := range w {
		if i%2 == 0 {
			w[i] = 0.01
		} else {
			w[i] = -0.01
		}
	}
	if fd := FractalDimension(w); fd < 1.9 {
		t.Fatalf("alternating series: got %g, want near 2", fd)
	}
}
