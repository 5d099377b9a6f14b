package analytics

import (
	"math"

	"MarketPulse/internal/services/features"
)

const (
	// windows shorter than this cannot support an R/S estimate
	minHurstSamples = 10

	// NeutralFractalDimension is returned for degenerate windows
	// (too few samples or zero dispersion).
	NeutralFractalDimension = 1.5
)

// FractalDimension estimates the fractal dimension of a return window
// via a simplified rescaled-range (R/S) statistic: the Hurst exponent
// H = log(R/S)/log(n), then clamp(2 - H, 1, 2). A trending series
// (H > 0.5) yields a dimension below 1.5, a mean-reverting one above.
func FractalDimension(window []float64) float64 {
	n := len(window)
	if n < minHurstSamples {
		return NeutralFractalDimension
	}

	sd := features.Stddev(window)
	if sd == 0 {
		return NeutralFractalDimension
	}

	mean := features.Mean(window)
	cum := 0.0
	minCum, maxCum := math.Inf(1), math.Inf(-1)
	for _, r := range window {
		cum += r - mean
		if cum < minCum {
			minCum = cum
		}
		if cum > maxCum {
			maxCum = cum
		}
	}

	rs := (maxCum - minCum) / sd
	if rs <= 0 {
		return NeutralFractalDimension
	}

	hurst := math.Log(rs) / math.Log(float64(n))
	if hurst < 0 {
		hurst = 0
	} else if hurst > 1 {
		hurst = 1
	}

	fd := 2 - hurst
	if fd < 1 {
		fd = 1
	} else if fd > 2 {
		fd = 2
	}
	return fd
}
