package analytics

import (
	"math"
	"sort"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/services/features"
)

// DefaultLookback is the trailing window, in trading days, used to
// establish the "recent history" a day is measured against.
const DefaultLookback = 60

// MinAssetsForAnalysis is the smallest universe the turbulence and
// correlation computations accept.
const MinAssetsForAnalysis = 3

// Thresholds maps the turbulence index to a regime. The boundaries are
// fixed reference constants; downstream consumers depend on the exact
// mapping.
type Thresholds struct {
	Normal  float64 // above: normal
	HighVol float64 // above: high_vol
	Crisis  float64 // above: crisis
}

// DefaultThresholds returns the reference 8/15/25 boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Normal: 8, HighVol: 15, Crisis: 25}
}

// ClassifyTurbulence maps a turbulence index to its regime label.
// The mapping is pure and deterministic.
func ClassifyTurbulence(idx float64, t Thresholds) models.Regime {
	switch {
	case idx > t.Crisis:
		return models.RegimeCrisis
	case idx > t.HighVol:
		return models.RegimeHighVol
	case idx > t.Normal:
		return models.RegimeNormal
	default:
		return models.RegimeLowVol
	}
}

// distanceFunc scores one day's return vector against its trailing
// window. window is [day][asset]; day is the vector being scored.
type distanceFunc func(window [][]float64, means []float64, day []float64) float64

// CovarianceClassifier computes the turbulence index as a full
// Mahalanobis distance: sqrt((r-mu)' Sigma^-1 (r-mu)) with Sigma the
// trailing-window covariance matrix inverted by Gauss-Jordan
// elimination. When the matrix is singular the diagonal approximation
// is used for that day. This is the default classifier.
type CovarianceClassifier struct {
	Window     int
	Thresholds Thresholds
	MinAssets  int
}

func NewCovarianceClassifier(window int, th Thresholds, minAssets int) *CovarianceClassifier {
	return &CovarianceClassifier{Window: window, Thresholds: th, MinAssets: minAssets}
}

var _ domsvc.RegimeClassifier = (*CovarianceClassifier)(nil)

func (c *CovarianceClassifier) Classify(returns map[string][]float64, timestamps []int64) []models.RegimeSignal {
	return classify(returns, timestamps, c.Window, c.Thresholds, c.MinAssets, covarianceDistance)
}

// DiagonalClassifier is the fast path: it ignores cross-asset
// covariance and sums squared per-asset standardized deviations,
// skipping assets with non-positive variance.
type DiagonalClassifier struct {
	Window     int
	Thresholds Thresholds
	MinAssets  int
}

func NewDiagonalClassifier(window int, th Thresholds, minAssets int) *DiagonalClassifier {
	return &DiagonalClassifier{Window: window, Thresholds: th, MinAssets: minAssets}
}

var _ domsvc.RegimeClassifier = (*DiagonalClassifier)(nil)

func (c *DiagonalClassifier) Classify(returns map[string][]float64, timestamps []int64) []models.RegimeSignal {
	return classify(returns, timestamps, c.Window, c.Thresholds, c.MinAssets, diagonalDistance)
}

// classify runs the rolling-window computation shared by both
// classifiers. Input series are aligned on a common calendar; anything
// longer than the timestamp axis is truncated from the front so the
// most recent observations line up.
func classify(returns map[string][]float64, timestamps []int64, window int, th Thresholds, minAssets int, dist distanceFunc) []models.RegimeSignal {
	if window <= 0 {
		window = DefaultLookback
	}
	if minAssets <= 0 {
		minAssets = MinAssetsForAnalysis
	}
	if len(returns) < minAssets {
		return nil
	}

	// deterministic asset ordering
	tickers := make([]string, 0, len(returns))
	for t := range returns {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	n := len(timestamps)
	for _, t := range tickers {
		if len(returns[t]) < n {
			n = len(returns[t])
		}
	}
	if n < window+2 {
		return nil
	}

	// rows[day][asset], using the last n observations of each series
	rows := make([][]float64, n)
	for d := 0; d < n; d++ {
		rows[d] = make([]float64, len(tickers))
	}
	for a, t := range tickers {
		s := returns[t]
		s = s[len(s)-n:]
		for d := 0; d < n; d++ {
			rows[d][a] = s[d]
		}
	}
	ts := timestamps[len(timestamps)-n:]

	signals := make([]models.RegimeSignal, 0, n-window-1)
	for d := window; d <= n-2; d++ {
		win := rows[d-window : d]

		means := make([]float64, len(tickers))
		for a := range tickers {
			sum := 0.0
			for _, row := range win {
				sum += row[a]
			}
			means[a] = sum / float64(len(win))
		}

		turb := dist(win, means, rows[d])
		if turb < 0 || math.IsNaN(turb) || math.IsInf(turb, 0) {
			turb = 0
		}

		// portfolio-average return series for the window drives the
		// fractal estimate
		avg := make([]float64, len(win))
		for i, row := range win {
			avg[i] = features.Mean(row)
		}

		signals = append(signals, models.RegimeSignal{
			Timestamp:        ts[d],
			TurbulenceIndex:  turb,
			Regime:           ClassifyTurbulence(turb, th),
			FractalDimension: FractalDimension(avg),
		})
	}
	return signals
}

func diagonalDistance(window [][]float64, means []float64, day []float64) float64 {
	sum := 0.0
	for a := range means {
		col := make([]float64, len(window))
		for i, row := range window {
			col[i] = row[a]
		}
		variance := features.Variance(col)
		if variance <= 0 {
			continue
		}
		d := day[a] - means[a]
		sum += d * d / variance
	}
	return math.Sqrt(sum)
}

func covarianceDistance(window [][]float64, means []float64, day []float64) float64 {
	cov := covarianceMatrix(window, means)
	inv, ok := invertMatrix(cov)
	if !ok {
		return diagonalDistance(window, means, day)
	}

	n := len(means)
	diff := make([]float64, n)
	for a := 0; a < n; a++ {
		diff[a] = day[a] - means[a]
	}

	quad := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			quad += diff[i] * inv[i][j] * diff[j]
		}
	}
	if quad < 0 {
		return 0
	}
	return math.Sqrt(quad)
}
