package models

import "time"

// CorrelationMatrix holds pairwise Pearson coefficients for an ordered
// ticker list. Symmetric with unit diagonal; entries in [-1, 1].
type CorrelationMatrix struct {
	Tickers    []string         `json:"tickers"`
	Matrix     [][]float64      `json:"matrix"`
	Timestamp  time.Time        `json:"timestamp"`
	Validation ValidationResult `json:"validation"`
}

// Empty reports whether the matrix was skipped for lack of assets.
func (m *CorrelationMatrix) Empty() bool {
	return m == nil || len(m.Tickers) == 0
}

// Regime is one of four discrete market-volatility states.
type Regime string

const (
	RegimeLowVol  Regime = "low_vol"
	RegimeNormal  Regime = "normal"
	RegimeHighVol Regime = "high_vol"
	RegimeCrisis  Regime = "crisis"
)

// RegimeSignal is one day's classification: the turbulence index (a
// Mahalanobis-style distance, always >= 0), the regime it maps to, and
// the fractal dimension of the trailing window (in [1, 2]).
type RegimeSignal struct {
	Timestamp        int64   `json:"t"`
	TurbulenceIndex  float64 `json:"turbulence_index"`
	Regime           Regime  `json:"regime"`
	FractalDimension float64 `json:"fractal_dimension"`
}
