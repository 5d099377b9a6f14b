package analytics

import (
	"math"
	"time"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
)

// BuildCorrelationMatrix computes pairwise Pearson correlations for the
// given tickers, in order. Each pair is correlated over the overlapping
// prefix min(len_i, len_j). Only the upper triangle is computed; the
// lower is mirrored, which also guarantees exact symmetry. The matrix
// validator runs afterwards and its result is attached.
func BuildCorrelationMatrix(tickers []string, returns map[string][]float64, validator domsvc.SeriesValidator) *models.CorrelationMatrix {
	n := len(tickers)
	if n == 0 {
		return &models.CorrelationMatrix{Timestamp: time.Now()}
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		matrix[i][i] = 1
		for j := i + 1; j < n; j++ {
			c := pearson(returns[tickers[i]], returns[tickers[j]])
			matrix[i][j], matrix[j][i] = c, c
		}
	}

	m := &models.CorrelationMatrix{
		Tickers:   append([]string(nil), tickers...),
		Matrix:    matrix,
		Timestamp: time.Now(),
	}
	if validator != nil {
		m.Validation = validator.ValidateMatrix(m)
	}
	return m
}

// pearson computes the correlation coefficient over the common prefix.
func pearson(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var ma, mb float64
	for i := 0; i < n; i++ {
		ma += a[i]
		mb += b[i]
	}
	ma /= float64(n)
	mb /= float64(n)

	var num, da, db float64
	for i := 0; i < n; i++ {
		x := a[i] - ma
		y := b[i] - mb
		num += x * y
		da += x * x
		db += y * y
	}

	den := math.Sqrt(da * db)
	if den == 0 {
		return 0
	}
	return num / den
}
