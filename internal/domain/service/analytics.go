package service

import (
	"time"

	"MarketPulse/internal/domain/models"
)

// DateRange is an optional requested coverage window for validation.
type DateRange struct {
	From time.Time
	To   time.Time
}

// RegimeClassifier turns aligned multi-asset return series into a regime
// signal time series. Implementations differ in how they standardize the
// day's return vector (full covariance inverse vs per-asset variances);
// the threshold-to-regime mapping is shared and fixed.
//
// returns holds one equal-length series per ticker, aligned on a common
// calendar; timestamps has one entry per return row. An empty slice is
// returned when there is not enough data, never an error.
type RegimeClassifier interface {
	Classify(returns map[string][]float64, timestamps []int64) []models.RegimeSignal
}

// SeriesValidator assesses data quality. Validation never fails hard:
// issues accumulate and the quality tier degrades.
type SeriesValidator interface {
	ValidateSeries(ticker string, bars []models.Bar, requested *DateRange) models.ValidationResult
	ValidateMatrix(m *models.CorrelationMatrix) models.ValidationResult
}
