package bars

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
)

func weekdaySeries(start time.Time, closes []float64) []models.Bar {
	out := make([]models.Bar, 0, len(closes))
	day := start
	for _, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		out = append(out, barAt(day, c))
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func TestValidateSeriesClean(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 101, 100.5, 102, 101.7, 103, 102.2, 104, 103.1, 105}
	bars := weekdaySeries(start, closes)

	res := v.ValidateSeries("SPY", bars, nil)
	if !res.IsValid || res.Quality != models.QualityHigh {
		t.Fatalf("clean series should be high quality, got %+v", res)
	}
}

func TestValidateSeriesJump(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	bars := weekdaySeries(start, []float64{100, 101, 200, 201, 202})

	res := v.ValidateSeries("XYZ", bars, nil)
	if res.Quality != models.QualityMedium {
		t.Fatalf("one jump should demote to medium, got %s", res.Quality)
	}
	if len(res.Issues) == 0 {
		t.Fatalf("expected a jump issue")
	}
}

func TestValidateSeriesStale(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	bars := weekdaySeries(start, []float64{100, 100, 100, 100, 100, 100})

	res := v.ValidateSeries("XYZ", bars, nil)
	if res.Quality != models.QualityMedium {
		t.Fatalf("stale run should demote to medium, got %s", res.Quality)
	}
}

func TestValidateSeriesCoverage(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 10, 25, 0, 0, 0, 0, time.UTC) // ~40 trading days
	bars := weekdaySeries(start, []float64{100, 101, 102})

	res := v.ValidateSeries("XYZ", bars, &domsvc.DateRange{From: start, To: end})
	if res.Quality != models.QualityLow || res.IsValid {
		t.Fatalf("sparse coverage should be low quality, got %+v", res)
	}
}

func TestValidateSeriesEmpty(t *testing.T) {
	v := NewValidator()
	res := v.ValidateSeries("XYZ", nil, nil)
	if res.IsValid || res.Quality != models.QualityLow {
		t.Fatalf("empty series should be invalid low, got %+v", res)
	}
}

func TestValidateMatrix(t *testing.T) {
	v := NewValidator()

	good := &models.CorrelationMatrix{
		Tickers: []string{"A", "B"},
		Matrix:  [][]float64{{1, 0.5}, {0.5, 1}},
	}
	res := v.ValidateMatrix(good)
	if !res.IsValid || len(res.Issues) != 0 {
		t.Fatalf("valid matrix flagged: %+v", res)
	}

	bad := &models.CorrelationMatrix{
		Tickers: []string{"A", "B"},
		Matrix:  [][]float64{{1, 1.5}, {0.4, 0.9}},
	}
	res = v.ValidateMatrix(bad)
	if res.IsValid {
		t.Fatalf("invalid matrix passed")
	}
	// out-of-range, asymmetry, and bad diagonal should all surface
	if len(res.Issues) < 3 {
		t.Fatalf("expected >=3 issues, got %v", res.Issues)
	}
}
