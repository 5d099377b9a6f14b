package usecase

import (
	"testing"

	"MarketPulse/internal/domain/models"
)

func seriesWithValidation(v models.ValidationResult) *models.AssetSeries {
	return &models.AssetSeries{Validation: v}
}

func TestAuditIntegrityValid(t *testing.T) {
	series := map[string]*models.AssetSeries{
		"A": seriesWithValidation(models.ValidationResult{IsValid: true, Quality: models.QualityHigh}),
		"B": seriesWithValidation(models.ValidationResult{IsValid: true, Quality: models.QualityHigh}),
	}
	report := AuditIntegrity(series, nil)
	if report.Status != models.IntegrityValid {
		t.Fatalf("status %s, want valid", report.Status)
	}
	if len(report.Assets) != 2 || report.Matrix != nil {
		t.Fatalf("unexpected report shape: %+v", report)
	}
}

func TestAuditIntegrityWarnings(t *testing.T) {
	series := map[string]*models.AssetSeries{
		"A": seriesWithValidation(models.ValidationResult{IsValid: true, Quality: models.QualityHigh}),
		"B": seriesWithValidation(models.ValidationResult{
			IsValid: true,
			Quality: models.QualityMedium,
			Issues:  []string{"coverage 85% of requested range"},
		}),
	}
	if report := AuditIntegrity(series, nil); report.Status != models.IntegrityWarnings {
		t.Fatalf("status %s, want warnings", report.Status)
	}
}

func TestAuditIntegrityErrorsOnLowQuality(t *testing.T) {
	series := map[string]*models.AssetSeries{
		"A": seriesWithValidation(models.ValidationResult{IsValid: true, Quality: models.QualityHigh}),
		"B": seriesWithValidation(models.ValidationResult{
			IsValid: false,
			Quality: models.QualityLow,
			Issues:  []string{"4 price jumps above 50%"},
		}),
	}
	if report := AuditIntegrity(series, nil); report.Status != models.IntegrityErrors {
		t.Fatalf("status %s, want errors", report.Status)
	}
}

func TestAuditIntegrityMatrixEscalates(t *testing.T) {
	series := map[string]*models.AssetSeries{
		"A": seriesWithValidation(models.ValidationResult{IsValid: true, Quality: models.QualityHigh}),
	}
	matrix := &models.CorrelationMatrix{
		Tickers: []string{"A"},
		Matrix:  [][]float64{{1}},
		Validation: models.ValidationResult{
			IsValid: false,
			Quality: models.QualityLow,
			Issues:  []string{"matrix entry out of range"},
		},
	}
	report := AuditIntegrity(series, matrix)
	if report.Status != models.IntegrityErrors {
		t.Fatalf("status %s, want errors", report.Status)
	}
	if report.Matrix == nil || report.Matrix.IsValid {
		t.Fatalf("matrix verdict should be attached")
	}
}
