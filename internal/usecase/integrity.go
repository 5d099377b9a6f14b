package usecase

import (
	"MarketPulse/internal/domain/models"
)

// AuditIntegrity rolls per-asset validation verdicts and the matrix
// verdict into one report. Any low-quality input escalates the status
// to errors; any recorded issue at higher quality yields warnings.
func AuditIntegrity(series map[string]*models.AssetSeries, matrix *models.CorrelationMatrix) models.IntegrityReport {
	report := models.IntegrityReport{
		Status: models.IntegrityValid,
		Assets: make(map[string]models.ValidationResult, len(series)),
	}

	escalate := func(v models.ValidationResult) {
		if v.Quality == models.QualityLow || !v.IsValid {
			report.Status = models.IntegrityErrors
		} else if len(v.Issues) > 0 && report.Status == models.IntegrityValid {
			report.Status = models.IntegrityWarnings
		}
	}

	for ticker, s := range series {
		report.Assets[ticker] = s.Validation
		escalate(s.Validation)
	}
	if !matrix.Empty() {
		v := matrix.Validation
		report.Matrix = &v
		escalate(v)
	}
	return report
}
