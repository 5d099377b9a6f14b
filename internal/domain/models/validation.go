package models

// DataQuality is the three-tier verdict attached to a series or matrix.
// Tier low is unreliable for regime/correlation work; callers decide
// whether to use it, nothing is rejected automatically.
type DataQuality string

const (
	QualityHigh   DataQuality = "high"
	QualityMedium DataQuality = "medium"
	QualityLow    DataQuality = "low"
)

// ValidationResult accumulates human-readable issues instead of failing.
type ValidationResult struct {
	IsValid bool        `json:"is_valid"`
	Quality DataQuality `json:"quality"`
	Issues  []string    `json:"issues,omitempty"`
}

// IntegrityStatus is the rolled-up verdict over a whole fetch batch.
type IntegrityStatus string

const (
	IntegrityValid    IntegrityStatus = "valid"
	IntegrityWarnings IntegrityStatus = "warnings"
	IntegrityErrors   IntegrityStatus = "errors"
)

// IntegrityReport aggregates per-asset validations and the correlation
// matrix validation into one caller-facing report.
type IntegrityReport struct {
	Status IntegrityStatus             `json:"status"`
	Assets map[string]ValidationResult `json:"assets"`
	Matrix *ValidationResult           `json:"matrix,omitempty"`
}
