package models

import "time"

// StressTestPeriod names a historical window a portfolio is replayed through.
// RecoveryDays is a catalog constant for known crises, not derived from the
// simulation; it is nil for the dynamically computed normal window.
type StressTestPeriod struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Description             string    `json:"description"`
	StartDate               time.Time `json:"start_date"`
	EndDate                 time.Time `json:"end_date"`
	ReferenceMarketDrawdown float64   `json:"reference_market_drawdown"`
	RecoveryDays            *int      `json:"recovery_days,omitempty"`
}

// AssetStressResult is one asset's own drawdown/return over the period.
type AssetStressResult struct {
	Drawdown float64 `json:"drawdown"`
	Return   float64 `json:"return"`
}

// StressTestResult is the replay outcome for one period. Assets with no
// data in the period contribute nothing to the portfolio curve and appear
// in the breakdown with zero drawdown/return.
type StressTestResult struct {
	Period            StressTestPeriod             `json:"period"`
	PortfolioDrawdown float64                      `json:"portfolio_drawdown"`
	PortfolioReturn   float64                      `json:"portfolio_return"`
	DollarLoss        float64                      `json:"dollar_loss"`
	RecoveryDays      *int                         `json:"recovery_days,omitempty"`
	Assets            map[string]AssetStressResult `json:"assets"`
}
