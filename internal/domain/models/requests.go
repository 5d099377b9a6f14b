package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type FetchRequest struct {
	Tickers     []string `json:"tickers" validate:"required,min=1,max=50,dive,required"`
	From        string   `json:"from" validate:"required"`
	To          string   `json:"to" validate:"required"`
	Granularity string   `json:"granularity" validate:"omitempty,oneof=day hour week"`
	BypassCache bool     `json:"bypass_cache"`
}

type AnalysisRequest struct {
	Tickers     []string `json:"tickers" validate:"required,min=1,max=50,dive,required"`
	From        string   `json:"from" validate:"required"`
	To          string   `json:"to" validate:"required"`
	Lookback    int      `json:"lookback" default:"60" validate:"gte=10,lte=500"`
	BypassCache bool     `json:"bypass_cache"`
}

type StressRequest struct {
	Weights  map[string]float64 `json:"weights" validate:"required,min=1"`
	Capital  float64            `json:"capital" default:"100000" validate:"gt=0"`
	PeriodID string             `json:"period_id"`
}
