package models

// Bar is one OHLCV record as delivered by the aggregates provider.
// Timestamp is a millisecond epoch; timestamps are strictly increasing
// within a series. Synthetic gap-fill bars carry zero volume.
type Bar struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	VWAP      float64 `json:"vw,omitempty"`
}

// Synthetic reports whether the bar was forward-filled during gap repair.
func (b Bar) Synthetic() bool { return b.Volume == 0 }

// AssetSeries is the fully prepared history for one ticker: repaired bars,
// derived log returns and annualized volatility, plus the validation verdict.
// A series is owned by the fetch that produced it and never mutated after.
type AssetSeries struct {
	Ticker        string           `json:"ticker"`
	Bars          []Bar            `json:"bars"`
	LogReturns    []float64        `json:"log_returns"`
	AnnualizedVol float64          `json:"annualized_vol"`
	Validation    ValidationResult `json:"validation"`
}

// FetchSource identifies where a ticker's bars came from.
type FetchSource string

const (
	SourceCache   FetchSource = "cache"
	SourceStore   FetchSource = "store"
	SourceNetwork FetchSource = "network"
)

// FetchDiagnostic records the per-ticker outcome of a batch fetch.
// Diagnostics are emitted in input-ticker order.
type FetchDiagnostic struct {
	Ticker   string      `json:"ticker"`
	Success  bool        `json:"success"`
	BarCount int         `json:"bar_count"`
	Error    string      `json:"error,omitempty"`
	Quality  DataQuality `json:"quality,omitempty"`
	Source   FetchSource `json:"source,omitempty"`
}
