package usecase

import (
	"fmt"
	"sort"
	"time"

	"MarketPulse/internal/domain/models"
)

func intPtr(n int) *int { return &n }

// crisisCatalog is the fixed set of named historical windows. Reference
// drawdowns and recovery spans are catalog constants for the broad US
// market, recorded for context next to the simulated portfolio numbers.
var crisisCatalog = []models.StressTestPeriod{
	{
		ID:                      "gfc_2008",
		Name:                    "Global Financial Crisis",
		Description:             "Peak-to-trough of the 2008 credit crisis",
		StartDate:               time.Date(2007, 10, 9, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2009, 3, 9, 0, 0, 0, 0, time.UTC),
		ReferenceMarketDrawdown: -0.568,
		RecoveryDays:            intPtr(1480),
	},
	{
		ID:                      "covid_crash",
		Name:                    "COVID-19 Crash",
		Description:             "February-March 2020 pandemic selloff",
		StartDate:               time.Date(2020, 2, 19, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2020, 3, 23, 0, 0, 0, 0, time.UTC),
		ReferenceMarketDrawdown: -0.339,
		RecoveryDays:            intPtr(148),
	},
	{
		ID:                      "rate_shock_2022",
		Name:                    "2022 Rate Shock",
		Description:             "Inflation and rate-hike driven bear market",
		StartDate:               time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2022, 10, 12, 0, 0, 0, 0, time.UTC),
		ReferenceMarketDrawdown: -0.254,
		RecoveryDays:            intPtr(512),
	},
	{
		ID:                      "dotcom_bust",
		Name:                    "Dot-Com Bust",
		Description:             "2000-2002 tech bubble unwind",
		StartDate:               time.Date(2000, 3, 24, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2002, 10, 9, 0, 0, 0, 0, time.UTC),
		ReferenceMarketDrawdown: -0.491,
		RecoveryDays:            intPtr(1694),
	},
	{
		ID:                      "volmageddon_2018",
		Name:                    "Volmageddon",
		Description:             "February 2018 short-volatility unwind",
		StartDate:               time.Date(2018, 1, 26, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2018, 2, 8, 0, 0, 0, 0, time.UTC),
		ReferenceMarketDrawdown: -0.102,
		RecoveryDays:            intPtr(186),
	},
}

// normalPeriodID identifies the dynamic trailing-twelve-month window.
const normalPeriodID = "normal_market"

// StressEngine replays a weighted portfolio through historical windows.
// It is pure computation; callers supply the bar history.
type StressEngine struct {
	now func() time.Time
}

func NewStressEngine() *StressEngine {
	return &StressEngine{now: time.Now}
}

// Periods lists the available stress windows: the crisis catalog plus a
// trailing-twelve-month baseline anchored at the current date. The
// baseline has no catalog recovery span.
func (e *StressEngine) Periods() []models.StressTestPeriod {
	out := make([]models.StressTestPeriod, len(crisisCatalog), len(crisisCatalog)+1)
	copy(out, crisisCatalog)
	end := e.now().UTC().Truncate(24 * time.Hour)
	out = append(out, models.StressTestPeriod{
		ID:          normalPeriodID,
		Name:        "Normal Market",
		Description: "Trailing twelve months",
		StartDate:   end.AddDate(-1, 0, 0),
		EndDate:     end,
	})
	return out
}

// Period resolves a period by ID.
func (e *StressEngine) Period(id string) (models.StressTestPeriod, error) {
	for _, p := range e.Periods() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.StressTestPeriod{}, fmt.Errorf("unknown stress period %q", id)
}

// Run replays the portfolio through one period. Weights are normalized
// to sum to one; each asset's close curve is rebased to 1.0 at its first
// bar inside the window and carried forward across missing days. Assets
// with no bars in the window hold their starting value, contributing
// zero return.
func (e *StressEngine) Run(weights map[string]float64, capital float64, period models.StressTestPeriod, series map[string]*models.AssetSeries) (*models.StressTestResult, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("empty portfolio")
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight")
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}

	tickers := make([]string, 0, len(weights))
	for t := range weights {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	startMs := period.StartDate.UnixMilli()
	endMs := period.EndDate.Add(24 * time.Hour).UnixMilli()

	// rebased per-asset curves, index-aligned; assets with no bars in
	// the window drop out of the portfolio sum entirely
	type curve struct {
		weight float64
		vals   []float64
	}
	curves := make([]curve, 0, len(tickers))
	assets := make(map[string]models.AssetStressResult, len(tickers))

	for _, t := range tickers {
		s := series[t]
		var vals []float64
		var first float64
		peak := 1.0
		maxDD := 0.0
		if s != nil {
			for _, b := range s.Bars {
				if b.Timestamp < startMs || b.Timestamp >= endMs || b.Close <= 0 {
					continue
				}
				if first == 0 {
					first = b.Close
				}
				v := b.Close / first
				vals = append(vals, v)
				if v > peak {
					peak = v
				}
				if dd := v/peak - 1; dd < maxDD {
					maxDD = dd
				}
			}
		}
		res := models.AssetStressResult{}
		if len(vals) > 0 {
			res.Return = vals[len(vals)-1] - 1
			res.Drawdown = maxDD
			curves = append(curves, curve{weight: weights[t] / total, vals: vals})
		}
		assets[t] = res
	}

	result := &models.StressTestResult{
		Period:       period,
		Assets:       assets,
		RecoveryDays: period.RecoveryDays,
	}
	if len(curves) == 0 {
		return result, nil
	}

	// shorter series truncate the alignment window
	n := len(curves[0].vals)
	for _, c := range curves[1:] {
		if len(c.vals) < n {
			n = len(c.vals)
		}
	}

	var start, final float64
	peak := 0.0
	maxDD := 0.0
	for i := 0; i < n; i++ {
		v := 0.0
		for _, c := range curves {
			v += c.weight * c.vals[i]
		}
		if i == 0 {
			start = v
		}
		if v > peak {
			peak = v
		}
		if dd := v/peak - 1; dd < maxDD {
			maxDD = dd
		}
		final = v
	}

	result.PortfolioDrawdown = maxDD
	if start > 0 {
		result.PortfolioReturn = final/start - 1
	}
	result.DollarLoss = capital * -maxDD
	return result, nil
}
