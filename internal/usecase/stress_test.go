package usecase

import (
	"math"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func barsFromCloses(start time.Time, closes []float64) []models.Bar {
	out := make([]models.Bar, 0, len(closes))
	t := start
	for _, c := range closes {
		for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			t = t.AddDate(0, 0, 1)
		}
		out = append(out, models.Bar{Timestamp: t.UnixMilli(), Open: c, High: c, Low: c, Close: c, Volume: 1000})
		t = t.AddDate(0, 0, 1)
	}
	return out
}

func TestStressPeriodsCatalog(t *testing.T) {
	e := NewStressEngine()
	periods := e.Periods()
	if len(periods) != 6 {
		t.Fatalf("got %d periods, want 5 crises plus the normal window", len(periods))
	}

	gfc, err := e.Period("gfc_2008")
	if err != nil {
		t.Fatalf("gfc_2008 missing: %v", err)
	}
	if gfc.ReferenceMarketDrawdown != -0.568 || gfc.RecoveryDays == nil || *gfc.RecoveryDays != 1480 {
		t.Fatalf("gfc_2008 catalog constants drifted: %+v", gfc)
	}

	normal, err := e.Period(normalPeriodID)
	if err != nil {
		t.Fatalf("normal window missing: %v", err)
	}
	if normal.RecoveryDays != nil {
		t.Fatalf("normal window should not carry a recovery span")
	}
	if d := normal.EndDate.Sub(normal.StartDate); d < 360*24*time.Hour || d > 370*24*time.Hour {
		t.Fatalf("normal window span %v, want ~1 year", d)
	}

	if _, err := e.Period("nope"); err == nil {
		t.Fatalf("unknown period should error")
	}
}

func TestStressRunSixtyForty(t *testing.T) {
	e := NewStressEngine()
	period, _ := e.Period("covid_crash")
	start := period.StartDate

	// A halves then fully recovers; B never moves
	series := map[string]*models.AssetSeries{
		"A": {Ticker: "A", Bars: barsFromCloses(start, []float64{100, 80, 50, 75, 100})},
		"B": {Ticker: "B", Bars: barsFromCloses(start, []float64{40, 40, 40, 40, 40})},
	}
	weights := map[string]float64{"A": 0.6, "B": 0.4}

	res, err := e.Run(weights, 100000, period, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// trough: 0.6*0.5 + 0.4*1.0 = 0.7
	if math.Abs(res.PortfolioDrawdown-(-0.3)) > 1e-9 {
		t.Fatalf("portfolio drawdown %g, want -0.3", res.PortfolioDrawdown)
	}
	if math.Abs(res.DollarLoss-30000) > 1e-6 {
		t.Fatalf("dollar loss %g, want 30000", res.DollarLoss)
	}
	if math.Abs(res.PortfolioReturn) > 1e-9 {
		t.Fatalf("portfolio return %g, want 0", res.PortfolioReturn)
	}
	if a := res.Assets["A"]; math.Abs(a.Drawdown-(-0.5)) > 1e-9 || math.Abs(a.Return) > 1e-9 {
		t.Fatalf("asset A result %+v", a)
	}
	if b := res.Assets["B"]; b.Drawdown != 0 || b.Return != 0 {
		t.Fatalf("asset B result %+v", b)
	}
	if res.RecoveryDays == nil || *res.RecoveryDays != 148 {
		t.Fatalf("recovery days should carry over from the catalog")
	}
}

func TestStressRunNormalizesWeights(t *testing.T) {
	e := NewStressEngine()
	period, _ := e.Period("covid_crash")
	start := period.StartDate

	series := map[string]*models.AssetSeries{
		"A": {Ticker: "A", Bars: barsFromCloses(start, []float64{100, 50, 100})},
		"B": {Ticker: "B", Bars: barsFromCloses(start, []float64{40, 40, 40})},
	}

	a, err := e.Run(map[string]float64{"A": 0.6, "B": 0.4}, 100000, period, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Run(map[string]float64{"A": 60, "B": 40}, 100000, period, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.PortfolioDrawdown-b.PortfolioDrawdown) > 1e-12 {
		t.Fatalf("scaling weights changed the result: %g vs %g", a.PortfolioDrawdown, b.PortfolioDrawdown)
	}
}

func TestStressRunMissingAsset(t *testing.T) {
	e := NewStressEngine()
	period, _ := e.Period("covid_crash")
	start := period.StartDate

	series := map[string]*models.AssetSeries{
		"A": {Ticker: "A", Bars: barsFromCloses(start, []float64{100, 90, 100})},
		// C has no bars in the window at all
		"C": {Ticker: "C"},
	}
	res, err := e.Run(map[string]float64{"A": 0.5, "C": 0.5}, 100000, period, series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := res.Assets["C"]; c.Drawdown != 0 || c.Return != 0 {
		t.Fatalf("asset with no data should report zeros, got %+v", c)
	}
	// C drops out of the sum entirely, leaving A's curve
	if math.Abs(res.PortfolioDrawdown-(-0.1)) > 1e-9 {
		t.Fatalf("portfolio drawdown %g, want -0.1", res.PortfolioDrawdown)
	}
}

func TestStressRunRejectsBadWeights(t *testing.T) {
	e := NewStressEngine()
	period, _ := e.Period("covid_crash")

	if _, err := e.Run(nil, 100000, period, nil); err == nil {
		t.Fatalf("empty weights should error")
	}
	if _, err := e.Run(map[string]float64{"A": -1, "B": 2}, 100000, period, nil); err == nil {
		t.Fatalf("negative weight should error")
	}
	if _, err := e.Run(map[string]float64{"A": 0}, 100000, period, nil); err == nil {
		t.Fatalf("zero total weight should error")
	}
}
