package bars

import (
	"fmt"
	"math"
	"time"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/pkg/util"
)

const (
	// coverage ratios below these demote the quality tier
	coverageMediumThreshold = 0.9
	coverageLowThreshold    = 0.6

	// a close-to-close move beyond this fraction is flagged as a jump
	jumpThreshold = 0.5

	// this many jumps make the feed untrustworthy
	maxJumpsBeforeLow = 3

	// identical consecutive closes on traded bars signaling a stale feed
	staleRunLength = 5
)

// Validator flags per-series and per-matrix data quality issues.
// It never fails hard: issues accumulate and the tier degrades.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

var _ domsvc.SeriesValidator = (*Validator)(nil)

// ValidateSeries assesses one ticker's bar sequence against an optional
// requested range. Quality starts high and only moves down.
func (v *Validator) ValidateSeries(ticker string, bars []models.Bar, requested *domsvc.DateRange) models.ValidationResult {
	res := models.ValidationResult{IsValid: true, Quality: models.QualityHigh}

	if len(bars) == 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("%s: no bars", ticker))
		res.Quality = models.QualityLow
		res.IsValid = false
		return res
	}

	if requested != nil {
		expected := util.TradingDaysBetween(requested.From, requested.To)
		if expected > 0 {
			ratio := float64(len(bars)) / float64(expected)
			if ratio < coverageLowThreshold {
				res.Issues = append(res.Issues, fmt.Sprintf("%s: sparse coverage, %d bars for ~%d expected trading days", ticker, len(bars), expected))
				demote(&res, models.QualityLow)
			} else if ratio < coverageMediumThreshold {
				res.Issues = append(res.Issues, fmt.Sprintf("%s: missing data, %d bars for ~%d expected trading days", ticker, len(bars), expected))
				demote(&res, models.QualityMedium)
			}
		}
	}

	jumps := 0
	staleRun := 1
	maxStaleRun := 1
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]

		if prev.Close > 0 {
			move := math.Abs(cur.Close/prev.Close - 1)
			if move > jumpThreshold {
				jumps++
				res.Issues = append(res.Issues, fmt.Sprintf("%s: %.0f%% price jump at %s", ticker, move*100, day(cur.Timestamp)))
			}
		}

		// synthetic fill bars repeat the prior close by construction,
		// so only traded bars count toward stale detection
		if !cur.Synthetic() && !prev.Synthetic() && cur.Close == prev.Close {
			staleRun++
			if staleRun > maxStaleRun {
				maxStaleRun = staleRun
			}
		} else {
			staleRun = 1
		}
	}

	if jumps > maxJumpsBeforeLow {
		demote(&res, models.QualityLow)
	} else if jumps > 0 {
		demote(&res, models.QualityMedium)
	}

	if maxStaleRun >= staleRunLength {
		res.Issues = append(res.Issues, fmt.Sprintf("%s: %d identical consecutive closes, possible stale feed", ticker, maxStaleRun))
		demote(&res, models.QualityMedium)
	}

	res.IsValid = res.Quality != models.QualityLow
	return res
}

// ValidateMatrix checks the correlation-matrix invariants: square shape,
// unit diagonal, symmetry, and entries within [-1, 1]. Violations become
// issues, never errors.
func (v *Validator) ValidateMatrix(m *models.CorrelationMatrix) models.ValidationResult {
	res := models.ValidationResult{IsValid: true, Quality: models.QualityHigh}
	if m == nil || len(m.Tickers) == 0 {
		res.Issues = append(res.Issues, "empty correlation matrix")
		res.Quality = models.QualityLow
		res.IsValid = false
		return res
	}

	n := len(m.Tickers)
	if len(m.Matrix) != n {
		res.Issues = append(res.Issues, fmt.Sprintf("matrix has %d rows for %d tickers", len(m.Matrix), n))
		res.Quality = models.QualityLow
		res.IsValid = false
		return res
	}

	const eps = 1e-9
	for i := 0; i < n; i++ {
		if len(m.Matrix[i]) != n {
			res.Issues = append(res.Issues, fmt.Sprintf("row %d has %d columns, want %d", i, len(m.Matrix[i]), n))
			continue
		}
		if math.Abs(m.Matrix[i][i]-1) > eps {
			res.Issues = append(res.Issues, fmt.Sprintf("diagonal [%d][%d] = %g, want 1", i, i, m.Matrix[i][i]))
		}
		for j := 0; j < n; j++ {
			if m.Matrix[i][j] < -1-eps || m.Matrix[i][j] > 1+eps {
				res.Issues = append(res.Issues, fmt.Sprintf("entry [%d][%d] = %g out of [-1, 1]", i, j, m.Matrix[i][j]))
			}
			if j > i && math.Abs(m.Matrix[i][j]-m.Matrix[j][i]) > eps {
				res.Issues = append(res.Issues, fmt.Sprintf("asymmetry at [%d][%d]", i, j))
			}
		}
	}

	if len(res.Issues) > 0 {
		res.Quality = models.QualityLow
		res.IsValid = false
	}
	return res
}

func demote(res *models.ValidationResult, to models.DataQuality) {
	rank := map[models.DataQuality]int{
		models.QualityHigh:   0,
		models.QualityMedium: 1,
		models.QualityLow:    2,
	}
	if rank[to] > rank[res.Quality] {
		res.Quality = to
	}
}

func day(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
