package bars

import (
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

// RepairGaps forward-fills trading-day gaps wider than a weekend.
// Whenever consecutive bars are more than util.MaxNaturalGapDays apart,
// synthetic bars are inserted for the intermediate weekdays, carrying the
// previous close as OHLC and zero volume. Original bars are never removed
// or reordered, so the output is a superset of the input with strictly
// increasing timestamps.
func RepairGaps(in []models.Bar) []models.Bar {
	if len(in) < 2 {
		return in
	}

	maxGap := time.Duration(util.MaxNaturalGapDays) * 24 * time.Hour
	out := make([]models.Bar, 0, len(in))
	out = append(out, in[0])

	for i := 1; i < len(in); i++ {
		prev := in[i-1]
		cur := in[i]

		gap := time.UnixMilli(cur.Timestamp).Sub(time.UnixMilli(prev.Timestamp))
		if gap > maxGap {
			out = append(out, fillBetween(prev, cur)...)
		}
		out = append(out, cur)
	}
	return out
}

// fillBetween synthesizes weekday bars strictly between prev and cur.
func fillBetween(prev, cur models.Bar) []models.Bar {
	var fills []models.Bar
	day := util.DayOf(prev.Timestamp).AddDate(0, 0, 1)
	last := util.DayOf(cur.Timestamp)

	for ; day.Before(last); day = day.AddDate(0, 0, 1) {
		if util.IsWeekend(day) {
			continue
		}
		fills = append(fills, models.Bar{
			Timestamp: day.UnixMilli(),
			Open:      prev.Close,
			High:      prev.Close,
			Low:       prev.Close,
			Close:     prev.Close,
			Volume:    0,
		})
	}
	return fills
}
