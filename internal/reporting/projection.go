package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// averagePlaces keeps daily averages precise enough that projecting them
// back over a month does not drift visibly.
const averagePlaces = 6

// DailyAverage is the mean of a metric over a number of calendar days.
// Days without sales are part of the denominator; they are zero data
// points, not excluded days.
func DailyAverage(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(days)), averagePlaces)
}

// Project extrapolates a daily average over a full period length.
func Project(dailyAverage decimal.Decimal, periodDays int) decimal.Decimal {
	if periodDays <= 0 {
		return decimal.Zero
	}
	return dailyAverage.Mul(decimal.NewFromInt(int64(periodDays))).Round(2)
}

// StockDays converts current stock and a trailing daily unit velocity into
// whole days of stock remaining. ok is false when the velocity is not
// positive: zero velocity means the projection is meaningless, not that the
// stock lasts forever.
func StockDays(stock, dailyAvgUnits decimal.Decimal) (int64, bool) {
	if dailyAvgUnits.LessThanOrEqual(decimal.Zero) {
		return 0, false
	}
	return stock.Div(dailyAvgUnits).Floor().IntPart(), true
}

// VelocityDays measures each product's own trailing window: whole days from
// its last restock date through today. Zero means the product was restocked
// today and any velocity over the window would divide by a near-zero day
// count; callers must short-circuit to the just-restocked sentinel.
func VelocityDays(lastRestock, now time.Time) int {
	from := time.Date(lastRestock.Year(), lastRestock.Month(), lastRestock.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !today.After(from) {
		return 0
	}
	return int(today.Sub(from).Hours() / 24)
}
