// Package stock watches the catalog's held quantities: health cutoffs,
// per-product days-of-stock projections anchored on each product's own
// restock date, and the daily low-stock alert decision.
package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Level buckets a product's display stock against the configured cutoffs.
type Level string

const (
	LevelHealthy  Level = "HEALTHY"
	LevelLow      Level = "LOW"
	LevelCritical Level = "CRITICAL"
)

// Thresholds are the two integer cutoffs separating the levels. A stock at
// or below Critical is critical; above Critical but at or below Low is low.
type Thresholds struct {
	Low      int64
	Critical int64
}

// NewThresholds validates the cutoff ordering.
func NewThresholds(low, critical int64) (Thresholds, error) {
	if critical < 0 || low < 0 {
		return Thresholds{}, fmt.Errorf("stock: negative threshold")
	}
	if critical > low {
		return Thresholds{}, fmt.Errorf("stock: critical cutoff %d above low cutoff %d", critical, low)
	}
	return Thresholds{Low: low, Critical: critical}, nil
}

// Classify buckets a display-unit stock quantity.
func (t Thresholds) Classify(displayStock decimal.Decimal) Level {
	if displayStock.LessThanOrEqual(decimal.NewFromInt(t.Critical)) {
		return LevelCritical
	}
	if displayStock.LessThanOrEqual(decimal.NewFromInt(t.Low)) {
		return LevelLow
	}
	return LevelHealthy
}

// ShouldAlert is the once-per-day dedup predicate for the low-stock mail.
// The caller owns persisting the new lastAlert value after a send; the
// predicate itself never mutates anything.
func ShouldAlert(lastAlert, today time.Time) bool {
	last := time.Date(lastAlert.Year(), lastAlert.Month(), lastAlert.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(last)
}
