package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

// GrowthEntry compares a product's unit sales against the prior month.
// New is set when the product had no prior-period sales at all; GrowthPct
// is zero in that case rather than a divide-by-zero or a sentinel number.
type GrowthEntry struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	CurrentUnits decimal.Decimal `json:"current_units"`
	PriorUnits   decimal.Decimal `json:"prior_units"`
	UnitDiff     decimal.Decimal `json:"unit_diff"`
	GrowthPct    decimal.Decimal `json:"growth_pct"`
	New          bool            `json:"new"`
}

// RankGrowth keeps the products whose unit sales grew against the prior
// month and orders them by absolute unit growth. Percentage growth is
// informational only; ranking by it would let a 1-to-2 jump beat a
// 100-to-180 one.
func RankGrowth(current, prior []reporting.ProductAggregate) []GrowthEntry {
	priorUnits := make(map[int64]decimal.Decimal, len(prior))
	for _, row := range prior {
		priorUnits[row.ProductID] = row.Units
	}

	var entries []GrowthEntry
	for _, row := range current {
		before, hadPrior := priorUnits[row.ProductID]
		if !hadPrior {
			before = decimal.Zero
		}
		diff := row.Units.Sub(before)
		if !diff.IsPositive() {
			continue
		}
		entry := GrowthEntry{
			ProductID:    row.ProductID,
			Name:         row.Name,
			CurrentUnits: row.Units,
			PriorUnits:   before,
			UnitDiff:     diff,
		}
		if before.IsPositive() {
			entry.GrowthPct = diff.Div(before).Mul(hundred).Round(2)
		} else {
			entry.New = true
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].UnitDiff.Equal(entries[j].UnitDiff) {
			return entries[i].UnitDiff.GreaterThan(entries[j].UnitDiff)
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries
}
