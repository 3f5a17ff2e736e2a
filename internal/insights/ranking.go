// Package insights derives leaderboards from the aggregated sales rows:
// product and supplier rankings with contribution shares, month-over-month
// unit growth and stock rotation.
package insights

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

// Metric selects the primary ranking key for product leaderboards.
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricUnits   Metric = "units"
	MetricMargin  Metric = "margin"
)

// ParseMetric maps the query token onto a Metric, defaulting to revenue.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "":
		return MetricRevenue, nil
	case MetricRevenue, MetricUnits, MetricMargin:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("insights: unknown metric %q", s)
	}
}

var hundred = decimal.NewFromInt(100)
var thousand = decimal.NewFromInt(1000)

// RankedProduct is one leaderboard row. Shares are percentages of the
// window totals; AvgUnitMargin is per display unit for discrete products
// and per storage unit for bulk ones.
type RankedProduct struct {
	ProductID       int64            `json:"product_id"`
	Name            string           `json:"name"`
	UnitKind        pricing.UnitKind `json:"unit_kind"`
	NetRevenue      decimal.Decimal  `json:"net_revenue"`
	Units           decimal.Decimal  `json:"units"`
	Margin          decimal.Decimal  `json:"margin"`
	RevenueSharePct decimal.Decimal  `json:"revenue_share_pct"`
	MarginSharePct  decimal.Decimal  `json:"margin_share_pct"`
	AvgUnitMargin   decimal.Decimal  `json:"avg_unit_margin"`
}

// sharePct is value/total scaled to a percentage, zero when total is zero.
func sharePct(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total).Mul(hundred).Round(2)
}

// RankProducts orders the rows descending by the chosen metric. Ties fall
// back to revenue descending, then to name ascending, so repeated runs over
// the same rows produce identical orderings.
func RankProducts(rows []reporting.ProductAggregate, metric Metric) []RankedProduct {
	totalRevenue := decimal.Zero
	totalMargin := decimal.Zero
	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.NetRevenue)
		totalMargin = totalMargin.Add(row.Margin)
	}

	ranked := make([]RankedProduct, 0, len(rows))
	for _, row := range rows {
		entry := RankedProduct{
			ProductID:       row.ProductID,
			Name:            row.Name,
			UnitKind:        row.UnitKind,
			NetRevenue:      row.NetRevenue,
			Units:           row.Units,
			Margin:          row.Margin,
			RevenueSharePct: sharePct(row.NetRevenue, totalRevenue),
			MarginSharePct:  sharePct(row.Margin, totalMargin),
			AvgUnitMargin:   avgUnitMargin(row),
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		av := metricFromRanked(a, metric)
		bv := metricFromRanked(b, metric)
		if !av.Equal(bv) {
			return av.GreaterThan(bv)
		}
		if !a.NetRevenue.Equal(b.NetRevenue) {
			return a.NetRevenue.GreaterThan(b.NetRevenue)
		}
		return a.Name < b.Name
	})
	return ranked
}

func metricFromRanked(row RankedProduct, metric Metric) decimal.Decimal {
	switch metric {
	case MetricUnits:
		return row.Units
	case MetricMargin:
		return row.Margin
	default:
		return row.NetRevenue
	}
}

// avgUnitMargin divides the margin by the units sold. Bulk rows are further
// divided by the storage ratio so the figure reads per gram, not per kilo;
// the till prints it next to the per-gram price.
func avgUnitMargin(row reporting.ProductAggregate) decimal.Decimal {
	if row.Units.IsZero() {
		return decimal.Zero
	}
	avg := row.Margin.DivRound(row.Units, 6)
	if row.UnitKind == pricing.UnitBulk {
		avg = avg.DivRound(thousand, 6)
	}
	return avg
}

// RankedSupplier is one supplier leaderboard row, ordered by revenue.
type RankedSupplier struct {
	SupplierID      int64           `json:"supplier_id"`
	Name            string          `json:"name"`
	NetRevenue      decimal.Decimal `json:"net_revenue"`
	Margin          decimal.Decimal `json:"margin"`
	Units           decimal.Decimal `json:"units"`
	RevenueSharePct decimal.Decimal `json:"revenue_share_pct"`
}

// RankSuppliers orders suppliers descending by revenue with name-ascending
// tie-breaks and attaches each supplier's revenue share.
func RankSuppliers(rows []reporting.SupplierAggregate) []RankedSupplier {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.NetRevenue)
	}

	ranked := make([]RankedSupplier, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, RankedSupplier{
			SupplierID:      row.SupplierID,
			Name:            row.Name,
			NetRevenue:      row.NetRevenue,
			Margin:          row.Margin,
			Units:           row.Units,
			RevenueSharePct: sharePct(row.NetRevenue, total),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].NetRevenue.Equal(ranked[j].NetRevenue) {
			return ranked[i].NetRevenue.GreaterThan(ranked[j].NetRevenue)
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
