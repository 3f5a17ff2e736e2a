package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

const dayKeyFormat = "2006-01-02"

// Aggregator folds sale-line records into totals and groupings. It is a
// stateless value; concurrent use is safe.
type Aggregator struct {
	tax pricing.Decomposer
}

// NewAggregator builds an Aggregator around a tax decomposer.
func NewAggregator(tax pricing.Decomposer) Aggregator {
	return Aggregator{tax: tax}
}

// Totals sums the whole window. Empty input yields zero values, never nil
// or NaN; "no sales" and "zero" are the same thing downstream.
func (a Aggregator) Totals(lines []SaleLineRecord) Totals {
	t := Totals{
		GrossRevenue: decimal.Zero,
		NetRevenue:   decimal.Zero,
		TaxCollected: decimal.Zero,
		CostOfGoods:  decimal.Zero,
		GrossProfit:  decimal.Zero,
		Units:        decimal.Zero,
	}
	sales := make(map[int64]struct{})
	for _, line := range lines {
		t.GrossRevenue = t.GrossRevenue.Add(line.GrossAmount())
		t.CostOfGoods = t.CostOfGoods.Add(line.CostAmount())
		t.Units = t.Units.Add(line.DisplayQty())
		sales[line.SaleID] = struct{}{}
	}
	t.NetRevenue = a.tax.Net(t.GrossRevenue)
	t.TaxCollected = a.tax.Tax(t.GrossRevenue)
	t.GrossProfit = t.NetRevenue.Sub(t.CostOfGoods)
	t.Transactions = len(sales)
	return t
}

// ByDay groups the window into one row per calendar day of the range,
// including days without sales as zero rows.
func (a Aggregator) ByDay(lines []SaleLineRecord, window shared.DateRange) []DailyAggregate {
	byDay := make(map[string][]SaleLineRecord)
	for _, line := range lines {
		if !window.Contains(line.SoldAt) {
			continue
		}
		key := line.SoldAt.UTC().Format(dayKeyFormat)
		byDay[key] = append(byDay[key], line)
	}

	days := make([]DailyAggregate, 0, window.Days)
	for d := window.Start; d.Before(window.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayKeyFormat)
		totals := a.Totals(byDay[key])
		days = append(days, DailyAggregate{
			Date:         key,
			GrossRevenue: totals.GrossRevenue,
			NetRevenue:   totals.NetRevenue,
			CostOfGoods:  totals.CostOfGoods,
			GrossProfit:  totals.GrossProfit,
			Units:        totals.Units,
			Transactions: totals.Transactions,
		})
	}
	return days
}

// ByProduct groups the window per product, ordered by product id for a
// stable base ordering; ranking applies its own sort on top.
func (a Aggregator) ByProduct(lines []SaleLineRecord) []ProductAggregate {
	byProduct := make(map[int64]*ProductAggregate)
	for _, line := range lines {
		agg, ok := byProduct[line.ProductID]
		if !ok {
			agg = &ProductAggregate{
				ProductID:    line.ProductID,
				Name:         line.ProductName,
				UnitKind:     line.UnitKind,
				SupplierID:   line.SupplierID,
				SupplierName: line.SupplierName,
				GrossRevenue: decimal.Zero,
				CostOfGoods:  decimal.Zero,
				Units:        decimal.Zero,
			}
			byProduct[line.ProductID] = agg
		}
		agg.GrossRevenue = agg.GrossRevenue.Add(line.GrossAmount())
		agg.CostOfGoods = agg.CostOfGoods.Add(line.CostAmount())
		agg.Units = agg.Units.Add(line.DisplayQty())
	}

	products := make([]ProductAggregate, 0, len(byProduct))
	for _, agg := range byProduct {
		agg.NetRevenue = a.tax.Net(agg.GrossRevenue)
		agg.Margin = agg.NetRevenue.Sub(agg.CostOfGoods)
		products = append(products, *agg)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ProductID < products[j].ProductID
	})
	return products
}

// BySupplier groups the window per supplier; lines without a supplier fall
// into the zero-id bucket named by the catalog placeholder.
func (a Aggregator) BySupplier(lines []SaleLineRecord) []SupplierAggregate {
	bySupplier := make(map[int64]*SupplierAggregate)
	for _, line := range lines {
		agg, ok := bySupplier[line.SupplierID]
		if !ok {
			agg = &SupplierAggregate{
				SupplierID:   line.SupplierID,
				Name:         line.SupplierName,
				GrossRevenue: decimal.Zero,
				CostOfGoods:  decimal.Zero,
				Units:        decimal.Zero,
			}
			bySupplier[line.SupplierID] = agg
		}
		agg.GrossRevenue = agg.GrossRevenue.Add(line.GrossAmount())
		agg.CostOfGoods = agg.CostOfGoods.Add(line.CostAmount())
		agg.Units = agg.Units.Add(line.DisplayQty())
	}

	suppliers := make([]SupplierAggregate, 0, len(bySupplier))
	for _, agg := range bySupplier {
		agg.NetRevenue = a.tax.Net(agg.GrossRevenue)
		agg.Margin = agg.NetRevenue.Sub(agg.CostOfGoods)
		suppliers = append(suppliers, *agg)
	}
	sort.Slice(suppliers, func(i, j int) bool {
		return suppliers[i].SupplierID < suppliers[j].SupplierID
	})
	return suppliers
}

// elapsedDays counts the calendar days of the window that are observable as
// of now: a window reaching into the future is averaged over the days
// through today, a finished window over its full span.
func elapsedDays(window shared.DateRange, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, 1)
	if !cutoff.Before(window.End) {
		return window.Days
	}
	if cutoff.Before(window.Start) {
		return 0
	}
	return int(cutoff.Sub(window.Start).Hours() / 24)
}
