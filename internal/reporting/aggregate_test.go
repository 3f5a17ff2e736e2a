package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

func testAggregator(t *testing.T) Aggregator {
	t.Helper()
	tax, err := pricing.NewDecomposer(decimal.NewFromFloat(0.19))
	require.NoError(t, err)
	return NewAggregator(tax)
}

func testWindow(t *testing.T, month string) shared.DateRange {
	t.Helper()
	window, err := shared.ResolveDateRange(shared.RangeQuery{Month: month}, time.Now().UTC())
	require.NoError(t, err)
	return window
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func testLines(t *testing.T) []SaleLineRecord {
	t.Helper()
	soldAt := time.Date(2024, 3, 3, 11, 0, 0, 0, time.UTC)
	return []SaleLineRecord{
		{
			SaleID: 1, SoldAt: soldAt,
			ProductID: 10, ProductName: "Atun lata", UnitKind: pricing.UnitDiscrete,
			SupplierID: 5, SupplierName: "Mayorista Sur",
			Qty: dec(t, "2"), UnitPrice: dec(t, "59.5"), CostPrice: dec(t, "30"),
		},
		{
			SaleID: 2, SoldAt: soldAt.Add(2 * time.Hour),
			ProductID: 11, ProductName: "Arroz granel", UnitKind: pricing.UnitBulk,
			SupplierID: 0, SupplierName: "N/A",
			Qty: dec(t, "500"), UnitPrice: dec(t, "0.119"), CostPrice: dec(t, "0.05"),
		},
	}
}

func TestTotals(t *testing.T) {
	agg := testAggregator(t)
	totals := agg.Totals(testLines(t))

	require.True(t, totals.GrossRevenue.Equal(dec(t, "178.5")), "gross %s", totals.GrossRevenue)
	require.True(t, totals.NetRevenue.Equal(dec(t, "150")), "net %s", totals.NetRevenue)
	require.True(t, totals.TaxCollected.Equal(dec(t, "28.5")), "tax %s", totals.TaxCollected)
	require.True(t, totals.CostOfGoods.Equal(dec(t, "85")), "cogs %s", totals.CostOfGoods)
	require.True(t, totals.GrossProfit.Equal(dec(t, "65")), "profit %s", totals.GrossProfit)
	require.True(t, totals.Units.Equal(dec(t, "2.5")), "units %s", totals.Units)
	require.Equal(t, 2, totals.Transactions)
}

func TestTotalsEmptyIsZero(t *testing.T) {
	totals := testAggregator(t).Totals(nil)
	require.True(t, totals.GrossRevenue.IsZero())
	require.True(t, totals.NetRevenue.IsZero())
	require.True(t, totals.GrossProfit.IsZero())
	require.True(t, totals.Units.IsZero())
	require.Zero(t, totals.Transactions)
}

func TestByDayFillsCalendarDays(t *testing.T) {
	agg := testAggregator(t)
	window := testWindow(t, "2024-03")

	days := agg.ByDay(testLines(t), window)
	require.Len(t, days, 31)
	require.Equal(t, "2024-03-01", days[0].Date)
	require.True(t, days[0].GrossRevenue.IsZero())
	require.Equal(t, "2024-03-03", days[2].Date)
	require.True(t, days[2].GrossRevenue.Equal(dec(t, "178.5")))
	require.Equal(t, 2, days[2].Transactions)
	require.True(t, days[30].GrossRevenue.IsZero())
}

func TestByDayIgnoresLinesOutsideWindow(t *testing.T) {
	agg := testAggregator(t)
	window := testWindow(t, "2024-04")
	days := agg.ByDay(testLines(t), window)
	require.Len(t, days, 30)
	for _, day := range days {
		require.True(t, day.GrossRevenue.IsZero())
	}
}

func TestByProduct(t *testing.T) {
	agg := testAggregator(t)
	products := agg.ByProduct(testLines(t))
	require.Len(t, products, 2)

	require.Equal(t, int64(10), products[0].ProductID)
	require.True(t, products[0].NetRevenue.Equal(dec(t, "100")))
	require.True(t, products[0].Margin.Equal(dec(t, "40")))

	require.Equal(t, int64(11), products[1].ProductID)
	require.True(t, products[1].Units.Equal(dec(t, "0.5")))
	require.True(t, products[1].NetRevenue.Equal(dec(t, "50")))
	require.True(t, products[1].Margin.Equal(dec(t, "25")))
}

func TestBySupplierCollectsUnreferencedLines(t *testing.T) {
	agg := testAggregator(t)
	suppliers := agg.BySupplier(testLines(t))
	require.Len(t, suppliers, 2)

	require.Equal(t, int64(0), suppliers[0].SupplierID)
	require.Equal(t, "N/A", suppliers[0].Name)
	require.True(t, suppliers[0].GrossRevenue.Equal(dec(t, "59.5")))

	require.Equal(t, int64(5), suppliers[1].SupplierID)
	require.Equal(t, "Mayorista Sur", suppliers[1].Name)
}

func TestElapsedDays(t *testing.T) {
	window := testWindow(t, "2024-05")

	now := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	require.Equal(t, 17, elapsedDays(window, now))

	after := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 31, elapsedDays(window, after))

	before := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 0, elapsedDays(window, before))
}
