package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

type stubSales struct {
	// keyed by window start date
	products map[string][]reporting.ProductAggregate
	supplier []reporting.SupplierAggregate
}

func (s *stubSales) ProductAggregates(_ context.Context, window shared.DateRange) ([]reporting.ProductAggregate, error) {
	return s.products[window.Start.Format("2006-01-02")], nil
}

func (s *stubSales) SupplierAggregates(context.Context, shared.DateRange) ([]reporting.SupplierAggregate, error) {
	return s.supplier, nil
}

type stubCatalog struct {
	products []catalog.Product
}

func (s *stubCatalog) ActiveProducts(context.Context) ([]catalog.Product, error) {
	return s.products, nil
}

func fixedMarch() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
}

func TestServiceGrowthUsesPriorCalendarMonth(t *testing.T) {
	sales := &stubSales{products: map[string][]reporting.ProductAggregate{
		"2024-03-01": {{ProductID: 1, Name: "Harina", Units: dec("12")}},
		"2024-02-01": {{ProductID: 1, Name: "Harina", Units: dec("10")}},
	}}
	svc := NewService(sales, &stubCatalog{}, nil).WithNow(fixedMarch())

	report, err := svc.Growth(context.Background(), shared.RangeQuery{Month: "2024-03"})
	require.NoError(t, err)
	require.Equal(t, "2024-02-01", report.PriorStart)
	require.Equal(t, "2024-03-01", report.PriorEnd)
	require.Len(t, report.Entries, 1)
	require.True(t, report.Entries[0].UnitDiff.Equal(dec("2")))
}

func TestServiceRotationWithCatalog(t *testing.T) {
	sales := &stubSales{products: map[string][]reporting.ProductAggregate{
		"2024-03-01": {{ProductID: 1, Name: "Harina", Units: dec("30")}},
	}}
	cat := &stubCatalog{products: []catalog.Product{
		{ID: 1, Name: "Harina", UnitKind: pricing.UnitDiscrete, Stock: dec("20"), IsActive: true},
		{ID: 2, Name: "Azucar", UnitKind: pricing.UnitDiscrete, Stock: dec("50"), IsActive: true},
	}}
	svc := NewService(sales, cat, nil).WithNow(fixedMarch())

	report, err := svc.Rotation(context.Background(), shared.RangeQuery{Month: "2024-03"})
	require.NoError(t, err)
	require.NotNil(t, report.SlowMover)
	require.Equal(t, "Azucar", report.SlowMover.Name)
	require.Equal(t, 1, report.SoldCount)
	require.Len(t, report.Unsold, 1)
	require.Equal(t, "Azucar", report.Unsold[0].Name)
}

func TestServiceUnsoldProjectsRotation(t *testing.T) {
	sales := &stubSales{products: map[string][]reporting.ProductAggregate{
		"2024-03-01": {{ProductID: 1, Name: "Harina", Units: dec("30")}},
	}}
	cat := &stubCatalog{products: []catalog.Product{
		{ID: 1, Name: "Harina", UnitKind: pricing.UnitDiscrete, Stock: dec("20"), IsActive: true},
		{ID: 2, Name: "Azucar", UnitKind: pricing.UnitDiscrete, Stock: dec("50"), IsActive: true},
	}}
	svc := NewService(sales, cat, nil).WithNow(fixedMarch())

	report, err := svc.Unsold(context.Background(), shared.RangeQuery{Month: "2024-03"})
	require.NoError(t, err)
	require.Equal(t, 1, report.SoldCount)
	require.Len(t, report.Unsold, 1)
	require.Equal(t, "Azucar", report.Unsold[0].Name)
}

func TestServiceRankingAllTimeWindow(t *testing.T) {
	sales := &stubSales{products: map[string][]reporting.ProductAggregate{
		"1970-01-01": {{ProductID: 1, Name: "Harina", NetRevenue: dec("100")}},
	}}
	svc := NewService(sales, &stubCatalog{}, nil).WithNow(fixedMarch())

	report, err := svc.Ranking(context.Background(), shared.RangeQuery{AllTime: true}, MetricRevenue)
	require.NoError(t, err)
	require.Equal(t, "all", report.Range.Source)
	require.Len(t, report.Products, 1)
}

func TestServiceRankingDefaultMetric(t *testing.T) {
	sales := &stubSales{
		products: map[string][]reporting.ProductAggregate{
			"2024-03-01": {
				{ProductID: 1, Name: "Harina", NetRevenue: dec("100")},
				{ProductID: 2, Name: "Azucar", NetRevenue: dec("300")},
			},
		},
		supplier: []reporting.SupplierAggregate{{SupplierID: 1, Name: "Distribuidora Sur", NetRevenue: dec("400")}},
	}
	svc := NewService(sales, &stubCatalog{}, nil).WithNow(fixedMarch())

	report, err := svc.Ranking(context.Background(), shared.RangeQuery{Month: "2024-03"}, MetricRevenue)
	require.NoError(t, err)
	require.Equal(t, "Azucar", report.Products[0].Name)
	require.True(t, report.Products[0].RevenueSharePct.Equal(dec("75")))
	require.True(t, report.Suppliers[0].RevenueSharePct.Equal(dec("100")))
}
