package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

type stubRepo struct {
	lines []SaleLineRecord
	calls int
}

func (s *stubRepo) SaleLines(context.Context, shared.DateRange) ([]SaleLineRecord, error) {
	s.calls++
	return s.lines, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	tax, err := pricing.NewDecomposer(decimal.NewFromFloat(0.19))
	require.NoError(t, err)
	svc := NewService(repo, nil, tax)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestGetSummary(t *testing.T) {
	repo := &stubRepo{lines: testLines(t)}
	svc := newTestService(t, repo)

	summary, err := svc.GetSummary(context.Background(), shared.RangeQuery{Month: "2024-03"})
	require.NoError(t, err)

	require.Equal(t, "2024-03-01", summary.Range.Start)
	require.Equal(t, "2024-04-01", summary.Range.End)
	require.Equal(t, 31, summary.Range.Days)
	require.Empty(t, summary.Range.Warning)

	require.True(t, summary.Totals.NetRevenue.Equal(dec(t, "150")))
	require.Equal(t, 2, summary.Totals.Transactions)

	// window fully elapsed: projection equals the observed totals
	require.True(t, summary.ProjectedProfit.Equal(dec(t, "65")), "got %s", summary.ProjectedProfit)
	require.True(t, summary.ProjectedInvestment.Equal(dec(t, "85")), "got %s", summary.ProjectedInvestment)
}

func TestGetSummaryProjectsPartialMonth(t *testing.T) {
	repo := &stubRepo{lines: testLines(t)}
	svc := newTestService(t, repo)
	// clock inside the window: 10 of 31 days observed
	svc.WithNow(func() time.Time {
		return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	})

	summary, err := svc.GetSummary(context.Background(), shared.RangeQuery{Month: "2024-03"})
	require.NoError(t, err)

	// profit 65 over 10 observed days, projected over 31
	require.True(t, summary.DailyAvgProfit.Equal(dec(t, "6.5")), "got %s", summary.DailyAvgProfit)
	require.True(t, summary.ProjectedProfit.Equal(dec(t, "201.5")), "got %s", summary.ProjectedProfit)
}

func TestGetSummaryPartialRangeWarning(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	summary, err := svc.GetSummary(context.Background(), shared.RangeQuery{DateStart: "2024-03-01"})
	require.NoError(t, err)
	require.Equal(t, shared.RangeSourceDefault, summary.Range.Source)
	require.NotEmpty(t, summary.Range.Warning)
}

func TestGetDaily(t *testing.T) {
	repo := &stubRepo{lines: testLines(t)}
	svc := newTestService(t, repo)

	report, err := svc.GetDaily(context.Background(), shared.RangeQuery{Month: "2024-03"})
	require.NoError(t, err)
	require.Len(t, report.Days, 31)
	require.True(t, report.Days[2].GrossRevenue.Equal(dec(t, "178.5")))
}

func TestAggregateViews(t *testing.T) {
	repo := &stubRepo{lines: testLines(t)}
	svc := newTestService(t, repo)
	window, _ := svc.Resolve(shared.RangeQuery{Month: "2024-03"})

	products, err := svc.ProductAggregates(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, products, 2)

	suppliers, err := svc.SupplierAggregates(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
}
