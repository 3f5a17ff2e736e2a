package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/platform/cache"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// Repository exposes the read queries the reporting service relies on.
type Repository interface {
	SaleLines(ctx context.Context, window shared.DateRange) ([]SaleLineRecord, error)
}

// RangeMeta describes the resolved window as surfaced to callers.
type RangeMeta struct {
	Start   string             `json:"start"`
	End     string             `json:"end"` // first excluded day
	Days    int                `json:"days"`
	Source  shared.RangeSource `json:"source"`
	Warning string             `json:"warning,omitempty"`
}

// Summary bundles the headline KPIs for the resolved window.
type Summary struct {
	Range               RangeMeta       `json:"range"`
	Totals              Totals          `json:"totals"`
	DailyAvgRevenue     decimal.Decimal `json:"daily_avg_revenue"`
	DailyAvgProfit      decimal.Decimal `json:"daily_avg_profit"`
	ProjectedProfit     decimal.Decimal `json:"projected_monthly_profit"`
	ProjectedInvestment decimal.Decimal `json:"projected_monthly_investment"`
}

// DailyReport pairs the window with its per-day rows.
type DailyReport struct {
	Range RangeMeta        `json:"range"`
	Days  []DailyAggregate `json:"days"`
}

// Service coordinates window resolution, aggregation and the cache layer.
type Service struct {
	repo  Repository
	cache *cache.ReportCache
	agg   Aggregator
	now   func() time.Time
}

// NewService wires a Repository with the aggregation core and a Cache helper.
func NewService(repo Repository, reportCache *cache.ReportCache, tax pricing.Decomposer) *Service {
	return &Service{
		repo:  repo,
		cache: reportCache,
		agg:   NewAggregator(tax),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Resolve applies the filter cascade against the service clock.
func (s *Service) Resolve(q shared.RangeQuery) (shared.DateRange, RangeMeta) {
	window, err := shared.ResolveDateRange(q, s.now())
	meta := RangeMeta{
		Start:  window.Start.Format(dayKeyFormat),
		End:    window.End.Format(dayKeyFormat),
		Days:   window.Days,
		Source: window.Source,
	}
	if errors.Is(err, shared.ErrPartialDateRange) {
		meta.Warning = err.Error()
	}
	return window, meta
}

// GetSummary resolves the window and computes the headline KPIs, using the
// versioned cache when one is configured.
func (s *Service) GetSummary(ctx context.Context, q shared.RangeQuery) (Summary, error) {
	window, meta := s.Resolve(q)

	loader := func(ctx context.Context) (interface{}, error) {
		lines, err := s.repo.SaleLines(ctx, window)
		if err != nil {
			return Summary{}, err
		}
		return s.buildSummary(window, meta, lines), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Summary{}, err
		}
		return value.(Summary), nil
	}

	key, err := s.cache.BuildKey(ctx, "reporting", "summary", meta.Start, meta.End)
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func (s *Service) buildSummary(window shared.DateRange, meta RangeMeta, lines []SaleLineRecord) Summary {
	totals := s.agg.Totals(lines)
	observed := elapsedDays(window, s.now())
	avgRevenue := DailyAverage(totals.NetRevenue, observed)
	avgProfit := DailyAverage(totals.GrossProfit, observed)
	avgCost := DailyAverage(totals.CostOfGoods, observed)
	return Summary{
		Range:               meta,
		Totals:              totals,
		DailyAvgRevenue:     avgRevenue,
		DailyAvgProfit:      avgProfit,
		ProjectedProfit:     Project(avgProfit, window.Days),
		ProjectedInvestment: Project(avgCost, window.Days),
	}
}

// GetDaily resolves the window and returns one row per calendar day.
func (s *Service) GetDaily(ctx context.Context, q shared.RangeQuery) (DailyReport, error) {
	window, meta := s.Resolve(q)

	loader := func(ctx context.Context) (interface{}, error) {
		lines, err := s.repo.SaleLines(ctx, window)
		if err != nil {
			return DailyReport{}, err
		}
		return DailyReport{Range: meta, Days: s.agg.ByDay(lines, window)}, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return DailyReport{}, err
		}
		return value.(DailyReport), nil
	}

	key, err := s.cache.BuildKey(ctx, "reporting", "daily", meta.Start, meta.End)
	if err != nil {
		return DailyReport{}, err
	}
	var report DailyReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return DailyReport{}, err
	}
	return report, nil
}

// ProductAggregates groups the given window by product, uncached; the
// insights module layers its own ordering on the result.
func (s *Service) ProductAggregates(ctx context.Context, window shared.DateRange) ([]ProductAggregate, error) {
	lines, err := s.repo.SaleLines(ctx, window)
	if err != nil {
		return nil, err
	}
	return s.agg.ByProduct(lines), nil
}

// SupplierAggregates groups the given window by supplier.
func (s *Service) SupplierAggregates(ctx context.Context, window shared.DateRange) ([]SupplierAggregate, error) {
	lines, err := s.repo.SaleLines(ctx, window)
	if err != nil {
		return nil, err
	}
	return s.agg.BySupplier(lines), nil
}
