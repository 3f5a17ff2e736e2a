package fiscal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/almacen-erp/almacen-erp/internal/platform/cache"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// Repository loads gross flows grouped by supplier for a window.
type Repository interface {
	SalesBySupplier(ctx context.Context, window shared.DateRange) ([]SupplierGross, error)
	PurchasesBySupplier(ctx context.Context, window shared.DateRange) ([]SupplierGross, error)
}

// RangeMeta echoes the resolved window back to the caller.
type RangeMeta struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Days    int    `json:"days"`
	Source  string `json:"source"`
	Warning string `json:"warning,omitempty"`
}

// Report is the HTTP-facing reconciliation payload.
type Report struct {
	Range   RangeMeta `json:"range"`
	Summary Summary   `json:"summary"`
}

// Service resolves windows and reconciles tax positions.
type Service struct {
	repo  Repository
	cache *cache.ReportCache
	tax   pricing.Decomposer
	now   func() time.Time
}

func NewService(repo Repository, reportCache *cache.ReportCache, tax pricing.Decomposer) *Service {
	return &Service{
		repo:  repo,
		cache: reportCache,
		tax:   tax,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) resolve(q shared.RangeQuery) (shared.DateRange, RangeMeta) {
	window, err := shared.ResolveDateRange(q, s.now())
	meta := RangeMeta{
		Start:  window.Start.Format("2006-01-02"),
		End:    window.End.Format("2006-01-02"),
		Days:   window.Days,
		Source: string(window.Source),
	}
	if errors.Is(err, shared.ErrPartialDateRange) {
		meta.Warning = "date_start and date_end must be provided together; defaulted to current month"
	}
	return window, meta
}

// GetReport reconciles the window, serving from the versioned cache when
// one is configured.
func (s *Service) GetReport(ctx context.Context, q shared.RangeQuery) (Report, error) {
	window, meta := s.resolve(q)

	loader := func(ctx context.Context) (interface{}, error) {
		summary, err := s.buildSummary(ctx, window)
		if err != nil {
			return Report{}, err
		}
		return Report{Range: meta, Summary: summary}, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Report{}, err
		}
		return value.(Report), nil
	}

	key, err := s.cache.BuildKey(ctx, "fiscal", "summary", meta.Start, meta.End)
	if err != nil {
		return Report{}, err
	}
	var report Report
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return Report{}, err
	}
	// A cached copy never carries the request-scoped warning.
	report.Range.Warning = meta.Warning
	return report, nil
}

func (s *Service) buildSummary(ctx context.Context, window shared.DateRange) (Summary, error) {
	sales, err := s.repo.SalesBySupplier(ctx, window)
	if err != nil {
		return Summary{}, fmt.Errorf("fiscal: load sales flows: %w", err)
	}
	purchases, err := s.repo.PurchasesBySupplier(ctx, window)
	if err != nil {
		return Summary{}, fmt.Errorf("fiscal: load purchase flows: %w", err)
	}
	return Reconcile(MergeFlows(sales, purchases), s.tax), nil
}
