package insights

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/platform/cache"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// SalesReader supplies the aggregated rows the leaderboards consume.
type SalesReader interface {
	ProductAggregates(ctx context.Context, window shared.DateRange) ([]reporting.ProductAggregate, error)
	SupplierAggregates(ctx context.Context, window shared.DateRange) ([]reporting.SupplierAggregate, error)
}

// CatalogReader supplies the active-product set for rotation and the
// sold/unsold split.
type CatalogReader interface {
	ActiveProducts(ctx context.Context) ([]catalog.Product, error)
}

// RangeMeta echoes the resolved window back to the caller.
type RangeMeta struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Days    int    `json:"days"`
	Source  string `json:"source"`
	Warning string `json:"warning,omitempty"`
}

// RankingReport is the product and supplier leaderboard payload.
type RankingReport struct {
	Range     RangeMeta        `json:"range"`
	Metric    Metric           `json:"metric"`
	Products  []RankedProduct  `json:"products"`
	Suppliers []RankedSupplier `json:"suppliers"`
}

// GrowthReport ranks the window's unit growth against the prior month.
type GrowthReport struct {
	Range      RangeMeta     `json:"range"`
	PriorStart string        `json:"prior_start"`
	PriorEnd   string        `json:"prior_end"`
	Entries    []GrowthEntry `json:"entries"`
}

// RotationReport carries the slow-mover watch list plus the sold/unsold
// catalog split for the window.
type RotationReport struct {
	Range     RangeMeta         `json:"range"`
	Entries   []RotationEntry   `json:"entries"`
	SoldCount int               `json:"sold_count"`
	Unsold    []catalog.Product `json:"unsold"`
	SlowMover *RotationEntry    `json:"slow_mover,omitempty"`
}

// UnsoldReport lists the active products with no sales in the window.
type UnsoldReport struct {
	Range     RangeMeta         `json:"range"`
	SoldCount int               `json:"sold_count"`
	Unsold    []catalog.Product `json:"unsold"`
}

// Service assembles leaderboards from the reporting aggregates and the
// catalog read models.
type Service struct {
	sales   SalesReader
	catalog CatalogReader
	cache   *cache.ReportCache
	now     func() time.Time
}

// NewService wires the insight readers together.
func NewService(sales SalesReader, catalogReader CatalogReader, reportCache *cache.ReportCache) *Service {
	return &Service{
		sales:   sales,
		catalog: catalogReader,
		cache:   reportCache,
		now:     func() time.Time { return time.Now().UTC() },
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

// fetch runs the loader through the versioned cache when one is configured,
// stamping the request-scoped warning back onto the cached payload.
func fetch[T any](ctx context.Context, s *Service, keyParts []string, loader func(context.Context) (interface{}, error)) (T, error) {
	var zero T
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		return value.(T), nil
	}
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return zero, err
	}
	var out T
	if err := s.cache.FetchJSON(ctx, key, &out, loader); err != nil {
		return zero, err
	}
	return out, nil
}

// Ranking builds the product and supplier leaderboards for the window.
func (s *Service) Ranking(ctx context.Context, q shared.RangeQuery, metric Metric) (RankingReport, error) {
	window, meta := s.resolve(q)

	loader := func(ctx context.Context) (interface{}, error) {
		var products []reporting.ProductAggregate
		var suppliers []reporting.SupplierAggregate

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			products, err = s.sales.ProductAggregates(ctx, window)
			return err
		})
		g.Go(func() error {
			var err error
			suppliers, err = s.sales.SupplierAggregates(ctx, window)
			return err
		})
		if err := g.Wait(); err != nil {
			return RankingReport{}, err
		}
		return RankingReport{
			Range:     meta,
			Metric:    metric,
			Products:  RankProducts(products, metric),
			Suppliers: RankSuppliers(suppliers),
		}, nil
	}

	report, err := fetch[RankingReport](ctx, s, []string{"insights", "ranking", string(metric), meta.Start, meta.End}, loader)
	if err != nil {
		return RankingReport{}, err
	}
	report.Range.Warning = meta.Warning
	return report, nil
}

// Growth compares the window's per-product unit sales against the calendar
// month immediately before the window start.
func (s *Service) Growth(ctx context.Context, q shared.RangeQuery) (GrowthReport, error) {
	window, meta := s.resolve(q)
	prior := shared.PriorMonthRange(window)

	loader := func(ctx context.Context) (interface{}, error) {
		var current, previous []reporting.ProductAggregate

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			current, err = s.sales.ProductAggregates(ctx, window)
			return err
		})
		g.Go(func() error {
			var err error
			previous, err = s.sales.ProductAggregates(ctx, prior)
			return err
		})
		if err := g.Wait(); err != nil {
			return GrowthReport{}, err
		}
		return GrowthReport{
			Range:      meta,
			PriorStart: prior.Start.Format("2006-01-02"),
			PriorEnd:   prior.End.Format("2006-01-02"),
			Entries:    RankGrowth(current, previous),
		}, nil
	}

	report, err := fetch[GrowthReport](ctx, s, []string{"insights", "growth", meta.Start, meta.End}, loader)
	if err != nil {
		return GrowthReport{}, err
	}
	report.Range.Warning = meta.Warning
	return report, nil
}

// Rotation ranks the in-stock catalog by sales velocity for the window and
// splits the catalog into sold and unsold sets.
func (s *Service) Rotation(ctx context.Context, q shared.RangeQuery) (RotationReport, error) {
	window, meta := s.resolve(q)

	loader := func(ctx context.Context) (interface{}, error) {
		var sold []reporting.ProductAggregate
		var products []catalog.Product

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sold, err = s.sales.ProductAggregates(ctx, window)
			return err
		})
		g.Go(func() error {
			var err error
			products, err = s.catalog.ActiveProducts(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return RotationReport{}, err
		}

		entries := RankRotation(products, sold)
		soldSet, unsold := SplitByActivity(products, sold)
		report := RotationReport{
			Range:     meta,
			Entries:   entries,
			SoldCount: len(soldSet),
			Unsold:    unsold,
		}
		if len(entries) > 0 {
			head := entries[0]
			report.SlowMover = &head
		}
		return report, nil
	}

	report, err := fetch[RotationReport](ctx, s, []string{"insights", "rotation", meta.Start, meta.End}, loader)
	if err != nil {
		return RotationReport{}, err
	}
	report.Range.Warning = meta.Warning
	return report, nil
}

// Unsold is the catalog complement of the window's sales: active products
// with no sale lines. It rides on the rotation report's cached split.
func (s *Service) Unsold(ctx context.Context, q shared.RangeQuery) (UnsoldReport, error) {
	rotation, err := s.Rotation(ctx, q)
	if err != nil {
		return UnsoldReport{}, err
	}
	unsold := rotation.Unsold
	if unsold == nil {
		unsold = []catalog.Product{}
	}
	return UnsoldReport{
		Range:     rotation.Range,
		SoldCount: rotation.SoldCount,
		Unsold:    unsold,
	}, nil
}
