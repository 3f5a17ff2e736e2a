package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

// Restock is a product's most recent purchase receipt.
type Restock struct {
	ProductID   int64
	RestockedAt time.Time
}

// Velocity is the units a product sold since a given instant, raw units.
type Velocity struct {
	ProductID int64
	Units     decimal.Decimal
}

// Repository loads the per-product restock anchors and trailing sales.
// UnitsSoldSinceRestock counts each product's sales from its own last
// restock instant onward, so every product carries its own window.
type Repository interface {
	LastRestocks(ctx context.Context) ([]Restock, error)
	UnitsSoldSinceRestock(ctx context.Context) ([]Velocity, error)
}

// CatalogReader supplies the active products under watch.
type CatalogReader interface {
	ActiveProducts(ctx context.Context) ([]catalog.Product, error)
}

// ProductHealth is one row of the stock health report. DaysOfStock is only
// meaningful when HasProjection is true; a product with no measurable
// velocity (never restocked, restocked today, or zero sales since) renders
// as "N/A" downstream.
type ProductHealth struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Stock         decimal.Decimal `json:"stock"` // display units
	Level         Level           `json:"level"`
	LastRestockAt string          `json:"last_restock_at,omitempty"`
	VelocityDays  int             `json:"velocity_days"`
	UnitsSold     decimal.Decimal `json:"units_sold"`
	DailyAvgUnits decimal.Decimal `json:"daily_avg_units"`
	DaysOfStock   int64           `json:"days_of_stock"`
	HasProjection bool            `json:"has_projection"`
}

// HealthReport is the full watch list plus level counts.
type HealthReport struct {
	Products []ProductHealth `json:"products"`
	Healthy  int             `json:"healthy"`
	Low      int             `json:"low"`
	Critical int             `json:"critical"`
}

// Service computes stock health for the active catalog.
type Service struct {
	repo       Repository
	catalog    CatalogReader
	thresholds Thresholds
	now        func() time.Time
}

// NewService wires the stock health readers together.
func NewService(repo Repository, catalogReader CatalogReader, thresholds Thresholds) *Service {
	return &Service{
		repo:       repo,
		catalog:    catalogReader,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Health builds the watch list: every active product classified against the
// cutoffs, with a days-of-stock projection where a velocity exists. The
// velocity window is each product's own time since restock, not the report
// window used elsewhere.
func (s *Service) Health(ctx context.Context) (HealthReport, error) {
	products, err := s.catalog.ActiveProducts(ctx)
	if err != nil {
		return HealthReport{}, fmt.Errorf("stock: load products: %w", err)
	}
	restocks, err := s.repo.LastRestocks(ctx)
	if err != nil {
		return HealthReport{}, fmt.Errorf("stock: load restocks: %w", err)
	}

	restockAt := make(map[int64]time.Time, len(restocks))
	for _, r := range restocks {
		restockAt[r.ProductID] = r.RestockedAt.UTC()
	}

	velocities, err := s.repo.UnitsSoldSinceRestock(ctx)
	if err != nil {
		return HealthReport{}, fmt.Errorf("stock: load velocities: %w", err)
	}
	soldRaw := make(map[int64]decimal.Decimal, len(velocities))
	for _, v := range velocities {
		soldRaw[v.ProductID] = v.Units
	}

	now := s.now()
	report := HealthReport{Products: make([]ProductHealth, 0, len(products))}
	for _, p := range products {
		row := ProductHealth{
			ProductID:     p.ID,
			Name:          p.Name,
			Stock:         p.DisplayStock(),
			UnitsSold:     decimal.Zero,
			DailyAvgUnits: decimal.Zero,
		}
		row.Level = s.thresholds.Classify(row.Stock)

		if at, ok := restockAt[p.ID]; ok {
			row.LastRestockAt = at.Format("2006-01-02")
			row.VelocityDays = reporting.VelocityDays(at, now)
			if raw, sold := soldRaw[p.ID]; sold {
				row.UnitsSold = pricing.DisplayQty(raw, p.UnitKind)
			}
			avg := reporting.DailyAverage(row.UnitsSold, row.VelocityDays)
			row.DailyAvgUnits = avg
			row.DaysOfStock, row.HasProjection = reporting.StockDays(row.Stock, avg)
		}

		switch row.Level {
		case LevelHealthy:
			report.Healthy++
		case LevelLow:
			report.Low++
		case LevelCritical:
			report.Critical++
		}
		report.Products = append(report.Products, row)
	}

	sort.SliceStable(report.Products, func(i, j int) bool {
		a, b := report.Products[i], report.Products[j]
		if a.Level != b.Level {
			return levelRank(a.Level) < levelRank(b.Level)
		}
		if !a.Stock.Equal(b.Stock) {
			return a.Stock.LessThan(b.Stock)
		}
		return a.ProductID < b.ProductID
	})
	return report, nil
}

// ProjectionReport lists days-of-stock estimates for products with a
// measurable velocity, sorted by urgency.
type ProjectionReport struct {
	Products     []ProductHealth `json:"products"`
	NoProjection []ProductHealth `json:"no_projection"`
}

// Projection splits the watch list by whether a days-of-stock estimate
// exists and orders the estimable rows by fewest days left.
func (s *Service) Projection(ctx context.Context) (ProjectionReport, error) {
	health, err := s.Health(ctx)
	if err != nil {
		return ProjectionReport{}, err
	}
	report := ProjectionReport{
		Products:     []ProductHealth{},
		NoProjection: []ProductHealth{},
	}
	for _, row := range health.Products {
		if row.HasProjection {
			report.Products = append(report.Products, row)
		} else {
			report.NoProjection = append(report.NoProjection, row)
		}
	}
	sort.SliceStable(report.Products, func(i, j int) bool {
		a, b := report.Products[i], report.Products[j]
		if a.DaysOfStock != b.DaysOfStock {
			return a.DaysOfStock < b.DaysOfStock
		}
		return a.ProductID < b.ProductID
	})
	return report, nil
}

// Critical returns the critical subset, for the alert mail.
func (s *Service) Critical(ctx context.Context) ([]ProductHealth, error) {
	report, err := s.Health(ctx)
	if err != nil {
		return nil, err
	}
	var critical []ProductHealth
	for _, row := range report.Products {
		if row.Level == LevelCritical {
			critical = append(critical, row)
		}
	}
	return critical, nil
}

func levelRank(l Level) int {
	switch l {
	case LevelCritical:
		return 0
	case LevelLow:
		return 1
	default:
		return 2
	}
}
