package catalog

import (
	"context"

	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// Service exposes the catalog read models to handlers and sibling modules.
type Service struct {
	repo Repository
}

// NewService constructs a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ProductPage bundles a product listing with pagination metadata.
type ProductPage struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

// Products returns one page of the product catalog.
func (s *Service) Products(ctx context.Context, filters ListFilters) (ProductPage, error) {
	if filters.Limit <= 0 {
		filters.Limit = 25
	}
	products, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Products:   products,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	}, nil
}

// Product returns a single product, shared.ErrNotFound when absent.
func (s *Service) Product(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// ActiveProducts returns the full active catalog, used by the insights and
// stock modules for set-complement and health scans.
func (s *Service) ActiveProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListActive(ctx)
}

// Suppliers lists all suppliers.
func (s *Service) Suppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}
