package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

type stubRepo struct {
	products []Product
}

func (s stubRepo) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.products, len(s.products), nil
}

func (s stubRepo) Get(ctx context.Context, id int64) (Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (s stubRepo) ListActive(ctx context.Context) ([]Product, error) {
	var active []Product
	for _, p := range s.products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s stubRepo) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return nil, nil
}

func TestProductsPagination(t *testing.T) {
	repo := stubRepo{products: []Product{
		{ID: 1, Name: "Arroz granel", UnitKind: pricing.UnitBulk, IsActive: true},
		{ID: 2, Name: "Atun lata", UnitKind: pricing.UnitDiscrete, IsActive: true},
	}}
	svc := NewService(repo)

	page, err := svc.Products(context.Background(), ListFilters{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.Equal(t, 1, page.Pagination.TotalPages)
}

func TestDisplayStockConvertsBulk(t *testing.T) {
	bulk := Product{UnitKind: pricing.UnitBulk, Stock: decimal.NewFromInt(2500)}
	require.True(t, bulk.DisplayStock().Equal(decimal.RequireFromString("2.5")))

	discrete := Product{UnitKind: pricing.UnitDiscrete, Stock: decimal.NewFromInt(7)}
	require.True(t, discrete.DisplayStock().Equal(decimal.NewFromInt(7)))
}
