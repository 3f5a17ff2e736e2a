package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
)

// UnknownSupplierName labels products whose supplier reference is missing.
const UnknownSupplierName = "N/A"

// Product is the read model the analytics consume. UnitKind is decided once
// when the row is scanned, never re-derived from the name afterwards.
type Product struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	UnitKind     pricing.UnitKind `json:"unit_kind"`
	Stock        decimal.Decimal  `json:"stock"`      // storage unit
	CostPrice    decimal.Decimal  `json:"cost_price"` // net, per storage unit
	SupplierID   int64            `json:"supplier_id"`
	SupplierName string           `json:"supplier_name"`
	IsActive     bool             `json:"is_active"`
}

// DisplayStock returns the stock converted to the display unit.
func (p Product) DisplayStock() decimal.Decimal {
	return pricing.DisplayQty(p.Stock, p.UnitKind)
}

// Supplier is the supplier read model.
type Supplier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	IsActive *bool
}
