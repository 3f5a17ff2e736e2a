// Package reporting aggregates sale lines over a resolved date window into
// the revenue, cost and margin figures every back-office screen shares, and
// extrapolates daily averages into full-period projections.
package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
)

// SaleLineRecord is one sale line joined to its sale, product and supplier.
// Qty and the per-unit amounts are in the storage unit; UnitPrice is gross,
// CostPrice is net.
type SaleLineRecord struct {
	SaleID       int64
	SoldAt       time.Time
	ProductID    int64
	ProductName  string
	UnitKind     pricing.UnitKind
	SupplierID   int64
	SupplierName string
	Qty          decimal.Decimal
	UnitPrice    decimal.Decimal
	CostPrice    decimal.Decimal
}

// DisplayQty returns the line quantity in the display unit.
func (l SaleLineRecord) DisplayQty() decimal.Decimal {
	return pricing.DisplayQty(l.Qty, l.UnitKind)
}

// GrossAmount is qty times gross unit price. Both operands are raw, which is
// equivalent to display-scaled on both sides; mixing the two scales is the
// bug the unit contract exists to prevent.
func (l SaleLineRecord) GrossAmount() decimal.Decimal {
	return l.Qty.Mul(l.UnitPrice)
}

// CostAmount is qty times net unit cost, both raw.
func (l SaleLineRecord) CostAmount() decimal.Decimal {
	return l.Qty.Mul(l.CostPrice)
}

// Totals are the window-wide aggregates. Units is a real number, not an
// integer: bulk products sell in fractions of the display unit.
type Totals struct {
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	TaxCollected decimal.Decimal `json:"tax_collected"`
	CostOfGoods  decimal.Decimal `json:"cost_of_goods"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	Units        decimal.Decimal `json:"units"`
	Transactions int             `json:"transactions"`
}

// DailyAggregate is one calendar day of the window. Days without sales are
// present with zero values so trend charts and daily averages see them.
type DailyAggregate struct {
	Date         string          `json:"date"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	CostOfGoods  decimal.Decimal `json:"cost_of_goods"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	Units        decimal.Decimal `json:"units"`
	Transactions int             `json:"transactions"`
}

// ProductAggregate groups the window by product.
type ProductAggregate struct {
	ProductID    int64            `json:"product_id"`
	Name         string           `json:"name"`
	UnitKind     pricing.UnitKind `json:"unit_kind"`
	SupplierID   int64            `json:"supplier_id"`
	SupplierName string           `json:"supplier_name"`
	GrossRevenue decimal.Decimal  `json:"gross_revenue"`
	NetRevenue   decimal.Decimal  `json:"net_revenue"`
	CostOfGoods  decimal.Decimal  `json:"cost_of_goods"`
	Margin       decimal.Decimal  `json:"margin"`
	Units        decimal.Decimal  `json:"units"`
}

// SupplierAggregate groups the window by supplier. SupplierID zero collects
// lines whose product has no supplier reference.
type SupplierAggregate struct {
	SupplierID   int64           `json:"supplier_id"`
	Name         string          `json:"name"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	CostOfGoods  decimal.Decimal `json:"cost_of_goods"`
	Margin       decimal.Decimal `json:"margin"`
	Units        decimal.Decimal `json:"units"`
}
