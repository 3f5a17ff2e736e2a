package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

// RotationEntry is one row of the slow-mover watch list. Stock is in
// display units so discrete and bulk products compare on the same scale.
type RotationEntry struct {
	ProductID int64            `json:"product_id"`
	Name      string           `json:"name"`
	UnitKind  pricing.UnitKind `json:"unit_kind"`
	Stock     decimal.Decimal  `json:"stock"`
	UnitsSold decimal.Decimal  `json:"units_sold"`
}

// RankRotation orders the in-stock products from slowest to fastest seller
// for the window. Among equally slow products the one holding more stock
// ranks first; remaining ties resolve by product id so the ordering is
// stable across runs. The first entry is the headline slow mover, the full
// list feeds the watch list.
func RankRotation(products []catalog.Product, sold []reporting.ProductAggregate) []RotationEntry {
	unitsSold := make(map[int64]decimal.Decimal, len(sold))
	for _, row := range sold {
		unitsSold[row.ProductID] = row.Units
	}

	var entries []RotationEntry
	for _, product := range products {
		if !product.Stock.IsPositive() {
			continue
		}
		units, ok := unitsSold[product.ID]
		if !ok {
			units = decimal.Zero
		}
		entries = append(entries, RotationEntry{
			ProductID: product.ID,
			Name:      product.Name,
			UnitKind:  product.UnitKind,
			Stock:     product.DisplayStock(),
			UnitsSold: units,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].UnitsSold.Equal(entries[j].UnitsSold) {
			return entries[i].UnitsSold.LessThan(entries[j].UnitsSold)
		}
		if !entries[i].Stock.Equal(entries[j].Stock) {
			return entries[i].Stock.GreaterThan(entries[j].Stock)
		}
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries
}

// SplitByActivity partitions the active catalog into products that sold in
// the window and products that did not. Membership is per window: a product
// that sold last month but not in this window lands in Unsold.
func SplitByActivity(products []catalog.Product, sold []reporting.ProductAggregate) (active, inactive []catalog.Product) {
	soldIDs := make(map[int64]struct{}, len(sold))
	for _, row := range sold {
		soldIDs[row.ProductID] = struct{}{}
	}
	for _, product := range products {
		if _, ok := soldIDs[product.ID]; ok {
			active = append(active, product)
		} else {
			inactive = append(inactive, product)
		}
	}
	return active, inactive
}
