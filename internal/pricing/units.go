package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnitKind distinguishes products sold by piece from products sold by weight.
type UnitKind string

const (
	// UnitDiscrete means storage unit equals display unit.
	UnitDiscrete UnitKind = "DISCRETE"
	// UnitBulk means quantities are stored in 1/1000 of the display unit
	// (grams vs kilograms) while prices refer to the display unit.
	UnitBulk UnitKind = "BULK"
)

// storageRatio is the fixed storage-to-display ratio for bulk products.
var storageRatio = decimal.NewFromInt(1000)

// Classify decides the unit kind from the product name. The source system
// tags bulk products by a marker substring in the name; classification
// happens once at ingestion so the analytics never re-derive it from text.
func Classify(name, marker string) UnitKind {
	if marker == "" {
		return UnitDiscrete
	}
	if strings.Contains(strings.ToLower(name), strings.ToLower(marker)) {
		return UnitBulk
	}
	return UnitDiscrete
}

// DisplayQty converts a stored quantity to its display unit.
func DisplayQty(raw decimal.Decimal, kind UnitKind) decimal.Decimal {
	if kind == UnitBulk {
		return raw.Div(storageRatio)
	}
	return raw
}

// StorageQty converts a display quantity back to the storage unit.
func StorageQty(display decimal.Decimal, kind UnitKind) decimal.Decimal {
	if kind == UnitBulk {
		return display.Mul(storageRatio)
	}
	return display
}

// DisplayUnitPrice converts a per-storage-unit price or cost to the display
// unit. Prices scale inversely to quantities, keeping qty*price invariant.
func DisplayUnitPrice(storagePrice decimal.Decimal, kind UnitKind) decimal.Decimal {
	if kind == UnitBulk {
		return storagePrice.Mul(storageRatio)
	}
	return storagePrice
}

// StorageUnitPrice converts a per-display-unit amount to the storage unit.
func StorageUnitPrice(displayPrice decimal.Decimal, kind UnitKind) decimal.Decimal {
	if kind == UnitBulk {
		return displayPrice.Div(storageRatio)
	}
	return displayPrice
}
