package insights

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Harina", UnitKind: pricing.UnitDiscrete, Stock: dec("50"), IsActive: true},
		{ID: 2, Name: "Azucar", UnitKind: pricing.UnitDiscrete, Stock: dec("50"), IsActive: true},
		{ID: 3, Name: "Arroz Granel", UnitKind: pricing.UnitBulk, Stock: dec("8000"), IsActive: true},
		{ID: 4, Name: "Sal", UnitKind: pricing.UnitDiscrete, Stock: dec("0"), IsActive: true},
	}
}

func TestRankRotationSlowestFirst(t *testing.T) {
	sold := []reporting.ProductAggregate{
		{ProductID: 1, Name: "Harina", Units: dec("30")},
		{ProductID: 3, Name: "Arroz Granel", Units: dec("2")},
	}

	entries := RankRotation(testProducts(), sold)
	// Sal is out of stock and never a candidate.
	require.Len(t, entries, 3)

	require.Equal(t, "Azucar", entries[0].Name)
	require.True(t, entries[0].UnitsSold.IsZero())
	require.Equal(t, "Arroz Granel", entries[1].Name)
	// Bulk stock surfaces in display units.
	require.True(t, entries[1].Stock.Equal(dec("8")))
	require.Equal(t, "Harina", entries[2].Name)
}

func TestRankRotationDeterministicTies(t *testing.T) {
	products := []catalog.Product{
		{ID: 2, Name: "Azucar", UnitKind: pricing.UnitDiscrete, Stock: dec("50"), IsActive: true},
		{ID: 1, Name: "Harina", UnitKind: pricing.UnitDiscrete, Stock: dec("50"), IsActive: true},
	}
	for run := 0; run < 3; run++ {
		entries := RankRotation(products, nil)
		// Equal units sold and equal stock: product id decides.
		require.Equal(t, int64(1), entries[0].ProductID)
		require.Equal(t, int64(2), entries[1].ProductID)
	}
}

func TestRankRotationStockTieBreak(t *testing.T) {
	products := []catalog.Product{
		{ID: 1, Name: "Harina", UnitKind: pricing.UnitDiscrete, Stock: dec("10"), IsActive: true},
		{ID: 2, Name: "Azucar", UnitKind: pricing.UnitDiscrete, Stock: dec("90"), IsActive: true},
	}
	entries := RankRotation(products, nil)
	// Equally slow sellers: the one with more capital tied up leads.
	require.Equal(t, "Azucar", entries[0].Name)
}

func TestSplitByActivity(t *testing.T) {
	sold := []reporting.ProductAggregate{
		{ProductID: 1, Name: "Harina", Units: dec("30")},
	}
	active, inactive := SplitByActivity(testProducts(), sold)
	require.Len(t, active, 1)
	require.Equal(t, int64(1), active[0].ID)
	require.Len(t, inactive, 3)
}
