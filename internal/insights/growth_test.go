package insights

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

func TestRankGrowthOrdersByUnitDiff(t *testing.T) {
	current := []reporting.ProductAggregate{
		{ProductID: 1, Name: "Harina", Units: dec("180")},
		{ProductID: 2, Name: "Azucar", Units: dec("2")},
		{ProductID: 3, Name: "Lentejas", Units: dec("5")},
		{ProductID: 4, Name: "Arroz", Units: dec("40")},
	}
	prior := []reporting.ProductAggregate{
		{ProductID: 1, Name: "Harina", Units: dec("100")},
		{ProductID: 2, Name: "Azucar", Units: dec("1")},
		{ProductID: 4, Name: "Arroz", Units: dec("60")},
	}

	entries := RankGrowth(current, prior)
	// Arroz declined, so only three products rank.
	require.Len(t, entries, 3)

	// Harina grew 80 units (80%); Azucar grew 1 unit (100%). Absolute
	// growth wins, the percentage never enters the ordering.
	require.Equal(t, "Harina", entries[0].Name)
	require.True(t, entries[0].UnitDiff.Equal(dec("80")))
	require.True(t, entries[0].GrowthPct.Equal(dec("80")))
	require.False(t, entries[0].New)

	// Lentejas had no prior sales: flagged new, ranked by its 5-unit diff.
	require.Equal(t, "Lentejas", entries[1].Name)
	require.True(t, entries[1].New)
	require.True(t, entries[1].UnitDiff.Equal(dec("5")))
	require.True(t, entries[1].GrowthPct.IsZero())

	require.Equal(t, "Azucar", entries[2].Name)
	require.True(t, entries[2].GrowthPct.Equal(dec("100")))
}

func TestRankGrowthExcludesFlatProducts(t *testing.T) {
	current := []reporting.ProductAggregate{
		{ProductID: 1, Name: "Harina", Units: dec("10")},
	}
	prior := []reporting.ProductAggregate{
		{ProductID: 1, Name: "Harina", Units: dec("10")},
	}
	require.Empty(t, RankGrowth(current, prior))
}

func TestRankGrowthDeterministicTies(t *testing.T) {
	current := []reporting.ProductAggregate{
		{ProductID: 2, Name: "Azucar", Units: dec("5")},
		{ProductID: 1, Name: "Harina", Units: dec("5")},
	}
	for run := 0; run < 3; run++ {
		entries := RankGrowth(current, nil)
		require.Equal(t, "Azucar", entries[0].Name)
		require.Equal(t, "Harina", entries[1].Name)
	}
}
