package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testDecomposer(t *testing.T) Decomposer {
	t.Helper()
	d, err := NewDecomposer(decimal.NewFromFloat(0.19))
	require.NoError(t, err)
	return d
}

func TestNetPlusTaxEqualsGross(t *testing.T) {
	d := testDecomposer(t)
	for _, gross := range []string{"0", "1", "100", "119", "99.99", "12345.67", "0.01"} {
		g := decimal.RequireFromString(gross)
		net := d.Net(g)
		tax := d.Tax(g)
		require.True(t, net.Add(tax).Equal(g), "net %s + tax %s != gross %s", net, tax, g)
	}
}

func TestNetOfRoundGross(t *testing.T) {
	d := testDecomposer(t)
	net := d.Net(decimal.NewFromInt(119))
	require.True(t, net.Equal(decimal.NewFromInt(100)), "got %s", net)
	tax := d.Tax(decimal.NewFromInt(119))
	require.True(t, tax.Equal(decimal.NewFromInt(19)), "got %s", tax)
}

func TestNegativeRateRejected(t *testing.T) {
	_, err := NewDecomposer(decimal.NewFromFloat(-0.1))
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	require.Equal(t, UnitBulk, Classify("Arroz GRANEL 1kg", "granel"))
	require.Equal(t, UnitBulk, Classify("lenteja a granel", "granel"))
	require.Equal(t, UnitDiscrete, Classify("Arroz paquete", "granel"))
	require.Equal(t, UnitDiscrete, Classify("Arroz granel", ""))
}

func TestUnitRoundTrip(t *testing.T) {
	raw := decimal.NewFromInt(1500)
	display := DisplayQty(raw, UnitBulk)
	require.True(t, display.Equal(decimal.RequireFromString("1.5")))
	require.True(t, StorageQty(display, UnitBulk).Equal(raw))

	same := DisplayQty(raw, UnitDiscrete)
	require.True(t, same.Equal(raw))
}

func TestQuantityPriceInvariant(t *testing.T) {
	rawQty := decimal.NewFromInt(250)    // grams
	rawPrice := decimal.NewFromFloat(12) // per gram

	rawTotal := rawQty.Mul(rawPrice)
	displayTotal := DisplayQty(rawQty, UnitBulk).Mul(DisplayUnitPrice(rawPrice, UnitBulk))
	require.True(t, rawTotal.Equal(displayTotal), "raw %s display %s", rawTotal, displayTotal)
}

func TestStorageUnitPriceInverse(t *testing.T) {
	perKilo := decimal.NewFromInt(8000)
	perGram := StorageUnitPrice(perKilo, UnitBulk)
	require.True(t, perGram.Equal(decimal.NewFromInt(8)))
	require.True(t, DisplayUnitPrice(perGram, UnitBulk).Equal(perKilo))
}
