// Package pricing holds the pure monetary and unit arithmetic shared by all
// reporting modules: gross/net/tax decomposition under a single rate and the
// bulk-vs-discrete unit conversions.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyPlaces is the rounding precision for monetary results.
const moneyPlaces = 2

// Decomposer splits tax-inclusive amounts into net and tax portions under a
// single rate. Stored sale prices and purchase invoice totals are gross;
// cost_price and new_cost are already net and must never pass through here.
type Decomposer struct {
	rate   decimal.Decimal
	factor decimal.Decimal
}

// NewDecomposer builds a Decomposer for the given rate, e.g. 0.19.
func NewDecomposer(rate decimal.Decimal) (Decomposer, error) {
	if rate.IsNegative() {
		return Decomposer{}, fmt.Errorf("pricing: negative tax rate %s", rate)
	}
	return Decomposer{rate: rate, factor: decimal.NewFromInt(1).Add(rate)}, nil
}

// Rate returns the configured tax rate.
func (d Decomposer) Rate() decimal.Decimal {
	return d.rate
}

// Net returns the tax-exclusive portion of a gross amount, rounded to cents.
func (d Decomposer) Net(gross decimal.Decimal) decimal.Decimal {
	if d.factor.IsZero() {
		return gross
	}
	return gross.Div(d.factor).Round(moneyPlaces)
}

// Tax returns the tax portion of a gross amount. It is computed as the
// remainder after Net so that Net(g) + Tax(g) == g holds exactly; rounding
// net and tax independently would break the identity.
func (d Decomposer) Tax(gross decimal.Decimal) decimal.Decimal {
	return gross.Sub(d.Net(gross))
}
