// Package fiscal nets output tax (collected on sales) against input tax
// (paid on purchases) per supplier and system-wide, classifying each
// position as payable or credit carried forward.
package fiscal

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/pricing"
)

// PositionState classifies a net tax position.
type PositionState string

const (
	// StatePayable means the entity owes the net amount.
	StatePayable PositionState = "PAYABLE"
	// StateCredit means the entity carries the absolute amount forward.
	StateCredit PositionState = "CREDIT"
)

// SupplierGross is one supplier's gross (tax-inclusive) flow for a window.
type SupplierGross struct {
	SupplierID int64
	Name       string
	Gross      decimal.Decimal
}

// TaxFlow pairs a supplier's gross sales with its gross purchases.
type TaxFlow struct {
	SupplierID     int64
	Name           string
	GrossSales     decimal.Decimal
	GrossPurchases decimal.Decimal
}

// Position is a reconciled per-supplier tax position.
type Position struct {
	SupplierID  int64           `json:"supplier_id"`
	Name        string          `json:"name"`
	OutputTax   decimal.Decimal `json:"output_tax"`
	InputTax    decimal.Decimal `json:"input_tax"`
	NetPosition decimal.Decimal `json:"net_position"`
	State       PositionState   `json:"state"`
}

// Summary is the system-wide reconciliation. FinalPayable is clamped at
// zero: supplier credits net against the total, but a negative grand total
// is a carry-forward, never a negative payable.
type Summary struct {
	Positions          []Position      `json:"positions"`
	OutputTax          decimal.Decimal `json:"output_tax"`
	InputTax           decimal.Decimal `json:"input_tax"`
	NetPosition        decimal.Decimal `json:"net_position"`
	FinalPayable       decimal.Decimal `json:"final_payable"`
	PayableSuppliers   int             `json:"payable_suppliers"`
	CreditSuppliers    int             `json:"credit_suppliers"`
	CreditCarryForward decimal.Decimal `json:"credit_carry_forward"`
}

// MergeFlows combines the sales-side and purchase-side groupings into one
// flow per supplier. A supplier present on only one side appears with the
// other side zero.
func MergeFlows(sales, purchases []SupplierGross) []TaxFlow {
	byID := make(map[int64]*TaxFlow)
	ensure := func(g SupplierGross) *TaxFlow {
		flow, ok := byID[g.SupplierID]
		if !ok {
			flow = &TaxFlow{
				SupplierID:     g.SupplierID,
				Name:           g.Name,
				GrossSales:     decimal.Zero,
				GrossPurchases: decimal.Zero,
			}
			byID[g.SupplierID] = flow
		}
		if flow.Name == "" {
			flow.Name = g.Name
		}
		return flow
	}
	for _, g := range sales {
		flow := ensure(g)
		flow.GrossSales = flow.GrossSales.Add(g.Gross)
	}
	for _, g := range purchases {
		flow := ensure(g)
		flow.GrossPurchases = flow.GrossPurchases.Add(g.Gross)
	}

	flows := make([]TaxFlow, 0, len(byID))
	for _, flow := range byID {
		flows = append(flows, *flow)
	}
	sort.Slice(flows, func(i, j int) bool {
		return flows[i].SupplierID < flows[j].SupplierID
	})
	return flows
}

// Reconcile decomposes each flow under the tax rate and nets the positions.
func Reconcile(flows []TaxFlow, tax pricing.Decomposer) Summary {
	summary := Summary{
		OutputTax:          decimal.Zero,
		InputTax:           decimal.Zero,
		NetPosition:        decimal.Zero,
		FinalPayable:       decimal.Zero,
		CreditCarryForward: decimal.Zero,
	}
	summary.Positions = make([]Position, 0, len(flows))

	for _, flow := range flows {
		outputTax := tax.Tax(flow.GrossSales)
		inputTax := tax.Tax(flow.GrossPurchases)
		net := outputTax.Sub(inputTax)

		position := Position{
			SupplierID:  flow.SupplierID,
			Name:        flow.Name,
			OutputTax:   outputTax,
			InputTax:    inputTax,
			NetPosition: net,
			State:       StatePayable,
		}
		if net.IsNegative() {
			position.State = StateCredit
			summary.CreditSuppliers++
			summary.CreditCarryForward = summary.CreditCarryForward.Add(net.Abs())
		} else {
			summary.PayableSuppliers++
		}

		summary.OutputTax = summary.OutputTax.Add(outputTax)
		summary.InputTax = summary.InputTax.Add(inputTax)
		summary.NetPosition = summary.NetPosition.Add(net)
		summary.Positions = append(summary.Positions, position)
	}

	if summary.NetPosition.IsPositive() {
		summary.FinalPayable = summary.NetPosition
	}
	return summary
}
