package fiscal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildWorkbook(t *testing.T) {
	report := Report{
		Range: RangeMeta{Start: "2024-03-01", End: "2024-04-01", Days: 31},
		Summary: Summary{
			Positions: []Position{
				{SupplierID: 1, Name: "Distribuidora Sur", OutputTax: dec("190"), InputTax: dec("95"), NetPosition: dec("95"), State: StatePayable},
				{SupplierID: 2, Name: "Lacteos Andinos", OutputTax: dec("50"), InputTax: dec("120"), NetPosition: dec("-70"), State: StateCredit},
			},
			OutputTax:          dec("240"),
			InputTax:           dec("215"),
			NetPosition:        dec("25"),
			FinalPayable:       dec("25"),
			PayableSuppliers:   1,
			CreditSuppliers:    1,
			CreditCarryForward: dec("70"),
		},
	}

	f, err := BuildWorkbook(report)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, f.Close()) })

	name, err := f.GetCellValue(reconciliationSheet, "B2")
	require.NoError(t, err)
	require.Equal(t, "Distribuidora Sur", name)

	state, err := f.GetCellValue(reconciliationSheet, "F3")
	require.NoError(t, err)
	require.Equal(t, "CREDIT", state)

	payable, err := f.GetCellValue(reconciliationSheet, "C9")
	require.NoError(t, err)
	require.Equal(t, "25", payable)
}
