package fiscal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reconciliationSheet = "Reconciliation"

// BuildWorkbook renders the reconciliation into an XLSX workbook, one row
// per supplier position followed by the global totals block.
func BuildWorkbook(report Report) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(reconciliationSheet)
	if err != nil {
		return nil, fmt.Errorf("fiscal: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("fiscal: drop default sheet: %w", err)
	}

	header := []interface{}{"Supplier ID", "Supplier", "Output Tax", "Input Tax", "Net Position", "State"}
	if err := f.SetSheetRow(reconciliationSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, pos := range report.Summary.Positions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			pos.SupplierID,
			pos.Name,
			pos.OutputTax.InexactFloat64(),
			pos.InputTax.InexactFloat64(),
			pos.NetPosition.InexactFloat64(),
			string(pos.State),
		}
		if err := f.SetSheetRow(reconciliationSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("fiscal: position row %d: %w", i+1, err)
		}
	}

	totals := [][]interface{}{
		{"", "", "", "", "", ""},
		{"", "Range", report.Range.Start + " to " + report.Range.End, "", "", ""},
		{"", "Total Output Tax", report.Summary.OutputTax.InexactFloat64(), "", "", ""},
		{"", "Total Input Tax", report.Summary.InputTax.InexactFloat64(), "", "", ""},
		{"", "Net Position", report.Summary.NetPosition.InexactFloat64(), "", "", ""},
		{"", "Final Payable", report.Summary.FinalPayable.InexactFloat64(), "", "", ""},
		{"", "Credit Carry Forward", report.Summary.CreditCarryForward.InexactFloat64(), "", "", ""},
	}
	base := len(report.Summary.Positions) + 2
	for i, row := range totals {
		cell, err := excelize.CoordinatesToCellName(1, base+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reconciliationSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("fiscal: totals row %d: %w", i+1, err)
		}
	}

	return f, nil
}
