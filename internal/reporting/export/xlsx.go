package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily"
)

// BuildSalesWorkbook renders the sales summary and its daily breakdown into
// an XLSX workbook. The caller owns closing the returned file.
func BuildSalesWorkbook(summary reporting.Summary, days []reporting.DailyAggregate) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, fmt.Errorf("export: create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: drop default sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Metric", "Value"},
		{"Range Start", summary.Range.Start},
		{"Range End", summary.Range.End},
		{"Days", summary.Range.Days},
		{"Gross Revenue", summary.Totals.GrossRevenue.InexactFloat64()},
		{"Net Revenue", summary.Totals.NetRevenue.InexactFloat64()},
		{"Tax Collected", summary.Totals.TaxCollected.InexactFloat64()},
		{"Cost of Goods", summary.Totals.CostOfGoods.InexactFloat64()},
		{"Gross Profit", summary.Totals.GrossProfit.InexactFloat64()},
		{"Units", summary.Totals.Units.InexactFloat64()},
		{"Transactions", summary.Totals.Transactions},
		{"Projected Monthly Profit", summary.ProjectedProfit.InexactFloat64()},
		{"Projected Monthly Investment", summary.ProjectedInvestment.InexactFloat64()},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export: summary row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, fmt.Errorf("export: create daily sheet: %w", err)
	}
	header := []interface{}{"Date", "Gross Revenue", "Net Revenue", "Cost", "Profit", "Units", "Transactions"}
	if err := f.SetSheetRow(dailySheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, day := range days {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			day.Date,
			day.GrossRevenue.InexactFloat64(),
			day.NetRevenue.InexactFloat64(),
			day.CostOfGoods.InexactFloat64(),
			day.GrossProfit.InexactFloat64(),
			day.Units.InexactFloat64(),
			day.Transactions,
		}
		if err := f.SetSheetRow(dailySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export: daily row %d: %w", i+1, err)
		}
	}

	return f, nil
}
