// Package export serialises reporting aggregates for download. Values come
// straight from the reporting core; nothing here recomputes tax or margin.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/almacen-erp/almacen-erp/internal/reporting"
)

// WriteSummaryCSV serialises the headline KPI card to CSV.
func WriteSummaryCSV(w io.Writer, summary reporting.Summary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Range Start", summary.Range.Start},
		{"Range End", summary.Range.End},
		{"Days", strconv.Itoa(summary.Range.Days)},
		{"Gross Revenue", summary.Totals.GrossRevenue.StringFixed(2)},
		{"Net Revenue", summary.Totals.NetRevenue.StringFixed(2)},
		{"Tax Collected", summary.Totals.TaxCollected.StringFixed(2)},
		{"Cost of Goods", summary.Totals.CostOfGoods.StringFixed(2)},
		{"Gross Profit", summary.Totals.GrossProfit.StringFixed(2)},
		{"Units", summary.Totals.Units.String()},
		{"Transactions", strconv.Itoa(summary.Totals.Transactions)},
		{"Projected Monthly Profit", summary.ProjectedProfit.StringFixed(2)},
		{"Projected Monthly Investment", summary.ProjectedInvestment.StringFixed(2)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDailyCSV emits one row per calendar day of the window.
func WriteDailyCSV(w io.Writer, days []reporting.DailyAggregate) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Gross Revenue", "Net Revenue", "Cost", "Profit", "Units", "Transactions"}); err != nil {
		return err
	}
	for _, day := range days {
		if err := writer.Write([]string{
			day.Date,
			day.GrossRevenue.StringFixed(2),
			day.NetRevenue.StringFixed(2),
			day.CostOfGoods.StringFixed(2),
			day.GrossProfit.StringFixed(2),
			day.Units.String(),
			strconv.Itoa(day.Transactions),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
