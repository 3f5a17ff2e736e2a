package mail

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/almacen-erp/almacen-erp/internal/stock"
)

var alertPrinter = message.NewPrinter(language.Spanish)

// BuildLowStockAlert renders the daily critical-stock email. Quantities use
// the Spanish digit grouping the back office reads everywhere else.
func BuildLowStockAlert(products []stock.ProductHealth, day time.Time) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Productos en nivel critico al %s:\n\n", day.Format("02-01-2006"))
	for _, p := range products {
		stockStr := alertPrinter.Sprintf("%v", p.Stock.InexactFloat64())
		daysStr := "N/A"
		if p.HasProjection {
			daysStr = alertPrinter.Sprintf("%d", p.DaysOfStock)
		}
		fmt.Fprintf(&b, "- %s: stock %s, dias de stock %s\n", p.Name, stockStr, daysStr)
	}
	b.WriteString("\nRevisar reposicion con los proveedores correspondientes.\n")

	return Message{
		Subject: fmt.Sprintf("Alerta de stock critico (%d productos)", len(products)),
		Body:    b.String(),
	}
}
