package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/platform/db"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

type repository struct {
	pool       *pgxpool.Pool
	bulkMarker string
}

// NewRepository builds the pgx-backed sale-line reader. The bulk marker is
// applied once per scanned row to fix the product's unit kind.
func NewRepository(pool *pgxpool.Pool, bulkMarker string) Repository {
	return &repository{pool: pool, bulkMarker: bulkMarker}
}

const saleLineQuery = `
SELECT sl.sale_id,
       s.created_at,
       p.id,
       p.name,
       COALESCE(p.supplier_id, 0),
       COALESCE(sup.name, ''),
       sl.quantity::text,
       sl.unit_price::text,
       p.cost_price::text
FROM sale_lines sl
JOIN sales s ON s.id = sl.sale_id
JOIN products p ON p.id = sl.product_id
LEFT JOIN suppliers sup ON sup.id = p.supplier_id
WHERE s.created_at >= $1 AND s.created_at < $2
ORDER BY s.created_at ASC, sl.sale_id ASC`

func (r *repository) SaleLines(ctx context.Context, window shared.DateRange) ([]SaleLineRecord, error) {
	rows, err := r.pool.Query(ctx, saleLineQuery, window.Start, window.End)
	if err != nil {
		return nil, db.WrapQueryErr("reporting: sale lines", err)
	}
	defer rows.Close()

	var lines []SaleLineRecord
	for rows.Next() {
		var line SaleLineRecord
		var soldAt time.Time
		var qty, price, cost string
		if err := rows.Scan(&line.SaleID, &soldAt, &line.ProductID, &line.ProductName, &line.SupplierID, &line.SupplierName, &qty, &price, &cost); err != nil {
			return nil, err
		}
		line.SoldAt = soldAt.UTC()
		if line.Qty, err = parseNumeric(qty); err != nil {
			return nil, fmt.Errorf("reporting: sale %d quantity: %w", line.SaleID, err)
		}
		if line.UnitPrice, err = parseNumeric(price); err != nil {
			return nil, fmt.Errorf("reporting: sale %d unit_price: %w", line.SaleID, err)
		}
		if line.CostPrice, err = parseNumeric(cost); err != nil {
			return nil, fmt.Errorf("reporting: product %d cost_price: %w", line.ProductID, err)
		}
		line.UnitKind = pricing.Classify(line.ProductName, r.bulkMarker)
		if line.SupplierName == "" {
			line.SupplierName = catalog.UnknownSupplierName
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func parseNumeric(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
