package fiscal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/platform/db"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed flow reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Sales without a supplier fall into the id-zero bucket so their output tax
// still enters the global totals.
const salesBySupplierQuery = `
SELECT COALESCE(p.supplier_id, 0),
       COALESCE(sup.name, ''),
       SUM(sl.quantity * sl.unit_price)::text
FROM sale_lines sl
JOIN sales s ON s.id = sl.sale_id
JOIN products p ON p.id = sl.product_id
LEFT JOIN suppliers sup ON sup.id = p.supplier_id
WHERE s.created_at >= $1 AND s.created_at < $2
GROUP BY COALESCE(p.supplier_id, 0), COALESCE(sup.name, '')
ORDER BY 1 ASC`

const purchasesBySupplierQuery = `
SELECT pi.supplier_id,
       COALESCE(sup.name, ''),
       SUM(pi.total_amount)::text
FROM purchase_invoices pi
LEFT JOIN suppliers sup ON sup.id = pi.supplier_id
WHERE pi.created_at >= $1 AND pi.created_at < $2
GROUP BY pi.supplier_id, COALESCE(sup.name, '')
ORDER BY 1 ASC`

func (r *repository) SalesBySupplier(ctx context.Context, window shared.DateRange) ([]SupplierGross, error) {
	return r.queryGross(ctx, "fiscal: sales by supplier", salesBySupplierQuery, window)
}

func (r *repository) PurchasesBySupplier(ctx context.Context, window shared.DateRange) ([]SupplierGross, error) {
	return r.queryGross(ctx, "fiscal: purchases by supplier", purchasesBySupplierQuery, window)
}

func (r *repository) queryGross(ctx context.Context, op, query string, window shared.DateRange) ([]SupplierGross, error) {
	rows, err := r.pool.Query(ctx, query, window.Start, window.End)
	if err != nil {
		return nil, db.WrapQueryErr(op, err)
	}
	defer rows.Close()

	var flows []SupplierGross
	for rows.Next() {
		var flow SupplierGross
		var raw string
		if err := rows.Scan(&flow.SupplierID, &flow.Name, &raw); err != nil {
			return nil, err
		}
		if flow.Gross, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("%s: supplier %d gross: %w", op, flow.SupplierID, err)
		}
		if flow.Name == "" {
			flow.Name = catalog.UnknownSupplierName
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}
