package stock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/platform/db"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed stock reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const lastRestocksQuery = `
SELECT pil.product_id, MAX(pi.created_at)
FROM purchase_invoice_lines pil
JOIN purchase_invoices pi ON pi.id = pil.invoice_id
GROUP BY pil.product_id`

// Each product's trailing window starts at its own last restock.
const unitsSoldSinceRestockQuery = `
SELECT sl.product_id, SUM(sl.quantity)::text
FROM sale_lines sl
JOIN sales s ON s.id = sl.sale_id
JOIN (
    SELECT pil.product_id, MAX(pi.created_at) AS restocked_at
    FROM purchase_invoice_lines pil
    JOIN purchase_invoices pi ON pi.id = pil.invoice_id
    GROUP BY pil.product_id
) r ON r.product_id = sl.product_id
WHERE s.created_at >= r.restocked_at
GROUP BY sl.product_id`

func (r *repository) LastRestocks(ctx context.Context) ([]Restock, error) {
	rows, err := r.pool.Query(ctx, lastRestocksQuery)
	if err != nil {
		return nil, db.WrapQueryErr("stock: last restocks", err)
	}
	defer rows.Close()

	var restocks []Restock
	for rows.Next() {
		var restock Restock
		if err := rows.Scan(&restock.ProductID, &restock.RestockedAt); err != nil {
			return nil, err
		}
		restocks = append(restocks, restock)
	}
	return restocks, rows.Err()
}

func (r *repository) UnitsSoldSinceRestock(ctx context.Context) ([]Velocity, error) {
	rows, err := r.pool.Query(ctx, unitsSoldSinceRestockQuery)
	if err != nil {
		return nil, db.WrapQueryErr("stock: units sold since restock", err)
	}
	defer rows.Close()

	var velocities []Velocity
	for rows.Next() {
		var velocity Velocity
		var raw string
		if err := rows.Scan(&velocity.ProductID, &raw); err != nil {
			return nil, err
		}
		if velocity.Units, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("stock: product %d units: %w", velocity.ProductID, err)
		}
		velocities = append(velocities, velocity)
	}
	return velocities, rows.Err()
}
