package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/platform/db"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// Repository reads products and suppliers. The analytics never write; all
// lifecycle belongs to the source-of-record application.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	ListActive(ctx context.Context) ([]Product, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
}

type repository struct {
	db         *pgxpool.Pool
	bulkMarker string
}

// NewRepository wires the pool together with the bulk marker used to
// classify unit kinds at scan time.
func NewRepository(pool *pgxpool.Pool, bulkMarker string) Repository {
	return &repository{db: pool, bulkMarker: bulkMarker}
}

const productColumns = `p.id, p.name, p.stock::text, p.cost_price::text, COALESCE(p.supplier_id, 0), COALESCE(s.name, ''), p.is_active`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products p LEFT JOIN suppliers s ON s.id = p.supplier_id WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products p WHERE 1=1`
	args := []interface{}{}
	countArgs := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND p.name ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		clause := ` AND p.is_active = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.IsActive)
		countArgs = append(countArgs, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, db.WrapQueryErr("catalog: count products", err)
	}

	query += ` ORDER BY p.name ASC, p.id ASC`
	if filters.Limit > 0 {
		window := shared.NewPagination(filters.Page, filters.Limit, total)
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, window.PerPage)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, window.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.WrapQueryErr("catalog: list products", err)
	}
	defer rows.Close()

	products, err := r.scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p LEFT JOIN suppliers s ON s.id = p.supplier_id WHERE p.id = $1`
	row := r.db.QueryRow(ctx, query, id)
	product, err := r.scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return product, err
}

func (r *repository) ListActive(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p LEFT JOIN suppliers s ON s.id = p.supplier_id WHERE p.is_active ORDER BY p.name ASC, p.id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, db.WrapQueryErr("catalog: list active products", err)
	}
	defer rows.Close()
	return r.scanProducts(rows)
}

func (r *repository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM suppliers ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, db.WrapQueryErr("catalog: list suppliers", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *repository) scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *repository) scanProduct(row rowScanner) (Product, error) {
	var p Product
	var stock, cost string
	if err := row.Scan(&p.ID, &p.Name, &stock, &cost, &p.SupplierID, &p.SupplierName, &p.IsActive); err != nil {
		return Product{}, err
	}
	var err error
	if p.Stock, err = parseNumeric(stock); err != nil {
		return Product{}, fmt.Errorf("catalog: product %d stock: %w", p.ID, err)
	}
	if p.CostPrice, err = parseNumeric(cost); err != nil {
		return Product{}, fmt.Errorf("catalog: product %d cost_price: %w", p.ID, err)
	}
	p.UnitKind = pricing.Classify(p.Name, r.bulkMarker)
	if p.SupplierName == "" {
		p.SupplierName = UnknownSupplierName
	}
	return p, nil
}

func parseNumeric(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
