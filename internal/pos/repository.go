package pos

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// CreateSale persists the ticket and its lines atomically.
func (r *repository) CreateSale(ctx context.Context, sale Sale) (Sale, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sale{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	err = tx.QueryRow(ctx,
		`INSERT INTO ticket_sales (code, customer_id, total, payment_method, sold_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sale.Code, sale.CustomerID, sale.Total, sale.PaymentMethod, sale.SoldAt, now).Scan(&sale.ID)
	if err != nil {
		return Sale{}, err
	}
	for i := range sale.Items {
		item := &sale.Items[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO sale_items (sale_id, item_type, product_id, service_id, name, qty, unit_price, unit_cost, unique_id)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, 0), $5, $6, $7, $8, $9) RETURNING id`,
			sale.ID, item.ItemType, item.ProductID, item.ServiceID, item.Name, item.Qty, item.UnitPrice, item.UnitCost, item.UniqueID).Scan(&item.ID)
		if err != nil {
			return Sale{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Sale{}, err
	}
	sale.CreatedAt = now
	return sale, nil
}

// GetSale loads a ticket with its lines.
func (r *repository) GetSale(ctx context.Context, id int64) (Sale, error) {
	var sale Sale
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, customer_id, total, payment_method, sold_at, created_at
		 FROM ticket_sales WHERE id = $1`, id).
		Scan(&sale.ID, &sale.Code, &sale.CustomerID, &sale.Total, &sale.PaymentMethod, &sale.SoldAt, &sale.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, httpx.ErrNotFound
	}
	if err != nil {
		return Sale{}, err
	}

	items, err := r.loadItems(ctx, sale.ID)
	if err != nil {
		return Sale{}, err
	}
	sale.Items = items
	return sale, nil
}

// ListSales returns tickets inside the window, newest first, lines included.
func (r *repository) ListSales(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		where += ` AND sold_at >= $` + strconv.Itoa(len(args))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		where += ` AND sold_at < $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ticket_sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage)
	limit := strconv.Itoa(len(args))
	args = append(args, (filters.Page-1)*filters.PerPage)
	offset := strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx,
		`SELECT id, code, customer_id, total, payment_method, sold_at, created_at FROM ticket_sales`+
			where+` ORDER BY sold_at DESC, id DESC LIMIT $`+limit+` OFFSET $`+offset,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.Code, &sale.CustomerID, &sale.Total, &sale.PaymentMethod, &sale.SoldAt, &sale.CreatedAt); err != nil {
			return nil, 0, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range sales {
		items, err := r.loadItems(ctx, sales[i].ID)
		if err != nil {
			return nil, 0, err
		}
		sales[i].Items = items
	}
	return sales, total, nil
}

func (r *repository) loadItems(ctx context.Context, saleID int64) ([]SaleItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, item_type, COALESCE(product_id, ''), COALESCE(service_id, 0), name, qty, unit_price, unit_cost, COALESCE(unique_id, '')
		 FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.ItemType, &item.ProductID, &item.ServiceID, &item.Name, &item.Qty, &item.UnitPrice, &item.UnitCost, &item.UniqueID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
