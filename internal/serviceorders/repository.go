package serviceorders

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

const columns = `id, code, customer_id, description, total_price, total_cost, status, opened_at, completed_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO service_orders (code, customer_id, description, total_price, total_cost, status, opened_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`,
		order.Code, order.CustomerID, order.Description, order.TotalPrice, order.TotalCost, order.Status, order.OpenedAt, now).Scan(&order.ID)
	if err != nil {
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM service_orders WHERE id = $1`, id).
		Scan(&o.ID, &o.Code, &o.CustomerID, &o.Description, &o.TotalPrice, &o.TotalCost, &o.Status, &o.OpenedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	return o, err
}

func (r *repository) Update(ctx context.Context, order Order) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_orders SET customer_id = $1, description = $2, total_price = $3, total_cost = $4,
		 status = $5, completed_at = $6, updated_at = $7 WHERE id = $8`,
		order.CustomerID, order.Description, order.TotalPrice, order.TotalCost,
		order.Status, order.CompletedAt, time.Now(), order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		where += clause + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		add(` AND status = $`, filters.Status)
	}
	if !filters.From.IsZero() {
		add(` AND opened_at >= $`, filters.From)
	}
	if !filters.To.IsZero() {
		add(` AND opened_at < $`, filters.To)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage)
	limit := strconv.Itoa(len(args))
	args = append(args, (filters.Page-1)*filters.PerPage)
	offset := strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM service_orders`+where+` ORDER BY opened_at DESC, id DESC LIMIT $`+limit+` OFFSET $`+offset,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Code, &o.CustomerID, &o.Description, &o.TotalPrice, &o.TotalCost, &o.Status, &o.OpenedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}
