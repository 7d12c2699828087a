package purchasing

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

const orderColumns = `id, code, supplier, total, status, due_date, received_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	err = tx.QueryRow(ctx,
		`INSERT INTO purchase_orders (code, supplier, total, status, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		order.Code, order.Supplier, order.Total, order.Status, order.DueDate, now).Scan(&order.ID)
	if err != nil {
		return Order{}, err
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO purchase_lines (order_id, product_id, name, qty, unit_cost)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			order.ID, line.ProductID, line.Name, line.Qty, line.UnitCost).Scan(&line.ID)
		if err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id).
		Scan(&o.ID, &o.Code, &o.Supplier, &o.Total, &o.Status, &o.DueDate, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, httpx.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if err := r.loadLines(ctx, &o); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *repository) Update(ctx context.Context, order Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE purchase_orders SET supplier = $1, total = $2, status = $3, due_date = $4,
		 received_at = $5, updated_at = $6 WHERE id = $7`,
		order.Supplier, order.Total, order.Status, order.DueDate, order.ReceivedAt, time.Now(), order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_lines WHERE order_id = $1`, order.ID); err != nil {
		return err
	}
	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx,
			`INSERT INTO purchase_lines (order_id, product_id, name, qty, unit_cost)
			 VALUES ($1, $2, $3, $4, $5)`,
			order.ID, line.ProductID, line.Name, line.Qty, line.UnitCost); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage)
	limit := strconv.Itoa(len(args))
	args = append(args, (filters.Page-1)*filters.PerPage)
	offset := strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM purchase_orders`+where+` ORDER BY created_at DESC, id DESC LIMIT $`+limit+` OFFSET $`+offset,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Code, &o.Supplier, &o.Total, &o.Status, &o.DueDate, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *repository) loadLines(ctx context.Context, order *Order) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, name, qty, unit_cost FROM purchase_lines WHERE order_id = $1 ORDER BY id`,
		order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Name, &line.Qty, &line.UnitCost); err != nil {
			return err
		}
		order.Lines = append(order.Lines, line)
	}
	return rows.Err()
}
