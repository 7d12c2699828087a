package customers

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

const columns = `id, name, tax_id, phone, email, notes, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR tax_id ILIKE $` + n + ` OR phone ILIKE $` + n + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage)
	limit := strconv.Itoa(len(args))
	args = append(args, (filters.Page-1)*filters.PerPage)
	offset := strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM customers`+where+` ORDER BY name LIMIT $`+limit+` OFFSET $`+offset,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (name, tax_id, phone, email, notes, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`,
		c.Name, c.TaxID, c.Phone, c.Email, c.Notes, c.IsActive, now).Scan(&c.ID)
	if err != nil {
		return Customer{}, err
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET name = $1, tax_id = $2, phone = $3, email = $4, notes = $5, is_active = $6, updated_at = $7
		 WHERE id = $8`,
		c.Name, c.TaxID, c.Phone, c.Email, c.Notes, c.IsActive, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
