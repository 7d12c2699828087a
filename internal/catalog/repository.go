package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Repository abstracts catalog persistence.
type Repository interface {
	ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error)
	GetProduct(ctx context.Context, barcode string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, barcode string, p Product) error
	DeleteProduct(ctx context.Context, barcode string) error

	ListServices(ctx context.Context) ([]OfferedService, error)
	GetService(ctx context.Context, id int64) (OfferedService, error)
	CreateService(ctx context.Context, s OfferedService) (OfferedService, error)
	UpdateService(ctx context.Context, id int64, s OfferedService) error
	DeleteService(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `barcode, name, category, price, cost, stock, requires_unique_id, is_active, created_at, updated_at`

func (r *repository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR barcode ILIKE $` + n + `)`
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		where += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name`
	if filters.PerPage > 0 {
		args = append(args, filters.PerPage)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.PerPage
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) GetProduct(ctx context.Context, barcode string) (Product, error) {
	var p Product
	err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (barcode, name, category, price, cost, stock, requires_unique_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		p.Barcode, p.Name, p.Category, p.Price, p.Cost, p.Stock, p.RequiresUniqueID, p.IsActive, now)
	if err != nil {
		if isDuplicate(err) {
			return Product{}, httpx.ErrDuplicate
		}
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, barcode string, p Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $1, category = $2, price = $3, cost = $4, requires_unique_id = $5, is_active = $6, updated_at = $7
		 WHERE barcode = $8`,
		p.Name, p.Category, p.Price, p.Cost, p.RequiresUniqueID, p.IsActive, time.Now(), barcode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteProduct(ctx context.Context, barcode string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE barcode = $1`, barcode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const serviceColumns = `id, name, price, cost, is_active, created_at, updated_at`

func (r *repository) ListServices(ctx context.Context) ([]OfferedService, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serviceColumns+` FROM offered_services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []OfferedService
	for rows.Next() {
		var s OfferedService
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Cost, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *repository) GetService(ctx context.Context, id int64) (OfferedService, error) {
	var s OfferedService
	err := r.pool.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM offered_services WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Price, &s.Cost, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return OfferedService{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) CreateService(ctx context.Context, s OfferedService) (OfferedService, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO offered_services (name, price, cost, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		s.Name, s.Price, s.Cost, s.IsActive, now).Scan(&s.ID)
	if err != nil {
		if isDuplicate(err) {
			return OfferedService{}, httpx.ErrDuplicate
		}
		return OfferedService{}, err
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repository) UpdateService(ctx context.Context, id int64, s OfferedService) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE offered_services SET name = $1, price = $2, cost = $3, is_active = $4, updated_at = $5 WHERE id = $6`,
		s.Name, s.Price, s.Cost, s.IsActive, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteService(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offered_services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *Product) error {
	return row.Scan(&p.Barcode, &p.Name, &p.Category, &p.Price, &p.Cost, &p.Stock, &p.RequiresUniqueID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}
