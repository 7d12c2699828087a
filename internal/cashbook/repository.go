package cashbook

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

const columns = `id, type, category, status, amount, description, occurred_at, due_date, paid_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Entry, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		where += clause + strconv.Itoa(len(args))
	}
	if !filters.From.IsZero() {
		add(` AND occurred_at >= $`, filters.From)
	}
	if !filters.To.IsZero() {
		add(` AND occurred_at < $`, filters.To)
	}
	if filters.Type != "" {
		add(` AND type = $`, filters.Type)
	}
	if filters.Category != "" {
		add(` AND category = $`, filters.Category)
	}
	if filters.Status != "" {
		add(` AND status = $`, filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cash_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage)
	limit := strconv.Itoa(len(args))
	args = append(args, (filters.Page-1)*filters.PerPage)
	offset := strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM cash_entries`+where+` ORDER BY occurred_at DESC, id DESC LIMIT $`+limit+` OFFSET $`+offset,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Entry, error) {
	var e Entry
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM cash_entries WHERE id = $1`, id).
		Scan(&e.ID, &e.Type, &e.Category, &e.Status, &e.Amount, &e.Description, &e.OccurredAt, &e.DueDate, &e.PaidAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, httpx.ErrNotFound
	}
	return e, err
}

func (r *repository) Create(ctx context.Context, e Entry) (Entry, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cash_entries (type, category, status, amount, description, occurred_at, due_date, paid_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`,
		e.Type, e.Category, e.Status, e.Amount, e.Description, e.OccurredAt, e.DueDate, e.PaidAt, now).Scan(&e.ID)
	if err != nil {
		return Entry{}, err
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return e, nil
}

func (r *repository) Update(ctx context.Context, id int64, e Entry) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cash_entries SET type = $1, category = $2, status = $3, amount = $4, description = $5,
		 occurred_at = $6, due_date = $7, paid_at = $8, updated_at = $9 WHERE id = $10`,
		e.Type, e.Category, e.Status, e.Amount, e.Description, e.OccurredAt, e.DueDate, e.PaidAt, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetPaid(ctx context.Context, id int64, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cash_entries SET status = $1, paid_at = $2, updated_at = $2 WHERE id = $3`,
		StatusPaid, paidAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cash_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListOverdue returns pending entries with a due date before asOf.
func (r *repository) ListOverdue(ctx context.Context, asOf time.Time) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM cash_entries
		 WHERE status = $1 AND due_date IS NOT NULL AND due_date < $2
		 ORDER BY due_date`,
		StatusPending, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.Category, &e.Status, &e.Amount, &e.Description, &e.OccurredAt, &e.DueDate, &e.PaidAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
