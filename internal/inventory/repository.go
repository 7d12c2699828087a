package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the stock ledger in PostgreSQL. Stock balances live on
// the products table; movements append to stock_movements.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx runs fn inside a database transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (t *txRepository) GetStockForUpdate(ctx context.Context, productID string) (int, error) {
	var stock int
	err := t.tx.QueryRow(ctx,
		`SELECT stock FROM products WHERE barcode = $1 FOR UPDATE`,
		productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	return stock, err
}

func (t *txRepository) SetStock(ctx context.Context, productID string, qty int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE products SET stock = $1, updated_at = now() WHERE barcode = $2`,
		qty, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (t *txRepository) InsertMovement(ctx context.Context, mv Movement) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO stock_movements (code, type, product_id, qty, unit_cost, note, ref_module, ref_id, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		mv.Code, mv.Type, mv.ProductID, mv.Qty, mv.UnitCost, mv.Note, mv.RefModule, mv.RefID, mv.PostedAt).Scan(&id)
	return id, err
}

// ListMovements returns ledger entries, newest first.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	query := `SELECT id, code, type, product_id, qty, unit_cost, note, ref_module, ref_id, posted_at
		FROM stock_movements WHERE 1=1`
	args := []any{}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += ` AND product_id = $1`
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND posted_at >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND posted_at < $` + strconv.Itoa(len(args))
	}
	args = append(args, filter.Limit)
	query += ` ORDER BY posted_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var mv Movement
		if err := rows.Scan(&mv.ID, &mv.Code, &mv.Type, &mv.ProductID, &mv.Qty, &mv.UnitCost, &mv.Note, &mv.RefModule, &mv.RefID, &mv.PostedAt); err != nil {
			return nil, err
		}
		movements = append(movements, mv)
	}
	return movements, rows.Err()
}

// StockRows joins current balances with units sold inside [from, to).
func (r *Repository) StockRows(ctx context.Context, from, to time.Time) ([]StockRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.barcode, p.name, p.stock, COALESCE(sold.units, 0)
		 FROM products p
		 LEFT JOIN (
			SELECT si.product_id, SUM(si.qty)::int AS units
			FROM sale_items si
			JOIN ticket_sales ts ON ts.id = si.sale_id
			WHERE si.item_type = 'product' AND ts.sold_at >= $1 AND ts.sold_at < $2
			GROUP BY si.product_id
		 ) sold ON sold.product_id = p.barcode
		 WHERE p.is_active
		 ORDER BY p.name`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StockRow
	for rows.Next() {
		var row StockRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Stock, &row.UnitsSold); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
