package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/pos"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) EntriesThrough(ctx context.Context, end time.Time) ([]cashbook.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, category, status, amount, description, occurred_at, due_date, paid_at, created_at, updated_at
		 FROM cash_entries WHERE occurred_at < $1 ORDER BY occurred_at, id`,
		end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []cashbook.Entry
	for rows.Next() {
		var e cashbook.Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.Category, &e.Status, &e.Amount, &e.Description, &e.OccurredAt, &e.DueDate, &e.PaidAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) SalesBetween(ctx context.Context, from, to time.Time) ([]pos.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.code, s.total, s.payment_method, s.sold_at,
		        i.item_type, COALESCE(i.product_id, ''), COALESCE(i.service_id, 0), i.name, i.qty, i.unit_price, i.unit_cost
		 FROM ticket_sales s
		 JOIN sale_items i ON i.sale_id = s.id
		 WHERE s.sold_at >= $1 AND s.sold_at < $2
		 ORDER BY s.sold_at, s.id, i.id`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []pos.Sale
	index := map[int64]int{}
	for rows.Next() {
		var (
			sale pos.Sale
			item pos.SaleItem
		)
		if err := rows.Scan(&sale.ID, &sale.Code, &sale.Total, &sale.PaymentMethod, &sale.SoldAt,
			&item.ItemType, &item.ProductID, &item.ServiceID, &item.Name, &item.Qty, &item.UnitPrice, &item.UnitCost); err != nil {
			return nil, err
		}
		at, seen := index[sale.ID]
		if !seen {
			index[sale.ID] = len(sales)
			sale.Items = []pos.SaleItem{item}
			sales = append(sales, sale)
			continue
		}
		sales[at].Items = append(sales[at].Items, item)
	}
	return sales, rows.Err()
}

func (r *repository) Products(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT barcode, name, category, price, cost, stock FROM products WHERE is_active ORDER BY barcode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.Barcode, &p.Name, &p.Category, &p.Price, &p.Cost, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
