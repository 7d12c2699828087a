package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	stock     map[string]int
	movements []Movement
	sold      map[string]int
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stock: map[string]int{}, sold: map[string]int{}}
}

type memoryTx struct {
	repo *memoryRepo
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	out := make([]Movement, len(r.movements))
	copy(out, r.movements)
	return out, nil
}

func (r *memoryRepo) StockRows(ctx context.Context, from, to time.Time) ([]StockRow, error) {
	var rows []StockRow
	for id, qty := range r.stock {
		rows = append(rows, StockRow{ProductID: id, Stock: qty, UnitsSold: r.sold[id]})
	}
	return rows, nil
}

func (tx *memoryTx) GetStockForUpdate(ctx context.Context, productID string) (int, error) {
	return tx.repo.stock[productID], nil
}

func (tx *memoryTx) SetStock(ctx context.Context, productID string, qty int) error {
	tx.repo.stock[productID] = qty
	return nil
}

func (tx *memoryTx) InsertMovement(ctx context.Context, mv Movement) (int64, error) {
	tx.repo.nextID++
	mv.ID = tx.repo.nextID
	tx.repo.movements = append(tx.repo.movements, mv)
	return mv.ID, nil
}

func TestPostInboundAndOutbound(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, ServiceConfig{})
	ctx := context.Background()

	mv, err := svc.PostInbound(ctx, MovementInput{ProductID: "7891234", Qty: 10, UnitCost: 25})
	require.NoError(t, err)
	require.Equal(t, 10, mv.Qty)
	require.Equal(t, 10, repo.stock["7891234"])

	mv, err = svc.PostOutbound(ctx, MovementInput{ProductID: "7891234", Qty: 4})
	require.NoError(t, err)
	require.Equal(t, -4, mv.Qty)
	require.Equal(t, 6, repo.stock["7891234"])
	require.Len(t, repo.movements, 2)
}

func TestNegativeStockGuard(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.PostOutbound(ctx, MovementInput{ProductID: "p1", Qty: 1})
	require.ErrorIs(t, err, ErrNegativeStock)

	_, err = svc.PostAdjustment(ctx, MovementInput{ProductID: "p1", Qty: -1})
	require.ErrorIs(t, err, ErrNegativeStock)
}

func TestNegativeStockAllowedWhenConfigured(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, ServiceConfig{AllowNegativeStock: true})

	_, err := svc.PostOutbound(context.Background(), MovementInput{ProductID: "p1", Qty: 2})
	require.NoError(t, err)
	require.Equal(t, -2, repo.stock["p1"])
}

func TestPostValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), ServiceConfig{})
	ctx := context.Background()

	_, err := svc.PostInbound(ctx, MovementInput{ProductID: "p1", Qty: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PostInbound(ctx, MovementInput{ProductID: "p1", Qty: 1, UnitCost: -1})
	require.ErrorIs(t, err, ErrInvalidUnitCost)

	_, err = svc.PostAdjustment(ctx, MovementInput{ProductID: "p1", Qty: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestStockStatusClassifiesRows(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock["fast"] = 10
	repo.sold["fast"] = 50
	repo.stock["idle"] = 10
	repo.stock["gone"] = 0

	svc := NewService(repo, ServiceConfig{})
	ref := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	levels, err := svc.StockStatus(context.Background(), ref)
	require.NoError(t, err)

	byID := map[string]Status{}
	for _, lvl := range levels {
		byID[lvl.ProductID] = lvl.Status
	}
	require.Equal(t, StatusAtRisk, byID["fast"])
	require.Equal(t, StatusExcess, byID["idle"])
	require.Equal(t, StatusOutOfStock, byID["gone"])
}
