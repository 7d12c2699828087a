package serviceorders

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

type memoryRepo struct {
	orders map[int64]Order
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: map[int64]Order{}}
}

func (m *memoryRepo) Create(_ context.Context, order Order) (Order, error) {
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	return order, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}

func (m *memoryRepo) Update(_ context.Context, order Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memoryRepo) List(_ context.Context, filters ListFilters) ([]Order, int, error) {
	var orders []Order
	for _, o := range m.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		orders = append(orders, o)
	}
	return orders, len(orders), nil
}

type memoryCashbook struct {
	entries []cashbook.Entry
}

func (m *memoryCashbook) Create(_ context.Context, e cashbook.Entry) (cashbook.Entry, error) {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return e, nil
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(_ context.Context) error {
	c.bumps++
	return nil
}

func newTestService(repo *memoryRepo, cash *memoryCashbook, inv *countingInvalidator) *Service {
	svc := NewService(repo, cash, inv, slog.Default())
	return svc.WithClock(func() time.Time {
		return time.Date(2026, time.April, 5, 9, 30, 0, 0, time.UTC)
	})
}

func TestCreateOpensPendingOrder(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &memoryCashbook{}, &countingInvalidator{})

	order, err := svc.Create(context.Background(), OrderInput{
		Description: "troca de tela iPhone",
		TotalPrice:  350,
		TotalCost:   120,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.NotEmpty(t, order.Code)
	require.Equal(t, time.Date(2026, time.April, 5, 9, 30, 0, 0, time.UTC), order.OpenedAt)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &memoryCashbook{}, &countingInvalidator{})

	_, err := svc.Create(context.Background(), OrderInput{Description: "  "})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), OrderInput{Description: "reparo", TotalPrice: -1})
	require.ErrorIs(t, err, ErrNegativeValue)
}

func TestCompleteRecordsCashEntries(t *testing.T) {
	repo := newMemoryRepo()
	cash := &memoryCashbook{}
	inv := &countingInvalidator{}
	svc := newTestService(repo, cash, inv)

	order, err := svc.Create(context.Background(), OrderInput{
		Description: "reparo de notebook",
		TotalPrice:  500,
		TotalCost:   180,
	})
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	require.Len(t, cash.entries, 2)
	income := cash.entries[0]
	require.Equal(t, cashbook.TypeIncome, income.Type)
	require.Equal(t, cashbook.CategorySale, income.Category)
	require.Equal(t, cashbook.StatusPaid, income.Status)
	require.Equal(t, 500.0, income.Amount)

	cost := cash.entries[1]
	require.Equal(t, cashbook.TypeExpense, cost.Type)
	require.Equal(t, cashbook.CategoryServiceCost, cost.Category)
	require.Equal(t, 180.0, cost.Amount)

	require.Equal(t, 2, inv.bumps, "create and complete both bump")
}

func TestCompleteIsNotRepeatable(t *testing.T) {
	repo := newMemoryRepo()
	cash := &memoryCashbook{}
	svc := newTestService(repo, cash, &countingInvalidator{})

	order, err := svc.Create(context.Background(), OrderInput{Description: "reparo", TotalPrice: 100})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrAlreadyCompleted)
	require.Len(t, cash.entries, 1, "zero-cost order records income only, once")
}

func TestCompletedOrdersAreImmutable(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &memoryCashbook{}, &countingInvalidator{})

	order, err := svc.Create(context.Background(), OrderInput{Description: "reparo", TotalPrice: 100})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), order.ID)
	require.NoError(t, err)

	err = svc.Update(context.Background(), order.ID, OrderInput{Description: "outro", TotalPrice: 90})
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	err = svc.Delete(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrAlreadyCompleted)
}
