package purchasing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/inventory"
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

type memoryStock struct {
	inbound []inventory.MovementInput
}

func (m *memoryStock) PostInbound(_ context.Context, input inventory.MovementInput) (inventory.Movement, error) {
	m.inbound = append(m.inbound, input)
	return inventory.Movement{ProductID: input.ProductID, Qty: input.Qty}, nil
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

func newTestService(repo *memoryRepo, stock *memoryStock, cash *memoryCashbook) *Service {
	svc := NewService(repo, stock, cash, &countingInvalidator{}, slog.Default())
	return svc.WithClock(func() time.Time {
		return time.Date(2026, time.May, 20, 11, 0, 0, 0, time.UTC)
	})
}

func draftInput() OrderInput {
	return OrderInput{
		Supplier: "Distribuidora ABC",
		Lines: []LineInput{
			{ProductID: "789100", Name: "Pelicula 3D", Qty: 50, UnitCost: 4.5},
			{ProductID: "789300", Name: "Cabo USB-C", Qty: 20, UnitCost: 7},
		},
	}
}

func TestCreateComputesTotalAndStaysDraft(t *testing.T) {
	repo := newMemoryRepo()
	stock := &memoryStock{}
	cash := &memoryCashbook{}
	svc := newTestService(repo, stock, cash)

	order, err := svc.Create(context.Background(), draftInput())
	require.NoError(t, err)
	require.Equal(t, StatusDraft, order.Status)
	require.Equal(t, 365.0, order.Total)
	require.Empty(t, stock.inbound, "draft has no stock effect")
	require.Empty(t, cash.entries, "draft has no cash effect")
}

func TestCreateValidatesLines(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &memoryStock{}, &memoryCashbook{})

	_, err := svc.Create(context.Background(), OrderInput{Supplier: "ABC"})
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Create(context.Background(), OrderInput{
		Supplier: "ABC",
		Lines:    []LineInput{{ProductID: "789100", Qty: 0, UnitCost: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = svc.Create(context.Background(), OrderInput{
		Supplier: "  ",
		Lines:    []LineInput{{ProductID: "789100", Qty: 1, UnitCost: 1}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReceivePostsStockAndPayable(t *testing.T) {
	repo := newMemoryRepo()
	stock := &memoryStock{}
	cash := &memoryCashbook{}
	svc := newTestService(repo, stock, cash)

	due := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	input := draftInput()
	input.DueDate = &due
	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	received, err := svc.Receive(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	require.Len(t, stock.inbound, 2)
	require.Equal(t, "789100", stock.inbound[0].ProductID)
	require.Equal(t, 50, stock.inbound[0].Qty)
	require.Equal(t, 4.5, stock.inbound[0].UnitCost)

	require.Len(t, cash.entries, 1)
	payable := cash.entries[0]
	require.Equal(t, cashbook.TypeExpense, payable.Type)
	require.Equal(t, cashbook.CategorySupplier, payable.Category)
	require.Equal(t, cashbook.StatusPending, payable.Status)
	require.Equal(t, 365.0, payable.Amount)
	require.NotNil(t, payable.DueDate)
	require.Equal(t, due, *payable.DueDate)
}

func TestReceiveOnlyFromDraft(t *testing.T) {
	repo := newMemoryRepo()
	stock := &memoryStock{}
	cash := &memoryCashbook{}
	svc := newTestService(repo, stock, cash)

	order, err := svc.Create(context.Background(), draftInput())
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrNotDraft)
	require.Len(t, stock.inbound, 2, "second receive must not double-post stock")
	require.Len(t, cash.entries, 1)
}

func TestCancelAndEditRules(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &memoryStock{}, &memoryCashbook{})

	order, err := svc.Create(context.Background(), draftInput())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), order.ID))

	err = svc.Update(context.Background(), order.ID, draftInput())
	require.ErrorIs(t, err, ErrNotDraft)

	_, err = svc.Receive(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrNotDraft)
}
