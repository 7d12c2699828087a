package cashbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

type memoryRepo struct {
	rows   map[int64]Entry
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]Entry{}}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Entry, int, error) {
	var out []Entry
	for _, e := range r.rows {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Entry, error) {
	e, ok := r.rows[id]
	if !ok {
		return Entry{}, httpx.ErrNotFound
	}
	return e, nil
}

func (r *memoryRepo) Create(ctx context.Context, e Entry) (Entry, error) {
	r.nextID++
	e.ID = r.nextID
	r.rows[e.ID] = e
	return e, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, e Entry) error {
	if _, ok := r.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	e.ID = id
	r.rows[id] = e
	return nil
}

func (r *memoryRepo) SetPaid(ctx context.Context, id int64, paidAt time.Time) error {
	e, ok := r.rows[id]
	if !ok {
		return httpx.ErrNotFound
	}
	e.Status = StatusPaid
	e.PaidAt = &paidAt
	r.rows[id] = e
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range r.rows {
		if e.Status == StatusPending && e.DueDate != nil && e.DueDate.Before(asOf) {
			out = append(out, e)
		}
	}
	return out, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.calls++
	return nil
}

func TestCreateValidatesClosedSets(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Entry{Type: "transfer", Category: CategoryRent, Status: StatusPaid})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, Entry{Type: TypeExpense, Category: "fuel", Status: StatusPaid})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, Entry{Type: TypeExpense, Category: CategoryRent, Status: StatusPaid, Amount: -5})
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCreateStampsPaidEntries(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	fixed := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	created, err := svc.Create(context.Background(), Entry{
		Type: TypeIncome, Category: CategorySale, Status: StatusPaid, Amount: 150,
	})
	require.NoError(t, err)
	require.Equal(t, fixed, created.OccurredAt)
	require.NotNil(t, created.PaidAt)
	require.Equal(t, fixed, *created.PaidAt)
}

func TestMarkPaid(t *testing.T) {
	repo := newMemoryRepo()
	inv := &countingInvalidator{}
	svc := NewService(repo, inv, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Entry{Type: TypeExpense, Category: CategoryRent, Status: StatusPending, Amount: 800})
	require.NoError(t, err)

	require.NoError(t, svc.MarkPaid(ctx, created.ID))
	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, stored.Status)

	require.ErrorIs(t, svc.MarkPaid(ctx, created.ID), ErrAlreadyPaid)
	// Create + successful MarkPaid each bump the cache.
	require.Equal(t, 2, inv.calls)
}

func TestSignedAmount(t *testing.T) {
	income := Entry{Type: TypeIncome, Amount: 120}
	expense := Entry{Type: TypeExpense, Amount: 80}
	require.Equal(t, 120.0, income.SignedAmount())
	require.Equal(t, -80.0, expense.SignedAmount())
}

func TestOverdue(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, Entry{Type: TypeExpense, Category: CategorySupplier, Status: StatusPending, Amount: 300, DueDate: &due})
	require.NoError(t, err)

	overdue, err := svc.Overdue(ctx, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	overdue, err = svc.Overdue(ctx, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Empty(t, overdue)
}
