package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

type memoryRepo struct {
	products map[string]Product
	services map[int64]OfferedService
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[string]Product{}, services: map[int64]OfferedService{}}
}

func (r *memoryRepo) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var out []Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryRepo) GetProduct(ctx context.Context, barcode string) (Product, error) {
	p, ok := r.products[barcode]
	if !ok {
		return Product{}, httpx.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if _, ok := r.products[p.Barcode]; ok {
		return Product{}, httpx.ErrDuplicate
	}
	r.products[p.Barcode] = p
	return p, nil
}

func (r *memoryRepo) UpdateProduct(ctx context.Context, barcode string, p Product) error {
	if _, ok := r.products[barcode]; !ok {
		return httpx.ErrNotFound
	}
	r.products[barcode] = p
	return nil
}

func (r *memoryRepo) DeleteProduct(ctx context.Context, barcode string) error {
	if _, ok := r.products[barcode]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.products, barcode)
	return nil
}

func (r *memoryRepo) ListServices(ctx context.Context) ([]OfferedService, error) {
	var out []OfferedService
	for _, s := range r.services {
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryRepo) GetService(ctx context.Context, id int64) (OfferedService, error) {
	s, ok := r.services[id]
	if !ok {
		return OfferedService{}, httpx.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) CreateService(ctx context.Context, s OfferedService) (OfferedService, error) {
	r.nextID++
	s.ID = r.nextID
	r.services[s.ID] = s
	return s, nil
}

func (r *memoryRepo) UpdateService(ctx context.Context, id int64, s OfferedService) error {
	if _, ok := r.services[id]; !ok {
		return httpx.ErrNotFound
	}
	s.ID = id
	r.services[id] = s
	return nil
}

func (r *memoryRepo) DeleteService(ctx context.Context, id int64) error {
	if _, ok := r.services[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, Product{Name: "Cabo USB"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateProduct(ctx, Product{Barcode: "789", Name: "Cabo USB", Price: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)

	p, err := svc.CreateProduct(ctx, Product{Barcode: "789", Name: "Cabo USB", Price: 19.9, Cost: 8, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "789", p.Barcode)
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, Product{Barcode: "789", Name: "Cabo USB"})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, Product{Barcode: "789", Name: "Outro"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestServiceCRUD(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.CreateService(ctx, OfferedService{Name: "Troca de tela", Price: 250, Cost: 120, IsActive: true})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	require.NoError(t, svc.UpdateService(ctx, created.ID, OfferedService{Name: "Troca de tela", Price: 280, Cost: 120}))
	require.NoError(t, svc.DeleteService(ctx, created.ID))

	_, err = svc.GetService(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
