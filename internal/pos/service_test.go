package pos

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/inventory"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

type memoryRepo struct {
	sales   []Sale
	nextID  int64
	failure error
}

func (m *memoryRepo) CreateSale(_ context.Context, sale Sale) (Sale, error) {
	if m.failure != nil {
		return Sale{}, m.failure
	}
	m.nextID++
	sale.ID = m.nextID
	m.sales = append(m.sales, sale)
	return sale, nil
}

func (m *memoryRepo) GetSale(_ context.Context, id int64) (Sale, error) {
	for _, s := range m.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, httpx.ErrNotFound
}

func (m *memoryRepo) ListSales(_ context.Context, _ ListFilters) ([]Sale, int, error) {
	return m.sales, len(m.sales), nil
}

type memoryCatalog struct {
	products map[string]catalog.Product
	services map[int64]catalog.OfferedService
}

func (m *memoryCatalog) GetProduct(_ context.Context, barcode string) (catalog.Product, error) {
	p, ok := m.products[barcode]
	if !ok {
		return catalog.Product{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *memoryCatalog) GetService(_ context.Context, id int64) (catalog.OfferedService, error) {
	s, ok := m.services[id]
	if !ok {
		return catalog.OfferedService{}, httpx.ErrNotFound
	}
	return s, nil
}

type memoryStock struct {
	levels   map[string]int
	outbound []inventory.MovementInput
	inbound  []inventory.MovementInput
}

func (m *memoryStock) PostOutbound(_ context.Context, input inventory.MovementInput) (inventory.Movement, error) {
	if m.levels[input.ProductID] < input.Qty {
		return inventory.Movement{}, inventory.ErrNegativeStock
	}
	m.levels[input.ProductID] -= input.Qty
	m.outbound = append(m.outbound, input)
	return inventory.Movement{ProductID: input.ProductID, Qty: -input.Qty}, nil
}

func (m *memoryStock) PostInbound(_ context.Context, input inventory.MovementInput) (inventory.Movement, error) {
	m.levels[input.ProductID] += input.Qty
	m.inbound = append(m.inbound, input)
	return inventory.Movement{ProductID: input.ProductID, Qty: input.Qty}, nil
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(_ context.Context) error {
	c.bumps++
	return nil
}

func newTestService(repo *memoryRepo, cat *memoryCatalog, stock *memoryStock, inv *countingInvalidator) *Service {
	svc := NewService(repo, cat, stock, nil, inv, slog.Default())
	return svc.WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	})
}

func fixtureCatalog() *memoryCatalog {
	return &memoryCatalog{
		products: map[string]catalog.Product{
			"789100": {Barcode: "789100", Name: "Pelicula 3D", Price: 25, Cost: 8},
			"789200": {Barcode: "789200", Name: "Celular X", Price: 1200, Cost: 900, RequiresUniqueID: true},
		},
		services: map[int64]catalog.OfferedService{
			7: {ID: 7, Name: "Troca de Tela", Price: 150, Cost: 60},
		},
	}
}

func TestCreateSaleFreezesCatalogPrices(t *testing.T) {
	repo := &memoryRepo{}
	stock := &memoryStock{levels: map[string]int{"789100": 10}}
	inv := &countingInvalidator{}
	svc := newTestService(repo, fixtureCatalog(), stock, inv)

	sale, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentPix,
		Items: []SaleItemInput{
			{ItemType: ItemProduct, ProductID: "789100", Qty: 2},
			{ItemType: ItemService, ServiceID: 7, Qty: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)
	require.Equal(t, 25.0, sale.Items[0].UnitPrice)
	require.Equal(t, 8.0, sale.Items[0].UnitCost)
	require.Equal(t, 150.0, sale.Items[1].UnitPrice)
	require.Equal(t, 200.0, sale.Total)
	require.Equal(t, 8, stock.levels["789100"])
	require.Equal(t, 1, inv.bumps)
	require.NotEmpty(t, sale.Code)
}

func TestCreateSalePriceOverride(t *testing.T) {
	repo := &memoryRepo{}
	stock := &memoryStock{levels: map[string]int{"789100": 5}}
	svc := newTestService(repo, fixtureCatalog(), stock, &countingInvalidator{})

	sale, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentCash,
		Items: []SaleItemInput{
			{ItemType: ItemProduct, ProductID: "789100", Qty: 1, UnitPrice: 20},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, sale.Items[0].UnitPrice)
	require.Equal(t, 8.0, sale.Items[0].UnitCost, "cost always comes from the catalog")
}

func TestCreateSaleRequiresUniqueID(t *testing.T) {
	repo := &memoryRepo{}
	stock := &memoryStock{levels: map[string]int{"789200": 3}}
	svc := newTestService(repo, fixtureCatalog(), stock, &countingInvalidator{})

	_, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentCredit,
		Items: []SaleItemInput{
			{ItemType: ItemProduct, ProductID: "789200", Qty: 1},
		},
	})
	require.ErrorIs(t, err, ErrUniqueIDRequired)
	require.Empty(t, repo.sales)

	sale, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentCredit,
		Items: []SaleItemInput{
			{ItemType: ItemProduct, ProductID: "789200", Qty: 1, UniqueID: "IMEI-555"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "IMEI-555", sale.Items[0].UniqueID)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	repo := &memoryRepo{}
	stock := &memoryStock{levels: map[string]int{"789100": 1}}
	svc := newTestService(repo, fixtureCatalog(), stock, &countingInvalidator{})

	_, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentCash,
		Items: []SaleItemInput{
			{ItemType: ItemProduct, ProductID: "789100", Qty: 3},
		},
	})
	require.ErrorIs(t, err, inventory.ErrNegativeStock)
	require.Equal(t, 1, stock.levels["789100"])
	require.Empty(t, repo.sales)
}

func TestCreateSaleCompensatesOnPersistFailure(t *testing.T) {
	repo := &memoryRepo{failure: errors.New("db down")}
	stock := &memoryStock{levels: map[string]int{"789100": 10}}
	svc := newTestService(repo, fixtureCatalog(), stock, &countingInvalidator{})

	_, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentCash,
		Items: []SaleItemInput{
			{ItemType: ItemProduct, ProductID: "789100", Qty: 4},
		},
	})
	require.Error(t, err)
	require.Equal(t, 10, stock.levels["789100"], "outbound movement must be compensated")
	require.Len(t, stock.inbound, 1)
}

func TestCreateSaleRejectsEmptyAndInvalid(t *testing.T) {
	repo := &memoryRepo{}
	stock := &memoryStock{levels: map[string]int{}}
	svc := newTestService(repo, fixtureCatalog(), stock, &countingInvalidator{})

	_, err := svc.CreateSale(context.Background(), SaleInput{PaymentMethod: PaymentCash})
	require.ErrorIs(t, err, ErrEmptySale)

	_, err = svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: "check",
		Items:         []SaleItemInput{{ItemType: ItemService, ServiceID: 7, Qty: 1}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentCash,
		Items:         []SaleItemInput{{ItemType: ItemService, ServiceID: 7, Qty: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidQty)
}

func TestServiceOnlySaleSkipsStock(t *testing.T) {
	repo := &memoryRepo{}
	stock := &memoryStock{levels: map[string]int{}}
	svc := newTestService(repo, fixtureCatalog(), stock, &countingInvalidator{})

	sale, err := svc.CreateSale(context.Background(), SaleInput{
		PaymentMethod: PaymentDebit,
		Items: []SaleItemInput{
			{ItemType: ItemService, ServiceID: 7, Qty: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 300.0, sale.Total)
	require.Empty(t, stock.outbound)
}
