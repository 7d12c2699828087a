package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/inventory"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// Repository abstracts sale persistence.
type Repository interface {
	CreateSale(ctx context.Context, sale Sale) (Sale, error)
	GetSale(ctx context.Context, id int64) (Sale, error)
	ListSales(ctx context.Context, filters ListFilters) ([]Sale, int, error)
}

// CatalogPort resolves the items being sold.
type CatalogPort interface {
	GetProduct(ctx context.Context, barcode string) (catalog.Product, error)
	GetService(ctx context.Context, id int64) (catalog.OfferedService, error)
}

// InventoryPort posts the stock effects of a sale.
type InventoryPort interface {
	PostOutbound(ctx context.Context, input inventory.MovementInput) (inventory.Movement, error)
	PostInbound(ctx context.Context, input inventory.MovementInput) (inventory.Movement, error)
}

// Invalidator drops derived dashboard caches after writes.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// SaleItemInput is the requested line before price freezing.
type SaleItemInput struct {
	ItemType  ItemType
	ProductID string
	ServiceID int64
	Qty       int
	UnitPrice float64 // optional override; 0 takes the catalog price
	UniqueID  string
}

// SaleInput describes a requested ticket.
type SaleInput struct {
	CustomerID     *int64
	Items          []SaleItemInput
	PaymentMethod  PaymentMethod
	IdempotencyKey string
}

// Service coordinates ticket creation with catalog lookups, the stock ledger
// and the cash dashboard cache.
type Service struct {
	repo        Repository
	catalog     CatalogPort
	stock       InventoryPort
	idempotency *shared.IdempotencyStore
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewService builds the Service. idempotency and invalidator may be nil.
func NewService(repo Repository, cat CatalogPort, stock InventoryPort, idem *shared.IdempotencyStore, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		catalog:     cat,
		stock:       stock,
		idempotency: idem,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateSale freezes prices, checks unique-identifier rules, posts stock
// movements and persists the ticket.
func (s *Service) CreateSale(ctx context.Context, input SaleInput) (Sale, error) {
	if len(input.Items) == 0 {
		return Sale{}, ErrEmptySale
	}
	if !input.PaymentMethod.Valid() {
		return Sale{}, fmt.Errorf("%w: unknown payment method %q", httpx.ErrValidation, input.PaymentMethod)
	}

	if s.idempotency != nil && input.IdempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, input.IdempotencyKey, "pos"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return Sale{}, fmt.Errorf("%w: sale already registered", httpx.ErrConflict)
			}
			return Sale{}, err
		}
	}

	sale := Sale{
		Code:          fmt.Sprintf("TK-%s", strings.ToUpper(uuid.NewString()[:8])),
		CustomerID:    input.CustomerID,
		PaymentMethod: input.PaymentMethod,
		SoldAt:        s.now(),
	}

	for _, line := range input.Items {
		item, err := s.freezeLine(ctx, line)
		if err != nil {
			s.releaseKey(ctx, input.IdempotencyKey)
			return Sale{}, err
		}
		sale.Items = append(sale.Items, item)
		sale.Total += float64(item.Qty) * item.UnitPrice
	}

	posted, err := s.postMovements(ctx, sale)
	if err != nil {
		s.releaseKey(ctx, input.IdempotencyKey)
		return Sale{}, err
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		s.compensateMovements(ctx, posted, sale.Code)
		s.releaseKey(ctx, input.IdempotencyKey)
		return Sale{}, err
	}

	if s.invalidator != nil {
		if bumpErr := s.invalidator.Bump(ctx); bumpErr != nil && s.logger != nil {
			s.logger.Warn("pos cache bump", slog.Any("error", bumpErr))
		}
	}
	return created, nil
}

// GetSale fetches one ticket with its lines.
func (s *Service) GetSale(ctx context.Context, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, fmt.Errorf("%w: invalid sale id", httpx.ErrValidation)
	}
	return s.repo.GetSale(ctx, id)
}

// ListSales returns tickets inside the filter window.
func (s *Service) ListSales(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.ListSales(ctx, filters)
}

func (s *Service) freezeLine(ctx context.Context, line SaleItemInput) (SaleItem, error) {
	if line.Qty <= 0 {
		return SaleItem{}, ErrInvalidQty
	}
	switch line.ItemType {
	case ItemProduct:
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return SaleItem{}, err
		}
		if product.RequiresUniqueID && strings.TrimSpace(line.UniqueID) == "" {
			return SaleItem{}, ErrUniqueIDRequired
		}
		price := line.UnitPrice
		if price <= 0 {
			price = product.Price
		}
		return SaleItem{
			ItemType:  ItemProduct,
			ProductID: product.Barcode,
			Name:      product.Name,
			Qty:       line.Qty,
			UnitPrice: price,
			UnitCost:  product.Cost,
			UniqueID:  strings.TrimSpace(line.UniqueID),
		}, nil
	case ItemService:
		offered, err := s.catalog.GetService(ctx, line.ServiceID)
		if err != nil {
			return SaleItem{}, err
		}
		price := line.UnitPrice
		if price <= 0 {
			price = offered.Price
		}
		return SaleItem{
			ItemType:  ItemService,
			ServiceID: offered.ID,
			Name:      offered.Name,
			Qty:       line.Qty,
			UnitPrice: price,
			UnitCost:  offered.Cost,
		}, nil
	default:
		return SaleItem{}, fmt.Errorf("%w: unknown item type %q", httpx.ErrValidation, line.ItemType)
	}
}

func (s *Service) postMovements(ctx context.Context, sale Sale) ([]SaleItem, error) {
	var posted []SaleItem
	for _, item := range sale.Items {
		if item.ItemType != ItemProduct {
			continue
		}
		_, err := s.stock.PostOutbound(ctx, inventory.MovementInput{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitCost:  item.UnitCost,
			RefModule: "pos",
			RefID:     sale.Code,
		})
		if err != nil {
			s.compensateMovements(ctx, posted, sale.Code)
			return nil, err
		}
		posted = append(posted, item)
	}
	return posted, nil
}

// compensateMovements returns stock taken by a sale that failed mid-flight.
func (s *Service) compensateMovements(ctx context.Context, posted []SaleItem, code string) {
	for _, item := range posted {
		_, err := s.stock.PostInbound(ctx, inventory.MovementInput{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitCost:  item.UnitCost,
			Note:      "rollback " + code,
			RefModule: "pos",
			RefID:     code,
		})
		if err != nil && s.logger != nil {
			s.logger.Error("pos rollback movement", slog.String("product", item.ProductID), slog.Any("error", err))
		}
	}
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if s.idempotency == nil || key == "" {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil && s.logger != nil {
		s.logger.Warn("pos release idempotency key", slog.Any("error", err))
	}
}
