package purchasing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/inventory"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Repository abstracts purchase order persistence.
type Repository interface {
	Create(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	Update(ctx context.Context, order Order) error
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
}

// InventoryPort posts the stock effect of a received order.
type InventoryPort interface {
	PostInbound(ctx context.Context, input inventory.MovementInput) (inventory.Movement, error)
}

// CashbookPort records the supplier payable of a received order.
type CashbookPort interface {
	Create(ctx context.Context, e cashbook.Entry) (cashbook.Entry, error)
}

// Invalidator drops derived dashboard caches after writes.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// LineInput is a requested purchase line.
type LineInput struct {
	ProductID string
	Name      string
	Qty       int
	UnitCost  float64
}

// OrderInput describes a new or updated purchase order.
type OrderInput struct {
	Supplier string
	Lines    []LineInput
	DueDate  *time.Time
}

// Service coordinates the purchase lifecycle with stock and cash effects.
type Service struct {
	repo        Repository
	stock       InventoryPort
	cash        CashbookPort
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewService builds the Service. invalidator may be nil.
func NewService(repo Repository, stock InventoryPort, cash CashbookPort, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, stock: stock, cash: cash, invalidator: invalidator, logger: logger, now: time.Now}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registers a draft order. No stock or cash effect happens until
// Receive.
func (s *Service) Create(ctx context.Context, input OrderInput) (Order, error) {
	order, err := buildOrder(input)
	if err != nil {
		return Order{}, err
	}
	order.Code = fmt.Sprintf("PO-%s", strings.ToUpper(uuid.NewString()[:8]))
	order.Status = StatusDraft

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return Order{}, err
	}
	return created, nil
}

// Get fetches one order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, fmt.Errorf("%w: invalid order id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Update replaces a draft order's supplier and lines.
func (s *Service) Update(ctx context.Context, id int64, input OrderInput) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != StatusDraft {
		return ErrNotDraft
	}
	next, err := buildOrder(input)
	if err != nil {
		return err
	}
	next.ID = current.ID
	next.Code = current.Code
	next.Status = current.Status
	return s.repo.Update(ctx, next)
}

// Receive marks the order received, posts an inbound stock movement per line
// and records the supplier expense as a pending payable.
func (s *Service) Receive(ctx context.Context, id int64) (Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if order.Status != StatusDraft {
		return Order{}, ErrNotDraft
	}

	receivedAt := s.now()
	for _, line := range order.Lines {
		if _, err := s.stock.PostInbound(ctx, inventory.MovementInput{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitCost:  line.UnitCost,
			RefModule: "purchasing",
			RefID:     order.Code,
		}); err != nil {
			return Order{}, fmt.Errorf("post inbound for %s: %w", line.ProductID, err)
		}
	}

	order.Status = StatusReceived
	order.ReceivedAt = &receivedAt
	if err := s.repo.Update(ctx, order); err != nil {
		return Order{}, err
	}

	if _, err := s.cash.Create(ctx, cashbook.Entry{
		Type:        cashbook.TypeExpense,
		Category:    cashbook.CategorySupplier,
		Status:      cashbook.StatusPending,
		Amount:      order.Total,
		Description: fmt.Sprintf("purchase %s from %s", order.Code, order.Supplier),
		OccurredAt:  receivedAt,
		DueDate:     order.DueDate,
	}); err != nil {
		return Order{}, fmt.Errorf("record supplier payable: %w", err)
	}

	s.bump(ctx)
	return order, nil
}

// Cancel abandons a draft order.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != StatusDraft {
		return ErrNotDraft
	}
	order.Status = StatusCancelled
	return s.repo.Update(ctx, order)
}

// List returns orders matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("purchasing cache bump", slog.Any("error", err))
	}
}

func buildOrder(input OrderInput) (Order, error) {
	supplier := strings.TrimSpace(input.Supplier)
	if supplier == "" {
		return Order{}, fmt.Errorf("%w: supplier is required", httpx.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return Order{}, ErrEmptyOrder
	}
	order := Order{Supplier: supplier, DueDate: input.DueDate}
	for _, line := range input.Lines {
		if line.Qty <= 0 || line.UnitCost < 0 {
			return Order{}, ErrInvalidLine
		}
		if strings.TrimSpace(line.ProductID) == "" {
			return Order{}, fmt.Errorf("%w: line product id is required", httpx.ErrValidation)
		}
		order.Lines = append(order.Lines, Line{
			ProductID: strings.TrimSpace(line.ProductID),
			Name:      strings.TrimSpace(line.Name),
			Qty:       line.Qty,
			UnitCost:  line.UnitCost,
		})
		order.Total += float64(line.Qty) * line.UnitCost
	}
	return order, nil
}
