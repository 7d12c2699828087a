package serviceorders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Repository abstracts order persistence.
type Repository interface {
	Create(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	Update(ctx context.Context, order Order) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
}

// CashbookPort records the financial effect of a completed order.
type CashbookPort interface {
	Create(ctx context.Context, e cashbook.Entry) (cashbook.Entry, error)
}

// Invalidator drops derived dashboard caches after writes.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service coordinates order lifecycle and its cashbook side effects.
type Service struct {
	repo        Repository
	cash        CashbookPort
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewService builds the Service. invalidator may be nil.
func NewService(repo Repository, cash CashbookPort, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cash: cash, invalidator: invalidator, logger: logger, now: time.Now}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// OrderInput describes a new or updated order.
type OrderInput struct {
	CustomerID  *int64
	Description string
	TotalPrice  float64
	TotalCost   float64
}

// Create opens a pending order.
func (s *Service) Create(ctx context.Context, input OrderInput) (Order, error) {
	if err := validate(input); err != nil {
		return Order{}, err
	}
	order := Order{
		Code:        fmt.Sprintf("OS-%s", strings.ToUpper(uuid.NewString()[:8])),
		CustomerID:  input.CustomerID,
		Description: strings.TrimSpace(input.Description),
		TotalPrice:  input.TotalPrice,
		TotalCost:   input.TotalCost,
		Status:      StatusPending,
		OpenedAt:    s.now(),
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return Order{}, err
	}
	s.bump(ctx)
	return created, nil
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, fmt.Errorf("%w: invalid order id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Update replaces the editable fields of a pending order.
func (s *Service) Update(ctx context.Context, id int64, input OrderInput) error {
	if err := validate(input); err != nil {
		return err
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	order.CustomerID = input.CustomerID
	order.Description = strings.TrimSpace(input.Description)
	order.TotalPrice = input.TotalPrice
	order.TotalCost = input.TotalCost
	if err := s.repo.Update(ctx, order); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// Complete closes the order and records its revenue as a paid income entry.
// The service cost goes in as a separate paid expense so margin aggregation
// sees both sides.
func (s *Service) Complete(ctx context.Context, id int64) (Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if order.Status == StatusCompleted {
		return Order{}, ErrAlreadyCompleted
	}

	completedAt := s.now()
	order.Status = StatusCompleted
	order.CompletedAt = &completedAt
	if err := s.repo.Update(ctx, order); err != nil {
		return Order{}, err
	}

	if _, err := s.cash.Create(ctx, cashbook.Entry{
		Type:        cashbook.TypeIncome,
		Category:    cashbook.CategorySale,
		Status:      cashbook.StatusPaid,
		Amount:      order.TotalPrice,
		Description: fmt.Sprintf("service order %s", order.Code),
		OccurredAt:  completedAt,
	}); err != nil {
		return Order{}, fmt.Errorf("record order income: %w", err)
	}
	if order.TotalCost > 0 {
		if _, err := s.cash.Create(ctx, cashbook.Entry{
			Type:        cashbook.TypeExpense,
			Category:    cashbook.CategoryServiceCost,
			Status:      cashbook.StatusPaid,
			Amount:      order.TotalCost,
			Description: fmt.Sprintf("service order %s cost", order.Code),
			OccurredAt:  completedAt,
		}); err != nil {
			return Order{}, fmt.Errorf("record order cost: %w", err)
		}
	}

	s.bump(ctx)
	return order, nil
}

// Delete removes a pending order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
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
		s.logger.Warn("serviceorders cache bump", slog.Any("error", err))
	}
}

func validate(input OrderInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	if input.TotalPrice < 0 || input.TotalCost < 0 {
		return ErrNegativeValue
	}
	return nil
}
