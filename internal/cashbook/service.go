package cashbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Repository abstracts cashbook persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Entry, int, error)
	Get(ctx context.Context, id int64) (Entry, error)
	Create(ctx context.Context, e Entry) (Entry, error)
	Update(ctx context.Context, id int64, e Entry) error
	SetPaid(ctx context.Context, id int64, paidAt time.Time) error
	Delete(ctx context.Context, id int64) error
	ListOverdue(ctx context.Context, asOf time.Time) ([]Entry, error)
}

// Invalidator lets the cashbook drop derived dashboard caches after writes.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service applies cashbook rules.
type Service struct {
	repo        Repository
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs the Service. invalidator may be nil.
func NewService(repo Repository, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, invalidator: invalidator, logger: logger, now: time.Now}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns entries matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Entry, int, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

// Get fetches one entry.
func (s *Service) Get(ctx context.Context, id int64) (Entry, error) {
	if id <= 0 {
		return Entry{}, fmt.Errorf("%w: invalid entry id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create records an entry. Amount must be non-negative, type/category/status
// must come from the closed sets.
func (s *Service) Create(ctx context.Context, e Entry) (Entry, error) {
	if err := validate(e); err != nil {
		return Entry{}, err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now()
	}
	if e.Status == StatusPaid && e.PaidAt == nil {
		paidAt := s.now()
		e.PaidAt = &paidAt
	}
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return Entry{}, err
	}
	s.bump(ctx)
	return created, nil
}

// Update replaces an entry.
func (s *Service) Update(ctx context.Context, id int64, e Entry) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid entry id", httpx.ErrValidation)
	}
	if err := validate(e); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, e); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// MarkPaid settles a pending entry at the current instant.
func (s *Service) MarkPaid(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid entry id", httpx.ErrValidation)
	}
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.Realized() {
		return ErrAlreadyPaid
	}
	if err := s.repo.SetPaid(ctx, id, s.now()); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid entry id", httpx.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// Overdue lists pending entries whose due date has passed.
func (s *Service) Overdue(ctx context.Context, asOf time.Time) ([]Entry, error) {
	return s.repo.ListOverdue(ctx, asOf)
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("cashbook cache bump", slog.Any("error", err))
	}
}

func validate(e Entry) error {
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", httpx.ErrValidation, e.Type)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", httpx.ErrValidation, e.Category)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, e.Status)
	}
	return nil
}
