package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/balcao-erp/balcao-erp/internal/brdoc"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Repository abstracts customer persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
}

// Service normalizes and validates customer records before persistence.
type Service struct {
	repo Repository
}

// NewService constructs the Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a filtered customer page.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 25
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, fmt.Errorf("%w: invalid customer id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create normalizes the record and stores it. The person name is title-cased,
// documents are checked and stored masked.
func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	normalized, err := normalize(c)
	if err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, normalized)
}

// Update replaces a customer record after the same normalization as Create.
func (s *Service) Update(ctx context.Context, id int64, c Customer) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid customer id", httpx.ErrValidation)
	}
	normalized, err := normalize(c)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, normalized)
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid customer id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func normalize(c Customer) (Customer, error) {
	c.Name = brdoc.FormatPersonName(c.Name)
	if !brdoc.ValidPersonName(c.Name) {
		return Customer{}, fmt.Errorf("%w: invalid name", httpx.ErrValidation)
	}
	if !brdoc.ValidTaxID(c.TaxID) {
		return Customer{}, fmt.Errorf("%w: invalid tax id", httpx.ErrValidation)
	}
	if !brdoc.ValidPhone(c.Phone) {
		return Customer{}, fmt.Errorf("%w: invalid phone", httpx.ErrValidation)
	}
	if strings.TrimSpace(c.Email) != "" && !brdoc.ValidEmail(c.Email) {
		return Customer{}, fmt.Errorf("%w: invalid email", httpx.ErrValidation)
	}
	c.TaxID = brdoc.FormatTaxID(c.TaxID)
	c.Phone = brdoc.FormatPhone(c.Phone)
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	return c, nil
}
