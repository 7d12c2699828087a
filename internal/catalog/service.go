package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
)

// Service applies catalog business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs the Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListProducts returns a filtered, paginated product page.
func (s *Service) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 25
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.ListProducts(ctx, filters)
}

// GetProduct fetches a product by barcode.
func (s *Service) GetProduct(ctx context.Context, barcode string) (Product, error) {
	if strings.TrimSpace(barcode) == "" {
		return Product{}, fmt.Errorf("%w: barcode required", httpx.ErrValidation)
	}
	return s.repo.GetProduct(ctx, barcode)
}

// CreateProduct registers a new product.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.CreateProduct(ctx, p)
}

// UpdateProduct replaces the editable fields of a product. Stock is owned by
// the inventory ledger and never written here.
func (s *Service) UpdateProduct(ctx context.Context, barcode string, p Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, barcode, p)
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, barcode string) error {
	if strings.TrimSpace(barcode) == "" {
		return fmt.Errorf("%w: barcode required", httpx.ErrValidation)
	}
	return s.repo.DeleteProduct(ctx, barcode)
}

// ListServices returns every offered service.
func (s *Service) ListServices(ctx context.Context) ([]OfferedService, error) {
	return s.repo.ListServices(ctx)
}

// GetService fetches one offered service.
func (s *Service) GetService(ctx context.Context, id int64) (OfferedService, error) {
	if id <= 0 {
		return OfferedService{}, fmt.Errorf("%w: invalid service id", httpx.ErrValidation)
	}
	return s.repo.GetService(ctx, id)
}

// CreateService registers a labor line.
func (s *Service) CreateService(ctx context.Context, svc OfferedService) (OfferedService, error) {
	if err := validateService(svc); err != nil {
		return OfferedService{}, err
	}
	return s.repo.CreateService(ctx, svc)
}

// UpdateService replaces an offered service.
func (s *Service) UpdateService(ctx context.Context, id int64, svc OfferedService) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid service id", httpx.ErrValidation)
	}
	if err := validateService(svc); err != nil {
		return err
	}
	return s.repo.UpdateService(ctx, id, svc)
}

// DeleteService removes an offered service.
func (s *Service) DeleteService(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid service id", httpx.ErrValidation)
	}
	return s.repo.DeleteService(ctx, id)
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.Barcode) == "" {
		return fmt.Errorf("%w: barcode required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", httpx.ErrValidation)
	}
	if p.Price < 0 || p.Cost < 0 {
		return fmt.Errorf("%w: price and cost must be >= 0", httpx.ErrValidation)
	}
	return nil
}

func validateService(svc OfferedService) error {
	if strings.TrimSpace(svc.Name) == "" {
		return fmt.Errorf("%w: name required", httpx.ErrValidation)
	}
	if svc.Price < 0 || svc.Cost < 0 {
		return fmt.Errorf("%w: price and cost must be >= 0", httpx.ErrValidation)
	}
	return nil
}
