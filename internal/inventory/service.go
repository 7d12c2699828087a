package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// TxRepository exposes the ledger operations that must share a transaction.
type TxRepository interface {
	GetStockForUpdate(ctx context.Context, productID string) (int, error)
	SetStock(ctx context.Context, productID string, qty int) error
	InsertMovement(ctx context.Context, mv Movement) (int64, error)
}

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
	StockRows(ctx context.Context, from, to time.Time) ([]StockRow, error)
}

// MovementInput describes a requested stock change. Qty is a positive
// magnitude for inbound/outbound postings and signed for adjustments.
type MovementInput struct {
	Code      string
	ProductID string
	Qty       int
	UnitCost  float64
	Note      string
	RefModule string
	RefID     string
}

// Service coordinates stock ledger operations.
type Service struct {
	repo     RepositoryPort
	policy   Policy
	allowNeg bool
	now      func() time.Time
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	Policy             Policy
	AllowNegativeStock bool
}

// NewService builds a Service. A zero Policy falls back to DefaultPolicy.
func NewService(repo RepositoryPort, cfg ServiceConfig) *Service {
	policy := cfg.Policy
	if policy.AtRiskDays == 0 && policy.HealthyDays == 0 {
		policy = DefaultPolicy
	}
	return &Service{repo: repo, policy: policy, allowNeg: cfg.AllowNegativeStock, now: time.Now}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PostInbound records received goods.
func (s *Service) PostInbound(ctx context.Context, input MovementInput) (Movement, error) {
	if input.Qty <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	if input.UnitCost < 0 {
		return Movement{}, ErrInvalidUnitCost
	}
	return s.post(ctx, MovementIn, input)
}

// PostOutbound records goods leaving stock, normally a sale.
func (s *Service) PostOutbound(ctx context.Context, input MovementInput) (Movement, error) {
	if input.Qty <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	input.Qty = -input.Qty
	return s.post(ctx, MovementOut, input)
}

// PostAdjustment records a manual correction in either direction.
func (s *Service) PostAdjustment(ctx context.Context, input MovementInput) (Movement, error) {
	if input.Qty == 0 {
		return Movement{}, ErrInvalidQuantity
	}
	if input.Qty > 0 && input.UnitCost < 0 {
		return Movement{}, ErrInvalidUnitCost
	}
	return s.post(ctx, MovementAdjust, input)
}

func (s *Service) post(ctx context.Context, txType MovementType, input MovementInput) (Movement, error) {
	if input.ProductID == "" {
		return Movement{}, errors.New("inventory: product required")
	}
	code := input.Code
	if code == "" {
		code = fmt.Sprintf("MV-%s", uuid.NewString()[:8])
	}
	mv := Movement{
		Code:      code,
		Type:      txType,
		ProductID: input.ProductID,
		Qty:       input.Qty,
		UnitCost:  input.UnitCost,
		Note:      input.Note,
		RefModule: input.RefModule,
		RefID:     input.RefID,
		PostedAt:  s.now(),
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetStockForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		next := current + input.Qty
		if next < 0 && !s.allowNeg {
			return ErrNegativeStock
		}
		if err := tx.SetStock(ctx, input.ProductID, next); err != nil {
			return err
		}
		id, err := tx.InsertMovement(ctx, mv)
		if err != nil {
			return err
		}
		mv.ID = id
		return nil
	})
	if err != nil {
		return Movement{}, err
	}
	return mv, nil
}

// Movements lists ledger entries for auditing screens.
func (s *Service) Movements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.ListMovements(ctx, filter)
}

// StockStatus returns every product with its classified stock health for the
// competency month containing ref.
func (s *Service) StockStatus(ctx context.Context, ref time.Time) ([]StockLevel, error) {
	comp := shared.CompetencyOf(ref)
	rows, err := s.repo.StockRows(ctx, comp.Start(ref.Location()), comp.End(ref.Location()))
	if err != nil {
		return nil, err
	}
	elapsed := comp.ElapsedDays(ref)
	levels := make([]StockLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, StockLevel{
			StockRow: row,
			Status:   s.policy.Classify(row.Stock, row.UnitsSold, elapsed),
		})
	}
	return levels, nil
}
