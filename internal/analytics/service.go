package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/platform/httpx"
	"github.com/balcao-erp/balcao-erp/internal/pos"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// Repository loads the month collections the dashboard aggregates.
type Repository interface {
	EntriesThrough(ctx context.Context, end time.Time) ([]cashbook.Entry, error)
	SalesBetween(ctx context.Context, from, to time.Time) ([]pos.Sale, error)
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Dashboard is the full month view served to the client.
type Dashboard struct {
	Summary    MonthSummary   `json:"summary"`
	TopSellers []SellerRank   `json:"top_sellers"`
	SlowMovers []TurnoverRank `json:"slow_movers"`
	DailyPeaks []DailyPeak    `json:"daily_peaks"`
	Goals      Goals          `json:"goals"`
}

// Service coordinates dashboard computation with the cache layer. Concurrent
// requests for the same month collapse into a single load.
type Service struct {
	repo  Repository
	goals GoalsRepository
	cache *Cache
	group singleflight.Group
	loc   *time.Location
	now   func() time.Time
}

// NewService wires the repositories with a Cache helper. cache may be nil.
func NewService(repo Repository, goals GoalsRepository, cache *Cache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, goals: goals, cache: cache, loc: loc, now: time.Now}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Cache exposes the underlying cache so writers in other modules can bump it.
func (s *Service) Cache() *Cache {
	return s.cache
}

// GetDashboard resolves the month dashboard using cache-aware lookups.
func (s *Service) GetDashboard(ctx context.Context, comp shared.Competency) (Dashboard, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.computeDashboard(ctx, comp)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		return value.(Dashboard), nil
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(comp.String()))
	if err != nil {
		return Dashboard{}, err
	}
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var dash Dashboard
		if err := s.cache.FetchJSON(ctx, key, &dash, loader); err != nil {
			return Dashboard{}, err
		}
		return dash, nil
	})
	if err != nil {
		return Dashboard{}, err
	}
	return result.(Dashboard), nil
}

func (s *Service) computeDashboard(ctx context.Context, comp shared.Competency) (Dashboard, error) {
	from := comp.Start(s.loc)
	to := comp.End(s.loc)

	entries, err := s.repo.EntriesThrough(ctx, to)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load entries: %w", err)
	}
	sales, err := s.repo.SalesBetween(ctx, from, to)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load sales: %w", err)
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load products: %w", err)
	}
	goals, _, err := s.goals.GetGoals(ctx, comp)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load goals: %w", err)
	}

	summary := ComputeMonthSummary(MonthInputs{
		Competency: comp,
		Ref:        s.now().In(s.loc),
		Location:   s.loc,
		Entries:    entries,
		Sales:      sales,
		Products:   products,
		Goals:      goals,
	})

	return Dashboard{
		Summary:    summary,
		TopSellers: TopSellers(sales, products),
		SlowMovers: SlowMovers(sales, products),
		DailyPeaks: DailyPeaks(sales, s.loc),
		Goals:      goals,
	}, nil
}

// GetGoals returns the month's stored goals, zeroed when absent.
func (s *Service) GetGoals(ctx context.Context, comp shared.Competency) (Goals, error) {
	goals, _, err := s.goals.GetGoals(ctx, comp)
	return goals, err
}

// SaveGoals upserts the month's goals and invalidates the dashboard cache.
func (s *Service) SaveGoals(ctx context.Context, goals Goals) error {
	if goals.PredictedAvgMarginPct < 0 || goals.PredictedAvgMarginPct > 100 {
		return fmt.Errorf("%w: predicted margin must be between 0 and 100", httpx.ErrValidation)
	}
	if goals.TurnoverGoal < 0 {
		return fmt.Errorf("%w: turnover goal must be >= 0", httpx.ErrValidation)
	}
	goals.Month = goals.Competency.String()
	if err := s.goals.UpsertGoals(ctx, goals); err != nil {
		return err
	}
	if s.cache != nil {
		return s.cache.Bump(ctx)
	}
	return nil
}
