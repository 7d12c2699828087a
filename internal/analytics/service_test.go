package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/pos"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

type mockRepo struct {
	entries      []cashbook.Entry
	sales        []pos.Sale
	products     []catalog.Product
	entriesCalls int
	salesCalls   int
}

func (m *mockRepo) EntriesThrough(_ context.Context, _ time.Time) ([]cashbook.Entry, error) {
	m.entriesCalls++
	return m.entries, nil
}

func (m *mockRepo) SalesBetween(_ context.Context, _, _ time.Time) ([]pos.Sale, error) {
	m.salesCalls++
	return m.sales, nil
}

func (m *mockRepo) Products(_ context.Context) ([]catalog.Product, error) {
	return m.products, nil
}

type mockGoals struct {
	byMonth map[string]Goals
	upserts int
}

func (m *mockGoals) GetGoals(_ context.Context, comp shared.Competency) (Goals, bool, error) {
	if g, ok := m.byMonth[comp.String()]; ok {
		return g, true, nil
	}
	return Goals{Competency: comp, Month: comp.String()}, false, nil
}

func (m *mockGoals) UpsertGoals(_ context.Context, goals Goals) error {
	if m.byMonth == nil {
		m.byMonth = map[string]Goals{}
	}
	m.byMonth[goals.Competency.String()] = goals
	m.upserts++
	return nil
}

func newCachedService(t *testing.T, repo Repository, goals GoalsRepository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	svc := NewService(repo, goals, cache, time.UTC)
	return svc.WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	})
}

func TestGetDashboardCachesUntilBump(t *testing.T) {
	repo := &mockRepo{
		sales: []pos.Sale{
			{Total: 400, SoldAt: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)},
		},
	}
	goals := &mockGoals{byMonth: map[string]Goals{
		"2026-03": {Competency: march, Month: "2026-03", PredictedAvgMarginPct: 40, NetProfitTarget: 500},
	}}
	svc := newCachedService(t, repo, goals)

	ctx := context.Background()
	dash, err := svc.GetDashboard(ctx, march)
	require.NoError(t, err)
	require.Equal(t, 400.0, dash.Summary.CurrentRevenue)
	require.Equal(t, 1, repo.salesCalls)

	_, err = svc.GetDashboard(ctx, march)
	require.NoError(t, err)
	require.Equal(t, 1, repo.salesCalls, "second read served from cache")

	require.NoError(t, svc.Cache().Bump(ctx))
	repo.sales[0].Total = 700
	dash, err = svc.GetDashboard(ctx, march)
	require.NoError(t, err)
	require.Equal(t, 2, repo.salesCalls)
	require.Equal(t, 700.0, dash.Summary.CurrentRevenue)
}

func TestGetDashboardWithoutCache(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockGoals{}, nil, time.UTC).WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	})

	dash, err := svc.GetDashboard(context.Background(), march)
	require.NoError(t, err)
	require.Equal(t, "2026-03", dash.Summary.Month)
	require.Empty(t, dash.TopSellers)
}

func TestSaveGoalsValidatesAndBumps(t *testing.T) {
	repo := &mockRepo{}
	goals := &mockGoals{}
	svc := newCachedService(t, repo, goals)

	ctx := context.Background()
	_, err := svc.GetDashboard(ctx, march)
	require.NoError(t, err)
	require.Equal(t, 1, repo.salesCalls)

	err = svc.SaveGoals(ctx, Goals{Competency: march, PredictedAvgMarginPct: 140})
	require.Error(t, err)
	require.Zero(t, goals.upserts)

	err = svc.SaveGoals(ctx, Goals{Competency: march, PredictedAvgMarginPct: 40, NetProfitTarget: 800})
	require.NoError(t, err)
	require.Equal(t, 1, goals.upserts)

	// Saved goals flow into the next dashboard computation.
	dash, err := svc.GetDashboard(ctx, march)
	require.NoError(t, err)
	require.Equal(t, 2, repo.salesCalls, "bump invalidated the cached dashboard")
	require.Equal(t, 800.0, dash.Goals.NetProfitTarget)
}
