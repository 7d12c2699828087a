package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// GoalsRepository persists the per-month goal records.
type GoalsRepository interface {
	GetGoals(ctx context.Context, comp shared.Competency) (Goals, bool, error)
	UpsertGoals(ctx context.Context, goals Goals) error
}

type goalsRepository struct {
	pool *pgxpool.Pool
}

// NewGoalsRepository constructs the PostgreSQL-backed GoalsRepository.
func NewGoalsRepository(pool *pgxpool.Pool) GoalsRepository {
	return &goalsRepository{pool: pool}
}

// GetGoals returns the month's goals and whether a record exists. A missing
// month is not an error; the dashboard just computes with zero goals.
func (r *goalsRepository) GetGoals(ctx context.Context, comp shared.Competency) (Goals, bool, error) {
	goals := Goals{Competency: comp, Month: comp.String()}
	err := r.pool.QueryRow(ctx,
		`SELECT predicted_avg_margin_pct, net_profit_target, turnover_goal FROM kpi_goals WHERE month = $1`,
		comp.String()).Scan(&goals.PredictedAvgMarginPct, &goals.NetProfitTarget, &goals.TurnoverGoal)
	if errors.Is(err, pgx.ErrNoRows) {
		return goals, false, nil
	}
	if err != nil {
		return Goals{}, false, err
	}
	return goals, true, nil
}

func (r *goalsRepository) UpsertGoals(ctx context.Context, goals Goals) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO kpi_goals (month, predicted_avg_margin_pct, net_profit_target, turnover_goal, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (month) DO UPDATE SET
		   predicted_avg_margin_pct = EXCLUDED.predicted_avg_margin_pct,
		   net_profit_target = EXCLUDED.net_profit_target,
		   turnover_goal = EXCLUDED.turnover_goal,
		   updated_at = EXCLUDED.updated_at`,
		goals.Competency.String(), goals.PredictedAvgMarginPct, goals.NetProfitTarget, goals.TurnoverGoal, time.Now())
	return err
}
