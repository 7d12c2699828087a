package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/balcao-erp/balcao-erp/internal/analytics"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

// DashboardWarmupJob pre-computes the dashboard so the first request of the
// day hits a warm cache.
type DashboardWarmupJob struct {
	Service *analytics.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewDashboardWarmupJob initialises the warmup handler.
func NewDashboardWarmupJob(service *analytics.Service, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Service: service,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now()
		},
	}
}

// Handle executes the warmup.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	months, err := j.resolveMonths(payload)
	if err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	start := j.now()
	for _, comp := range months {
		if _, err := j.Service.GetDashboard(ctx, comp); err != nil {
			logger.Error("warmup month failed", slog.String("month", comp.String()), slog.Any("error", err))
			return err
		}
		logger.Info("warmed dashboard", slog.String("month", comp.String()))
	}
	logger.Info("completed dashboard warmup",
		slog.Int("months", len(months)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *DashboardWarmupJob) resolveMonths(payload DashboardWarmupPayload) ([]shared.Competency, error) {
	if len(payload.Months) == 0 {
		current := shared.CompetencyOf(j.now())
		return []shared.Competency{current, current.Previous()}, nil
	}
	months := make([]shared.Competency, 0, len(payload.Months))
	for _, raw := range payload.Months {
		comp, err := shared.ParseCompetency(raw)
		if err != nil {
			return nil, err
		}
		months = append(months, comp)
	}
	return months, nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
