package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/balcao-erp/balcao-erp/internal/cashbook"
)

// OverduePort lists pending cash entries past their due date.
type OverduePort interface {
	Overdue(ctx context.Context, asOf time.Time) ([]cashbook.Entry, error)
}

// OverdueScanJob reports supplier payables and other pending entries that
// slipped past their due date.
type OverdueScanJob struct {
	Cashbook OverduePort
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(cash OverduePort, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Cashbook: cash,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now()
		},
	}
}

// Handle executes the scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Cashbook == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.now().AddDate(0, 0, -payload.GraceDays)
	logger := j.logger()

	entries, err := j.Cashbook.Overdue(ctx, asOf)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	var total float64
	for _, e := range entries {
		total += e.Amount
		logger.Warn("overdue cash entry",
			slog.Int64("id", e.ID),
			slog.String("category", string(e.Category)),
			slog.Float64("amount", e.Amount),
			slog.Time("due_date", derefTime(e.DueDate)),
		)
	}
	logger.Info("completed overdue scan",
		slog.Int("entries", len(entries)),
		slog.Float64("total", total),
	)
	return nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskOverdueScan))
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
