// Package jobs holds the background task handlers and the Asynq worker
// wrapper that runs them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup pre-computes dashboard months into the cache.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskOverdueScan reports pending cash entries past their due date.
	TaskOverdueScan = "cashbook:overdue_scan"
)

// DashboardWarmupPayload selects which months to warm. Empty months default
// to the current and previous competency.
type DashboardWarmupPayload struct {
	Months []string `json:"months,omitempty"`
}

// NewDashboardWarmupTask constructs the warmup task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// OverdueScanPayload tunes the overdue report.
type OverdueScanPayload struct {
	GraceDays int `json:"grace_days,omitempty"`
}

// NewOverdueScanTask constructs the overdue scan task.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}
