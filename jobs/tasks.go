// Package jobs holds background task definitions and the asynq worker
// bootstrap.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup rebuilds the report cache for a closed month.
	TaskReportWarmup = "reports:warmup"
)

// ReportWarmupPayload names the month to warm. A zero Year/Month means the
// month before the task runs.
type ReportWarmupPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
