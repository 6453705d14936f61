// Package jobs contains background task definitions and the Asynq worker
// runtime.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup is the task type for pre-building report caches.
	TaskReportWarmup = "reports:warmup"
)

// ReportWarmupPayload controls how far back the warmup aggregates.
type ReportWarmupPayload struct {
	Days int `json:"days"`
}

// NewReportWarmupTask constructs a report warmup task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
