package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-pos/internal/reports"
	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// ReportWarmupJob pre-populates the sales report cache so the first
// dashboard request of the day does not pay the aggregation cost.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reportsSvc *reports.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reportsSvc,
		Logger:  logger,
		clock:   time.Now,
	}
}

// Handle processes report warmup tasks. It builds yesterday's report and
// the trailing-N-days report, which populates the cache as a side effect.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Days <= 0 {
		payload.Days = 7
	}

	logger := j.logger()
	started := j.now()
	yesterday := started.AddDate(0, 0, -1)

	ranges := []sales.DateRange{
		{Start: yesterday, End: yesterday},
		{Start: started.AddDate(0, 0, -payload.Days), End: yesterday},
	}
	for _, r := range ranges {
		warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Reports.SalesReport(warmCtx, r)
		cancel()
		if err != nil {
			logger.Error("warm sales report",
				slog.String("start", r.Start.Format("2006-01-02")),
				slog.String("end", r.End.Format("2006-01-02")),
				slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed report warmup",
		slog.Int("days", payload.Days),
		slog.Duration("duration", time.Since(started)))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
