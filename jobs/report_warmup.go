package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/almacen-erp/almacen-erp/internal/observability"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// ReportWarmupJob pre-populates the report caches so the first dashboard
// hit of the day is served warm.
type ReportWarmupJob struct {
	warmers []warmTarget
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   func() time.Time
}

type warmTarget struct {
	name string
	warm func(ctx context.Context, q shared.RangeQuery) error
}

// WarmFunc adapts a report loader into a warmup target.
type WarmFunc func(ctx context.Context, q shared.RangeQuery) error

// NewReportWarmupJob wires the loaders to warm. Each loader is invoked for
// its cache side effect; results are discarded.
func NewReportWarmupJob(logger *slog.Logger, metrics *observability.Metrics, loaders map[string]WarmFunc) *ReportWarmupJob {
	job := &ReportWarmupJob{
		logger:  logger,
		metrics: metrics,
		clock:   func() time.Time { return time.Now().UTC() },
	}
	for name, fn := range loaders {
		job.warmers = append(job.warmers, warmTarget{name: name, warm: fn})
	}
	return job
}

// WithClock overrides the clock. Test hook.
func (j *ReportWarmupJob) WithClock(clock func() time.Time) *ReportWarmupJob {
	j.clock = clock
	return j
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	query := shared.RangeQuery{Month: payload.Month}
	if query.Month == "" {
		query.Month = j.clock().Format("2006-01")
	}

	j.logger.Info("starting report warmup", slog.String("month", query.Month))
	for _, target := range j.warmers {
		if err := target.warm(ctx, query); err != nil {
			j.metrics.RecordJob(TaskReportWarmup, "error")
			j.logger.Error("warm report", slog.String("report", target.name), slog.Any("error", err))
			return err
		}
	}
	j.metrics.RecordJob(TaskReportWarmup, "ok")
	return nil
}
