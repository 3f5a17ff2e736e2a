package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/almacen-erp/almacen-erp/internal/mail"
	"github.com/almacen-erp/almacen-erp/internal/observability"
	"github.com/almacen-erp/almacen-erp/internal/stock"
)

const lastAlertKey = "stock:last_alert_date"

// CriticalLister is the slice of the stock service the alert job needs.
type CriticalLister interface {
	Critical(ctx context.Context) ([]stock.ProductHealth, error)
}

// StockAlertJob mails the critical-stock list at most once per day. The
// last-sent date lives in Redis so restarts do not re-send.
type StockAlertJob struct {
	stocks     CriticalLister
	mailer     mail.Mailer
	redis      *redis.Client
	recipients []string
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      func() time.Time
}

// NewStockAlertJob wires the alert dependencies.
func NewStockAlertJob(stocks CriticalLister, mailer mail.Mailer, redisClient *redis.Client, recipients []string, logger *slog.Logger, metrics *observability.Metrics) *StockAlertJob {
	return &StockAlertJob{
		stocks:     stocks,
		mailer:     mailer,
		redis:      redisClient,
		recipients: recipients,
		logger:     logger,
		metrics:    metrics,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock. Test hook.
func (j *StockAlertJob) WithClock(clock func() time.Time) *StockAlertJob {
	j.clock = clock
	return j
}

// Handle evaluates the critical list and sends the daily mail when due.
func (j *StockAlertJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("stock alert: handler not configured")
	}
	if len(j.recipients) == 0 {
		j.logger.Info("stock alert skipped, no recipients configured")
		return nil
	}

	today := j.clock()
	lastAlert, err := j.loadLastAlert(ctx)
	if err != nil {
		j.metrics.RecordJob(TaskStockAlert, "error")
		return err
	}
	if !stock.ShouldAlert(lastAlert, today) {
		j.logger.Info("stock alert already sent today")
		j.metrics.RecordJob(TaskStockAlert, "skipped")
		return nil
	}

	critical, err := j.stocks.Critical(ctx)
	if err != nil {
		j.metrics.RecordJob(TaskStockAlert, "error")
		return err
	}
	if len(critical) == 0 {
		j.logger.Info("no products in critical stock")
		j.metrics.RecordJob(TaskStockAlert, "ok")
		return nil
	}

	msg := mail.BuildLowStockAlert(critical, today)
	msg.To = j.recipients
	if err := j.mailer.Send(ctx, msg); err != nil {
		j.metrics.RecordJob(TaskStockAlert, "error")
		return err
	}
	if err := j.storeLastAlert(ctx, today); err != nil {
		j.logger.Warn("persist last alert date", slog.Any("error", err))
	}
	j.logger.Info("stock alert sent", slog.Int("products", len(critical)))
	j.metrics.RecordJob(TaskStockAlert, "ok")
	return nil
}

func (j *StockAlertJob) loadLastAlert(ctx context.Context) (time.Time, error) {
	if j.redis == nil {
		return time.Time{}, nil
	}
	raw, err := j.redis.Get(ctx, lastAlertKey).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	last, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, nil
	}
	return last, nil
}

func (j *StockAlertJob) storeLastAlert(ctx context.Context, day time.Time) error {
	if j.redis == nil {
		return nil
	}
	return j.redis.Set(ctx, lastAlertKey, day.Format("2006-01-02"), 0).Err()
}
