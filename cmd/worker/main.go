package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/app"
	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/fiscal"
	"github.com/almacen-erp/almacen-erp/internal/mail"
	"github.com/almacen-erp/almacen-erp/internal/observability"
	"github.com/almacen-erp/almacen-erp/internal/platform/cache"
	"github.com/almacen-erp/almacen-erp/internal/platform/db"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
	"github.com/almacen-erp/almacen-erp/internal/shared"
	"github.com/almacen-erp/almacen-erp/internal/stock"
	"github.com/almacen-erp/almacen-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		logger.Error("parse tax rate", slog.Any("error", err))
		os.Exit(1)
	}
	tax, err := pricing.NewDecomposer(taxRate)
	if err != nil {
		logger.Error("init tax decomposer", slog.Any("error", err))
		os.Exit(1)
	}
	thresholds, err := stock.NewThresholds(cfg.LowStockThreshold, cfg.CriticalStockThreshold)
	if err != nil {
		logger.Error("init stock thresholds", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	reportCache := cache.NewReportCache(redisClient, cfg.CacheTTL).WithObserver(metrics.RecordCache)

	catalogService := catalog.NewService(catalog.NewRepository(pool, cfg.BulkMarker))
	reportingService := reporting.NewService(reporting.NewRepository(pool, cfg.BulkMarker), reportCache, tax)
	fiscalService := fiscal.NewService(fiscal.NewRepository(pool), reportCache, tax)
	stockService := stock.NewService(stock.NewRepository(pool), catalogService, thresholds)

	warmupJob := jobs.NewReportWarmupJob(logger, metrics, map[string]jobs.WarmFunc{
		"summary": func(ctx context.Context, q shared.RangeQuery) error {
			_, err := reportingService.GetSummary(ctx, q)
			return err
		},
		"daily": func(ctx context.Context, q shared.RangeQuery) error {
			_, err := reportingService.GetDaily(ctx, q)
			return err
		},
		"fiscal": func(ctx context.Context, q shared.RangeQuery) error {
			_, err := fiscalService.GetReport(ctx, q)
			return err
		},
	})

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	alertJob := jobs.NewStockAlertJob(stockService, mailer, redisClient, cfg.AlertRecipientList(), logger, metrics)

	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskStockAlert, Handler: alertJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 8 * * *", Task: jobs.NewStockAlertTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
