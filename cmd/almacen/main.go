package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/almacen-erp/almacen-erp/internal/app"
	"github.com/almacen-erp/almacen-erp/internal/catalog"
	"github.com/almacen-erp/almacen-erp/internal/fiscal"
	fiscalhttp "github.com/almacen-erp/almacen-erp/internal/fiscal/http"
	"github.com/almacen-erp/almacen-erp/internal/insights"
	insightshttp "github.com/almacen-erp/almacen-erp/internal/insights/http"
	"github.com/almacen-erp/almacen-erp/internal/observability"
	"github.com/almacen-erp/almacen-erp/internal/platform/cache"
	"github.com/almacen-erp/almacen-erp/internal/platform/db"
	"github.com/almacen-erp/almacen-erp/internal/pricing"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
	reportinghttp "github.com/almacen-erp/almacen-erp/internal/reporting/http"
	"github.com/almacen-erp/almacen-erp/internal/stock"
	stockhttp "github.com/almacen-erp/almacen-erp/internal/stock/http"
	"github.com/almacen-erp/almacen-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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
	metrics.Registerer().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reportCache := cache.NewReportCache(redisClient, cfg.CacheTTL).WithObserver(metrics.RecordCache)

	catalogRepo := catalog.NewRepository(dbpool, cfg.BulkMarker)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	reportingRepo := reporting.NewRepository(dbpool, cfg.BulkMarker)
	reportingService := reporting.NewService(reportingRepo, reportCache, tax)
	reportingHandler := reportinghttp.NewHandler(logger, reportingService)

	fiscalRepo := fiscal.NewRepository(dbpool)
	fiscalService := fiscal.NewService(fiscalRepo, reportCache, tax)
	fiscalHandler := fiscalhttp.NewHandler(logger, fiscalService)

	insightsService := insights.NewService(reportingService, catalogService, reportCache)
	insightsHandler := insightshttp.NewHandler(logger, insightsService)

	stockRepo := stock.NewRepository(dbpool)
	stockService := stock.NewService(stockRepo, catalogService, thresholds)
	stockHandler := stockhttp.NewHandler(logger, stockService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CatalogHandler:   catalogHandler,
		ReportingHandler: reportingHandler,
		FiscalHandler:    fiscalHandler,
		InsightsHandler:  insightsHandler,
		StockHandler:     stockHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
