package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/almacen-erp/almacen-erp/internal/catalog"
	fiscalhttp "github.com/almacen-erp/almacen-erp/internal/fiscal/http"
	insightshttp "github.com/almacen-erp/almacen-erp/internal/insights/http"
	"github.com/almacen-erp/almacen-erp/internal/observability"
	reportinghttp "github.com/almacen-erp/almacen-erp/internal/reporting/http"
	stockhttp "github.com/almacen-erp/almacen-erp/internal/stock/http"
	"github.com/almacen-erp/almacen-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CatalogHandler   *catalog.Handler
	ReportingHandler *reportinghttp.Handler
	FiscalHandler    *fiscalhttp.Handler
	InsightsHandler  *insightshttp.Handler
	StockHandler     *stockhttp.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.CatalogHandler != nil {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
	}
	if params.ReportingHandler != nil {
		r.Route("/reports", params.ReportingHandler.MountRoutes)
	}
	if params.FiscalHandler != nil {
		r.Route("/fiscal", params.FiscalHandler.MountRoutes)
	}
	if params.InsightsHandler != nil {
		r.Route("/insights", params.InsightsHandler.MountRoutes)
	}
	if params.StockHandler != nil {
		r.Route("/stock", params.StockHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
