// Package stockhttp exposes the stock health watch list.
package stockhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/almacen-erp/almacen-erp/internal/platform/httpx"
	"github.com/almacen-erp/almacen-erp/internal/shared"
	"github.com/almacen-erp/almacen-erp/internal/stock"
)

const requestTimeout = 5 * time.Second

// StockService defines the health contract used by the handler.
type StockService interface {
	Health(ctx context.Context) (stock.HealthReport, error)
	Projection(ctx context.Context) (stock.ProjectionReport, error)
	Critical(ctx context.Context) ([]stock.ProductHealth, error)
}

// Handler coordinates HTTP requests for stock health.
type Handler struct {
	logger  *slog.Logger
	service StockService
}

// NewHandler constructs the stock HTTP handler.
func NewHandler(logger *slog.Logger, service StockService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the stock endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/health", h.handleHealth)
	r.Get("/projection", h.handleProjection)
	r.Get("/critical", h.handleCritical)
}

func (h *Handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Projection(ctx)
	if err != nil {
		h.handleServerError(w, "load stock projection", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Health(ctx)
	if err != nil {
		h.handleServerError(w, "load stock health", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCritical(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	critical, err := h.service.Critical(ctx)
	if err != nil {
		h.handleServerError(w, "load critical stock", err)
		return
	}
	if critical == nil {
		critical = []stock.ProductHealth{}
	}
	httpx.JSON(w, http.StatusOK, critical)
}

func (h *Handler) handleServerError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	if errors.Is(err, shared.ErrStoreUnavailable) {
		httpx.Problem(w, http.StatusServiceUnavailable, "store unavailable", "")
		return
	}
	httpx.Problem(w, http.StatusInternalServerError, "stock health unavailable", "")
}
