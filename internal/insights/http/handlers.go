// Package insightshttp exposes the leaderboard API: product and supplier
// rankings, growth against the prior month and stock rotation.
package insightshttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/almacen-erp/almacen-erp/internal/insights"
	"github.com/almacen-erp/almacen-erp/internal/platform/httpx"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

const requestTimeout = 5 * time.Second

// InsightService defines the leaderboard contract used by the handler.
type InsightService interface {
	Ranking(ctx context.Context, q shared.RangeQuery, metric insights.Metric) (insights.RankingReport, error)
	Growth(ctx context.Context, q shared.RangeQuery) (insights.GrowthReport, error)
	Rotation(ctx context.Context, q shared.RangeQuery) (insights.RotationReport, error)
	Unsold(ctx context.Context, q shared.RangeQuery) (insights.UnsoldReport, error)
}

// Handler coordinates HTTP requests for the insights endpoints.
type Handler struct {
	logger   *slog.Logger
	service  InsightService
	validate *validator.Validate
}

// NewHandler constructs the insights HTTP handler.
func NewHandler(logger *slog.Logger, service InsightService) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

type filterQuery struct {
	Month     string `validate:"omitempty,len=7"`
	DateStart string `validate:"omitempty,datetime=2006-01-02"`
	DateEnd   string `validate:"omitempty,datetime=2006-01-02"`
}

var errInvalidFilters = errors.New("invalid insight filters")

func (h *Handler) parseFilters(r *http.Request) (shared.RangeQuery, error) {
	q := r.URL.Query()
	filters := filterQuery{
		Month:     q.Get("month"),
		DateStart: q.Get("date_start"),
		DateEnd:   q.Get("date_end"),
	}
	if err := h.validate.Struct(filters); err != nil {
		return shared.RangeQuery{}, fmt.Errorf("%w: %v", errInvalidFilters, err)
	}
	return shared.RangeQuery{
		Month:     filters.Month,
		DateStart: filters.DateStart,
		DateEnd:   filters.DateEnd,
	}, nil
}

func (h *Handler) handleRanking(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}
	metric, err := insights.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid metric", err.Error())
		return
	}
	switch scope := r.URL.Query().Get("scope"); scope {
	case "":
	case "all":
		query.AllTime = true
	default:
		httpx.Problem(w, http.StatusBadRequest, "invalid scope", fmt.Sprintf("unknown scope %q", scope))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Ranking(ctx, query, metric)
	if err != nil {
		h.handleServerError(w, "load ranking", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Growth(ctx, query)
	if err != nil {
		h.handleServerError(w, "load growth", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleRotation(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Rotation(ctx, query)
	if err != nil {
		h.handleServerError(w, "load rotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleUnsold(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Unsold(ctx, query)
	if err != nil {
		h.handleServerError(w, "load unsold", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleServerError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	if errors.Is(err, shared.ErrStoreUnavailable) {
		httpx.Problem(w, http.StatusServiceUnavailable, "store unavailable", "")
		return
	}
	httpx.Problem(w, http.StatusInternalServerError, "insights unavailable", "")
}
