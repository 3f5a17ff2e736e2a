// Package fiscalhttp exposes the tax reconciliation API.
package fiscalhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/almacen-erp/almacen-erp/internal/fiscal"
	"github.com/almacen-erp/almacen-erp/internal/platform/httpx"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

const requestTimeout = 5 * time.Second

// FiscalService defines the reconciliation contract used by the handler.
type FiscalService interface {
	GetReport(ctx context.Context, q shared.RangeQuery) (fiscal.Report, error)
}

// Handler coordinates HTTP requests for the tax reconciliation.
type Handler struct {
	logger   *slog.Logger
	service  FiscalService
	validate *validator.Validate
}

// NewHandler constructs the fiscal HTTP handler.
func NewHandler(logger *slog.Logger, service FiscalService) *Handler {
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

var errInvalidFilters = errors.New("invalid reconciliation filters")

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

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.GetReport(ctx, query)
	if err != nil {
		h.handleServerError(w, "load reconciliation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

type suppliersPayload struct {
	Range     fiscal.RangeMeta  `json:"range"`
	Suppliers []fiscal.Position `json:"suppliers"`
}

func (h *Handler) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.GetReport(ctx, query)
	if err != nil {
		h.handleServerError(w, "load reconciliation", err)
		return
	}
	positions := report.Summary.Positions
	if positions == nil {
		positions = []fiscal.Position{}
	}
	httpx.JSON(w, http.StatusOK, suppliersPayload{Range: report.Range, Suppliers: positions})
}

func (h *Handler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.GetReport(ctx, query)
	if err != nil {
		h.handleServerError(w, "load reconciliation", err)
		return
	}

	workbook, err := fiscal.BuildWorkbook(report)
	if err != nil {
		h.handleServerError(w, "build workbook", err)
		return
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			h.logger.Warn("close workbook", slog.Any("error", err))
		}
	}()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tax_reconciliation_%s_%s.xlsx", report.Range.Start, report.Range.End))
	w.WriteHeader(http.StatusOK)
	if err := workbook.Write(w); err != nil {
		h.logger.Error("stream workbook", slog.Any("error", err))
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	if errors.Is(err, shared.ErrStoreUnavailable) {
		httpx.Problem(w, http.StatusServiceUnavailable, "store unavailable", "")
		return
	}
	httpx.Problem(w, http.StatusInternalServerError, "reconciliation unavailable", "")
}
