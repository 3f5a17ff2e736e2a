// Package reportinghttp exposes the sales reporting API. Handlers decode
// and validate filters, call the reporting service and encode the result;
// no KPI arithmetic happens at this layer.
package reportinghttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/almacen-erp/almacen-erp/internal/platform/httpx"
	"github.com/almacen-erp/almacen-erp/internal/reporting"
	"github.com/almacen-erp/almacen-erp/internal/reporting/export"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

const requestTimeout = 5 * time.Second

// ReportingService defines the reporting data contract used by the handler.
type ReportingService interface {
	GetSummary(ctx context.Context, q shared.RangeQuery) (reporting.Summary, error)
	GetDaily(ctx context.Context, q shared.RangeQuery) (reporting.DailyReport, error)
}

// Handler coordinates HTTP requests for the sales reports.
type Handler struct {
	logger   *slog.Logger
	service  ReportingService
	validate *validator.Validate
	bufPool  sync.Pool
}

// NewHandler constructs the reporting HTTP handler.
func NewHandler(logger *slog.Logger, service ReportingService) *Handler {
	h := &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
	h.bufPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

type filterQuery struct {
	Month     string `validate:"omitempty,len=7"`
	DateStart string `validate:"omitempty,datetime=2006-01-02"`
	DateEnd   string `validate:"omitempty,datetime=2006-01-02"`
}

var errInvalidFilters = errors.New("invalid report filters")

// parseFilters validates the raw query values. Validation failures are not
// fatal for the report itself (the resolver falls back to a default window)
// but garbled dates are rejected so the caller notices the typo.
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

	summary, err := h.service.GetSummary(ctx, query)
	if err != nil {
		h.handleServerError(w, "load summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.GetDaily(ctx, query)
	if err != nil {
		h.handleServerError(w, "load daily report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// loadBoth fetches the summary and the daily rows in parallel for exports.
func (h *Handler) loadBoth(ctx context.Context, query shared.RangeQuery) (reporting.Summary, reporting.DailyReport, error) {
	var summary reporting.Summary
	var daily reporting.DailyReport

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = h.service.GetSummary(ctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = h.service.GetDaily(ctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return reporting.Summary{}, reporting.DailyReport{}, err
	}
	return summary, daily, nil
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, daily, err := h.loadBoth(ctx, query)
	if err != nil {
		h.handleServerError(w, "load export data", err)
		return
	}

	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer h.bufPool.Put(buf)

	if err := export.WriteSummaryCSV(buf, summary); err != nil {
		h.handleServerError(w, "write summary csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteDailyCSV(buf, daily.Days); err != nil {
		h.handleServerError(w, "write daily csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=sales_%s_%s.csv", summary.Range.Start, summary.Range.End))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, daily, err := h.loadBoth(ctx, query)
	if err != nil {
		h.handleServerError(w, "load export data", err)
		return
	}

	workbook, err := export.BuildSalesWorkbook(summary, daily.Days)
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
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=sales_%s_%s.xlsx", summary.Range.Start, summary.Range.End))
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
	httpx.Problem(w, http.StatusInternalServerError, "report unavailable", "")
}
