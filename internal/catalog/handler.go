package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/almacen-erp/almacen-erp/internal/platform/httpx"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// Handler serves the catalog read API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the catalog HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.handleProducts)
	r.Get("/products/{id}", h.handleProduct)
	r.Get("/suppliers", h.handleSuppliers)
}

func (h *Handler) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "invalid product id", "")
		return
	}

	product, err := h.service.Product(r.Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "product not found", "")
		return
	}
	if err != nil {
		h.logger.Error("get product", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "catalog unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Search: q.Get("search"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	if q.Get("active") != "" {
		active := q.Get("active") == "true"
		filters.IsActive = &active
	}

	page, err := h.service.Products(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "catalog unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.Suppliers(r.Context())
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "catalog unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}
