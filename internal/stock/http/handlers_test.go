package stockhttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/shared"
	"github.com/almacen-erp/almacen-erp/internal/stock"
)

type stubService struct {
	report     stock.HealthReport
	projection stock.ProjectionReport
	critical   []stock.ProductHealth
	err        error
}

func (s *stubService) Health(context.Context) (stock.HealthReport, error) {
	return s.report, s.err
}

func (s *stubService) Projection(context.Context) (stock.ProjectionReport, error) {
	return s.projection, s.err
}

func (s *stubService) Critical(context.Context) ([]stock.ProductHealth, error) {
	return s.critical, s.err
}

func newTestRouter(svc StockService) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), svc)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestHandleHealth(t *testing.T) {
	svc := &stubService{report: stock.HealthReport{
		Products: []stock.ProductHealth{{ProductID: 1, Name: "Harina", Level: stock.LevelHealthy}},
		Healthy:  1,
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Healthy int `json:"healthy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 1, payload.Healthy)
}

func TestHandleProjection(t *testing.T) {
	svc := &stubService{projection: stock.ProjectionReport{
		Products: []stock.ProductHealth{{ProductID: 2, Name: "Yerba", DaysOfStock: 3, HasProjection: true}},
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/projection", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Products []struct {
			DaysOfStock int64 `json:"days_of_stock"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Products, 1)
	require.Equal(t, int64(3), payload.Products[0].DaysOfStock)
}

func TestHandleCriticalEmptyIsArray(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/critical", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleHealthStoreUnavailable(t *testing.T) {
	router := newTestRouter(&stubService{err: shared.ErrStoreUnavailable})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
