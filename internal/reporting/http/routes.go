package reportinghttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the sales reporting endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/sales", h.handleSummary)
	r.Get("/sales/daily", h.handleDaily)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/sales/export.csv", h.handleCSV)
		gr.Get("/sales/export.xlsx", h.handleXLSX)
	})
}
