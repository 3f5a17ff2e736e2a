package insightshttp

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the insights endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/ranking", h.handleRanking)
	r.Get("/growth", h.handleGrowth)
	r.Get("/rotation", h.handleRotation)
	r.Get("/unsold", h.handleUnsold)
}
