// README: Read-only catalog handlers for tiers and location suggestions.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyride/internal/modules/location"
	"skyride/internal/modules/tier"
)

type TierLister interface {
	ListActiveTiers(ctx context.Context) ([]tier.Tier, error)
}

type CatalogHandler struct {
	tiers     TierLister
	locations *location.Service
}

func NewCatalogHandler(tiers TierLister, locations *location.Service) *CatalogHandler {
	return &CatalogHandler{tiers: tiers, locations: locations}
}

func (h *CatalogHandler) Tiers(c *gin.Context) {
	list, err := h.tiers.ListActiveTiers(c.Request.Context())
	if err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"tiers": tier.ActiveSorted(list)})
}

func (h *CatalogHandler) Locations(c *gin.Context) {
	suggestions := h.locations.Suggest(c.Request.Context(), c.Query("q"))
	if suggestions == nil {
		suggestions = []location.Location{}
	}
	writeJSON(c, http.StatusOK, gin.H{"locations": suggestions})
}
