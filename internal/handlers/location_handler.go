package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/models"
)

// LocationCatalog serves governorates and cities
type LocationCatalog interface {
	ListGovernorates(ctx context.Context) ([]models.Governorate, error)
	ListCities(ctx context.Context, governorateID *int64) ([]models.City, error)
}

// LocationHandler handles the public location catalog
type LocationHandler struct {
	locations LocationCatalog
	logger    *logrus.Logger
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locations LocationCatalog, logger *logrus.Logger) *LocationHandler {
	return &LocationHandler{locations: locations, logger: logger}
}

// ListGovernorates handles GET /api/v1/locations/governorates
func (h *LocationHandler) ListGovernorates(c *gin.Context) {
	governorates, err := h.locations.ListGovernorates(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"governorates": governorates})
}

// ListCities handles GET /api/v1/locations/cities?governorate_id=
func (h *LocationHandler) ListCities(c *gin.Context) {
	governorateID, err := queryInt64(c, "governorate_id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cities, err := h.locations.ListCities(c.Request.Context(), governorateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}
