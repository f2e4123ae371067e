package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/middleware"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/internal/services"
)

// SettingOperations is the admin surface over platform settings
type SettingOperations interface {
	ListSettings(ctx context.Context, viewer services.Viewer) ([]models.PlatformSetting, error)
	UpdateSetting(ctx context.Context, viewer services.Viewer, key, value string) (*models.PlatformSetting, error)
}

// SettingHandler handles platform setting endpoints
type SettingHandler struct {
	settings SettingOperations
	logger   *logrus.Logger
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(settings SettingOperations, logger *logrus.Logger) *SettingHandler {
	return &SettingHandler{settings: settings, logger: logger}
}

// GetAllSettings retrieves all platform settings
// GET /api/v1/admin/settings
func (h *SettingHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.settings.ListSettings(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSetting updates a platform setting's value
// PUT /api/v1/admin/settings/:key
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	var req models.UpdatePlatformSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	setting, err := h.settings.UpdateSetting(c.Request.Context(), middleware.GetViewer(c), c.Param("key"), req.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}
