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

// FinanceReporter computes the admin dashboard figures
type FinanceReporter interface {
	FinanceOverview(ctx context.Context, viewer services.Viewer) (*models.FinanceOverview, error)
}

// AdminHandler handles user management and reporting for admins
type AdminHandler struct {
	profiles ProfileOperations
	finance  FinanceReporter
	logger   *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(profiles ProfileOperations, finance FinanceReporter, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{profiles: profiles, finance: finance, logger: logger}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset, err := queryPage(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	users, err := h.profiles.ListProfiles(c.Request.Context(), middleware.GetViewer(c), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"count":  len(users),
		"offset": offset,
	})
}

// CountUsers handles GET /api/v1/admin/users/count
func (h *AdminHandler) CountUsers(c *gin.Context) {
	total, err := h.profiles.CountProfiles(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": total})
}

// SetApproval handles PUT /api/v1/admin/users/:id/approval
func (h *AdminHandler) SetApproval(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req models.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profiles.SetApproval(c.Request.Context(), middleware.GetViewer(c), id, *req.Approved)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// FinanceOverview handles GET /api/v1/admin/finance
func (h *AdminHandler) FinanceOverview(c *gin.Context) {
	overview, err := h.finance.FinanceOverview(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
