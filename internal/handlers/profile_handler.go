package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/middleware"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/internal/services"
)

// ProfileOperations is the profile surface used by user and admin endpoints
type ProfileOperations interface {
	CurrentUser(viewer services.Viewer) (*models.Profile, error)
	CompleteProfile(ctx context.Context, viewer services.Viewer, req models.CompleteProfileRequest) (*models.Profile, error)
	ListProfiles(ctx context.Context, viewer services.Viewer, limit, offset int) ([]models.Profile, error)
	CountProfiles(ctx context.Context, viewer services.Viewer) (int, error)
	SetApproval(ctx context.Context, viewer services.Viewer, id uuid.UUID, approved bool) (*models.Profile, error)
}

// ProfileHandler handles the signed-in user's own profile
type ProfileHandler struct {
	profiles ProfileOperations
	logger   *logrus.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileOperations, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// ProfileResponse wraps a profile with its completeness
type ProfileResponse struct {
	Profile         *models.Profile `json:"profile"`
	ProfileComplete bool            `json:"profile_complete"`
	Missing         []string        `json:"missing_fields,omitempty"`
}

func newProfileResponse(profile *models.Profile) ProfileResponse {
	missing := profile.MissingFields()
	return ProfileResponse{
		Profile:         profile,
		ProfileComplete: len(missing) == 0,
		Missing:         missing,
	}
}

// GetMe handles GET /api/v1/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.profiles.CurrentUser(middleware.GetViewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}

// CompleteProfile handles PUT /api/v1/me/profile
func (h *ProfileHandler) CompleteProfile(c *gin.Context) {
	var req models.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profiles.CompleteProfile(c.Request.Context(), middleware.GetViewer(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}
