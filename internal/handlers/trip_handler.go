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

// TripOperations is the trip lifecycle surface the HTTP layer drives
type TripOperations interface {
	CreateTrip(ctx context.Context, viewer services.Viewer, req models.CreateTripRequest) (*models.Trip, error)
	AcceptTrip(ctx context.Context, viewer services.Viewer, id uuid.UUID) (*models.TripView, error)
	ListTrips(ctx context.Context, viewer services.Viewer, filter models.TripFilter) ([]models.TripView, error)
	ListOwnTrips(ctx context.Context, viewer services.Viewer, filter models.TripFilter) ([]models.TripView, error)
	GetTrip(ctx context.Context, viewer services.Viewer, id uuid.UUID) (*models.TripView, error)
	DeleteTrip(ctx context.Context, viewer services.Viewer, id uuid.UUID) error
}

// TripHandler handles trip-related HTTP requests
type TripHandler struct {
	trips  TripOperations
	logger *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips TripOperations, logger *logrus.Logger) *TripHandler {
	return &TripHandler{trips: trips, logger: logger}
}

// TripListResponse is a page of trips
type TripListResponse struct {
	Trips  []models.TripView `json:"trips"`
	Count  int               `json:"count"`
	Limit  int               `json:"limit,omitempty"`
	Offset int               `json:"offset"`
}

// ListTrips handles GET /api/v1/trips and GET /api/v1/admin/trips
// @Summary List trips visible to the caller
// @Tags trips
// @Produce json
// @Param from_city_id query int false "Origin city"
// @Param to_city_id query int false "Destination city"
// @Param min_fare query number false "Minimum fare (inclusive)"
// @Param max_fare query number false "Maximum fare (inclusive)"
// @Param departure_date query string false "Departure date YYYY-MM-DD"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} TripListResponse
// @Failure 400 {object} ErrorResponse
// @Router /trips [get]
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter, err := tripFilterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	trips, err := h.trips.ListTrips(c.Request.Context(), middleware.GetViewer(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, TripListResponse{
		Trips:  trips,
		Count:  len(trips),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// ListMyTrips handles GET /api/v1/me/trips: trips the caller posted or drives.
// Accepts the same filters as ListTrips.
func (h *TripHandler) ListMyTrips(c *gin.Context) {
	filter, err := tripFilterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	trips, err := h.trips.ListOwnTrips(c.Request.Context(), middleware.GetViewer(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, TripListResponse{
		Trips:  trips,
		Count:  len(trips),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	trip, err := h.trips.GetTrip(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// CreateTrip handles POST /api/v1/trips
// @Summary Post a ride request
// @Tags trips
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Retry key"
// @Param request body models.CreateTripRequest true "Trip details"
// @Success 201 {object} models.Trip
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 428 {object} ErrorResponse
// @Router /trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), middleware.GetViewer(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// AcceptTrip handles POST /api/v1/trips/:id/accept
// @Summary Accept a pending trip as a driver
// @Tags trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} models.TripView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /trips/{id}/accept [post]
func (h *TripHandler) AcceptTrip(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	trip, err := h.trips.AcceptTrip(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip handles DELETE /api/v1/admin/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.trips.DeleteTrip(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted", "id": id})
}
