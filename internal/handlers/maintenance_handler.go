package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StaleTripSweeper removes pending trips whose departure date has passed
type StaleTripSweeper interface {
	ExpireStaleTripsToday(ctx context.Context) (int64, error)
}

// JobReporter describes scheduled background jobs
type JobReporter interface {
	GetJobStatus() map[string]interface{}
}

// MaintenanceHandler exposes housekeeping jobs over HTTP
type MaintenanceHandler struct {
	sweeper StaleTripSweeper
	jobs    JobReporter
	logger  *logrus.Logger
}

// NewMaintenanceHandler creates a new maintenance handler. jobs may be nil
// when the scheduler is disabled.
func NewMaintenanceHandler(sweeper StaleTripSweeper, jobs JobReporter, logger *logrus.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{sweeper: sweeper, jobs: jobs, logger: logger}
}

// ExpireTrips handles POST /api/v1/maintenance/expire-trips
func (h *MaintenanceHandler) ExpireTrips(c *gin.Context) {
	deleted, err := h.sweeper.ExpireStaleTripsToday(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"deleted": deleted,
		"ip":      c.ClientIP(),
	}).Info("Manual stale trip sweep completed")

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// JobStatus handles GET /api/v1/maintenance/jobs
func (h *MaintenanceHandler) JobStatus(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusOK, gin.H{"running": false, "job_count": 0})
		return
	}
	c.JSON(http.StatusOK, h.jobs.GetJobStatus())
}
