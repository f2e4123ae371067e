package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tunride/ride-backend/internal/middleware"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/internal/services"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestRouter returns a router whose requests carry the given viewer
func newTestRouter(viewer services.Viewer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ViewerContextKey, viewer)
		if viewer.Authenticated() {
			c.Set(middleware.UserContextKey, middleware.UserContext{UserID: viewer.AccountID})
		}
		c.Next()
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func passenger() services.Viewer {
	p := &models.Profile{
		ID:       uuid.New(),
		Email:    "amel@example.tn",
		FullName: models.NewNullString("Amel Ben Salah"),
		Phone:    models.NewNullString("22123456"),
		UserType: models.UserTypePassenger,
		Role:     models.RoleUser,
	}
	return services.NewViewer(p.ID, p)
}

func driver() services.Viewer {
	p := &models.Profile{
		ID:       uuid.New(),
		Email:    "karim@example.tn",
		FullName: models.NewNullString("Karim Trabelsi"),
		Phone:    models.NewNullString("55123456"),
		UserType: models.UserTypeDriver,
		Role:     models.RoleUser,
	}
	return services.NewViewer(p.ID, p)
}

func admin() services.Viewer {
	p := &models.Profile{ID: uuid.New(), Email: "admin@example.tn", UserType: models.UserTypePassenger, Role: models.RoleAdmin}
	return services.NewViewer(p.ID, p)
}

// stubTrips records the calls it receives and returns canned results
type stubTrips struct {
	viewer     services.Viewer
	filter     models.TripFilter
	createReq  models.CreateTripRequest
	acceptedID uuid.UUID
	ownListed  bool
	trips      []models.TripView
	err        error
}

func (s *stubTrips) CreateTrip(_ context.Context, viewer services.Viewer, req models.CreateTripRequest) (*models.Trip, error) {
	s.viewer, s.createReq = viewer, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Trip{ID: uuid.New(), PassengerID: viewer.ProfileID(), Status: models.TripStatusPending}, nil
}

func (s *stubTrips) AcceptTrip(_ context.Context, viewer services.Viewer, id uuid.UUID) (*models.TripView, error) {
	s.viewer, s.acceptedID = viewer, id
	if s.err != nil {
		return nil, s.err
	}
	return &models.TripView{Trip: models.Trip{
		ID:       id,
		Status:   models.TripStatusAccepted,
		DriverID: uuid.NullUUID{UUID: viewer.ProfileID(), Valid: true},
	}}, nil
}

func (s *stubTrips) ListTrips(_ context.Context, viewer services.Viewer, filter models.TripFilter) ([]models.TripView, error) {
	s.viewer, s.filter = viewer, filter
	return s.trips, s.err
}

func (s *stubTrips) ListOwnTrips(_ context.Context, viewer services.Viewer, filter models.TripFilter) ([]models.TripView, error) {
	s.viewer, s.filter = viewer, filter
	s.ownListed = true
	return s.trips, s.err
}

func (s *stubTrips) GetTrip(_ context.Context, viewer services.Viewer, id uuid.UUID) (*models.TripView, error) {
	s.viewer = viewer
	if s.err != nil {
		return nil, s.err
	}
	return &models.TripView{Trip: models.Trip{ID: id, Status: models.TripStatusPending}}, nil
}

func (s *stubTrips) DeleteTrip(_ context.Context, viewer services.Viewer, _ uuid.UUID) error {
	s.viewer = viewer
	return s.err
}

func (s *stubTrips) ExpireStaleTripsToday(context.Context) (int64, error) {
	return 3, s.err
}
