package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/models"
)

const (
	defaultTripPageSize = 50
	maxTripPageSize     = 100
	maxNotesLength      = 500
	// maxFare is the largest value a NUMERIC(10,2) column holds
	maxFare = 99999999.99
)

// TripStore persists trips
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TripView, error)
	List(ctx context.Context, q models.TripQuery) ([]models.TripView, error)
	AcceptPending(ctx context.Context, id, driverID uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpiredPending(ctx context.Context, today models.Date) (int64, error)
}

// CityLookup checks trip endpoints against the location catalog
type CityLookup interface {
	CityExists(ctx context.Context, id int64) (bool, error)
}

// TripLimits exposes the admin-configured bounds on new trips
type TripLimits interface {
	MinFare(ctx context.Context) (float64, bool)
	MaxPassengers(ctx context.Context) (int, bool)
}

// TripEventPublisher fans trip state changes out to subscribers
type TripEventPublisher interface {
	PublishTripEvent(ctx context.Context, event TripEvent) error
}

// TripEvent describes a trip state change
type TripEvent struct {
	TripID   uuid.UUID         `json:"trip_id"`
	Status   models.TripStatus `json:"status"`
	DriverID uuid.NullUUID     `json:"driver_id"`
	At       time.Time         `json:"at"`
}

// TripService owns the trip lifecycle
type TripService struct {
	trips    TripStore
	cities   CityLookup
	limits   TripLimits
	events   TripEventPublisher
	location *time.Location
	now      func() time.Time
	logger   *logrus.Logger
}

// NewTripService creates a new TripService. events may be nil.
func NewTripService(
	trips TripStore,
	cities CityLookup,
	limits TripLimits,
	events TripEventPublisher,
	location *time.Location,
	logger *logrus.Logger,
) *TripService {
	if location == nil {
		location = time.UTC
	}
	return &TripService{
		trips:    trips,
		cities:   cities,
		limits:   limits,
		events:   events,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Today returns the current calendar day in the platform time zone
func (s *TripService) Today() models.Date {
	return models.NewDate(s.now().In(s.location))
}

// CreateTrip posts a new pending trip on behalf of a passenger
func (s *TripService) CreateTrip(ctx context.Context, viewer Viewer, req models.CreateTripRequest) (*models.Trip, error) {
	switch viewer.Kind {
	case ViewerPassenger:
	case ViewerAnonymous, ViewerDriver, ViewerAdmin:
		return nil, &AuthorizationError{Action: "create trips"}
	default:
		return nil, &AuthorizationError{Action: "create trips"}
	}

	if missing := viewer.Profile.MissingFields(); len(missing) > 0 {
		return nil, &ProfileIncompleteError{Missing: missing}
	}

	trip, err := s.buildTrip(ctx, viewer.ProfileID(), req)
	if err != nil {
		return nil, err
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	tripsCreated.Inc()
	s.logger.WithFields(logrus.Fields{
		"trip_id":      trip.ID,
		"passenger_id": trip.PassengerID,
		"from_city_id": trip.FromCityID,
		"to_city_id":   trip.ToCityID,
		"date":         trip.DepartureDate.String(),
	}).Info("Trip created")

	s.publish(ctx, trip)
	return trip, nil
}

// buildTrip validates the request and returns the pending trip it describes
func (s *TripService) buildTrip(ctx context.Context, passengerID uuid.UUID, req models.CreateTripRequest) (*models.Trip, error) {
	date, err := models.ParseDate(req.DepartureDate)
	if err != nil {
		return nil, invalid("departure_date", "invalid_format", "departure date must be formatted YYYY-MM-DD")
	}
	if date.Before(s.Today()) {
		return nil, invalid("departure_date", "in_past", "departure date cannot be in the past")
	}

	departureTime := models.NewNullString(req.DepartureTime)
	if departureTime.Valid {
		if _, err := time.Parse("15:04", departureTime.String); err != nil {
			return nil, invalid("departure_time", "invalid_format", "departure time must be formatted HH:MM")
		}
	}

	if math.IsNaN(req.FareOffered) || math.IsInf(req.FareOffered, 0) || req.FareOffered > maxFare {
		return nil, invalid("fare_offered", "above_maximum", "fare cannot exceed %.2f TND", maxFare)
	}
	fare := math.Round(req.FareOffered*100) / 100
	if fare <= 0 {
		return nil, invalid("fare_offered", "must_be_positive", "fare must be greater than zero")
	}
	if req.PassengerCount <= 0 {
		return nil, invalid("passenger_count", "must_be_positive", "passenger count must be at least 1")
	}
	if req.FromCityID == req.ToCityID {
		return nil, invalid("to_city_id", "same_as_origin", "destination must differ from origin")
	}

	if s.limits != nil {
		if minFare, ok := s.limits.MinFare(ctx); ok && fare < minFare {
			return nil, invalid("fare_offered", "below_minimum", "fare must be at least %.2f TND", minFare)
		}
		if maxSeats, ok := s.limits.MaxPassengers(ctx); ok && req.PassengerCount > maxSeats {
			return nil, invalid("passenger_count", "above_maximum", "passenger count cannot exceed %d", maxSeats)
		}
	}

	notes := models.NewNullString(req.Notes)
	if len([]rune(notes.String)) > maxNotesLength {
		return nil, invalid("notes", "too_long", "notes cannot exceed %d characters", maxNotesLength)
	}

	endpoints := []struct {
		field string
		id    int64
	}{
		{"from_city_id", req.FromCityID},
		{"to_city_id", req.ToCityID},
	}
	for _, e := range endpoints {
		exists, err := s.cities.CityExists(ctx, e.id)
		if err != nil {
			return nil, fmt.Errorf("failed to validate %s: %w", e.field, err)
		}
		if !exists {
			return nil, invalid(e.field, "unknown_city", "city %d does not exist", e.id)
		}
	}

	return &models.Trip{
		ID:             uuid.New(),
		PassengerID:    passengerID,
		FromCityID:     req.FromCityID,
		ToCityID:       req.ToCityID,
		DepartureDate:  date,
		DepartureTime:  departureTime,
		FareOffered:    fare,
		PassengerCount: req.PassengerCount,
		Notes:          notes,
		Status:         models.TripStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
	}, nil
}

// AcceptTrip assigns the calling driver to a pending trip. Of several
// concurrent callers exactly one succeeds; the rest get InvalidStateError.
func (s *TripService) AcceptTrip(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.TripView, error) {
	switch viewer.Kind {
	case ViewerDriver:
	case ViewerAnonymous, ViewerPassenger, ViewerAdmin:
		return nil, &AuthorizationError{Action: "accept trips"}
	default:
		return nil, &AuthorizationError{Action: "accept trips"}
	}

	accepted, err := s.trips.AcceptPending(ctx, id, viewer.ProfileID(), s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to accept trip: %w", err)
	}

	if !accepted {
		current, err := s.trips.GetByID(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Entity: "trip"}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load trip: %w", err)
		}

		tripAcceptConflicts.Inc()
		if current.Status.CanTransitionTo(models.TripStatusAccepted) {
			return nil, &ConflictError{Message: "trip changed while accepting, retry"}
		}
		return nil, &InvalidStateError{
			From:    current.Status,
			Action:  "accept",
			Message: "trip is no longer available",
		}
	}

	tripsAccepted.Inc()
	s.logger.WithFields(logrus.Fields{
		"trip_id":   id,
		"driver_id": viewer.ProfileID(),
	}).Info("Trip accepted")

	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load accepted trip: %w", err)
	}

	s.publish(ctx, &trip.Trip)
	return trip, nil
}

// ListTrips returns the trips the viewer may see that match the filter, newest first
func (s *TripService) ListTrips(ctx context.Context, viewer Viewer, filter models.TripFilter) ([]models.TripView, error) {
	return s.listTrips(ctx, viewer.TripVisibility(), filter)
}

// ListOwnTrips returns the trips the viewer posted as a passenger or
// accepted as a driver, newest first. Open pending trips of others are excluded.
func (s *TripService) ListOwnTrips(ctx context.Context, viewer Viewer, filter models.TripFilter) ([]models.TripView, error) {
	visibility, err := viewer.OwnTripVisibility()
	if err != nil {
		return nil, err
	}
	return s.listTrips(ctx, visibility, filter)
}

func (s *TripService) listTrips(ctx context.Context, visibility models.TripVisibility, filter models.TripFilter) ([]models.TripView, error) {
	if filter.MinFare != nil && filter.MaxFare != nil && *filter.MinFare > *filter.MaxFare {
		return nil, invalid("min_fare", "invalid_range", "minimum fare cannot exceed maximum fare")
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultTripPageSize
	case filter.Limit > maxTripPageSize:
		filter.Limit = maxTripPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	trips, err := s.trips.List(ctx, models.TripQuery{
		Visibility: visibility,
		Filter:     filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}

// GetTrip returns one trip if the viewer may see it
func (s *TripService) GetTrip(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.TripView, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &NotFoundError{Entity: "trip"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if !viewer.TripVisibility().Allows(&trip.Trip) {
		return nil, &NotFoundError{Entity: "trip"}
	}

	return trip, nil
}

// DeleteTrip removes a trip in any state. Admin only.
func (s *TripService) DeleteTrip(ctx context.Context, viewer Viewer, id uuid.UUID) error {
	if err := viewer.requireAdmin("delete trips"); err != nil {
		return err
	}

	err := s.trips.Delete(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Entity: "trip"}
	}
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	tripsDeleted.Inc()
	s.logger.WithFields(logrus.Fields{
		"trip_id":  id,
		"admin_id": viewer.ProfileID(),
	}).Warn("Trip deleted by admin")

	return nil
}

// ExpireStaleTrips deletes pending trips departing before asOf and
// returns how many were removed. Running it twice is harmless.
func (s *TripService) ExpireStaleTrips(ctx context.Context, asOf models.Date) (int64, error) {
	deleted, err := s.trips.DeleteExpiredPending(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale trips: %w", err)
	}

	tripsExpired.Add(float64(deleted))
	s.logger.WithFields(logrus.Fields{
		"as_of":   asOf.String(),
		"deleted": deleted,
	}).Info("Expired stale pending trips")

	return deleted, nil
}

// ExpireStaleTripsToday runs ExpireStaleTrips for the current day
func (s *TripService) ExpireStaleTripsToday(ctx context.Context) (int64, error) {
	return s.ExpireStaleTrips(ctx, s.Today())
}

func (s *TripService) publish(ctx context.Context, trip *models.Trip) {
	if s.events == nil {
		return
	}

	event := TripEvent{
		TripID:   trip.ID,
		Status:   trip.Status,
		DriverID: trip.DriverID,
		At:       s.now(),
	}
	if err := s.events.PublishTripEvent(ctx, event); err != nil {
		s.logger.WithError(err).WithField("trip_id", trip.ID).Warn("Failed to publish trip event")
	}
}

